package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/grading"
	"github.com/trezcool/homeschool/core/records"
)

type (
	AttendanceResponse struct {
		Records []records.AttendanceRecord `json:"records"` // oldest first
		Counts  grading.AttendanceCounts   `json:"counts"`
		Rate    int                        `json:"rate"`
	}

	MarkAttendanceRequest struct {
		Status records.AttendanceStatus `json:"status"`
	}
)

func (api *trackerApi) queryAttendance(ctx echo.Context) error {
	attendance := api.svc.Attendance()
	return ctx.JSON(http.StatusOK, AttendanceResponse{
		Records: records.SortAttendance(attendance),
		Counts:  grading.CountAttendance(attendance),
		Rate:    grading.AttendanceRate(attendance),
	})
}

func (api *trackerApi) markAttendance(ctx echo.Context) error {
	var data MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	r, err := api.svc.MarkAttendance(records.AttendanceRecord{Date: ctx.Param("date"), Status: data.Status})
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, r)
}
