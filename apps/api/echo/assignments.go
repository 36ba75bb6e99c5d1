package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
)

func (api *trackerApi) queryAssignments(ctx echo.Context) error {
	assignments := api.svc.Assignments()
	if subjectID := core.CleanString(ctx.QueryParam("subject"), true /* lower */); subjectID != "" {
		assignments = records.FilterBySubject(assignments, subjectID)
	}
	return ctx.JSON(http.StatusOK, records.SortAssignmentsNewestFirst(assignments))
}

func (api *trackerApi) createAssignment(ctx echo.Context) error {
	var data records.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	a, err := api.svc.AddAssignment(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *trackerApi) retrieveAssignment(ctx echo.Context) error {
	a, err := api.svc.GetAssignment(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *trackerApi) updateAssignment(ctx echo.Context) error {
	var data records.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	a, err := api.svc.UpdateAssignment(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *trackerApi) destroyAssignment(ctx echo.Context) error {
	if err := api.svc.DeleteAssignment(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
