package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/report"
)

type (
	EmailReportRequest struct {
		Recipients []string `json:"recipients"` // defaults to the configured recipients
	}

	EmailReportResponse struct {
		Recipients []string `json:"recipients"`
	}
)

func (api *trackerApi) progress() report.Progress {
	state := api.svc.State()
	return report.NewProgress(state.Collections, state.Student, nowFunc())
}

func (api *trackerApi) progressReport(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.progress())
}

func (api *trackerApi) printProgressReport(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, api.progress()); err != nil {
		return err
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (api *trackerApi) emailProgressReport(ctx echo.Context) error {
	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if len(data.Recipients) == 0 {
		data.Recipients = api.conf.Mail.ReportRecipients
	}

	to, err := core.ParseAddresses(data.Recipients)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return core.NewValidationError(
			errors.New("no report recipients"),
			core.FieldError{Field: "recipients", Error: "at least one recipient is required"},
		)
	}

	msg, err := report.EmailMessage(api.progress(), to)
	if err != nil {
		return err
	}
	if err = api.mailSvc.SendMessages(msg); err != nil {
		return errors.Wrap(err, "emailing progress report")
	}

	res := EmailReportResponse{Recipients: make([]string, 0, len(to))}
	for _, addr := range to {
		res.Recipients = append(res.Recipients, addr.Address)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackerApi) weekPlanner(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, report.WeekPlan(api.svc.Assignments(), nowFunc()))
}
