package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/school"
)

func (api *trackerApi) retrieveStudent(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Student())
}

func (api *trackerApi) updateStudent(ctx echo.Context) error {
	var data school.StudentInfo
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	si, err := api.svc.UpdateStudent(data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, si)
}
