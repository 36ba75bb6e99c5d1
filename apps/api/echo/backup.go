package echoapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/backup"
)

const backupFormField = "file"

func (api *trackerApi) downloadBackup(ctx echo.Context) error {
	f := api.svc.Export()
	data, err := backup.Marshal(f)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+backup.Filename(f.ExportDate)+`"`)
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// importBackup accepts the backup file as the raw request body or as the "file" multipart field.
func (api *trackerApi) importBackup(ctx echo.Context) error {
	var body io.Reader = ctx.Request().Body
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := ctx.FormFile(backupFormField)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "missing backup file").SetInternal(err)
		}
		src, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening backup file")
		}
		defer src.Close()
		body = src
	}

	f, err := backup.Decode(body, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Import(f))
}

func (api *trackerApi) backupStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.BackupStats())
}
