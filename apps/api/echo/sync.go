package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (api *trackerApi) syncState(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.SyncState())
}

// refreshSync retries the reconciliation with the remote store.
// A failure is reported with the resulting sync state rather than as a server error.
func (api *trackerApi) refreshSync(ctx echo.Context) error {
	if err := api.svc.Refresh(ctx.Request().Context()); err != nil {
		return ctx.JSON(http.StatusBadGateway, api.svc.SyncState())
	}
	return ctx.JSON(http.StatusOK, api.svc.SyncState())
}

// clearData wipes the local records, keeping a raw copy of what was stored.
func (api *trackerApi) clearData(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.ClearData())
}
