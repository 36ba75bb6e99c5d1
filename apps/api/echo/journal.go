package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
)

type (
	// Tags accepts a JSON list or a comma separated string.
	Tags []string

	JournalEntryRequest struct {
		Date    string `json:"date"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Tags    Tags   `json:"tags"`
	}
)

func (t *Tags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = core.SplitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "tags", Error: "tags must be a list or a comma separated string"})
	}
	*t = list
	return nil
}

func (r JournalEntryRequest) NewJournalEntry() records.NewJournalEntry {
	return records.NewJournalEntry{Date: r.Date, Title: r.Title, Content: r.Content, Tags: []string(r.Tags)}
}

func (api *trackerApi) queryJournal(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, records.SortJournalNewestFirst(api.svc.Journal()))
}

func (api *trackerApi) createJournalEntry(ctx echo.Context) error {
	var data JournalEntryRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	e, err := api.svc.AddJournalEntry(data.NewJournalEntry())
	if err != nil {
		return errors.Wrap(err, "creating journal entry")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *trackerApi) retrieveJournalEntry(ctx echo.Context) error {
	e, err := api.svc.GetJournalEntry(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *trackerApi) updateJournalEntry(ctx echo.Context) error {
	var data JournalEntryRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	e, err := api.svc.UpdateJournalEntry(ctx.Param("id"), data.NewJournalEntry())
	if err != nil {
		return errors.Wrap(err, "updating journal entry")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *trackerApi) destroyJournalEntry(ctx echo.Context) error {
	if err := api.svc.DeleteJournalEntry(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting journal entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}
