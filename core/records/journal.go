package records

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
)

type JournalEntry struct {
	ID      string   `json:"id" validate:"required"`
	Date    string   `json:"date" validate:"isodate"`
	Title   string   `json:"title" validate:"notblank"`
	Content string   `json:"content" validate:"notblank"`
	Tags    []string `json:"tags"`
}

// NewJournalEntry contains information needed to create or replace a JournalEntry.
type NewJournalEntry struct {
	Date    string   `json:"date" validate:"isodate"`
	Title   string   `json:"title" validate:"notblank"`
	Content string   `json:"content" validate:"notblank"`
	Tags    []string `json:"tags"`
}

func (ne *NewJournalEntry) Clean() {
	ne.Date = core.CleanString(ne.Date)
	ne.Title = core.CleanString(ne.Title)
	ne.Content = core.CleanString(ne.Content)
	tags := make([]string, 0, len(ne.Tags))
	for _, t := range ne.Tags {
		if t = core.CleanString(t); t != "" {
			tags = append(tags, t)
		}
	}
	ne.Tags = tags
}

func (ne *NewJournalEntry) Validate(validate *validator.Validate) error {
	ne.Clean()
	return validate.Struct(ne)
}

// Entry builds the JournalEntry identified by `id`.
func (ne NewJournalEntry) Entry(id string) JournalEntry {
	tags := make([]string, len(ne.Tags))
	copy(tags, ne.Tags)
	return JournalEntry{
		ID:      id,
		Date:    ne.Date,
		Title:   ne.Title,
		Content: ne.Content,
		Tags:    tags,
	}
}

// NewJournalEntryID generates a unique journal entry id.
func NewJournalEntryID() string { return newID() }

func AddJournalEntry(list []JournalEntry, e JournalEntry) []JournalEntry {
	res := make([]JournalEntry, 0, len(list)+1)
	res = append(res, list...)
	return append(res, e)
}

func UpdateJournalEntry(list []JournalEntry, e JournalEntry) ([]JournalEntry, error) {
	res := make([]JournalEntry, len(list))
	found := false
	for i, orig := range list {
		if orig.ID == e.ID {
			res[i] = e
			found = true
		} else {
			res[i] = orig
		}
	}
	if !found {
		return list, ErrNotFound
	}
	return res, nil
}

func DeleteJournalEntry(list []JournalEntry, id string) ([]JournalEntry, error) {
	res := make([]JournalEntry, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			res = append(res, e)
		}
	}
	if len(res) == len(list) {
		return list, ErrNotFound
	}
	return res, nil
}

func GetJournalEntry(list []JournalEntry, id string) (JournalEntry, error) {
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return JournalEntry{}, ErrNotFound
}

// SortJournalNewestFirst returns a copy of `list` ordered by date, newest first.
func SortJournalNewestFirst(list []JournalEntry) []JournalEntry {
	res := make([]JournalEntry, len(list))
	copy(res, list)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	return res
}

// DuplicateJournalIDs returns the ids used by more than one entry of `list`.
func DuplicateJournalIDs(list []JournalEntry) []string {
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	return duplicates(ids)
}
