package records

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
)

type Assignment struct {
	ID        string  `json:"id" validate:"required"`
	SubjectID string  `json:"subjectId" validate:"subject"`
	Name      string  `json:"name" validate:"notblank"`
	Grade     float64 `json:"grade" validate:"gte=0"`     // points earned
	MaxPoints float64 `json:"maxPoints" validate:"gt=0"` // never 0
	Date      string  `json:"date" validate:"isodate"`
	Notes     string  `json:"notes,omitempty"`
}

// NewAssignment contains information needed to create or replace an Assignment.
type NewAssignment struct {
	SubjectID string  `json:"subjectId" validate:"subject"`
	Name      string  `json:"name" validate:"notblank"`
	Grade     float64 `json:"grade" validate:"gte=0"`
	MaxPoints float64 `json:"maxPoints" validate:"gt=0"`
	Date      string  `json:"date" validate:"isodate"`
	Notes     string  `json:"notes"`
}

func (na *NewAssignment) Clean() {
	na.SubjectID = core.CleanString(na.SubjectID, true /* lower */)
	na.Name = core.CleanString(na.Name)
	na.Date = core.CleanString(na.Date)
	na.Notes = core.CleanString(na.Notes)
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}

// Assignment builds the Assignment identified by `id`.
func (na NewAssignment) Assignment(id string) Assignment {
	return Assignment{
		ID:        id,
		SubjectID: na.SubjectID,
		Name:      na.Name,
		Grade:     na.Grade,
		MaxPoints: na.MaxPoints,
		Date:      na.Date,
		Notes:     na.Notes,
	}
}

// NewAssignmentID generates a unique assignment id.
func NewAssignmentID() string { return newID() }

// AddAssignment returns a new collection with `a` appended.
func AddAssignment(list []Assignment, a Assignment) []Assignment {
	res := make([]Assignment, 0, len(list)+1)
	res = append(res, list...)
	return append(res, a)
}

// UpdateAssignment returns a new collection where the assignment with a.ID is replaced by `a`.
func UpdateAssignment(list []Assignment, a Assignment) ([]Assignment, error) {
	res := make([]Assignment, len(list))
	found := false
	for i, orig := range list {
		if orig.ID == a.ID {
			res[i] = a
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

// DeleteAssignment returns a new collection without the assignment identified by `id`.
func DeleteAssignment(list []Assignment, id string) ([]Assignment, error) {
	res := make([]Assignment, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			res = append(res, a)
		}
	}
	if len(res) == len(list) {
		return list, ErrNotFound
	}
	return res, nil
}

func GetAssignment(list []Assignment, id string) (Assignment, error) {
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return Assignment{}, ErrNotFound
}

// FilterBySubject returns the assignments belonging to `subjectID`.
func FilterBySubject(list []Assignment, subjectID string) []Assignment {
	res := make([]Assignment, 0)
	for _, a := range list {
		if a.SubjectID == subjectID {
			res = append(res, a)
		}
	}
	return res
}

// FindByName returns the first assignment of `subjectID` named `name`.
func FindByName(list []Assignment, subjectID, name string) (Assignment, bool) {
	for _, a := range list {
		if a.SubjectID == subjectID && a.Name == name {
			return a, true
		}
	}
	return Assignment{}, false
}

// SortAssignmentsNewestFirst returns a copy of `list` ordered by date, newest first.
func SortAssignmentsNewestFirst(list []Assignment) []Assignment {
	res := make([]Assignment, len(list))
	copy(res, list)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	return res
}

// DuplicateAssignmentIDs returns the ids used by more than one assignment of `list`.
func DuplicateAssignmentIDs(list []Assignment) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return duplicates(ids)
}
