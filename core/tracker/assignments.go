package tracker

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
	localstore "github.com/trezcool/homeschool/storage/local"
)

// ActivityGrade grades one curriculum activity.
type ActivityGrade struct {
	Unit      string  `json:"unit" validate:"notblank"`
	Lesson    string  `json:"lesson" validate:"notblank"`
	Activity  string  `json:"activity" validate:"notblank"`
	Grade     float64 `json:"grade" validate:"gte=0"`
	MaxPoints float64 `json:"maxPoints" validate:"gt=0"`
	Date      string  `json:"date" validate:"isodate"`
}

func (ag *ActivityGrade) Clean() {
	ag.Unit = core.CleanString(ag.Unit)
	ag.Lesson = core.CleanString(ag.Lesson)
	ag.Activity = core.CleanString(ag.Activity)
	ag.Date = core.CleanString(ag.Date)
}

func (ag *ActivityGrade) Validate(validate *validator.Validate) error {
	ag.Clean()
	return validate.Struct(ag)
}

// Notes returns the assignment notes of the activity: "<unit> - <lesson>".
func (ag ActivityGrade) Notes() string {
	return ag.Unit + " - " + ag.Lesson
}

func (svc *Service) GetAssignment(id string) (records.Assignment, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return records.GetAssignment(svc.cols.Assignments, id)
}

func (svc *Service) AddAssignment(na records.NewAssignment) (records.Assignment, error) {
	if err := svc.validateStruct(&na); err != nil {
		return records.Assignment{}, err
	}
	a := na.Assignment(records.NewAssignmentID())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	cols := svc.cols
	cols.Assignments = records.AddAssignment(cols.Assignments, a)
	svc.commit(cols, localstore.KeyAssignments)
	return a, nil
}

func (svc *Service) UpdateAssignment(id string, na records.NewAssignment) (records.Assignment, error) {
	if err := svc.validateStruct(&na); err != nil {
		return records.Assignment{}, err
	}
	a := na.Assignment(id)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	list, err := records.UpdateAssignment(svc.cols.Assignments, a)
	if err != nil {
		return records.Assignment{}, err
	}
	cols := svc.cols
	cols.Assignments = list
	svc.commit(cols, localstore.KeyAssignments)
	return a, nil
}

func (svc *Service) DeleteAssignment(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	list, err := records.DeleteAssignment(svc.cols.Assignments, id)
	if err != nil {
		return err
	}
	cols := svc.cols
	cols.Assignments = list
	svc.commit(cols, localstore.KeyAssignments)
	return nil
}

// RecordActivityGrade stores the grade of a curriculum activity as an assignment
// named after the activity. Grading an activity again updates that assignment.
func (svc *Service) RecordActivityGrade(subjectID string, ag ActivityGrade) (records.Assignment, error) {
	subjectID = core.CleanString(subjectID, true /* lower */)
	subj, ok := school.GetSubject(subjectID)
	if !ok {
		return records.Assignment{}, records.ErrNotFound
	}
	if err := svc.validateStruct(&ag); err != nil {
		return records.Assignment{}, err
	}
	if subj.Curriculum == nil {
		return records.Assignment{}, core.NewValidationError(nil, core.FieldError{Field: "subject", Error: subj.Name + " has no curriculum"})
	}
	if _, ok = subj.Curriculum.FindActivity(ag.Unit, ag.Lesson, ag.Activity); !ok {
		return records.Assignment{}, core.NewValidationError(nil, core.FieldError{Field: "activity", Error: "unknown curriculum activity"})
	}

	na := records.NewAssignment{
		SubjectID: subj.ID,
		Name:      ag.Activity,
		Grade:     ag.Grade,
		MaxPoints: ag.MaxPoints,
		Date:      ag.Date,
		Notes:     ag.Notes(),
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	cols := svc.cols
	var a records.Assignment
	if existing, found := records.FindByName(cols.Assignments, subj.ID, ag.Activity); found {
		a = na.Assignment(existing.ID)
		cols.Assignments, _ = records.UpdateAssignment(cols.Assignments, a)
	} else {
		a = na.Assignment(records.NewAssignmentID())
		cols.Assignments = records.AddAssignment(cols.Assignments, a)
	}
	svc.commit(cols, localstore.KeyAssignments)
	return a, nil
}
