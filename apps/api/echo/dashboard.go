package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/homeschool/core/grading"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/report"
	"github.com/trezcool/homeschool/core/school"
	"github.com/trezcool/homeschool/core/tracker"
)

const noLetterGrade = "--"

type (
	DashboardResponse struct {
		report.Progress
		Sync tracker.SyncState `json:"sync"`
	}

	SubjectResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Icon            string `json:"icon"`
		Color           string `json:"color"`
		HasCurriculum   bool   `json:"hasCurriculum"`
		Average         int    `json:"average"`
		LetterGrade     string `json:"letterGrade"`
		AssignmentCount int    `json:"assignmentCount"`
	}

	SubjectDetailResponse struct {
		SubjectResponse
		Assignments []records.Assignment       `json:"assignments"` // newest first
		Curriculum  *report.CurriculumProgress `json:"curriculum,omitempty"`
	}
)

func newSubjectResponse(subj school.Subject, assignments []records.Assignment) SubjectResponse {
	avg := grading.SubjectAverage(assignments)
	letter := noLetterGrade
	if len(assignments) > 0 {
		letter = grading.LetterGrade(avg)
	}
	return SubjectResponse{
		ID:              subj.ID,
		Name:            subj.Name,
		Icon:            subj.Icon,
		Color:           subj.Color,
		HasCurriculum:   subj.Curriculum != nil,
		Average:         avg,
		LetterGrade:     letter,
		AssignmentCount: len(assignments),
	}
}

func (api *trackerApi) dashboard(ctx echo.Context) error {
	state := api.svc.State()
	return ctx.JSON(http.StatusOK, DashboardResponse{
		Progress: report.NewProgress(state.Collections, state.Student, nowFunc()),
		Sync:     api.svc.SyncState(),
	})
}

func (api *trackerApi) querySubjects(ctx echo.Context) error {
	assignments := api.svc.Assignments()
	res := make([]SubjectResponse, 0, len(school.Subjects))
	for _, subj := range school.Subjects {
		res = append(res, newSubjectResponse(subj, records.FilterBySubject(assignments, subj.ID)))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackerApi) retrieveSubject(ctx echo.Context) error {
	subj, ok := school.GetSubject(ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}
	assignments := api.svc.Assignments()
	subjAssignments := records.FilterBySubject(assignments, subj.ID)
	return ctx.JSON(http.StatusOK, SubjectDetailResponse{
		SubjectResponse: newSubjectResponse(subj, subjAssignments),
		Assignments:     records.SortAssignmentsNewestFirst(subjAssignments),
		Curriculum:      report.NewCurriculumProgress(subj, assignments),
	})
}

func (api *trackerApi) gradeActivity(ctx echo.Context) error {
	var data tracker.ActivityGrade
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	a, err := api.svc.RecordActivityGrade(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}
