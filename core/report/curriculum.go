package report

import (
	"github.com/trezcool/homeschool/core/grading"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
)

type (
	ActivityProgress struct {
		school.Activity
		Completed  bool `json:"completed"`
		Percentage *int `json:"percentage,omitempty"`
	}

	LessonProgress struct {
		Title      string             `json:"title"`
		Activities []ActivityProgress `json:"activities"`
	}

	UnitProgress struct {
		Unit      string           `json:"unit"`
		Completed int              `json:"completed"`
		Total     int              `json:"total"`
		Lessons   []LessonProgress `json:"lessons"`
	}

	// CurriculumProgress marks an activity completed once an assignment of the
	// subject carries its title.
	CurriculumProgress struct {
		Course    string         `json:"course"`
		Completed int            `json:"completed"`
		Total     int            `json:"total"`
		Percent   int            `json:"percent"`
		Units     []UnitProgress `json:"units"`
	}
)

// NewCurriculumProgress returns nil when the subject has no curriculum.
func NewCurriculumProgress(subj school.Subject, assignments []records.Assignment) *CurriculumProgress {
	if subj.Curriculum == nil {
		return nil
	}
	graded := make(map[string]records.Assignment)
	for _, a := range records.FilterBySubject(assignments, subj.ID) {
		if _, ok := graded[a.Name]; !ok {
			graded[a.Name] = a
		}
	}

	cp := &CurriculumProgress{Course: subj.Curriculum.Course, Units: make([]UnitProgress, 0, len(subj.Curriculum.Units))}
	for _, u := range subj.Curriculum.Units {
		up := UnitProgress{Unit: u.Unit, Total: u.ActivityCount(), Lessons: make([]LessonProgress, 0, len(u.Lessons))}
		for _, l := range u.Lessons {
			lp := LessonProgress{Title: l.Title, Activities: make([]ActivityProgress, 0, len(l.Activities))}
			for _, act := range l.Activities {
				ap := ActivityProgress{Activity: act}
				if a, ok := graded[act.Title]; ok {
					pct := grading.Percentage(a)
					ap.Completed = true
					ap.Percentage = &pct
					up.Completed++
				}
				lp.Activities = append(lp.Activities, ap)
			}
			up.Lessons = append(up.Lessons, lp)
		}
		cp.Completed += up.Completed
		cp.Total += up.Total
		cp.Units = append(cp.Units, up)
	}
	if cp.Total > 0 {
		cp.Percent = cp.Completed * 100 / cp.Total
	}
	return cp
}
