// Package grading computes averages, letter grades, GPA and attendance rates
// from record collections.
package grading

import (
	"math"

	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
)

// Letter grades
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

var gradePoints = map[string]float64{
	GradeA: 4,
	GradeB: 3,
	GradeC: 2,
	GradeD: 1,
	GradeF: 0,
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// SubjectAverage returns round(100 * Σgrade / ΣmaxPoints), or 0 when there is nothing to average.
func SubjectAverage(assignments []records.Assignment) int {
	if len(assignments) == 0 {
		return 0
	}
	var total, max float64
	for _, a := range assignments {
		total += a.Grade
		max += a.MaxPoints
	}
	if max == 0 {
		return 0
	}
	return round(total / max * 100)
}

// Percentage returns the rounded score of a single assignment.
func Percentage(a records.Assignment) int {
	if a.MaxPoints <= 0 {
		return 0
	}
	return round(a.Grade / a.MaxPoints * 100)
}

func LetterGrade(average int) string {
	switch {
	case average >= 90:
		return GradeA
	case average >= 80:
		return GradeB
	case average >= 70:
		return GradeC
	case average >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// GradePoint maps an average to the 4.0 scale.
func GradePoint(average int) float64 {
	return gradePoints[LetterGrade(average)]
}

// GPA returns the mean grade point of `averages`, 0 when empty.
func GPA(averages []int) float64 {
	if len(averages) == 0 {
		return 0
	}
	var sum float64
	for _, avg := range averages {
		sum += GradePoint(avg)
	}
	return sum / float64(len(averages))
}

// AttendanceRate returns the rounded share of present or excused days.
// An empty history reads as 100%.
func AttendanceRate(attendance []records.AttendanceRecord) int {
	if len(attendance) == 0 {
		return 100
	}
	var counted int
	for _, r := range attendance {
		if r.Status.Counted() {
			counted++
		}
	}
	return round(float64(counted) / float64(len(attendance)) * 100)
}

type AttendanceCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
}

func CountAttendance(attendance []records.AttendanceRecord) AttendanceCounts {
	counts := AttendanceCounts{Total: len(attendance)}
	for _, r := range attendance {
		switch r.Status {
		case records.StatusPresent:
			counts.Present++
		case records.StatusAbsent:
			counts.Absent++
		case records.StatusExcused:
			counts.Excused++
		}
	}
	return counts
}

type SubjectSummary struct {
	SubjectID       string `json:"subjectId"`
	Subject         string `json:"subject"`
	Average         int    `json:"average"`
	LetterGrade     string `json:"letterGrade"` // "N/A" without grades
	AssignmentCount int    `json:"assignmentCount"`
}

// HasGrades reports whether the subject has a non-zero average.
func (ss SubjectSummary) HasGrades() bool { return ss.Average > 0 }

// NoGradeLetter is reported for subjects without a graded average.
const NoGradeLetter = "N/A"

// SummarizeSubjects computes a summary per subject, in catalogue order.
func SummarizeSubjects(assignments []records.Assignment, subjects []school.Subject) []SubjectSummary {
	summaries := make([]SubjectSummary, 0, len(subjects))
	for _, s := range subjects {
		subjAssignments := records.FilterBySubject(assignments, s.ID)
		avg := SubjectAverage(subjAssignments)
		letter := NoGradeLetter
		if avg > 0 {
			letter = LetterGrade(avg)
		}
		summaries = append(summaries, SubjectSummary{
			SubjectID:       s.ID,
			Subject:         s.Name,
			Average:         avg,
			LetterGrade:     letter,
			AssignmentCount: len(subjAssignments),
		})
	}
	return summaries
}

// GradedAverages returns the non-zero averages of `summaries`, the GPA inputs.
func GradedAverages(summaries []SubjectSummary) []int {
	avgs := make([]int, 0, len(summaries))
	for _, s := range summaries {
		if s.HasGrades() {
			avgs = append(avgs, s.Average)
		}
	}
	return avgs
}
