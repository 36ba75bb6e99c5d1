// Package report derives the read models of the dashboard: progress reports,
// the weekly planner and curriculum progress.
package report

import (
	"regexp"
	"time"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/grading"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
)

var spacesRegex = regexp.MustCompile(`\s+`)

// Progress is the academic progress report of the student.
type Progress struct {
	Student          school.StudentInfo       `json:"student"`
	GeneratedAt      time.Time                `json:"generatedAt"`
	Subjects         []grading.SubjectSummary `json:"subjects"`
	GPA              float64                  `json:"gpa"` // over subjects with grades
	AttendanceRate   int                      `json:"attendanceRate"`
	Attendance       grading.AttendanceCounts `json:"attendance"`
	TotalAssignments int                      `json:"totalAssignments"`
	JournalEntries   int                      `json:"journalEntries"`
}

func NewProgress(cols records.Collections, student school.StudentInfo, now time.Time) Progress {
	summaries := grading.SummarizeSubjects(cols.Assignments, school.Subjects)
	return Progress{
		Student:          student,
		GeneratedAt:      now.UTC(),
		Subjects:         summaries,
		GPA:              grading.GPA(grading.GradedAverages(summaries)),
		AttendanceRate:   grading.AttendanceRate(cols.Attendance),
		Attendance:       grading.CountAttendance(cols.Attendance),
		TotalAssignments: len(cols.Assignments),
		JournalEntries:   len(cols.Journal),
	}
}

// Filename returns the download name of the rendered report, without extension.
func (p Progress) Filename() string {
	name := spacesRegex.ReplaceAllString(core.CleanString(p.Student.Name), "_")
	if name == "" {
		name = "Student"
	}
	return "Progress_Report_" + name + "_" + core.DateKey(p.GeneratedAt)
}
