package report

import (
	"time"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
)

type (
	PlannerDay struct {
		Date        string               `json:"date"`
		Weekday     string               `json:"weekday"`
		IsToday     bool                 `json:"isToday"`
		Assignments []records.Assignment `json:"assignments"`
	}

	// Week plans the assignments dated from today through the end of the week.
	// Weeks start on Sunday.
	Week struct {
		Start    string       `json:"start"`
		End      string       `json:"end"`
		Days     []PlannerDay `json:"days"`
		Upcoming int          `json:"upcoming"`
	}
)

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func WeekPlan(assignments []records.Assignment, today time.Time) Week {
	start := startOfWeek(today)
	todayKey := core.DateKey(today)
	end := start.AddDate(0, 0, 6)

	week := Week{Start: core.DateKey(start), End: core.DateKey(end), Days: make([]PlannerDay, 0, 7)}
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		week.Days = append(week.Days, PlannerDay{
			Date:        core.DateKey(d),
			Weekday:     d.Weekday().String(),
			IsToday:     core.DateKey(d) == todayKey,
			Assignments: make([]records.Assignment, 0),
		})
	}

	// ISO dates compare lexically
	for _, a := range assignments {
		if a.Date < todayKey || a.Date > week.End {
			continue
		}
		for i := range week.Days {
			if week.Days[i].Date == a.Date {
				week.Days[i].Assignments = append(week.Days[i].Assignments, a)
				week.Upcoming++
			}
		}
	}
	return week
}
