package records

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
)

var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusExcused}

func (s AttendanceStatus) IsValid() bool {
	for _, st := range AttendanceStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Counted reports whether the status counts toward the attendance rate.
func (s AttendanceStatus) Counted() bool {
	return s == StatusPresent || s == StatusExcused
}

// AttendanceRecord is keyed by Date: there is at most one record per date.
type AttendanceRecord struct {
	Date   string           `json:"date" validate:"isodate"`
	Status AttendanceStatus `json:"status" validate:"attendance_status"`
}

func (r *AttendanceRecord) Clean() {
	r.Date = core.CleanString(r.Date)
	r.Status = AttendanceStatus(core.CleanString(string(r.Status), true /* lower */))
}

func (r *AttendanceRecord) Validate(validate *validator.Validate) error {
	r.Clean()
	return validate.Struct(r)
}

// UpsertAttendance returns a new collection where the record for `r.Date` has `r.Status`.
// An existing record keeps its position.
func UpsertAttendance(list []AttendanceRecord, r AttendanceRecord) []AttendanceRecord {
	res := make([]AttendanceRecord, 0, len(list)+1)
	found := false
	for _, orig := range list {
		if orig.Date == r.Date {
			orig.Status = r.Status
			found = true
		}
		res = append(res, orig)
	}
	if !found {
		res = append(res, r)
	}
	return res
}

func GetAttendance(list []AttendanceRecord, date string) (AttendanceRecord, error) {
	for _, r := range list {
		if r.Date == date {
			return r, nil
		}
	}
	return AttendanceRecord{}, ErrNotFound
}

// SortAttendance returns a copy of `list` ordered by date, oldest first.
func SortAttendance(list []AttendanceRecord) []AttendanceRecord {
	res := make([]AttendanceRecord, len(list))
	copy(res, list)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res
}

// DuplicateDates returns the dates appearing more than once in `list`.
func DuplicateDates(list []AttendanceRecord) []string {
	dates := make([]string, 0, len(list))
	for _, r := range list {
		dates = append(dates, r.Date)
	}
	return duplicates(dates)
}
