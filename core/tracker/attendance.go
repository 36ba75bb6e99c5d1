package tracker

import (
	"github.com/trezcool/homeschool/core/records"
	localstore "github.com/trezcool/homeschool/storage/local"
)

// MarkAttendance sets the status of the day: a second mark on the same date overwrites the first.
func (svc *Service) MarkAttendance(r records.AttendanceRecord) (records.AttendanceRecord, error) {
	if err := svc.validateStruct(&r); err != nil {
		return records.AttendanceRecord{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	cols := svc.cols
	cols.Attendance = records.UpsertAttendance(cols.Attendance, r)
	svc.commit(cols, localstore.KeyAttendance)
	return r, nil
}
