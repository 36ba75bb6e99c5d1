package tracker

import (
	"time"

	"github.com/trezcool/homeschool/core/backup"
	"github.com/trezcool/homeschool/core/records"
	localstore "github.com/trezcool/homeschool/storage/local"
)

type (
	// BackupStats summarizes the stored records and the latest backup.
	BackupStats struct {
		Assignments   int        `json:"assignments"`
		Attendance    int        `json:"attendance"`
		Journal       int        `json:"journal"`
		HasData       bool       `json:"hasData"`
		LastBackup    *time.Time `json:"lastBackup"`
		HasAutoBackup bool       `json:"hasAutoBackup"`
	}

	// ErrorBackup keeps the raw stored collections, as found, when the data is cleared.
	ErrorBackup struct {
		Assignments *string   `json:"assignments"`
		Attendance  *string   `json:"attendance"`
		Journal     *string   `json:"journal"`
		ClearedAt   time.Time `json:"clearedAt"`
	}
)

// Export snapshots the records into a backup file.
func (svc *Service) Export() backup.File {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return backup.New(svc.cols, svc.student.Name, svc.student.SchoolYear, nowFunc())
}

// Import replaces each collection present in `f`; absent ones are kept.
// `f` must come from backup.Decode.
func (svc *Service) Import(f backup.File) BackupStats {
	svc.mu.Lock()
	cols := svc.cols
	changed := make([]string, 0, 3)
	if f.Assignments != nil {
		cols.Assignments = f.Assignments
		changed = append(changed, localstore.KeyAssignments)
	}
	if f.Attendance != nil {
		cols.Attendance = f.Attendance
		changed = append(changed, localstore.KeyAttendance)
	}
	if f.Journal != nil {
		cols.Journal = f.Journal
		changed = append(changed, localstore.KeyJournal)
	}
	svc.commit(cols, changed...)
	svc.local.Set(localstore.KeyLastBackup, nowFunc().UTC())
	svc.mu.Unlock()

	return svc.BackupStats()
}

func (svc *Service) BackupStats() BackupStats {
	svc.mu.RLock()
	stats := BackupStats{
		Assignments: len(svc.cols.Assignments),
		Attendance:  len(svc.cols.Attendance),
		Journal:     len(svc.cols.Journal),
	}
	svc.mu.RUnlock()

	stats.HasData = stats.Assignments > 0 || stats.Attendance > 0 || stats.Journal > 0
	if last := svc.local.LastBackup(); !last.IsZero() {
		stats.LastBackup = &last
	}
	_, stats.HasAutoBackup = svc.local.Raw(localstore.KeyAutoBackup)
	return stats
}

// ClearData is the recovery path for corrupt data: the stored collections are
// copied into `error_backup`, removed and the in-memory records reset.
// The remote mirror is left untouched until the next push: the cleared state is
// newer than the mirrored row.
func (svc *Service) ClearData() ErrorBackup {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	eb := ErrorBackup{ClearedAt: nowFunc().UTC()}
	for key, dst := range map[string]**string{
		localstore.KeyAssignments: &eb.Assignments,
		localstore.KeyAttendance:  &eb.Attendance,
		localstore.KeyJournal:     &eb.Journal,
	} {
		if raw, ok := svc.local.Raw(key); ok {
			s := string(raw)
			*dst = &s
		}
	}
	svc.local.Set(localstore.KeyErrorBackup, eb)
	svc.local.Remove(localstore.KeyAssignments)
	svc.local.Remove(localstore.KeyAttendance)
	svc.local.Remove(localstore.KeyJournal)
	svc.local.Set(localstore.KeyUpdatedAt, eb.ClearedAt)
	svc.cols = records.Collections{}.Normalize()

	svc.logger.Warn("tracker: local data cleared, previous data saved to " + localstore.KeyErrorBackup)
	return eb
}
