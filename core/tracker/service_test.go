package tracker

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/backup"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
	localstore "github.com/trezcool/homeschool/storage/local"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type remoteMock struct {
	mu         sync.Mutex
	enabled    bool
	payload    *records.Payload
	fetchErr   error
	persistErr error
	persisted  []records.Payload
}

func (r *remoteMock) Enabled() bool { return r.enabled }

func (r *remoteMock) Fetch(context.Context) (*records.Payload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payload, r.fetchErr
}

func (r *remoteMock) Persist(_ context.Context, p records.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.persistErr != nil {
		return r.persistErr
	}
	r.persisted = append(r.persisted, p)
	return nil
}

func (r *remoteMock) persistCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.persisted)
}

var testConf = &core.Config{Student: core.StudentConfig{Name: "Jordan", Grade: "7th Grade", SchoolYear: "2025-2026"}}

func newTestService(t *testing.T, remote *remoteMock) (*Service, *localstore.Store) {
	t.Helper()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	records.InitValidators(validate, translator)

	local := localstore.NewStore(localstore.NewMemoryBackend(0), nopLogger{})
	return NewServiceMock(testConf, local, remote, validate, translator, nopLogger{}), local
}

func mathQuiz(grade float64) records.NewAssignment {
	return records.NewAssignment{SubjectID: school.SubjectMath, Name: "Chapter 5 Quiz", Grade: grade, MaxPoints: 50, Date: "2025-09-02"}
}

func TestService_LoadLocalOnly(t *testing.T) {
	svc, local := newTestService(t, &remoteMock{})
	stored := []records.Assignment{{ID: "a1", SubjectID: "math", Name: "Quiz", Grade: 9, MaxPoints: 10, Date: "2025-09-02"}}
	local.Set(localstore.KeyAssignments, stored)
	local.Set(localstore.KeyJournal, "not a journal")

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	st := svc.State()
	if !reflect.DeepEqual(st.Assignments, stored) {
		t.Errorf("Assignments = %+v, want %+v", st.Assignments, stored)
	}
	if st.Attendance == nil || st.Journal == nil {
		t.Error("missing or corrupt collections not defaulted to empty")
	}
	if st.Student.Name != "Jordan" {
		t.Errorf("Student = %+v, want config default", st.Student)
	}
	if got := svc.SyncState().Status; got != StatusDisabled {
		t.Errorf("status = %s, want %s", got, StatusDisabled)
	}
}

func TestService_LoadAdoptsRemote(t *testing.T) {
	remotePayload := &records.Payload{Collections: records.Collections{
		Attendance: []records.AttendanceRecord{{Date: "2025-09-01", Status: records.StatusExcused}},
	}}
	svc, local := newTestService(t, &remoteMock{enabled: true, payload: remotePayload})
	local.Set(localstore.KeyAttendance, []records.AttendanceRecord{{Date: "2025-09-01", Status: records.StatusAbsent}})

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := svc.Attendance(); !reflect.DeepEqual(got, remotePayload.Attendance) {
		t.Errorf("Attendance = %+v, want remote %+v", got, remotePayload.Attendance)
	}
	var stored []records.AttendanceRecord
	local.Get(localstore.KeyAttendance, &stored)
	if !reflect.DeepEqual(stored, remotePayload.Attendance) {
		t.Errorf("remote state not written through locally: %+v", stored)
	}
	if got := svc.SyncState().Status; got != StatusSynced {
		t.Errorf("status = %s, want %s", got, StatusSynced)
	}
}

func TestService_LoadPushesLocal(t *testing.T) {
	remote := &remoteMock{enabled: true}
	svc, local := newTestService(t, remote)
	local.Set(localstore.KeyJournal, []records.JournalEntry{{ID: "j1", Date: "2025-09-02", Title: "Day 1", Content: "Good start", Tags: []string{}}})

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if remote.persistCount() != 1 || len(remote.persisted[0].Journal) != 1 {
		t.Errorf("local state not pushed: %+v", remote.persisted)
	}
	if got := svc.SyncState().Status; got != StatusSynced {
		t.Errorf("status = %s, want %s", got, StatusSynced)
	}
}

func TestService_RemoteErrors(t *testing.T) {
	staleRow := &records.Payload{
		Collections: records.Collections{Journal: []records.JournalEntry{{ID: "j-old", Date: "2025-08-01", Title: "Summer reading"}}},
		UpdatedAt:   time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC),
	}
	remote := &remoteMock{enabled: true, payload: staleRow, fetchErr: errors.New("connection refused")}
	svc, local := newTestService(t, remote)
	local.Set(localstore.KeyAttendance, []records.AttendanceRecord{{Date: "2025-09-01", Status: records.StatusPresent}})

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	st := svc.SyncState()
	if st.Status != StatusError || st.Error == "" {
		t.Errorf("SyncState() = %+v, want error", st)
	}
	if len(svc.Attendance()) != 1 {
		t.Error("local state dropped on remote failure")
	}

	// no automatic retry while in error
	if _, err := svc.AddAssignment(mathQuiz(45)); err != nil {
		t.Fatalf("AddAssignment() error = %v", err)
	}
	if remote.persistCount() != 0 {
		t.Errorf("remote written while in error: %d", remote.persistCount())
	}
	if got := svc.SyncState().Status; got != StatusError {
		t.Errorf("status = %s, want %s", got, StatusError)
	}

	// manual refresh
	remote.fetchErr = nil
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if st = svc.SyncState(); st.Status != StatusSynced || st.Error != "" {
		t.Errorf("SyncState() after Refresh() = %+v", st)
	}
	// the stale row does not replace what was recorded while in error
	if len(svc.Assignments()) != 1 || len(svc.Journal()) != 0 {
		t.Errorf("State() after Refresh() = %+v, want local records", svc.State())
	}
	if remote.persistCount() != 1 {
		t.Errorf("remote written = %d, want 1", remote.persistCount())
	}

	// failing write
	remote.persistErr = errors.New("timeout")
	if _, err := svc.AddAssignment(mathQuiz(40)); err != nil {
		t.Fatalf("AddAssignment() error = %v, local operation must continue", err)
	}
	if got := svc.SyncState().Status; got != StatusError {
		t.Errorf("status = %s, want %s", got, StatusError)
	}
	if len(svc.Assignments()) != 2 {
		t.Errorf("Assignments() len = %d, want 2", len(svc.Assignments()))
	}
}

func TestService_ReconcileLastWriterWins(t *testing.T) {
	mirroredAt := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	now := mirroredAt.Add(24 * time.Hour)
	origNow := nowFunc
	defer func() { nowFunc = origNow }()
	nowFunc = func() time.Time { return now }

	t.Run("changes made while in error survive Refresh", func(t *testing.T) {
		remote := &remoteMock{enabled: true, payload: &records.Payload{UpdatedAt: mirroredAt}}
		svc, local := newTestService(t, remote)
		if err := svc.Load(context.Background()); err != nil {
			t.Fatal(err)
		}

		remote.persistErr = errors.New("timeout")
		if _, err := svc.AddAssignment(mathQuiz(45)); err != nil {
			t.Fatal(err)
		}
		if got := svc.SyncState().Status; got != StatusError {
			t.Fatalf("status = %s, want %s", got, StatusError)
		}

		remote.persistErr = nil
		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if got := svc.SyncState().Status; got != StatusSynced {
			t.Errorf("status = %s, want %s", got, StatusSynced)
		}
		if len(svc.Assignments()) != 1 {
			t.Fatalf("Assignments() len = %d, want 1", len(svc.Assignments()))
		}
		if n := remote.persistCount(); n != 1 || len(remote.persisted[0].Assignments) != 1 || !remote.persisted[0].UpdatedAt.Equal(now) {
			t.Errorf("local changes not pushed: %+v", remote.persisted)
		}

		// a restart against the stale row keeps them too
		svc2 := NewServiceMock(testConf, local, remote, svc.validate, svc.translator, nopLogger{})
		if err := svc2.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(svc2.Assignments()) != 1 {
			t.Errorf("Assignments() after restart len = %d, want 1", len(svc2.Assignments()))
		}
	})

	t.Run("newer row wins", func(t *testing.T) {
		remote := &remoteMock{enabled: true, fetchErr: errors.New("connection refused")}
		svc, _ := newTestService(t, remote)
		_ = svc.Load(context.Background())
		if _, err := svc.AddAssignment(mathQuiz(45)); err != nil {
			t.Fatal(err)
		}

		row := records.Payload{
			Collections: records.Collections{Attendance: []records.AttendanceRecord{{Date: "2025-09-02", Status: records.StatusAbsent}}},
			UpdatedAt:   now.Add(time.Hour),
		}
		remote.fetchErr, remote.payload = nil, &row
		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if len(svc.Assignments()) != 0 || !reflect.DeepEqual(svc.Attendance(), row.Attendance) {
			t.Errorf("State() = %+v, want the remote row", svc.State())
		}
		if remote.persistCount() != 0 {
			t.Errorf("remote written = %d, want 0", remote.persistCount())
		}
	})

	t.Run("cleared data is not restored from the row", func(t *testing.T) {
		row := records.Payload{
			Collections: records.Collections{Attendance: []records.AttendanceRecord{{Date: "2025-08-29", Status: records.StatusPresent}}},
			UpdatedAt:   mirroredAt,
		}
		remote := &remoteMock{enabled: true, payload: &row}
		svc, local := newTestService(t, remote)
		if err := svc.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		svc.ClearData()

		svc2 := NewServiceMock(testConf, local, remote, svc.validate, svc.translator, nopLogger{})
		if err := svc2.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(svc2.Attendance()) != 0 {
			t.Errorf("Attendance() = %+v, want cleared", svc2.Attendance())
		}
		if remote.persistCount() != 1 || len(remote.persisted[0].Attendance) != 0 {
			t.Errorf("cleared state not pushed: %+v", remote.persisted)
		}
	})
}

func TestService_AddDeleteAssignment(t *testing.T) {
	remote := &remoteMock{enabled: true}
	svc, local := newTestService(t, remote)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	first, err := svc.AddAssignment(mathQuiz(45))
	if err != nil {
		t.Fatal(err)
	}
	prior := svc.Assignments()

	a, err := svc.AddAssignment(records.NewAssignment{SubjectID: " Reading ", Name: "Book report", Grade: 18, MaxPoints: 20, Date: "2025-09-03"})
	if err != nil {
		t.Fatalf("AddAssignment() error = %v", err)
	}
	if a.ID == "" || a.ID == first.ID || a.SubjectID != school.SubjectReading {
		t.Errorf("AddAssignment() = %+v", a)
	}
	if err = svc.DeleteAssignment(a.ID); err != nil {
		t.Fatalf("DeleteAssignment() error = %v", err)
	}
	if got := svc.Assignments(); !reflect.DeepEqual(got, prior) {
		t.Errorf("add then delete = %+v, want %+v", got, prior)
	}

	var stored []records.Assignment
	local.Get(localstore.KeyAssignments, &stored)
	if !reflect.DeepEqual(stored, prior) {
		t.Errorf("local = %+v, want %+v", stored, prior)
	}
	// push on load + 3 mutations
	if remote.persistCount() != 4 {
		t.Errorf("remote writes = %d, want 4", remote.persistCount())
	}
	if err = svc.DeleteAssignment(a.ID); err != records.ErrNotFound {
		t.Errorf("DeleteAssignment(deleted) error = %v, want %v", err, records.ErrNotFound)
	}
}

func TestService_UpdateAssignment(t *testing.T) {
	svc, _ := newTestService(t, &remoteMock{})
	a, _ := svc.AddAssignment(mathQuiz(30))

	updated, err := svc.UpdateAssignment(a.ID, mathQuiz(48))
	if err != nil {
		t.Fatalf("UpdateAssignment() error = %v", err)
	}
	if updated.ID != a.ID || updated.Grade != 48 {
		t.Errorf("UpdateAssignment() = %+v", updated)
	}
	if _, err = svc.UpdateAssignment("unknown", mathQuiz(48)); err != records.ErrNotFound {
		t.Errorf("UpdateAssignment(unknown) error = %v", err)
	}
}

func TestService_ValidationNothingPersisted(t *testing.T) {
	remote := &remoteMock{enabled: true}
	svc, local := newTestService(t, remote)
	_ = svc.Load(context.Background())
	writes := remote.persistCount()

	_, err := svc.AddAssignment(records.NewAssignment{SubjectID: "math", Name: "Quiz", Grade: 5, MaxPoints: 0, Date: "2025-09-02"})
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("AddAssignment() error = %v, want *core.ValidationError", err)
	}
	if _, ok = vErr.FieldErrors()["maxPoints"]; !ok {
		t.Errorf("field errors = %v, want maxPoints", vErr.FieldErrors())
	}
	if len(svc.Assignments()) != 0 || remote.persistCount() != writes {
		t.Error("invalid assignment persisted")
	}
	if _, ok = local.Raw(localstore.KeyAssignments); ok {
		t.Error("invalid assignment written locally")
	}
}

func TestService_MarkAttendance(t *testing.T) {
	svc, _ := newTestService(t, &remoteMock{})

	for _, status := range []records.AttendanceStatus{records.StatusPresent, records.StatusAbsent} {
		if _, err := svc.MarkAttendance(records.AttendanceRecord{Date: "2025-09-02", Status: status}); err != nil {
			t.Fatalf("MarkAttendance(%s) error = %v", status, err)
		}
	}
	want := []records.AttendanceRecord{{Date: "2025-09-02", Status: records.StatusAbsent}}
	if got := svc.Attendance(); !reflect.DeepEqual(got, want) {
		t.Errorf("Attendance() = %+v, want %+v", got, want)
	}
	if _, err := svc.MarkAttendance(records.AttendanceRecord{Date: "2025-09-03", Status: "late"}); !core.IsValidationError(err) {
		t.Errorf("MarkAttendance(late) error = %v, want validation error", err)
	}
}

func TestService_Journal(t *testing.T) {
	svc, _ := newTestService(t, &remoteMock{})

	e, err := svc.AddJournalEntry(records.NewJournalEntry{Date: "2025-09-02", Title: "Fractions", Content: "Mastered equivalent fractions", Tags: []string{"math", " "}})
	if err != nil {
		t.Fatalf("AddJournalEntry() error = %v", err)
	}
	if !reflect.DeepEqual(e.Tags, []string{"math"}) {
		t.Errorf("Tags = %v", e.Tags)
	}
	if _, err = svc.UpdateJournalEntry(e.ID, records.NewJournalEntry{Date: "2025-09-02", Title: "Fractions", Content: "Needs review"}); err != nil {
		t.Fatalf("UpdateJournalEntry() error = %v", err)
	}
	got, _ := svc.GetJournalEntry(e.ID)
	if got.Content != "Needs review" || got.Tags == nil {
		t.Errorf("GetJournalEntry() = %+v", got)
	}
	if err = svc.DeleteJournalEntry(e.ID); err != nil {
		t.Fatalf("DeleteJournalEntry() error = %v", err)
	}
	if len(svc.Journal()) != 0 {
		t.Errorf("Journal() = %+v, want empty", svc.Journal())
	}
}

func TestService_RecordActivityGrade(t *testing.T) {
	svc, _ := newTestService(t, &remoteMock{})
	ag := ActivityGrade{
		Unit:      "Number and Operations",
		Lesson:    "Sets of Numbers",
		Activity:  "Relationships between sets of rational numbers",
		Grade:     7,
		MaxPoints: 10,
		Date:      "2025-09-02",
	}

	first, err := svc.RecordActivityGrade("math", ag)
	if err != nil {
		t.Fatalf("RecordActivityGrade() error = %v", err)
	}
	if first.Name != ag.Activity || first.Notes != "Number and Operations - Sets of Numbers" {
		t.Errorf("RecordActivityGrade() = %+v", first)
	}

	ag.Grade = 10
	second, err := svc.RecordActivityGrade("math", ag)
	if err != nil {
		t.Fatalf("RecordActivityGrade() regrade error = %v", err)
	}
	if second.ID != first.ID || len(svc.Assignments()) != 1 || svc.Assignments()[0].Grade != 10 {
		t.Errorf("regrade did not update in place: %+v", svc.Assignments())
	}

	tests := []struct {
		name      string
		subjectID string
		modify    func(ag *ActivityGrade)
		wantErr   error
	}{
		{name: "unknown subject", subjectID: "art", modify: func(*ActivityGrade) {}, wantErr: records.ErrNotFound},
		{name: "no curriculum", subjectID: "bible", modify: func(*ActivityGrade) {}},
		{name: "unknown activity", subjectID: "math", modify: func(ag *ActivityGrade) { ag.Activity = "Calculus" }},
		{name: "invalid grade", subjectID: "math", modify: func(ag *ActivityGrade) { ag.Grade = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ag
			tt.modify(&a)
			_, err := svc.RecordActivityGrade(tt.subjectID, a)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if !core.IsValidationError(err) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestService_UpdateStudent(t *testing.T) {
	svc, local := newTestService(t, &remoteMock{})

	si, err := svc.UpdateStudent(school.StudentInfo{Name: " Jordan Moore ", Grade: "8th Grade", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("UpdateStudent() error = %v", err)
	}
	if si.Name != "Jordan Moore" {
		t.Errorf("Name = %q, want cleaned", si.Name)
	}
	var stored school.StudentInfo
	if !local.Get(localstore.KeyStudentInfo, &stored) || stored != si {
		t.Errorf("stored student = %+v", stored)
	}
	if _, err = svc.UpdateStudent(school.StudentInfo{Name: "Jordan"}); !core.IsValidationError(err) {
		t.Errorf("UpdateStudent(partial) error = %v, want validation error", err)
	}

	// reloaded from local
	if err = svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if svc.Student() != si {
		t.Errorf("Student() after Load() = %+v", svc.Student())
	}
}

func TestService_BackupRestore(t *testing.T) {
	origNow := nowFunc
	defer func() { nowFunc = origNow }()
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }

	svc, _ := newTestService(t, &remoteMock{})
	_, _ = svc.AddAssignment(mathQuiz(45))
	_, _ = svc.MarkAttendance(records.AttendanceRecord{Date: "2025-09-02", Status: records.StatusPresent})

	f := svc.Export()
	if f.StudentName != "Jordan" || f.SchoolYear != "2025-2026" || !f.ExportDate.Equal(now) {
		t.Errorf("Export() = %+v", f)
	}
	if stats := svc.BackupStats(); stats.LastBackup != nil || !stats.HasData {
		t.Errorf("BackupStats() before import = %+v", stats)
	}

	svc2, _ := newTestService(t, &remoteMock{})
	_, _ = svc2.AddJournalEntry(records.NewJournalEntry{Date: "2025-09-01", Title: "Kept", Content: "Journal not in backup"})
	stats := svc2.Import(backup.File{Assignments: f.Assignments, Attendance: f.Attendance})

	want := BackupStats{Assignments: 1, Attendance: 1, Journal: 1, HasData: true, LastBackup: &now}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("Import() = %+v, want %+v", stats, want)
	}
	if !reflect.DeepEqual(svc2.Assignments(), svc.Assignments()) {
		t.Error("assignments not imported")
	}
}

func TestService_ClearData(t *testing.T) {
	svc, local := newTestService(t, &remoteMock{})
	_, _ = svc.MarkAttendance(records.AttendanceRecord{Date: "2025-09-02", Status: records.StatusPresent})

	eb := svc.ClearData()
	if eb.Attendance == nil || eb.Assignments != nil {
		t.Errorf("ClearData() = %+v", eb)
	}
	if len(svc.Attendance()) != 0 {
		t.Error("in-memory state not reset")
	}
	if _, ok := local.Raw(localstore.KeyAttendance); ok {
		t.Error("attendance not removed")
	}
	var stored ErrorBackup
	if !local.Get(localstore.KeyErrorBackup, &stored) || *stored.Attendance != `[{"date":"2025-09-02","status":"present"}]` {
		t.Errorf("error_backup = %+v", stored)
	}
}

func TestService_AsyncMirror(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	records.InitValidators(validate, translator)

	remote := &remoteMock{enabled: true}
	local := localstore.NewStore(localstore.NewMemoryBackend(0), nopLogger{})
	svc := NewService(testConf, local, remote, validate, translator, nopLogger{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.AddAssignment(mathQuiz(float64(i)))
		}(i)
	}
	wg.Wait()
	svc.Close()

	if remote.persistCount() != 11 {
		t.Errorf("remote writes = %d, want 11", remote.persistCount())
	}
	if st := svc.SyncState(); st.Status != StatusSynced || st.Pending != 0 {
		t.Errorf("SyncState() = %+v", st)
	}
	if len(svc.Assignments()) != 10 {
		t.Errorf("Assignments() len = %d, want 10", len(svc.Assignments()))
	}
}

func TestSyncStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to SyncStatus
		want     bool
	}{
		{StatusDisabled, StatusLoading, true},
		{StatusLoading, StatusSynced, true},
		{StatusSyncing, StatusError, true},
		{StatusError, StatusLoading, true},
		{StatusError, StatusSyncing, false},
		{StatusError, StatusSynced, false},
		{StatusSynced, StatusError, false},
		{StatusDisabled, StatusSynced, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}
