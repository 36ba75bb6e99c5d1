package localstore

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/backup"
	"github.com/trezcool/homeschool/core/records"
)

type testLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *testLogger) log(msg string) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func (l *testLogger) Debug(msg string, _ ...interface{}) { l.log(msg) }
func (l *testLogger) Info(msg string, _ ...interface{})  { l.log(msg) }
func (l *testLogger) Warn(msg string, _ ...interface{})  { l.log(msg) }
func (l *testLogger) Error(msg string, _ ...interface{}) { l.log(msg) }
func (l *testLogger) Fatal(msg string, _ ...interface{}) { l.log(msg) }

func (l *testLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

func backends(t *testing.T, quota int) map[string]Backend {
	dir, err := NewDirBackend(filepath.Join(t.TempDir(), "data"), quota)
	if err != nil {
		t.Fatalf("NewDirBackend() error = %v", err)
	}
	return map[string]Backend{
		"memory": NewMemoryBackend(quota),
		"dir":    dir,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	assignments := []records.Assignment{
		{ID: "a1", SubjectID: "math", Name: "Quiz", Grade: 9, MaxPoints: 10, Date: "2025-09-02", Notes: "Unit 1 - Lesson 1"},
		{ID: "a2", SubjectID: "reading", Name: "Book report", Grade: 45, MaxPoints: 50, Date: "2025-09-03"},
	}

	for name, b := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(b, &testLogger{})
			if !store.Set(KeyAssignments, assignments) {
				t.Fatal("Set() = false")
			}
			var got []records.Assignment
			if !store.Get(KeyAssignments, &got) {
				t.Fatal("Get() = false")
			}
			if !reflect.DeepEqual(got, assignments) {
				t.Errorf("Get() = %+v, want %+v", got, assignments)
			}

			store.Remove(KeyAssignments)
			store.Remove(KeyAssignments) // missing keys are ignored
			got = []records.Assignment{}
			if store.Get(KeyAssignments, &got) {
				t.Error("Get() after Remove() = true")
			}
		})
	}
}

func TestStore_GetCorrupt(t *testing.T) {
	for name, b := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			logger := &testLogger{}
			store := NewStore(b, logger)
			if err := b.Write(KeyAttendance, []byte(`[{"date": "2025-09-02", `)); err != nil {
				t.Fatal(err)
			}

			got := []records.AttendanceRecord{}
			if store.Get(KeyAttendance, &got) {
				t.Error("Get() = true on corrupt data")
			}
			if got == nil || len(got) != 0 {
				t.Errorf("default overwritten: %+v", got)
			}
			if logger.count() != 1 {
				t.Errorf("logged %d messages, want 1", logger.count())
			}
			if raw, ok := store.Raw(KeyAttendance); !ok || len(raw) == 0 {
				t.Error("Raw() did not return the corrupt data")
			}
		})
	}
}

func TestStore_SetQuotaExceeded(t *testing.T) {
	for name, b := range backends(t, 64) {
		t.Run(name, func(t *testing.T) {
			logger := &testLogger{}
			store := NewStore(b, logger)

			if !store.Set(KeyLastBackup, "2025-09-02") {
				t.Fatal("Set() small value = false")
			}
			big := make([]string, 50)
			if store.Set(KeyJournal, big) {
				t.Error("Set() over quota = true")
			}
			if logger.count() != 1 {
				t.Errorf("logged %d messages, want 1", logger.count())
			}
			if _, err := b.Read(KeyJournal); !errors.Is(err, ErrNotExist) {
				t.Errorf("over quota value was stored: %v", err)
			}
		})
	}
}

func TestDirBackend_InvalidKey(t *testing.T) {
	b, err := NewDirBackend(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err = b.Write("../escape", []byte("{}")); err == nil {
		t.Error("Write() with path key: want error")
	}
	entries, _ := os.ReadDir(b.dir)
	if len(entries) != 0 {
		t.Errorf("dir not empty: %v", entries)
	}
}

type uploaderMock struct {
	names []string
	err   error
}

func (u *uploaderMock) Upload(_ context.Context, name string, data []byte) error {
	u.names = append(u.names, name)
	return u.err
}

func TestAutoBackup_Backup(t *testing.T) {
	origNow := nowFunc
	defer func() { nowFunc = origNow }()
	now := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }

	cols := records.Collections{Attendance: []records.AttendanceRecord{{Date: "2025-09-02", Status: records.StatusPresent}}}
	snapshot := func() backup.File { return backup.New(cols, "Jane", "2025-2026", now) }

	store := NewStore(NewMemoryBackend(0), &testLogger{})
	uploader := &uploaderMock{}
	ab := NewAutoBackup(store, snapshot, time.Minute, uploader, &testLogger{})
	if err := ab.Backup(context.Background()); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	var f backup.File
	if !store.Get(KeyAutoBackup, &f) {
		t.Fatal("auto_backup not written")
	}
	if !reflect.DeepEqual(f.Attendance, cols.Attendance) || f.StudentName != "Jane" {
		t.Errorf("auto_backup = %+v", f)
	}
	if got := store.LastBackup(); !got.Equal(now) {
		t.Errorf("LastBackup() = %v, want %v", got, now)
	}
	if want := []string{"homeschool-backup-2025-09-02.json"}; !reflect.DeepEqual(uploader.names, want) {
		t.Errorf("uploaded %v, want %v", uploader.names, want)
	}

	uploader.err = errors.New("bucket unavailable")
	if err := ab.Backup(context.Background()); err == nil {
		t.Error("Backup() with failing upload: want error")
	}
}

func TestAutoBackup_Run(t *testing.T) {
	store := NewStore(NewMemoryBackend(0), &testLogger{})
	var (
		mu    sync.Mutex
		calls int
	)
	snapshot := func() backup.File {
		mu.Lock()
		calls++
		mu.Unlock()
		return backup.New(records.Collections{}, "", "", time.Now())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewAutoBackup(store, snapshot, 10*time.Millisecond, nil, &testLogger{}).Run(ctx)
		close(done)
	}()
	time.Sleep(55 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if calls < 2 {
		t.Errorf("snapshot taken %d times, want at least 2", calls)
	}
	if store.LastBackup().IsZero() {
		t.Error("last_backup not written")
	}
}
