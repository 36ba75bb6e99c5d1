// Package tracker owns the in-memory homeschool records. It applies every change
// through the pure reducers of package records, writes the result through to the
// local store and mirrors it to the remote store in the background.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
	"github.com/trezcool/homeschool/core/school"
	localstore "github.com/trezcool/homeschool/storage/local"
)

var nowFunc = time.Now // mockable

type (
	LocalStore interface {
		Get(key string, v interface{}) bool
		Raw(key string) ([]byte, bool)
		Set(key string, v interface{}) bool
		Remove(key string)
		LastBackup() time.Time
	}

	RemoteStore interface {
		Enabled() bool
		// Fetch returns nil when nothing was mirrored yet.
		Fetch(ctx context.Context) (*records.Payload, error)
		Persist(ctx context.Context, payload records.Payload) error
	}

	// State is a read-only snapshot of the records.
	State struct {
		records.Collections
		Student school.StudentInfo `json:"student"`
	}

	Service struct {
		mu      sync.RWMutex // guards cols & student
		cols    records.Collections
		student school.StudentInfo

		statusMu sync.Mutex // guards status, syncErr & pending
		status   SyncStatus
		syncErr  error
		pending  int

		defaultStudent school.StudentInfo
		local          LocalStore
		remote         RemoteStore
		validate       *validator.Validate
		translator     ut.Translator
		logger         core.Logger

		dispatch func(fn func())
		wg       sync.WaitGroup
	}
)

func NewService(
	conf *core.Config,
	local LocalStore,
	remote RemoteStore,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) *Service {
	svc := &Service{
		cols:           records.Collections{}.Normalize(),
		defaultStudent: school.NewStudentInfo(conf.Student),
		status:         StatusDisabled,
		local:          local,
		remote:         remote,
		validate:       validate,
		translator:     translator,
		logger:         logger,
		dispatch:       func(fn func()) { go fn() },
	}
	svc.student = svc.defaultStudent
	observeStatus(svc.status)
	return svc
}

// NewServiceMock runs remote writes synchronously.
func NewServiceMock(
	conf *core.Config,
	local LocalStore,
	remote RemoteStore,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) *Service {
	svc := NewService(conf, local, remote, validate, translator, logger)
	svc.dispatch = func(fn func()) { fn() }
	return svc
}

// Close waits for the in-flight remote writes.
func (svc *Service) Close() {
	svc.wg.Wait()
}

func (svc *Service) validateStruct(v interface {
	Validate(validate *validator.Validate) error
}) error {
	return core.TranslateValidationErrors(v.Validate(svc.validate), svc.translator)
}

// State returns a snapshot of the records.
func (svc *Service) State() State {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return State{Collections: svc.cols, Student: svc.student}
}

func (svc *Service) Assignments() []records.Assignment {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.cols.Assignments
}

func (svc *Service) Attendance() []records.AttendanceRecord {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.cols.Attendance
}

func (svc *Service) Journal() []records.JournalEntry {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.cols.Journal
}

func (svc *Service) Student() school.StudentInfo {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.student
}

// commit replaces the collections and writes the changed ones through.
// It must be called with svc.mu held.
func (svc *Service) commit(cols records.Collections, changed ...string) {
	now := nowFunc().UTC()
	svc.cols = cols.Normalize()
	for _, key := range changed {
		switch key {
		case localstore.KeyAssignments:
			svc.local.Set(key, svc.cols.Assignments)
		case localstore.KeyAttendance:
			svc.local.Set(key, svc.cols.Attendance)
		case localstore.KeyJournal:
			svc.local.Set(key, svc.cols.Journal)
		}
	}
	if len(changed) > 0 {
		svc.local.Set(localstore.KeyUpdatedAt, now)
	}
	svc.mirror(svc.cols, now)
}

// localUpdatedAt returns the time of the latest local change, zero when unknown.
func (svc *Service) localUpdatedAt() time.Time {
	var t time.Time
	svc.local.Get(localstore.KeyUpdatedAt, &t)
	return t
}

// mirror persists `cols` remotely in the background.
// Writes are skipped while the mirror is disabled or in error.
func (svc *Service) mirror(cols records.Collections, updatedAt time.Time) {
	if !svc.remote.Enabled() {
		return
	}

	svc.statusMu.Lock()
	if svc.status == StatusError || svc.status == StatusDisabled {
		svc.statusMu.Unlock()
		return
	}
	svc.setStatus(StatusSyncing)
	svc.pending++
	svc.statusMu.Unlock()

	payload := records.Payload{Collections: cols, UpdatedAt: updatedAt}
	svc.wg.Add(1)
	svc.dispatch(func() {
		defer svc.wg.Done()
		err := svc.remote.Persist(context.Background(), payload)

		svc.statusMu.Lock()
		defer svc.statusMu.Unlock()
		svc.pending--
		if err != nil {
			svc.fail(err)
			return
		}
		if svc.pending == 0 && svc.status == StatusSyncing {
			svc.setStatus(StatusSynced)
		}
	})
}

// setStatus must be called with svc.statusMu held.
func (svc *Service) setStatus(to SyncStatus) bool {
	if !svc.status.CanTransition(to) {
		svc.logger.Warn(fmt.Sprintf("tracker: invalid sync transition %s -> %s", svc.status, to))
		return false
	}
	svc.status = to
	if to != StatusError {
		svc.syncErr = nil
	}
	observeStatus(to)
	return true
}

// fail must be called with svc.statusMu held.
func (svc *Service) fail(err error) {
	svc.logger.Error(fmt.Sprintf("tracker: remote sync failed: %v", err), err)
	if svc.setStatus(StatusError) {
		svc.syncErr = err
	}
}

func (svc *Service) SyncState() SyncState {
	svc.statusMu.Lock()
	defer svc.statusMu.Unlock()

	st := SyncState{Status: svc.status, Enabled: svc.remote.Enabled(), Pending: svc.pending}
	if svc.syncErr != nil {
		st.Error = svc.syncErr.Error()
	}
	return st
}
