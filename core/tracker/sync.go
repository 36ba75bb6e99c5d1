package tracker

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core/records"
	localstore "github.com/trezcool/homeschool/storage/local"
)

// Load reads the local records then reconciles them with the remote mirror.
// A remote failure keeps the local state and leaves the mirror in error until Refresh.
func (svc *Service) Load(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	cols := records.Collections{}.Normalize()
	svc.local.Get(localstore.KeyAssignments, &cols.Assignments)
	svc.local.Get(localstore.KeyAttendance, &cols.Attendance)
	svc.local.Get(localstore.KeyJournal, &cols.Journal)
	svc.cols = cols.Normalize()

	student := svc.defaultStudent
	if svc.local.Get(localstore.KeyStudentInfo, &student) {
		svc.student = student
	} else {
		svc.student = svc.defaultStudent
	}

	if !svc.remote.Enabled() {
		return nil
	}
	return svc.reconcile(ctx)
}

// Refresh reloads from the remote mirror. It is the only way out of the error status.
func (svc *Service) Refresh(ctx context.Context) error {
	if !svc.remote.Enabled() {
		return nil
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.reconcile(ctx)
}

// reconcile applies last writer wins between the local records and the mirrored row:
// the row is adopted unless the local records changed after it was written,
// in which case (or when there is no row) the local records are pushed.
// It must be called with svc.mu held.
func (svc *Service) reconcile(ctx context.Context) error {
	svc.statusMu.Lock()
	svc.setStatus(StatusLoading)
	svc.statusMu.Unlock()

	payload, err := svc.remote.Fetch(ctx)
	if err != nil {
		return svc.syncFailed(errors.Wrap(err, "loading remote state"))
	}

	if payload != nil && !svc.localUpdatedAt().After(payload.UpdatedAt) {
		svc.cols = payload.Collections.Normalize()
		svc.local.Set(localstore.KeyAssignments, svc.cols.Assignments)
		svc.local.Set(localstore.KeyAttendance, svc.cols.Attendance)
		svc.local.Set(localstore.KeyJournal, svc.cols.Journal)
		svc.local.Set(localstore.KeyUpdatedAt, payload.UpdatedAt.UTC())

		svc.statusMu.Lock()
		svc.setStatus(StatusSynced)
		svc.statusMu.Unlock()
		return nil
	}

	svc.statusMu.Lock()
	svc.setStatus(StatusSyncing)
	svc.statusMu.Unlock()

	now := nowFunc().UTC()
	if err = svc.remote.Persist(ctx, records.Payload{Collections: svc.cols, UpdatedAt: now}); err != nil {
		return svc.syncFailed(errors.Wrap(err, "pushing local state"))
	}
	svc.local.Set(localstore.KeyUpdatedAt, now)

	svc.statusMu.Lock()
	svc.setStatus(StatusSynced)
	svc.statusMu.Unlock()
	return nil
}

func (svc *Service) syncFailed(err error) error {
	svc.statusMu.Lock()
	defer svc.statusMu.Unlock()
	svc.fail(err)
	return err
}
