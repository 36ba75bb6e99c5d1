package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/backup"
)

var (
	nowFunc = time.Now // mockable

	backupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homeschool",
		Subsystem: "auto_backup",
		Name:      "runs_total",
		Help:      "Number of automatic backups by result.",
	}, []string{"result"})
)

// Uploader copies a backup file off the machine.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) error
}

// AutoBackup periodically snapshots the records into the `auto_backup` key.
type AutoBackup struct {
	store    *Store
	snapshot func() backup.File
	interval time.Duration
	uploader Uploader // optional
	logger   core.Logger
}

func NewAutoBackup(store *Store, snapshot func() backup.File, interval time.Duration, uploader Uploader, logger core.Logger) *AutoBackup {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AutoBackup{
		store:    store,
		snapshot: snapshot,
		interval: interval,
		uploader: uploader,
		logger:   logger,
	}
}

// Run backs up immediately, then every interval until `ctx` is done.
func (ab *AutoBackup) Run(ctx context.Context) {
	ticker := time.NewTicker(ab.interval)
	defer ticker.Stop()

	for {
		if err := ab.Backup(ctx); err != nil {
			ab.logger.Warn(fmt.Sprintf("auto backup failed: %v", err), err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Backup writes one snapshot and records its time.
func (ab *AutoBackup) Backup(ctx context.Context) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		backupsTotal.WithLabelValues(result).Inc()
	}()

	f := ab.snapshot()
	now := nowFunc().UTC()
	if !ab.store.Set(KeyAutoBackup, f) {
		return errors.New("writing " + KeyAutoBackup)
	}
	ab.store.Set(KeyLastBackup, now)

	if ab.uploader != nil {
		data, err := backup.Marshal(f)
		if err != nil {
			return err
		}
		if err = ab.uploader.Upload(ctx, backup.Filename(now), data); err != nil {
			return errors.Wrap(err, "uploading backup")
		}
	}
	return nil
}

// LastBackup returns the time of the latest backup, zero when there was none.
func (s *Store) LastBackup() time.Time {
	var t time.Time
	s.Get(KeyLastBackup, &t)
	return t
}
