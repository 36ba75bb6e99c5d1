// Package remotestore mirrors the records into a single PostgreSQL row.
// A store opened without a database URL is disabled and every call is a no-op.
package remotestore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
)

// RowID is the id of the singleton state row.
const RowID = "primary"

const (
	fetchQuery   = `SELECT data, updated_at FROM homeschool_state WHERE id = $1`
	persistQuery = `INSERT INTO homeschool_state (id, data, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	nowFunc   = time.Now   // mockable
	sleepFunc = time.Sleep // mockable
)

const maxPingAttempts = 30

type row struct {
	Data      types.JSONText `db:"data"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type Store struct {
	db      *sqlx.DB // nil: disabled
	timeout time.Duration
}

// Open returns a disabled store when conf.DatabaseURL is empty.
// The connection is lazy: an unreachable database surfaces on the first call.
func Open(conf core.RemoteConfig) (*Store, error) {
	if conf.DatabaseURL == "" {
		return &Store{}, nil
	}
	db, err := sqlx.Open("postgres", conf.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening remote database")
	}
	db.SetMaxOpenConns(4)
	return NewStore(db, conf.Timeout), nil
}

func NewStore(db *sqlx.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) Enabled() bool { return s.db != nil }

// DB returns the underlying database, nil when disabled.
func (s *Store) DB() *sql.DB {
	if s.db == nil {
		return nil
	}
	return s.db.DB
}

// WaitReady waits for the database to accept connections. Waits 100ms longer between each attempt.
func (s *Store) WaitReady(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	var err error
	for attempts := 1; attempts <= maxPingAttempts; attempts++ {
		if err = s.db.PingContext(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		sleepFunc(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "remote database ping timeout")
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Fetch returns the mirrored records, or nil when nothing was mirrored yet.
func (s *Store) Fetch(ctx context.Context) (*records.Payload, error) {
	if !s.Enabled() {
		return nil, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var r row
	if err := s.db.GetContext(ctx, &r, fetchQuery, RowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "fetching remote state")
	}

	var payload records.Payload
	if err := r.Data.Unmarshal(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding remote state")
	}
	payload.Collections = payload.Collections.Normalize()
	payload.UpdatedAt = r.UpdatedAt
	return &payload, nil
}

// Persist replaces the mirrored records. A zero UpdatedAt defaults to now.
func (s *Store) Persist(ctx context.Context, payload records.Payload) error {
	if !s.Enabled() {
		return nil
	}
	if payload.UpdatedAt.IsZero() {
		payload.UpdatedAt = nowFunc()
	}
	payload.UpdatedAt = payload.UpdatedAt.UTC()
	payload.Collections = payload.Collections.Normalize()

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding remote state")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err = s.db.ExecContext(ctx, persistQuery, RowID, types.JSONText(data), payload.UpdatedAt); err != nil {
		return errors.Wrap(err, "persisting remote state")
	}
	return nil
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.Close()
}

// Migrate runs the goose `command` against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
