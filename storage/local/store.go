// Package localstore is the local key-value persistence of JSON documents.
// Reads never fail: missing or corrupt data leaves the caller's default in place.
// Writes never fail either: errors are logged and counted.
package localstore

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/homeschool/core"
)

// Storage keys
const (
	KeyAssignments = "assignments"
	KeyAttendance  = "attendance"
	KeyJournal     = "journal"
	KeyStudentInfo = "student_info"
	KeyLastBackup  = "last_backup"
	KeyAutoBackup  = "auto_backup"
	KeyErrorBackup = "error_backup"
	KeyUpdatedAt   = "updated_at" // time of the latest change to the collections
)

var (
	// errors
	ErrNotExist      = errors.New("key does not exist")
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	writeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homeschool",
		Subsystem: "local_store",
		Name:      "write_failures_total",
		Help:      "Number of local writes that failed and were dropped.",
	}, []string{"key"})
)

// Backend stores raw values by key.
type Backend interface {
	// Read returns ErrNotExist when `key` is not stored.
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
}

type Store struct {
	backend Backend
	logger  core.Logger
}

func NewStore(backend Backend, logger core.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Get decodes the value stored at `key` into `v`, which must be a non-nil pointer.
// It reports whether `v` was set; on missing or corrupt data `v` is left untouched.
func (s *Store) Get(key string, v interface{}) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		s.logger.Error(fmt.Sprintf("localstore.Get(%s): non-pointer %T", key, v))
		return false
	}

	data, err := s.backend.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			s.logger.Error(fmt.Sprintf("localstore.Get(%s): %v", key, err), err)
		}
		return false
	}

	decoded := reflect.New(rv.Elem().Type())
	if err = json.Unmarshal(data, decoded.Interface()); err != nil {
		s.logger.Warn(fmt.Sprintf("localstore.Get(%s): corrupt data: %v", key, err), err)
		return false
	}
	rv.Elem().Set(decoded.Elem())
	return true
}

// Raw returns the bytes stored at `key`, corrupt or not.
func (s *Store) Raw(key string) ([]byte, bool) {
	data, err := s.backend.Read(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set encodes `v` and stores it at `key`. It reports whether the write succeeded.
func (s *Store) Set(key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.backend.Write(key, data)
	}
	if err != nil {
		writeFailures.WithLabelValues(key).Inc()
		s.logger.Error(fmt.Sprintf("localstore.Set(%s): %v", key, err), err)
		return false
	}
	return true
}

func (s *Store) Remove(key string) {
	if err := s.backend.Delete(key); err != nil && !errors.Is(err, ErrNotExist) {
		s.logger.Error(fmt.Sprintf("localstore.Remove(%s): %v", key, err), err)
	}
}
