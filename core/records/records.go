// Package records holds the mutable homeschool records: graded assignments,
// daily attendance and the teacher journal, together with the pure functions
// that derive a new collection from an old one on every change.
package records

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	newID = uuid.NewString // mockable

	// errors
	ErrNotFound = errors.New("record not found")
)

// Collections groups the three persisted record collections.
type Collections struct {
	Assignments []Assignment       `json:"assignments"`
	Attendance  []AttendanceRecord `json:"attendance"`
	Journal     []JournalEntry     `json:"journal"`
}

// Normalize replaces nil collections with empty ones so they encode as `[]`.
func (c Collections) Normalize() Collections {
	if c.Assignments == nil {
		c.Assignments = []Assignment{}
	}
	if c.Attendance == nil {
		c.Attendance = []AttendanceRecord{}
	}
	if c.Journal == nil {
		c.Journal = []JournalEntry{}
	}
	return c
}

func (c Collections) IsEmpty() bool {
	return len(c.Assignments) == 0 && len(c.Attendance) == 0 && len(c.Journal) == 0
}

// Payload is the remote mirror of the collections.
type Payload struct {
	Collections
	UpdatedAt time.Time `json:"updated_at"`
}

// duplicates returns the keys appearing more than once in `keys`, in order of first repetition.
func duplicates(keys []string) []string {
	seen := make(map[string]int, len(keys))
	dups := make([]string, 0)
	for _, k := range keys {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
