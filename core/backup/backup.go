// Package backup encodes and decodes the downloadable backup file.
package backup

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/records"
)

const filenamePrefix = "homeschool-backup-"

// File is the backup document. A nil collection means the key was absent from the file.
type File struct {
	Assignments []records.Assignment       `json:"assignments"`
	Attendance  []records.AttendanceRecord `json:"attendance"`
	Journal     []records.JournalEntry     `json:"journal"`
	ExportDate  time.Time                  `json:"exportDate"`
	StudentName string                     `json:"studentName,omitempty"`
	SchoolYear  string                     `json:"schoolYear,omitempty"`
}

// New snapshots `cols` into a backup file exported at `now`.
func New(cols records.Collections, studentName, schoolYear string, now time.Time) File {
	cols = cols.Normalize()
	return File{
		Assignments: cols.Assignments,
		Attendance:  cols.Attendance,
		Journal:     cols.Journal,
		ExportDate:  now.UTC(),
		StudentName: studentName,
		SchoolYear:  schoolYear,
	}
}

// Collections returns the collections of the file, nil when absent.
func (f File) Collections() records.Collections {
	return records.Collections{
		Assignments: f.Assignments,
		Attendance:  f.Attendance,
		Journal:     f.Journal,
	}
}

// Filename returns the download name of a backup exported at `t`.
func Filename(t time.Time) string {
	return filenamePrefix + core.DateKey(t) + ".json"
}

// Encode writes `f` as JSON, indented when `pretty` is set.
func Encode(w io.Writer, f File, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(f), "backup.Encode")
}

// Marshal returns the compact JSON encoding of `f`.
func Marshal(f File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, false); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses and schema checks a backup file.
// Unknown fields, invalid entries, duplicate ids and duplicate attendance dates
// are rejected with a *core.ValidationError.
func Decode(r io.Reader, validate *validator.Validate) (File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, core.NewValidationError(err, core.FieldError{Field: "file", Error: "invalid backup file: " + err.Error()})
	}
	if f.Assignments == nil && f.Attendance == nil && f.Journal == nil {
		return File{}, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "backup file contains no records"})
	}

	var flds []core.FieldError
	for i := range f.Assignments {
		flds = append(flds, check(validate, "assignments", i, &f.Assignments[i])...)
	}
	for i := range f.Attendance {
		f.Attendance[i].Clean()
		flds = append(flds, check(validate, "attendance", i, &f.Attendance[i])...)
	}
	for i := range f.Journal {
		if f.Journal[i].Tags == nil {
			f.Journal[i].Tags = []string{}
		}
		flds = append(flds, check(validate, "journal", i, &f.Journal[i])...)
	}
	if dups := records.DuplicateAssignmentIDs(f.Assignments); len(dups) > 0 {
		flds = append(flds, core.FieldError{Field: "assignments", Error: "duplicate ids: " + strings.Join(dups, ", ")})
	}
	if dups := records.DuplicateJournalIDs(f.Journal); len(dups) > 0 {
		flds = append(flds, core.FieldError{Field: "journal", Error: "duplicate ids: " + strings.Join(dups, ", ")})
	}
	if dups := records.DuplicateDates(f.Attendance); len(dups) > 0 {
		flds = append(flds, core.FieldError{Field: "attendance", Error: "duplicate dates: " + strings.Join(dups, ", ")})
	}
	if len(flds) > 0 {
		return File{}, core.NewValidationError(nil, flds...)
	}
	return f, nil
}

func check(validate *validator.Validate, coll string, idx int, v interface{}) []core.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []core.FieldError{{Field: coll, Error: err.Error()}}
	}
	prefix := coll + "[" + strconv.Itoa(idx) + "]."
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, core.FieldError{Field: prefix + vErr.Field(), Error: "failed " + vErr.Tag() + " validation"})
	}
	return flds
}
