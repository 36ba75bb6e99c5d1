package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for every stored date (ISO 8601).
const DateLayout = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// DateKey returns the calendar date of `t` in DateLayout.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DateLayout date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SplitTags splits a comma separated list of labels, dropping blanks.
func SplitTags(s string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
