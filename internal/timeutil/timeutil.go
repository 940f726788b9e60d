// Package timeutil normalizes the timestamps Canvas returns into a single UTC form.
package timeutil

import (
	"time"
)

// Layout is the canonical form every normalized timestamp takes.
const Layout = "2006-01-02T15:04:05Z"

// layouts are tried in order. Layouts without a zone are read as UTC.
var layouts = []string{
	Layout,
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse reads s using the accepted layouts. The boolean is false when no layout matches.
func Parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Format renders t in the canonical layout, truncated to seconds.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Normalize converts a raw upstream value into the canonical layout.
// It returns nil for nil, unparseable strings and unsupported types.
func Normalize(v any) *string {
	var (
		t  time.Time
		ok bool
	)
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		t, ok = Parse(val)
	case *string:
		if val == nil {
			return nil
		}
		t, ok = Parse(*val)
	case time.Time:
		t, ok = val, true
	case *time.Time:
		if val == nil {
			return nil
		}
		t, ok = *val, true
	}
	if !ok {
		return nil
	}
	s := Format(t)
	return &s
}

// Now returns the current instant in the canonical layout.
func Now() string {
	return Format(time.Now())
}

// IsAfter reports whether value is strictly later than since.
//
// An empty since passes everything, as does a since that cannot be parsed.
// A missing or unparseable value never passes a non-empty since.
func IsAfter(value any, since string) bool {
	if since == "" {
		return true
	}
	sinceT, ok := Parse(since)
	if !ok {
		return true
	}
	normalized := Normalize(value)
	if normalized == nil {
		return false
	}
	t, ok := Parse(*normalized)
	if !ok {
		return false
	}
	return t.After(sinceT)
}
