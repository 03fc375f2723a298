// Package coerce holds the lenient conversions shared by the visibility,
// validation, and submission packages. Conversions never fail loudly: callers
// receive an ok flag and apply their own default.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// String renders value as a string. Nil becomes the empty string.
func String(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, ",")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(value)
	}
}

// Float parses raw as a finite float64 after trimming whitespace. NaN and
// the infinities are rejected since they have no JSON encoding.
func Float(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Blank reports whether raw is empty after trimming whitespace.
func Blank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// Empty treats nil, the empty string, and zero-length collections as
// empty. Whitespace-only strings are not empty.
func Empty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// CanonicalDateLayout is the wire format for date answers.
const CanonicalDateLayout = "2006-01-02"

var dateLayouts = []string{
	CanonicalDateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 2 2006",
}

// Date parses raw using the layouts date pickers and browsers commonly emit.
// Values carrying an offset are converted to UTC.
func Date(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
