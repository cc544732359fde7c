// Package validation holds the field-level validators run before any
// store mutation. All functions are total: malformed input yields
// false (or a typed Error), never a panic.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// phonePattern: optional leading +, a digit, 6-14 characters drawn
// from digits/hyphens/spaces, then a closing digit.
var phonePattern = regexp.MustCompile(`^\+?\d[\d\- ]{6,14}\d$`)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Error is a field-level validation failure surfaced to the caller.
// No partial write occurs when one is returned.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Errorf builds a validation Error for a field.
func Errorf(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NonEmptyText reports whether s contains non-whitespace content.
func NonEmptyText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Phone reports whether s is an acceptable phone number.
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}

// PositiveNumber reports whether s parses as a decimal number
// strictly greater than zero.
func PositiveNumber(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v > 0
}

// IntegerID reports whether the trimmed string is a base-10 integer.
// Zero and negative values pass here: existence is the store's
// concern, syntax is ours.
func IntegerID(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// CalendarDate reports whether s is a real Gregorian date in strict
// YYYY-MM-DD form. Overflow dates such as 2023-02-30 fail.
func CalendarDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	// time.Parse accepts some inputs it then normalizes; formatting
	// back guarantees the string named the date it denotes.
	return t.Format("2006-01-02") == s
}

// MonthToken reports whether s is a real year/month in strict
// YYYY-MM form.
func MonthToken(s string) bool {
	if !monthPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// MonthWindow expands a validated YYYY-MM token into the inclusive
// [first day, last day] reporting window.
func MonthWindow(month string) (start, end string, err error) {
	if !MonthToken(month) {
		return "", "", Errorf("month", "must be a real YYYY-MM month, got %q", month)
	}
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", Errorf("month", "must be a real YYYY-MM month, got %q", month)
	}
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}
