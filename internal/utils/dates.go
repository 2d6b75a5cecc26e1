package utils

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for every check-in, check-out and
// cleaning date.  Dates are compared as strings, never as timestamps.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a value is not a YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Clock returns the current instant.  Services take a Clock so tests can pin "today".
type Clock func() time.Time

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the local calendar date for now in loc.  A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// Nights is ceil((checkOut - checkIn) / 1 day).  A check-out on or before the
// check-in yields zero or a negative count; callers decide whether that is valid.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return 0, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(out.Sub(in).Hours() / 24)), nil
}
