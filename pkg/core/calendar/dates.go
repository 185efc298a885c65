// Package calendar turns dated records into month grids and answers
// "which records apply to this day" queries. It performs no I/O.
//
// All comparisons are by calendar day in a display time zone. The zone is
// taken from the time.Time arguments callers pass in (the reference month,
// the query day, the window start), so the same record can be materialized
// for viewers in different zones without any package state.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Wall-clock layouts without a zone; interpreted in the display zone
var localLayouts = []string{
	dateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseRecordDate parses a stored record date into the start of its calendar day in loc.
// It accepts a plain YYYY-MM-DD, a timestamp without zone (taken as wall clock in loc),
// and RFC3339 (converted into loc before the day is taken).
func ParseRecordDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	// Wall-clock fields are read in UTC so a time skipped by a DST change in loc keeps its day
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayIn(t, loc), nil
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return StartOfDay(t.In(loc)), nil
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// StartOfDay returns the first instant of t's calendar day in t's location.
// Where a DST change skips midnight (America/Santiago, Asia/Beirut) that is the
// first wall-clock hour that exists, never a time on the previous day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	for !SameDay(start, t) {
		start = start.Add(time.Hour)
	}
	return start
}

// dayIn returns the start of t's calendar day, as read in t's own location, in loc
func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return StartOfDay(time.Date(y, m, d, 12, 0, 0, 0, loc))
}

// AddDays returns the start of the calendar day n days after t's day
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// noon is never skipped by a DST change
	return StartOfDay(time.Date(y, m, d+n, 12, 0, 0, 0, t.Location()))
}

// FirstOfMonth returns the start of the 1st of the month n months after t's month
func FirstOfMonth(t time.Time, n int) time.Time {
	return StartOfDay(time.Date(t.Year(), t.Month()+time.Month(n), 1, 12, 0, 0, 0, t.Location()))
}

// compareDays orders a and b by calendar day only, each in its own location
func compareDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return cmpInt(ay, by)
	case am != bm:
		return cmpInt(int(am), int(bm))
	default:
		return cmpInt(ad, bd)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SameDay reports whether a and b fall on the same calendar day, each in its own location
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight
func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("unrecognised time of day %q", s)
}
