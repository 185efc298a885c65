package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// Record is anything that can be placed on a calendar.
// Point-dated records return the same value for start and end.
type Record interface {
	DateSpan() (start, end string)
}

// Labeled records provide a short description for calendar cells
type Labeled interface {
	Label() string
}

// Records widens a typed slice so collections of different record types can share one grid
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// span is a record's inclusive day range, both ends at the start of their day in the display zone
type span struct {
	start time.Time
	end   time.Time
}

// contains compares calendar days, not instants
func (s span) contains(day time.Time) bool {
	return compareDays(day, s.start) >= 0 && compareDays(day, s.end) <= 0
}

// resolveSpan parses a record's dates in loc. An empty end means a point-dated record.
func resolveSpan(r Record, loc *time.Location) (span, error) {
	rawStart, rawEnd := r.DateSpan()
	return parseSpan(rawStart, rawEnd, loc)
}

func parseSpan(rawStart, rawEnd string, loc *time.Location) (span, error) {
	start, err := ParseRecordDate(rawStart, loc)
	if err != nil {
		return span{}, fmt.Errorf("invalid start date: %w", err)
	}

	end := start
	if rawEnd != "" && rawEnd != rawStart {
		end, err = ParseRecordDate(rawEnd, loc)
		if err != nil {
			return span{}, fmt.Errorf("invalid end date: %w", err)
		}
		if compareDays(end, start) < 0 {
			return span{}, fmt.Errorf("range ends %s before it starts %s", rawEnd, rawStart)
		}
	}

	return span{start: start, end: end}, nil
}

// DayRange parses an inclusive start/end date pair into the start of each day in loc.
// An empty end is a single day. Both values may be dates or timestamps.
func DayRange(rawStart, rawEnd string, loc *time.Location) (time.Time, time.Time, error) {
	s, err := parseSpan(rawStart, rawEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s.start, s.end, nil
}

// RangesOverlap reports whether two inclusive day ranges share at least one calendar day
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return compareDays(aStart, bEnd) <= 0 && compareDays(bStart, aEnd) <= 0
}

func warnSkipped(logger *zap.Logger, r Record, err error) {
	start, end := r.DateSpan()
	logger.Warn("Skipping record with unusable date",
		zap.String("start", start),
		zap.String("end", end),
		zap.String("type", fmt.Sprintf("%T", r)),
		zap.Error(err))
}

// RecordsOnDate returns the records that apply to day, in input order.
// Point-dated records match when their calendar day equals day's calendar day, regardless of
// any time-of-day in the stored value. Ranged records match when start <= day <= end.
// The display zone is day's location. Records with malformed dates are skipped and logged.
func RecordsOnDate[T Record](day time.Time, records []T, logger *zap.Logger) []T {
	logger = logging.OrNop(logger)
	target := StartOfDay(day)

	var matches []T
	for _, r := range records {
		s, err := resolveSpan(r, target.Location())
		if err != nil {
			warnSkipped(logger, r, err)
			continue
		}
		if s.contains(target) {
			matches = append(matches, r)
		}
	}
	return matches
}
