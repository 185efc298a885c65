package calendar

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// Schedulable is a record with a time-of-day window that can be cancelled, i.e. a shift
type Schedulable interface {
	Record
	TimeWindow() (start, end string)
	IsCancelled() bool
}

// UpcomingWithinWindow returns the records whose date falls in
// [windowStart, windowStart+windowDays] (whole days, inclusive), sorted ascending by date.
// Records on the same date keep their input order. Ranged records are placed by their start.
func UpcomingWithinWindow[T Record](records []T, windowStart time.Time, windowDays int, logger *zap.Logger) []T {
	logger = logging.OrNop(logger)
	from := StartOfDay(windowStart)
	to := AddDays(from, windowDays)

	type dated struct {
		record T
		date   time.Time
	}
	var inWindow []dated
	for _, r := range records {
		s, err := resolveSpan(r, from.Location())
		if err != nil {
			warnSkipped(logger, r, err)
			continue
		}
		if compareDays(s.start, from) >= 0 && compareDays(s.start, to) <= 0 {
			inWindow = append(inWindow, dated{record: r, date: s.start})
		}
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		return inWindow[i].date.Before(inWindow[j].date)
	})

	out := make([]T, len(inWindow))
	for i, d := range inWindow {
		out[i] = d.record
	}
	return out
}

// TotalDurationInRange sums the hours of non-cancelled shifts dated within
// [rangeStart, rangeEnd] (whole days, inclusive, in rangeStart's location).
// A shift whose end time is before its start time runs past midnight and is counted
// up to the end time on the following day. Shifts with unusable dates or times are
// skipped and logged.
func TotalDurationInRange[T Schedulable](shifts []T, rangeStart, rangeEnd time.Time, logger *zap.Logger) float64 {
	logger = logging.OrNop(logger)
	from := StartOfDay(rangeStart)
	to := StartOfDay(rangeEnd.In(from.Location()))

	var total float64
	for _, s := range shifts {
		if s.IsCancelled() {
			continue
		}

		sp, err := resolveSpan(s, from.Location())
		if err != nil {
			warnSkipped(logger, s, err)
			continue
		}
		if compareDays(sp.start, from) < 0 || compareDays(sp.start, to) > 0 {
			continue
		}

		startClock, endClock := s.TimeWindow()
		hours, err := ShiftHours(startClock, endClock)
		if err != nil {
			warnSkipped(logger, s, err)
			continue
		}
		total += hours
	}
	return total
}

// ShiftHours returns the length of a start/end time-of-day window in hours.
// An end before the start is an overnight shift and wraps by 24 hours; equal times are zero.
func ShiftHours(startClock, endClock string) (float64, error) {
	start, err := parseClock(startClock)
	if err != nil {
		return 0, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := parseClock(endClock)
	if err != nil {
		return 0, fmt.Errorf("invalid end time: %w", err)
	}

	d := end - start
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours(), nil
}

// ShiftBounds places a time-of-day window on day, returning absolute start and end times in day's
// location. An end before the start falls on the following day.
func ShiftBounds(day time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	start, err := parseClock(startClock)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := parseClock(endClock)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}

	midnight := StartOfDay(day)
	next := midnight
	if end < start {
		next = AddDays(midnight, 1)
	}
	// Date arithmetic keeps wall-clock times right across DST changes
	return wallClock(midnight, start), wallClock(next, end), nil
}

func wallClock(midnight time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	s := int(offset % time.Minute / time.Second)
	return time.Date(midnight.Year(), midnight.Month(), midnight.Day(), h, m, s, 0, midnight.Location())
}
