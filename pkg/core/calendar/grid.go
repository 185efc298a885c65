package calendar

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// GridDays is the size of a month view: 6 weeks of 7 days, whatever the month length
const GridDays = 42

// DaysInGrid returns the 42 dates of the month view containing ref, starting on the Sunday
// on or before the 1st. Each date is the start of its day in ref's location.
func DaysInGrid(ref time.Time) []time.Time {
	first := FirstOfMonth(ref, 0)
	offset := -int(first.Weekday())

	days := make([]time.Time, GridDays)
	for i := range days {
		days[i] = AddDays(first, offset+i)
	}
	return days
}

// Day is one cell of a month grid
type Day struct {
	Date    time.Time
	InMonth bool // false for leading/trailing days from adjacent months
	Entries []Record
}

// Month is a month view over a fixed set of records. Its days are computed on first use.
type Month struct {
	Year  int
	Month time.Month

	loc     *time.Location
	records []Record
	logger  *zap.Logger

	once sync.Once
	days []Day
}

// NewMonth creates the view for the month containing ref, in ref's location
func NewMonth(ref time.Time, records []Record, logger *zap.Logger) *Month {
	return &Month{
		Year:    ref.Year(),
		Month:   ref.Month(),
		loc:     ref.Location(),
		records: records,
		logger:  logging.OrNop(logger),
	}
}

// First returns the start of the 1st of the month
func (m *Month) First() time.Time {
	return FirstOfMonth(time.Date(m.Year, m.Month, 1, 12, 0, 0, 0, m.loc), 0)
}

// Next returns the following month over the same records
func (m *Month) Next() *Month {
	return NewMonth(FirstOfMonth(m.First(), 1), m.records, m.logger)
}

// Prev returns the preceding month over the same records
func (m *Month) Prev() *Month {
	return NewMonth(FirstOfMonth(m.First(), -1), m.records, m.logger)
}

// Days returns the 42 cells of the grid with their entries
func (m *Month) Days() []Day {
	m.once.Do(m.materialize)
	return m.days
}

// Weeks returns the grid as 6 rows of 7 days
func (m *Month) Weeks() [][]Day {
	days := m.Days()
	weeks := make([][]Day, 0, GridDays/7)
	for i := 0; i < len(days); i += 7 {
		weeks = append(weeks, days[i:i+7])
	}
	return weeks
}

// Day returns the grid cell for date, if it is on the grid
func (m *Month) Day(date time.Time) (Day, bool) {
	date = date.In(m.loc)
	for _, d := range m.Days() {
		if SameDay(d.Date, date) {
			return d, true
		}
	}
	return Day{}, false
}

func (m *Month) materialize() {
	// Resolve every record once; bad ones are dropped so the rest of the grid still renders
	type placed struct {
		record Record
		span   span
	}
	resolved := make([]placed, 0, len(m.records))
	for _, r := range m.records {
		s, err := resolveSpan(r, m.loc)
		if err != nil {
			warnSkipped(m.logger, r, err)
			continue
		}
		resolved = append(resolved, placed{record: r, span: s})
	}

	dates := DaysInGrid(m.First())
	days := make([]Day, len(dates))
	for i, date := range dates {
		day := Day{
			Date:    date,
			InMonth: date.Month() == m.Month && date.Year() == m.Year,
		}
		for _, p := range resolved {
			if p.span.contains(date) {
				day.Entries = append(day.Entries, p.record)
			}
		}
		days[i] = day
	}
	m.days = days
}
