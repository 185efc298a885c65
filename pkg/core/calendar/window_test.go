package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func ids(shifts []model.Shift) []model.ID {
	out := make([]model.ID, len(shifts))
	for i, s := range shifts {
		out[i] = s.ID
	}
	return out
}

func TestUpcomingWithinWindow_SevenDaysInclusiveAndSorted(t *testing.T) {
	shifts := []model.Shift{
		{ID: "after-window", Date: "2025-08-26"},
		{ID: "last-day", Date: "2025-08-25T06:00:00"},
		{ID: "yesterday", Date: "2025-08-17"},
		{ID: "today", Date: "2025-08-18"},
		{ID: "mid", Date: "2025-08-21"},
	}

	got := UpcomingWithinWindow(shifts, time.Date(2025, 8, 18, 14, 0, 0, 0, time.Local), 7, nil)

	assert.Equal(t, []model.ID{"today", "mid", "last-day"}, ids(got))
}

func TestUpcomingWithinWindow_SameDayKeepsInputOrder(t *testing.T) {
	shifts := []model.Shift{
		{ID: "b", Date: "2025-08-19"},
		{ID: "a1", Date: "2025-08-18"},
		{ID: "a2", Date: "2025-08-18T12:00:00"},
	}

	got := UpcomingWithinWindow(shifts, date(2025, time.August, 18), 7, nil)

	assert.Equal(t, []model.ID{"a1", "a2", "b"}, ids(got))
}

func TestUpcomingWithinWindow_ZeroDaysIsJustTheStartDay(t *testing.T) {
	shifts := []model.Shift{{ID: "today", Date: "2025-08-18"}, {ID: "tomorrow", Date: "2025-08-19"}}

	got := UpcomingWithinWindow(shifts, date(2025, time.August, 18), 0, nil)

	assert.Equal(t, []model.ID{"today"}, ids(got))
}

func TestUpcomingWithinWindow_SkipsMalformed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	shifts := []model.Shift{{ID: "bad", Date: "??"}, {ID: "ok", Date: "2025-08-19"}}
	got := UpcomingWithinWindow(shifts, date(2025, time.August, 18), 7, zap.New(core))

	assert.Equal(t, []model.ID{"ok"}, ids(got))
	assert.Equal(t, 1, logs.Len())
}

func TestTotalDurationInRange_SingleDayShift(t *testing.T) {
	shifts := []model.Shift{{ID: "s1", Date: "2025-08-18", StartTime: "07:00", EndTime: "15:00", Status: model.ShiftPublished}}

	hours := TotalDurationInRange(shifts, date(2025, time.August, 18), date(2025, time.August, 24), nil)

	assert.InDelta(t, 8.0, hours, 1e-9)
}

func TestTotalDurationInRange_ExcludesCancelledAndOutOfRange(t *testing.T) {
	shifts := []model.Shift{
		{ID: "in", Date: "2025-08-18", StartTime: "07:00", EndTime: "15:00"},
		{ID: "in-last-day", Date: "2025-08-24", StartTime: "09:00", EndTime: "13:30"},
		{ID: "cancelled", Date: "2025-08-19", StartTime: "07:00", EndTime: "15:00", Status: "CANCELLED"},
		{ID: "before", Date: "2025-08-17", StartTime: "07:00", EndTime: "15:00"},
		{ID: "after", Date: "2025-08-25", StartTime: "07:00", EndTime: "15:00"},
	}

	hours := TotalDurationInRange(shifts, date(2025, time.August, 18), date(2025, time.August, 24), nil)

	assert.InDelta(t, 12.5, hours, 1e-9)
}

func TestTotalDurationInRange_OvernightShiftWrapsMidnight(t *testing.T) {
	shifts := []model.Shift{{ID: "night", Date: "2025-08-18", StartTime: "22:00", EndTime: "06:00"}}

	hours := TotalDurationInRange(shifts, date(2025, time.August, 18), date(2025, time.August, 18), nil)

	assert.InDelta(t, 8.0, hours, 1e-9)
}

func TestTotalDurationInRange_SkipsUnparseableTimes(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	shifts := []model.Shift{
		{ID: "bad", Date: "2025-08-18", StartTime: "7am", EndTime: "3pm"},
		{ID: "good", Date: "2025-08-18", StartTime: "07:00:00", EndTime: "11:15:00"},
	}

	hours := TotalDurationInRange(shifts, date(2025, time.August, 18), date(2025, time.August, 18), zap.New(core))

	assert.InDelta(t, 4.25, hours, 1e-9)
	assert.Equal(t, 1, logs.Len())
}

func TestShiftHours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{"day shift", "07:00", "15:00", 8},
		{"half hour", "09:00", "09:30", 0.5},
		{"overnight", "22:00", "06:00", 8},
		{"ends at midnight", "16:00", "00:00", 8},
		{"equal times", "08:00", "08:00", 0},
		{"seconds", "08:00:00", "08:00:36", 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShiftHours(tt.start, tt.end)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestShiftHours_Invalid(t *testing.T) {
	_, err := ShiftHours("", "08:00")
	assert.Error(t, err)

	_, err = ShiftHours("08:00", "25:00")
	assert.Error(t, err)
}

func TestShiftBounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	day := time.Date(2025, 8, 18, 0, 0, 0, 0, loc)

	start, end, err := ShiftBounds(day, "09:00", "17:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 18, 9, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 8, 18, 17, 30, 0, 0, loc), end)

	start, end, err = ShiftBounds(day, "22:00", "06:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 18, 22, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 8, 19, 6, 0, 0, 0, loc), end)

	_, _, err = ShiftBounds(day, "9am", "17:00")
	assert.Error(t, err)
}

func TestUpcomingWithinWindow_MidnightDSTChange(t *testing.T) {
	loc := santiago(t)
	shifts := []model.Shift{
		{ID: "sun", Date: "2025-09-07"},
		{ID: "mon", Date: "2025-09-08"},
		{ID: "sat", Date: "2025-09-06"},
	}

	got := UpcomingWithinWindow(shifts, time.Date(2025, time.September, 6, 0, 0, 0, 0, loc), 1, nil)

	assert.Equal(t, []model.ID{"sat", "sun"}, ids(got))
}
