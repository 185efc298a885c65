package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/core/services"
)

func TestEntryColor(t *testing.T) {
	tests := []struct {
		name     string
		record   calendar.Record
		expected string
	}{
		{"published shift", model.Shift{Status: model.ShiftPublished}, colorGreen},
		{"shift without status", model.Shift{}, colorGreen},
		{"draft shift", model.Shift{Status: model.ShiftDraft}, colorYellow},
		{"cancelled shift", model.Shift{Status: "CANCELED"}, colorDim},
		{"available", model.AvailabilityEntry{Type: model.AvailabilityAvailable}, colorCyan},
		{"preferred", model.AvailabilityEntry{Type: model.AvailabilityPreferred, Approved: model.ApprovalApproved}, colorCyan},
		{"unavailable", model.AvailabilityEntry{Type: model.AvailabilityUnavailable}, colorRed},
		{"rejected availability", model.AvailabilityEntry{Type: model.AvailabilityUnavailable, Approved: model.ApprovalRejected}, colorDim},
		{"pending time off", model.TimeOffRequest{Status: model.StatusPending}, colorMagenta},
		{"rejected time off", model.TimeOffRequest{Status: "rejected"}, colorDim},
		{"other record", model.ShiftSwapRequest{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, entryColor(tt.record))
		})
	}
}

func TestApprovalColor(t *testing.T) {
	assert.Equal(t, colorGreen, approvalColor(model.ApprovalApproved))
	assert.Equal(t, colorRed, approvalColor(model.ApprovalRejected))
	assert.Equal(t, colorYellow, approvalColor(model.ApprovalPending))
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"pads short text", "Day", 6, "Day   "},
		{"exact width", "Night", 5, "Night"},
		{"truncates with ellipsis", "Housekeeping", 6, "House…"},
		{"counts runes not bytes", "Day · Chef", 12, "Day · Chef  "},
		{"width one", "Night", 1, "N"},
		{"empty", "", 3, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, padRight(tt.input, tt.width))
		})
	}
}

func TestColored(t *testing.T) {
	assert.Equal(t, "plain", colored("", "plain"))
	assert.Equal(t, colorRed+"x"+colorReset, colored(colorRed, "x"))
}

func TestParseMonth(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	month, err := parseMonth("2025-08", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, loc), month)

	current, err := parseMonth("", loc)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Day())
	assert.Equal(t, loc, current.Location())

	_, err = parseMonth("08/2025", loc)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	day, err := parseDate("2025-08-04", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDate("4 Aug", time.UTC)
	assert.Error(t, err)
}

func TestParseDecision(t *testing.T) {
	for _, s := range []string{"approve", "Approved", "yes", "TRUE"} {
		approve, err := parseDecision(s)
		require.NoError(t, err, s)
		assert.True(t, approve, s)
	}
	for _, s := range []string{"reject", "rejected", "no", "false"} {
		approve, err := parseDecision(s)
		require.NoError(t, err, s)
		assert.False(t, approve, s)
	}
	_, err := parseDecision("maybe")
	assert.Error(t, err)
}

func TestDayCellLine_OverflowShowsMore(t *testing.T) {
	day := calendar.Day{
		Date:    time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		InMonth: true,
		Entries: []calendar.Record{
			model.Shift{ShiftType: "Early", StartTime: "06:00", EndTime: "14:00"},
			model.Shift{ShiftType: "Late", StartTime: "14:00", EndTime: "22:00"},
			model.Shift{ShiftType: "Night", StartTime: "22:00", EndTime: "06:00"},
			model.TimeOffRequest{Type: "HOLIDAY"},
		},
	}

	assert.Contains(t, dayCellLine(day, 0), "Early 06:00-14:00")
	assert.Contains(t, dayCellLine(day, 2), "+2 more")
	assert.Equal(t, strings.Repeat(" ", dayColWidth), dayCellLine(calendar.Day{}, 0))
}

func TestRenderMonth(t *testing.T) {
	shifts := []model.Shift{
		{ID: "1", Date: "2025-08-04", StartTime: "09:00", EndTime: "17:00", ShiftType: "Day"},
	}
	result := &services.CalendarResult{
		Month:  calendar.NewMonth(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), calendar.Records(shifts), nil),
		Shifts: shifts,
		Errors: map[services.CalendarSource]error{services.SourceAvailability: errors.New("forbidden")},
	}

	var buf bytes.Buffer
	renderMonth(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "August 2025")
	assert.Contains(t, out, "Day 09:00-17:00")
	assert.Contains(t, out, "Could not load availability: forbidden")
	assert.Contains(t, out, "Legend:")
	// six week rows, each followed by a separator, plus the header separator
	assert.Equal(t, 7, strings.Count(out, strings.Repeat("-", dayColWidth*7)))
}
