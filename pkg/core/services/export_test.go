package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func propertyValue(evt *ics.VEvent, prop ics.ComponentProperty) string {
	p := evt.GetProperty(prop)
	if p == nil {
		return ""
	}
	return p.Value
}

func TestExportCalendarICS(t *testing.T) {
	export := CalendarExport{
		Name: "Ada's shifts",
		Shifts: []model.Shift{
			{ID: "1", Date: "2025-08-04", StartTime: "09:00", EndTime: "17:00", ShiftType: "Day", RequiredCount: 2},
			{ID: "2", Date: "2025-08-20", StartTime: "22:00", EndTime: "06:00", ShiftType: "Night", Status: model.ShiftCancelled},
			{ID: "3", Date: "not a date", StartTime: "09:00", EndTime: "17:00"},
		},
		TimeOff: []model.TimeOffRequest{
			{ID: "t1", StartDate: "2025-08-11", EndDate: "2025-08-13", Type: "HOLIDAY", Status: model.StatusApproved},
			{ID: "t2", StartDate: "2025-09-01", EndDate: "2025-09-02", Type: "HOLIDAY", Status: model.StatusRejected},
		},
		Location: time.UTC,
		Now:      time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	n, err := ExportCalendarICS(&buf, export, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	day := events[0]
	assert.Equal(t, "shift-1@shift-admin", day.Id())
	assert.Equal(t, "20250804T090000Z", propertyValue(day, ics.ComponentPropertyDtStart))
	assert.Equal(t, "20250804T170000Z", propertyValue(day, ics.ComponentPropertyDtEnd))
	assert.Equal(t, "Day 09:00-17:00", propertyValue(day, ics.ComponentPropertySummary))

	night := events[1]
	assert.Equal(t, "20250821T060000Z", propertyValue(night, ics.ComponentPropertyDtEnd))
	assert.Equal(t, "CANCELLED", propertyValue(night, ics.ComponentPropertyStatus))

	holiday := events[2]
	assert.Equal(t, "20250811", propertyValue(holiday, ics.ComponentPropertyDtStart))
	// exclusive end
	assert.Equal(t, "20250814", propertyValue(holiday, ics.ComponentPropertyDtEnd))
}

func TestExportCalendarICS_PointDatedTimeOff(t *testing.T) {
	export := CalendarExport{
		TimeOff: []model.TimeOffRequest{
			{ID: "t1", StartDate: "2025-08-11", Type: "SICK", Status: model.StatusPending},
			{ID: "t2", StartDate: "2025-08-15", EndDate: "2025-08-12", Type: "HOLIDAY", Status: model.StatusApproved},
		},
		Location: time.UTC,
		Now:      time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	n, err := ExportCalendarICS(&buf, export, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "20250811", propertyValue(events[0], ics.ComponentPropertyDtStart))
	assert.Equal(t, "20250812", propertyValue(events[0], ics.ComponentPropertyDtEnd))
	assert.Equal(t, "TENTATIVE", propertyValue(events[0], ics.ComponentPropertyStatus))
}

func TestExportScheduleXLSX(t *testing.T) {
	schedule := &MonthSchedule{
		DepartmentID:   "4",
		DepartmentName: "Kitchen",
		Month:          time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Shifts: []model.Shift{
			{ID: "1", Date: "2025-08-04", StartTime: "09:00", EndTime: "17:00", ShiftType: "Day", RequiredRoleName: "Chef", RequiredCount: 2},
			{ID: "2", Date: "2025-08-20", StartTime: "22:00", EndTime: "06:00", ShiftType: "Night", RequiredCount: 1},
			{ID: "3", Date: "2025-08-21", StartTime: "09:00", EndTime: "12:00", ShiftType: "Day", Status: model.ShiftCancelled},
		},
	}

	var buf bytes.Buffer
	sheet, err := ExportScheduleXLSX(&buf, schedule, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Kitchen 2025-08", sheet)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Kitchen 2025-08", "Month"}, f.GetSheetList())

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen - August 2025", title)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, scheduleColumns, rows[1])
	assert.Equal(t, []string{"2025-08-04", "Mon", "Day", "09:00", "17:00", "8", "Chef", "2", "published"}, rows[2])
	assert.Equal(t, "cancelled", rows[4][8])

	total, err := f.GetCellValue(sheet, "F6")
	require.NoError(t, err)
	assert.Equal(t, "16", total)

	// August 4th 2025 is the Monday of the second grid row
	cellText, err := f.GetCellValue("Month", "B3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cellText, "4\n"))
	assert.Contains(t, cellText, "Day · Chef 09:00-17:00")
}

func TestWorkbookSheetName(t *testing.T) {
	month := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Schedule 2025-08", workbookSheetName("", month))
	assert.Equal(t, "Front (Bar) 2025-08", workbookSheetName("Front [Bar]", month))

	long := workbookSheetName("Housekeeping and Laundry Services", month)
	assert.LessOrEqual(t, len([]rune(long)), 31)
	assert.True(t, strings.HasSuffix(long, " 2025-08"))
}

func TestBuildCalendarExport(t *testing.T) {
	api := &mockAPI{
		employees: []model.Employee{{ID: "42", FirstName: "Ada", LastName: "Lovelace"}},
		roster: []model.RosterAssignment{
			{ID: "r1", EmployeeID: "42", Shift: model.Shift{ID: "1", Date: "2025-08-04", StartTime: "09:00", EndTime: "17:00"}},
		},
		timeOff: []model.TimeOffRequest{{ID: "t1", StartDate: "2025-08-11", EndDate: "2025-08-13"}},
	}

	export, err := BuildCalendarExport(context.Background(), api, zap.NewNop(), "", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace - shifts", export.Name)
	require.Len(t, export.Shifts, 1)
	assert.Equal(t, model.ID("1"), export.Shifts[0].ID)
	assert.Len(t, export.TimeOff, 1)
	assert.Equal(t, time.UTC, export.Location)
}

func TestBuildCalendarExport_TimeOffFailure(t *testing.T) {
	api := &mockAPI{
		employees: []model.Employee{{ID: "42", FirstName: "Ada"}},
		errs:      map[string]error{"ListTimeOff": errors.New("timeout")},
	}

	_, err := BuildCalendarExport(context.Background(), api, zap.NewNop(), "42", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch time off")
}
