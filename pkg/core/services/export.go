package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

const icsProductID = "-//shift-admin//schedule export//EN"

// CalendarExport is what goes into an iCalendar file
type CalendarExport struct {
	Name     string
	Shifts   []model.Shift
	TimeOff  []model.TimeOffRequest
	Location *time.Location // zone the stored dates and times are read in
	Now      time.Time      // DTSTAMP of every event
}

// ExportSourceClient defines the API operations needed to export an employee's calendar
type ExportSourceClient interface {
	RosterClient
	GetEmployee(ctx context.Context, id model.ID) (*model.Employee, error)
	ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error)
}

// BuildCalendarExport collects an employee's assigned shifts and time off.
// An empty employeeID means the session employee.
func BuildCalendarExport(
	ctx context.Context,
	client ExportSourceClient,
	logger *zap.Logger,
	employeeID model.ID,
	loc *time.Location,
) (*CalendarExport, error) {
	logger = logging.OrNop(logger)
	employee, err := client.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}
	if employeeID == "" {
		employeeID = employee.ID
	}

	shifts, err := assignedShifts(ctx, client, employeeID)
	if err != nil {
		return nil, err
	}

	timeOff, err := client.ListTimeOff(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time off: %w", err)
	}

	logger.Debug("Collected calendar export",
		zap.String("employee_id", employeeID.String()),
		zap.Int("shifts", len(shifts)),
		zap.Int("time_off", len(timeOff)))

	return &CalendarExport{
		Name:     fmt.Sprintf("%s - shifts", employee.FullName()),
		Shifts:   shifts,
		TimeOff:  timeOff,
		Location: loc,
	}, nil
}

// ExportCalendarICS writes shifts as timed events and time off as all-day events.
// Cancelled shifts are exported with a cancelled status; rejected time off is left out.
// Records with unusable dates or times are skipped and logged. Returns the number of events written.
func ExportCalendarICS(w io.Writer, export CalendarExport, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger)
	loc := export.Location
	if loc == nil {
		loc = time.Local
	}
	now := export.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if export.Name != "" {
		cal.SetName(export.Name)
		cal.SetXWRCalName(export.Name)
	}

	events := 0
	for _, s := range export.Shifts {
		day, err := calendar.ParseRecordDate(s.Date, loc)
		if err != nil {
			logger.Warn("Skipping shift with unusable date", zap.String("id", s.ID.String()), zap.String("date", s.Date), zap.Error(err))
			continue
		}
		start, end, err := calendar.ShiftBounds(day, s.StartTime, s.EndTime)
		if err != nil {
			logger.Warn("Skipping shift with unusable times", zap.String("id", s.ID.String()), zap.Error(err))
			continue
		}

		event := cal.AddEvent(shiftUID(s, day))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(s.Label())
		if desc := shiftDescription(s); desc != "" {
			event.SetDescription(desc)
		}
		if s.DepartmentName != "" {
			event.SetLocation(s.DepartmentName)
		}
		if s.IsCancelled() {
			event.SetStatus(ics.ObjectStatusCancelled)
		} else {
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
		events++
	}

	for _, r := range export.TimeOff {
		approval := r.Status.Approval()
		if approval == model.ApprovalRejected {
			continue
		}
		// An empty end is a single day, as on the calendar grid
		first, last, err := calendar.DayRange(r.StartDate, r.EndDate, loc)
		if err != nil {
			logger.Warn("Skipping time off with unusable dates",
				zap.String("id", r.ID.String()),
				zap.String("start", r.StartDate),
				zap.String("end", r.EndDate),
				zap.Error(err))
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("timeoff-%s-%s@shift-admin", r.ID, r.StartDate))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(first)
		// DTEND is exclusive for all-day events
		event.SetAllDayEndAt(calendar.AddDays(last, 1))
		event.SetSummary(r.Label())
		if r.Reason != "" {
			event.SetDescription(r.Reason)
		}
		if approval == model.ApprovalPending {
			event.SetStatus(ics.ObjectStatusTentative)
		} else {
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
		events++
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("failed to write calendar: %w", err)
	}

	logger.Debug("Exported calendar", zap.Int("events", events))
	return events, nil
}

func shiftUID(s model.Shift, day time.Time) string {
	if s.ID != "" {
		return fmt.Sprintf("shift-%s@shift-admin", s.ID)
	}
	key := strings.NewReplacer(" ", "-", ":", "").Replace(fmt.Sprintf("%s-%s-%s", day.Format("20060102"), s.StartTime, s.ShiftType))
	return fmt.Sprintf("shift-%s@shift-admin", key)
}

func shiftDescription(s model.Shift) string {
	var parts []string
	if s.RequiredCount > 0 {
		parts = append(parts, fmt.Sprintf("Required staff: %d", s.RequiredCount))
	}
	if s.Notes != "" {
		parts = append(parts, s.Notes)
	}
	return strings.Join(parts, "\n")
}

var scheduleColumns = []string{"Date", "Day", "Shift", "Start", "End", "Hours", "Role", "Required", "Status"}

// ExportScheduleXLSX writes a month schedule as a workbook with a row-per-shift sheet and
// a month grid sheet. Returns the name of the schedule sheet.
func ExportScheduleXLSX(w io.Writer, schedule *MonthSchedule, logger *zap.Logger) (string, error) {
	logger = logging.OrNop(logger)
	f := excelize.NewFile()
	defer f.Close()

	sheetName := workbookSheetName(schedule.DepartmentName, schedule.Month)
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}
	cancelledStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Strike: true, Color: "#808080"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create cancelled style: %w", err)
	}

	title := fmt.Sprintf("%s - %s", schedule.DepartmentName, schedule.Month.Format("January 2006"))
	lastCol := colName(len(scheduleColumns) - 1)
	f.SetCellValue(sheetName, "A1", title)
	if err := f.MergeCell(sheetName, "A1", cell(lastCol, 1)); err != nil {
		return "", fmt.Errorf("failed to merge title: %w", err)
	}
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	for i, name := range scheduleColumns {
		f.SetCellValue(sheetName, cell(colName(i), 2), name)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 6)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "G", "G", 18)

	loc := schedule.Month.Location()
	row := 3
	var totalHours float64
	for _, s := range schedule.Shifts {
		day, err := calendar.ParseRecordDate(s.Date, loc)
		if err != nil {
			logger.Warn("Skipping shift with unusable date", zap.String("id", s.ID.String()), zap.Error(err))
			continue
		}
		hours, err := calendar.ShiftHours(s.StartTime, s.EndTime)
		if err != nil {
			logger.Warn("Shift has unusable times, hours left blank", zap.String("id", s.ID.String()), zap.Error(err))
		}

		status := string(s.Status)
		if status == "" {
			status = string(model.ShiftPublished)
		}
		values := []interface{}{
			day.Format("2006-01-02"),
			day.Format("Mon"),
			s.ShiftType,
			s.StartTime,
			s.EndTime,
			hours,
			s.RequiredRoleName,
			s.RequiredCount,
			status,
		}
		if err := f.SetSheetRow(sheetName, cell("A", row), &values); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if s.IsCancelled() {
			f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), cancelledStyle)
		} else {
			totalHours += hours
		}
		row++
	}

	f.SetCellValue(sheetName, cell("E", row), "Total")
	f.SetCellValue(sheetName, cell("F", row), totalHours)

	if err := writeMonthGrid(f, schedule, headerStyle, logger); err != nil {
		return "", err
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Debug("Exported schedule workbook", zap.String("sheet", sheetName), zap.Int("shifts", row-3))
	return sheetName, nil
}

// writeMonthGrid adds a Sunday-first 6x7 grid with each day's shift labels
func writeMonthGrid(f *excelize.File, schedule *MonthSchedule, headerStyle int, logger *zap.Logger) error {
	const gridSheet = "Month"
	if _, err := f.NewSheet(gridSheet); err != nil {
		return fmt.Errorf("failed to create grid sheet: %w", err)
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create grid style: %w", err)
	}

	for i, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		f.SetCellValue(gridSheet, cell(colName(i), 1), day)
	}
	f.SetCellStyle(gridSheet, "A1", "G1", headerStyle)
	f.SetColWidth(gridSheet, "A", "G", 24)

	month := calendar.NewMonth(schedule.Month, calendar.Records(schedule.Shifts), logger)
	for w, week := range month.Weeks() {
		row := w + 2
		for d, day := range week {
			if !day.InMonth {
				continue
			}
			lines := []string{day.Date.Format("2")}
			for _, entry := range day.Entries {
				if labeled, ok := entry.(calendar.Labeled); ok {
					lines = append(lines, labeled.Label())
				}
			}
			f.SetCellValue(gridSheet, cell(colName(d), row), strings.Join(lines, "\n"))
		}
		f.SetRowHeight(gridSheet, row, 75)
	}
	f.SetCellStyle(gridSheet, "A2", "G7", wrapStyle)
	return nil
}

// workbookSheetName keeps within Excel's 31 character limit and reserved characters
func workbookSheetName(department string, month time.Time) string {
	name := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")").
		Replace(strings.TrimSpace(department))
	suffix := " " + month.Format("2006-01")
	if name == "" {
		name = "Schedule"
	}
	if runes := []rune(name); len(runes)+len(suffix) > 31 {
		name = strings.TrimSpace(string(runes[:31-len(suffix)]))
	}
	return name + suffix
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
