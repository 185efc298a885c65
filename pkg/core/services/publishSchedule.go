package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// ScheduleClient defines the API operations needed to assemble a department's month schedule
type ScheduleClient interface {
	CurrentSchedule(ctx context.Context, departmentID model.ID) ([]model.Shift, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

// SchedulePublisher defines the sheets operation needed to publish a schedule
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) (string, error)
}

// MonthSchedule is a department's shifts dated within one month, ordered by date and start time
type MonthSchedule struct {
	DepartmentID   model.ID
	DepartmentName string
	Month          time.Time // midnight on the 1st in the display zone
	Shifts         []model.Shift
}

// BuildMonthSchedule fetches the department's schedule and keeps the shifts dated in ref's month.
// Department and role names are filled in when they can be looked up; a failed lookup
// only costs the names.
func BuildMonthSchedule(
	ctx context.Context,
	client ScheduleClient,
	logger *zap.Logger,
	departmentID model.ID,
	ref time.Time,
) (*MonthSchedule, error) {
	logger = logging.OrNop(logger)
	month := calendar.FirstOfMonth(ref, 0)
	logger.Debug("Building month schedule",
		zap.String("department_id", departmentID.String()),
		zap.String("month", month.Format("2006-01")))

	shifts, err := client.CurrentSchedule(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	type dated struct {
		shift model.Shift
		date  time.Time
	}
	var inMonth []dated
	for _, s := range shifts {
		date, err := calendar.ParseRecordDate(s.Date, month.Location())
		if err != nil {
			logger.Warn("Skipping shift with unusable date", zap.String("id", s.ID.String()), zap.String("date", s.Date), zap.Error(err))
			continue
		}
		if date.Year() == month.Year() && date.Month() == month.Month() {
			inMonth = append(inMonth, dated{shift: s, date: date})
		}
	}
	sort.SliceStable(inMonth, func(i, j int) bool {
		if !inMonth[i].date.Equal(inMonth[j].date) {
			return inMonth[i].date.Before(inMonth[j].date)
		}
		return inMonth[i].shift.StartTime < inMonth[j].shift.StartTime
	})

	schedule := &MonthSchedule{
		DepartmentID: departmentID,
		Month:        month,
		Shifts:       make([]model.Shift, len(inMonth)),
	}
	for i, d := range inMonth {
		schedule.Shifts[i] = d.shift
	}

	if departmentID == "" && len(schedule.Shifts) > 0 {
		schedule.DepartmentID = schedule.Shifts[0].DepartmentID
	}
	schedule.DepartmentName = departmentName(ctx, client, logger, schedule)
	fillRoleNames(ctx, client, logger, schedule.Shifts)

	logger.Debug("Built month schedule", zap.String("department", schedule.DepartmentName), zap.Int("shifts", len(schedule.Shifts)))
	return schedule, nil
}

// PublishSchedule writes a department's month schedule to a tab of the schedule spreadsheet.
// Returns the tab title.
func PublishSchedule(
	ctx context.Context,
	client ScheduleClient,
	publisher SchedulePublisher,
	logger *zap.Logger,
	spreadsheetID string,
	departmentID model.ID,
	ref time.Time,
) (string, error) {
	logger = logging.OrNop(logger)
	if spreadsheetID == "" {
		return "", fmt.Errorf("no schedule spreadsheet configured (scheduleSheetID)")
	}

	schedule, err := BuildMonthSchedule(ctx, client, logger, departmentID, ref)
	if err != nil {
		return "", err
	}

	published := &sheetsclient.PublishedSchedule{
		Department: schedule.DepartmentName,
		Month:      schedule.Month,
		Rows:       make([]sheetsclient.PublishedScheduleRow, 0, len(schedule.Shifts)),
	}
	for _, s := range schedule.Shifts {
		date, _ := calendar.ParseRecordDate(s.Date, schedule.Month.Location())
		status := string(s.Status)
		if status == "" {
			status = string(model.ShiftPublished)
		}
		published.Rows = append(published.Rows, sheetsclient.PublishedScheduleRow{
			Date:          date,
			ShiftType:     s.ShiftType,
			StartTime:     s.StartTime,
			EndTime:       s.EndTime,
			Role:          s.RequiredRoleName,
			RequiredCount: s.RequiredCount,
			Status:        status,
		})
	}

	tab, err := publisher.PublishSchedule(ctx, spreadsheetID, published)
	if err != nil {
		return "", fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("tab", tab), zap.Int("rows", len(published.Rows)))
	return tab, nil
}

func departmentName(ctx context.Context, client ScheduleClient, logger *zap.Logger, schedule *MonthSchedule) string {
	for _, s := range schedule.Shifts {
		if s.DepartmentName != "" {
			return s.DepartmentName
		}
	}

	fallback := schedule.DepartmentID.String()
	if fallback == "" {
		fallback = "Schedule"
	}

	departments, err := client.ListDepartments(ctx)
	if err != nil {
		logger.Warn("Failed to fetch departments, using id as name", zap.Error(err))
		return fallback
	}
	for _, d := range departments {
		if d.ID == schedule.DepartmentID {
			return d.Name
		}
	}
	return fallback
}

func fillRoleNames(ctx context.Context, client ScheduleClient, logger *zap.Logger, shifts []model.Shift) {
	missing := false
	for _, s := range shifts {
		if s.RequiredRoleID != "" && s.RequiredRoleName == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	roles, err := client.ListRoles(ctx)
	if err != nil {
		logger.Warn("Failed to fetch roles, leaving role names empty", zap.Error(err))
		return
	}
	names := make(map[model.ID]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	for i := range shifts {
		if shifts[i].RequiredRoleName == "" {
			shifts[i].RequiredRoleName = names[shifts[i].RequiredRoleID]
		}
	}
}
