package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// HoursClient defines the API operations needed to total an employee's hours
type HoursClient interface {
	RosterClient
	GetEmployee(ctx context.Context, id model.ID) (*model.Employee, error)
}

// ScheduleHoursResult is an employee's scheduled hours over a date range,
// with the contract bounds scaled to the range when the employee has a contract
type ScheduleHoursResult struct {
	Employee    *model.Employee
	From        time.Time
	To          time.Time
	Hours       float64
	Weeks       float64
	HasContract bool
	MinHours    float64
	MaxHours    float64
}

// ContractStatus is "under", "over" or "within" the contract bounds, or "" without a contract
func (r *ScheduleHoursResult) ContractStatus() string {
	if !r.HasContract {
		return ""
	}
	switch {
	case r.Hours < r.MinHours:
		return "under"
	case r.MaxHours > 0 && r.Hours > r.MaxHours:
		return "over"
	default:
		return "within"
	}
}

// ScheduleHours totals the hours of the employee's non-cancelled assigned shifts dated within
// [from, to]. An empty employeeID means the session employee.
func ScheduleHours(
	ctx context.Context,
	client HoursClient,
	logger *zap.Logger,
	employeeID model.ID,
	from, to time.Time,
) (*ScheduleHoursResult, error) {
	logger = logging.OrNop(logger)
	from = calendar.StartOfDay(from)
	to = calendar.StartOfDay(to.In(from.Location()))
	if to.Before(from) {
		return nil, fmt.Errorf("range ends %s before it starts %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	logger.Debug("Starting scheduleHours",
		zap.String("employee_id", employeeID.String()),
		zap.Time("from", from),
		zap.Time("to", to))

	employee, err := client.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	// Roster lookups need a concrete id once the session employee is known
	if employeeID == "" {
		employeeID = employee.ID
	}

	shifts, err := assignedShifts(ctx, client, employeeID)
	if err != nil {
		return nil, err
	}

	days := int(to.Sub(from).Hours()/24+0.5) + 1
	result := &ScheduleHoursResult{
		Employee: employee,
		From:     from,
		To:       to,
		Hours:    calendar.TotalDurationInRange(shifts, from, to, logger),
		Weeks:    float64(days) / 7,
	}

	if ct := employee.ContractType; ct != nil {
		result.HasContract = true
		result.MinHours = ct.MinHoursPerWeek * result.Weeks
		result.MaxHours = ct.MaxHoursPerWeek * result.Weeks
	}

	logger.Debug("Calculated scheduled hours",
		zap.Float64("hours", result.Hours),
		zap.Float64("weeks", result.Weeks),
		zap.String("contract_status", result.ContractStatus()))

	return result, nil
}
