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

// RosterClient defines the API operation needed to find an employee's assigned shifts
type RosterClient interface {
	ListRosterAssignments(ctx context.Context, employeeID model.ID) ([]model.RosterAssignment, error)
}

// UpcomingShifts returns the shifts assigned to an employee dated within
// [from, from+days], soonest first. An empty employeeID means the session employee.
func UpcomingShifts(
	ctx context.Context,
	client RosterClient,
	logger *zap.Logger,
	employeeID model.ID,
	from time.Time,
	days int,
) ([]model.Shift, error) {
	logger = logging.OrNop(logger)
	if days <= 0 {
		return nil, fmt.Errorf("window must be at least one day, got %d", days)
	}

	logger.Debug("Starting upcomingShifts",
		zap.String("employee_id", employeeID.String()),
		zap.Time("from", from),
		zap.Int("days", days))

	shifts, err := assignedShifts(ctx, client, employeeID)
	if err != nil {
		return nil, err
	}

	upcoming := calendar.UpcomingWithinWindow(shifts, from, days, logger)
	logger.Debug("Found upcoming shifts", zap.Int("assigned", len(shifts)), zap.Int("upcoming", len(upcoming)))

	return upcoming, nil
}

// assignedShifts returns the shifts of an employee's roster assignments
func assignedShifts(ctx context.Context, client RosterClient, employeeID model.ID) ([]model.Shift, error) {
	assignments, err := client.ListRosterAssignments(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster assignments: %w", err)
	}

	shifts := make([]model.Shift, 0, len(assignments))
	for _, a := range assignments {
		shifts = append(shifts, a.Shift)
	}
	return shifts, nil
}
