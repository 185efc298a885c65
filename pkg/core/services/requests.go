package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// ErrOverlappingTimeOff is returned when a time-off request overlaps one that is pending or approved
var ErrOverlappingTimeOff = errors.New("time off overlaps an existing request")

// AvailabilityRequester defines the API operation needed to submit availability
type AvailabilityRequester interface {
	CreateAvailability(ctx context.Context, req apiclient.AvailabilityRequest) (*model.AvailabilityEntry, error)
}

// TimeOffRequester defines the API operations needed to submit time off
type TimeOffRequester interface {
	ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error)
	CreateTimeOff(ctx context.Context, req apiclient.TimeOffPayload) (*model.TimeOffRequest, error)
}

// ShiftSwapRequester defines the API operation needed to offer a shift swap
type ShiftSwapRequester interface {
	CreateShiftSwap(ctx context.Context, req apiclient.ShiftSwapPayload) (*model.ShiftSwapRequest, error)
}

// RequestAvailability submits an availability entry. The entry starts pending.
func RequestAvailability(
	ctx context.Context,
	client AvailabilityRequester,
	logger *zap.Logger,
	req apiclient.AvailabilityRequest,
) (*model.AvailabilityEntry, error) {
	logger = logging.OrNop(logger)
	logger.Debug("Submitting availability",
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("date", req.AvailabilityDate),
		zap.String("type", string(req.Type)))

	entry, err := client.CreateAvailability(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}

	logger.Info("Availability submitted", zap.String("id", entry.ID.String()))
	return entry, nil
}

// RequestTimeOff submits a time-off request after checking it does not overlap
// the employee's pending or approved requests. Rejected requests are ignored.
func RequestTimeOff(
	ctx context.Context,
	client TimeOffRequester,
	logger *zap.Logger,
	req apiclient.TimeOffPayload,
) (*model.TimeOffRequest, error) {
	logger = logging.OrNop(logger)
	logger.Debug("Submitting time off",
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate))

	// Plain dates resolve to the same day in any zone; UTC only matters for zoned timestamps
	newStart, newEnd, err := calendar.DayRange(req.StartDate, req.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apiclient.ErrInvalidPayload, err)
	}

	existing, err := client.ListTimeOff(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing time off: %w", err)
	}

	for _, r := range existing {
		if r.Status.Approval() == model.ApprovalRejected {
			continue
		}
		start, end, err := calendar.DayRange(r.StartDate, r.EndDate, time.UTC)
		if err != nil {
			logger.Warn("Skipping existing time off with unusable dates",
				zap.String("id", r.ID.String()),
				zap.String("start", r.StartDate),
				zap.String("end", r.EndDate),
				zap.Error(err))
			continue
		}
		if calendar.RangesOverlap(start, end, newStart, newEnd) {
			return nil, fmt.Errorf("%w: %s to %s (%s)", ErrOverlappingTimeOff, r.StartDate, r.EndDate, r.Status.Approval())
		}
	}

	created, err := client.CreateTimeOff(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create time off: %w", err)
	}

	logger.Info("Time off submitted", zap.String("id", created.ID.String()))
	return created, nil
}

// RequestShiftSwap offers a shift to another employee, or to anyone when no target is given
func RequestShiftSwap(
	ctx context.Context,
	client ShiftSwapRequester,
	logger *zap.Logger,
	req apiclient.ShiftSwapPayload,
) (*model.ShiftSwapRequest, error) {
	logger = logging.OrNop(logger)
	if req.TargetEmployeeID != "" && req.TargetEmployeeID == req.RequesterID {
		return nil, fmt.Errorf("%w: cannot swap a shift with yourself", apiclient.ErrInvalidPayload)
	}

	logger.Debug("Submitting shift swap",
		zap.String("shift_id", req.ShiftID.String()),
		zap.String("target_employee_id", req.TargetEmployeeID.String()))

	created, err := client.CreateShiftSwap(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift swap: %w", err)
	}

	logger.Info("Shift swap submitted", zap.String("id", created.ID.String()))
	return created, nil
}
