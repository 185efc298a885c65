package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

var (
	// ErrAlreadyReviewed is returned when approving or rejecting a record that is no longer pending
	ErrAlreadyReviewed = errors.New("already reviewed")
	// ErrRecordNotFound is returned when the reviewed record is not among the employee's records
	ErrRecordNotFound = errors.New("record not found")
)

// Notifier sends an e-mail. gmailclient.Client implements it.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EmployeeLookup defines the API operation needed to address a notification
type EmployeeLookup interface {
	GetEmployee(ctx context.Context, id model.ID) (*model.Employee, error)
}

// AvailabilityReviewClient defines the API operations needed to review availability
type AvailabilityReviewClient interface {
	EmployeeLookup
	ListAvailability(ctx context.Context, employeeID model.ID) ([]model.AvailabilityEntry, error)
	ApproveAvailability(ctx context.Context, id model.ID, approved bool) (*model.AvailabilityEntry, error)
}

// TimeOffReviewClient defines the API operations needed to review time off
type TimeOffReviewClient interface {
	EmployeeLookup
	ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error)
	ApproveTimeOff(ctx context.Context, id model.ID, approved bool) (*model.TimeOffRequest, error)
}

// ShiftSwapReviewClient defines the API operations needed to review shift swaps
type ShiftSwapReviewClient interface {
	EmployeeLookup
	ListShiftSwaps(ctx context.Context, employeeID model.ID) ([]model.ShiftSwapRequest, error)
	ApproveShiftSwap(ctx context.Context, id model.ID, approved bool) (*model.ShiftSwapRequest, error)
}

// ReviewDecision identifies a record and the decision taken on it
type ReviewDecision struct {
	EmployeeID model.ID // owner of the record, used to look it up
	RecordID   model.ID
	Approve    bool
}

// ReviewResult is the reviewed record and whether its owner was told
type ReviewResult[T any] struct {
	Record   T
	Notified bool
}

// ReviewAvailability approves or rejects a pending availability entry.
// notifier may be nil, in which case no e-mail is sent.
func ReviewAvailability(
	ctx context.Context,
	client AvailabilityReviewClient,
	notifier Notifier,
	logger *zap.Logger,
	decision ReviewDecision,
) (*ReviewResult[model.AvailabilityEntry], error) {
	logger = logging.OrNop(logger)
	entries, err := client.ListAvailability(ctx, decision.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}

	current, err := findPending(entries, decision, "availability",
		func(e model.AvailabilityEntry) model.ID { return e.ID },
		func(e model.AvailabilityEntry) model.Approval { return e.Approved })
	if err != nil {
		return nil, err
	}

	updated, err := client.ApproveAvailability(ctx, decision.RecordID, decision.Approve)
	if err != nil {
		return nil, fmt.Errorf("failed to review availability: %w", err)
	}
	record := current
	if updated != nil {
		record = *updated
	}
	// The backend may answer without a body or echo the old state
	record.Approved = model.ApprovalFromBool(decision.Approve)

	logger.Info("Availability reviewed",
		zap.String("id", decision.RecordID.String()),
		zap.String("decision", record.Approved.String()))

	subject := fmt.Sprintf("Your availability for %s was %s", record.AvailabilityDate, record.Approved)
	body := fmt.Sprintf("Your %s entry on %s has been %s.",
		strings.ToLower(string(record.Type)), record.AvailabilityDate, record.Approved)
	notified := notifyOwner(ctx, client, notifier, logger, record.EmployeeID, subject, body)

	return &ReviewResult[model.AvailabilityEntry]{Record: record, Notified: notified}, nil
}

// ReviewTimeOff approves or rejects a pending time-off request
func ReviewTimeOff(
	ctx context.Context,
	client TimeOffReviewClient,
	notifier Notifier,
	logger *zap.Logger,
	decision ReviewDecision,
) (*ReviewResult[model.TimeOffRequest], error) {
	logger = logging.OrNop(logger)
	requests, err := client.ListTimeOff(ctx, decision.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time off: %w", err)
	}

	current, err := findPending(requests, decision, "time-off request",
		func(r model.TimeOffRequest) model.ID { return r.ID },
		func(r model.TimeOffRequest) model.Approval { return r.Status.Approval() })
	if err != nil {
		return nil, err
	}

	updated, err := client.ApproveTimeOff(ctx, decision.RecordID, decision.Approve)
	if err != nil {
		return nil, fmt.Errorf("failed to review time off: %w", err)
	}
	record := current
	if updated != nil {
		record = *updated
	}
	record.Status = statusFor(decision.Approve)

	logger.Info("Time off reviewed",
		zap.String("id", decision.RecordID.String()),
		zap.String("decision", string(record.Status)))

	outcome := record.Status.Approval()
	subject := fmt.Sprintf("Your time off request was %s", outcome)
	body := fmt.Sprintf("Your time off from %s to %s has been %s.", record.StartDate, record.EndDate, outcome)
	notified := notifyOwner(ctx, client, notifier, logger, record.EmployeeID, subject, body)

	return &ReviewResult[model.TimeOffRequest]{Record: record, Notified: notified}, nil
}

// ReviewShiftSwap approves or rejects a pending shift swap. The requester is notified.
func ReviewShiftSwap(
	ctx context.Context,
	client ShiftSwapReviewClient,
	notifier Notifier,
	logger *zap.Logger,
	decision ReviewDecision,
) (*ReviewResult[model.ShiftSwapRequest], error) {
	logger = logging.OrNop(logger)
	swaps, err := client.ListShiftSwaps(ctx, decision.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift swaps: %w", err)
	}

	current, err := findPending(swaps, decision, "shift swap",
		func(r model.ShiftSwapRequest) model.ID { return r.ID },
		func(r model.ShiftSwapRequest) model.Approval { return r.Status.Approval() })
	if err != nil {
		return nil, err
	}

	updated, err := client.ApproveShiftSwap(ctx, decision.RecordID, decision.Approve)
	if err != nil {
		return nil, fmt.Errorf("failed to review shift swap: %w", err)
	}
	record := current
	if updated != nil {
		record = *updated
	}
	record.Status = statusFor(decision.Approve)

	logger.Info("Shift swap reviewed",
		zap.String("id", decision.RecordID.String()),
		zap.String("decision", string(record.Status)))

	outcome := record.Status.Approval()
	subject := fmt.Sprintf("Your shift swap request was %s", outcome)
	body := fmt.Sprintf("Your request to swap the %s shift on %s (%s-%s) has been %s.",
		record.Shift.ShiftType, record.Shift.Date, record.Shift.StartTime, record.Shift.EndTime, outcome)
	notified := notifyOwner(ctx, client, notifier, logger, record.RequesterID, subject, body)

	return &ReviewResult[model.ShiftSwapRequest]{Record: record, Notified: notified}, nil
}

// findPending returns the record named by the decision, failing before any write
// when it does not exist or has already been decided
func findPending[T any](
	records []T,
	decision ReviewDecision,
	kind string,
	idOf func(T) model.ID,
	stateOf func(T) model.Approval,
) (T, error) {
	var zero T
	if decision.RecordID == "" {
		return zero, fmt.Errorf("%s id is required", kind)
	}
	for _, r := range records {
		if idOf(r) != decision.RecordID {
			continue
		}
		if state := stateOf(r); state.IsTerminal() {
			return zero, fmt.Errorf("%w: %s %s is %s", ErrAlreadyReviewed, kind, decision.RecordID, state)
		}
		return r, nil
	}
	return zero, fmt.Errorf("%w: %s %s", ErrRecordNotFound, kind, decision.RecordID)
}

func statusFor(approve bool) model.RequestStatus {
	if approve {
		return model.StatusApproved
	}
	return model.StatusRejected
}

// notifyOwner e-mails the record's owner. Failures are logged, never returned:
// the review has already been recorded.
func notifyOwner(
	ctx context.Context,
	employees EmployeeLookup,
	notifier Notifier,
	logger *zap.Logger,
	employeeID model.ID,
	subject, body string,
) bool {
	if notifier == nil {
		return false
	}
	if employeeID == "" {
		logger.Warn("Cannot notify: record has no employee")
		return false
	}

	employee, err := employees.GetEmployee(ctx, employeeID)
	if err != nil {
		logger.Warn("Cannot notify: failed to fetch employee", zap.String("employee_id", employeeID.String()), zap.Error(err))
		return false
	}
	if employee.Email == "" {
		logger.Warn("Cannot notify: employee has no email", zap.String("employee_id", employeeID.String()))
		return false
	}

	greeting := employee.FirstName
	if greeting == "" {
		greeting = employee.FullName()
	}
	if err := notifier.SendEmail(ctx, employee.Email, subject, fmt.Sprintf("Hi %s,\n\n%s\n", greeting, body)); err != nil {
		logger.Warn("Failed to send review notification",
			zap.String("employee_id", employeeID.String()),
			zap.String("email", employee.Email),
			zap.Error(err))
		return false
	}

	logger.Debug("Review notification sent", zap.String("email", employee.Email))
	return true
}
