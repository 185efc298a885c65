package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/db"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// CalendarSource names one of the independent feeds a calendar is built from
type CalendarSource string

const (
	SourceShifts       CalendarSource = "shifts"
	SourceAvailability CalendarSource = "availability"
	SourceTimeOff      CalendarSource = "timeOff"
	SourceDrafts       CalendarSource = "drafts"
)

// CalendarClient defines the API operations needed to build a calendar
type CalendarClient interface {
	CurrentSchedule(ctx context.Context, departmentID model.ID) ([]model.Shift, error)
	ListAvailability(ctx context.Context, employeeID model.ID) ([]model.AvailabilityEntry, error)
	ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error)
}

// DraftLister defines the store operation needed to show local drafts
type DraftLister interface {
	GetDrafts(ctx context.Context) ([]db.Draft, error)
}

// CalendarParams selects whose calendar to show. Empty ids mean the session's own.
type CalendarParams struct {
	Month        time.Time // any instant in the month; its location is the display zone
	DepartmentID model.ID
	EmployeeID   model.ID
}

// CalendarResult is a month view plus the raw records behind it.
// Errors holds the sources that failed; their records are simply absent from the grid.
type CalendarResult struct {
	Month        *calendar.Month
	Shifts       []model.Shift
	Availability []model.AvailabilityEntry
	TimeOff      []model.TimeOffRequest
	Drafts       []model.Shift
	Errors       map[CalendarSource]error
}

// Failed reports whether a source could not be loaded
func (r *CalendarResult) Failed(source CalendarSource) bool {
	_, failed := r.Errors[source]
	return failed
}

// ViewCalendar fetches the department schedule, the employee's availability and time off
// (and local drafts when a store is given) concurrently and places them on a month grid.
// A failing source does not blank the others. An error is returned only when every source fails.
func ViewCalendar(
	ctx context.Context,
	client CalendarClient,
	drafts DraftLister,
	logger *zap.Logger,
	params CalendarParams,
) (*CalendarResult, error) {
	logger = logging.OrNop(logger)
	ref := params.Month
	if ref.IsZero() {
		ref = time.Now()
	}

	logger.Debug("Starting viewCalendar",
		zap.Int("year", ref.Year()),
		zap.String("month", ref.Month().String()),
		zap.String("department_id", params.DepartmentID.String()),
		zap.String("employee_id", params.EmployeeID.String()))

	result := &CalendarResult{Errors: make(map[CalendarSource]error)}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(source CalendarSource, err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Errors[source] = err
	}

	// Each goroutine owns exactly one result field
	wg.Add(3)
	go func() {
		defer wg.Done()
		shifts, err := client.CurrentSchedule(ctx, params.DepartmentID)
		if err != nil {
			fail(SourceShifts, fmt.Errorf("failed to fetch schedule: %w", err))
			return
		}
		result.Shifts = shifts
	}()
	go func() {
		defer wg.Done()
		entries, err := client.ListAvailability(ctx, params.EmployeeID)
		if err != nil {
			fail(SourceAvailability, fmt.Errorf("failed to fetch availability: %w", err))
			return
		}
		result.Availability = entries
	}()
	go func() {
		defer wg.Done()
		requests, err := client.ListTimeOff(ctx, params.EmployeeID)
		if err != nil {
			fail(SourceTimeOff, fmt.Errorf("failed to fetch time off: %w", err))
			return
		}
		result.TimeOff = requests
	}()

	sources := 3
	if drafts != nil {
		sources++
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := drafts.GetDrafts(ctx)
			if err != nil {
				fail(SourceDrafts, fmt.Errorf("failed to fetch drafts: %w", err))
				return
			}
			result.Drafts = draftShifts(stored, params.DepartmentID)
		}()
	}

	wg.Wait()

	for source, err := range result.Errors {
		logger.Warn("Calendar source unavailable", zap.String("source", string(source)), zap.Error(err))
	}

	if len(result.Errors) == sources {
		errs := make([]error, 0, len(result.Errors))
		for _, source := range []CalendarSource{SourceShifts, SourceAvailability, SourceTimeOff, SourceDrafts} {
			if err, ok := result.Errors[source]; ok {
				errs = append(errs, err)
			}
		}
		return nil, fmt.Errorf("failed to load calendar: %w", errors.Join(errs...))
	}

	records := make([]calendar.Record, 0, len(result.Shifts)+len(result.Drafts)+len(result.Availability)+len(result.TimeOff))
	records = append(records, calendar.Records(result.Shifts)...)
	records = append(records, calendar.Records(result.Drafts)...)
	records = append(records, calendar.Records(result.Availability)...)
	records = append(records, calendar.Records(result.TimeOff)...)

	result.Month = calendar.NewMonth(ref, records, logger)

	logger.Debug("Built calendar",
		zap.Int("shifts", len(result.Shifts)),
		zap.Int("drafts", len(result.Drafts)),
		zap.Int("availability", len(result.Availability)),
		zap.Int("time_off", len(result.TimeOff)),
		zap.Int("failed_sources", len(result.Errors)))

	return result, nil
}

// draftShifts converts drafts to shifts, keeping only the department's when one is named
func draftShifts(drafts []db.Draft, departmentID model.ID) []model.Shift {
	shifts := make([]model.Shift, 0, len(drafts))
	for _, d := range drafts {
		if departmentID != "" && d.DepartmentID != "" && model.ID(d.DepartmentID) != departmentID {
			continue
		}
		s := d.Shift()
		s.ID = model.ID(d.ID)
		shifts = append(shifts, s)
	}
	return shifts
}
