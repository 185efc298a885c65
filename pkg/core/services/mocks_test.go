package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/db"
)

// mockAPI implements every API client interface the services use.
// Errors are keyed by method name; calls records every method invoked.
type mockAPI struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error

	schedule     []model.Shift
	availability []model.AvailabilityEntry
	timeOff      []model.TimeOffRequest
	swaps        []model.ShiftSwapRequest
	roster       []model.RosterAssignment
	employees    []model.Employee
	departments  []model.Department
	roles        []model.Role
	contracts    []model.ContractType

	approveReturnsNil bool
	approved          map[model.ID]bool
	createdShifts     []apiclient.ShiftRequest
	createdEmployees  []apiclient.EmployeeRequest
	createdTimeOff    []apiclient.TimeOffPayload
	deletedShifts     []model.ID
}

func (m *mockAPI) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
	return m.errs[method]
}

func (m *mockAPI) called(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *mockAPI) CurrentSchedule(ctx context.Context, departmentID model.ID) ([]model.Shift, error) {
	if err := m.record("CurrentSchedule"); err != nil {
		return nil, err
	}
	return m.schedule, nil
}

func (m *mockAPI) ListAvailability(ctx context.Context, employeeID model.ID) ([]model.AvailabilityEntry, error) {
	if err := m.record("ListAvailability"); err != nil {
		return nil, err
	}
	return m.availability, nil
}

func (m *mockAPI) ListTimeOff(ctx context.Context, employeeID model.ID) ([]model.TimeOffRequest, error) {
	if err := m.record("ListTimeOff"); err != nil {
		return nil, err
	}
	return m.timeOff, nil
}

func (m *mockAPI) ListShiftSwaps(ctx context.Context, employeeID model.ID) ([]model.ShiftSwapRequest, error) {
	if err := m.record("ListShiftSwaps"); err != nil {
		return nil, err
	}
	return m.swaps, nil
}

func (m *mockAPI) ListRosterAssignments(ctx context.Context, employeeID model.ID) ([]model.RosterAssignment, error) {
	if err := m.record("ListRosterAssignments"); err != nil {
		return nil, err
	}
	return m.roster, nil
}

func (m *mockAPI) GetEmployee(ctx context.Context, id model.ID) (*model.Employee, error) {
	if err := m.record("GetEmployee"); err != nil {
		return nil, err
	}
	for _, e := range m.employees {
		if id == "" || e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, &apiclient.APIError{Method: "GET", Path: "/employees/" + id.String(), StatusCode: 404}
}

func (m *mockAPI) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	if err := m.record("ListEmployees"); err != nil {
		return nil, err
	}
	return m.employees, nil
}

func (m *mockAPI) CreateEmployee(ctx context.Context, req apiclient.EmployeeRequest) (*model.Employee, error) {
	if err := m.record("CreateEmployee"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdEmployees = append(m.createdEmployees, req)
	return &model.Employee{
		ID:        model.ID(fmt.Sprintf("%d", 100+len(m.createdEmployees))),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Active:    req.Active,
	}, nil
}

func (m *mockAPI) ListDepartments(ctx context.Context) ([]model.Department, error) {
	if err := m.record("ListDepartments"); err != nil {
		return nil, err
	}
	return m.departments, nil
}

func (m *mockAPI) ListRoles(ctx context.Context) ([]model.Role, error) {
	if err := m.record("ListRoles"); err != nil {
		return nil, err
	}
	return m.roles, nil
}

func (m *mockAPI) ListContractTypes(ctx context.Context) ([]model.ContractType, error) {
	if err := m.record("ListContractTypes"); err != nil {
		return nil, err
	}
	return m.contracts, nil
}

func (m *mockAPI) setApproved(id model.ID, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.approved == nil {
		m.approved = make(map[model.ID]bool)
	}
	m.approved[id] = approved
}

func (m *mockAPI) ApproveAvailability(ctx context.Context, id model.ID, approved bool) (*model.AvailabilityEntry, error) {
	if err := m.record("ApproveAvailability"); err != nil {
		return nil, err
	}
	m.setApproved(id, approved)
	if m.approveReturnsNil {
		return nil, nil
	}
	for _, e := range m.availability {
		if e.ID == id {
			e.Approved = model.ApprovalFromBool(approved)
			return &e, nil
		}
	}
	return nil, nil
}

func (m *mockAPI) ApproveTimeOff(ctx context.Context, id model.ID, approved bool) (*model.TimeOffRequest, error) {
	if err := m.record("ApproveTimeOff"); err != nil {
		return nil, err
	}
	m.setApproved(id, approved)
	if m.approveReturnsNil {
		return nil, nil
	}
	for _, r := range m.timeOff {
		if r.ID == id {
			r.Status = statusFor(approved)
			return &r, nil
		}
	}
	return nil, nil
}

func (m *mockAPI) ApproveShiftSwap(ctx context.Context, id model.ID, approved bool) (*model.ShiftSwapRequest, error) {
	if err := m.record("ApproveShiftSwap"); err != nil {
		return nil, err
	}
	m.setApproved(id, approved)
	return nil, nil
}

func (m *mockAPI) CreateAvailability(ctx context.Context, req apiclient.AvailabilityRequest) (*model.AvailabilityEntry, error) {
	if err := m.record("CreateAvailability"); err != nil {
		return nil, err
	}
	return &model.AvailabilityEntry{
		ID:               "a-new",
		EmployeeID:       req.EmployeeID,
		AvailabilityDate: req.AvailabilityDate,
		Type:             req.Type,
	}, nil
}

func (m *mockAPI) CreateTimeOff(ctx context.Context, req apiclient.TimeOffPayload) (*model.TimeOffRequest, error) {
	if err := m.record("CreateTimeOff"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.createdTimeOff = append(m.createdTimeOff, req)
	m.mu.Unlock()
	return &model.TimeOffRequest{
		ID:         "t-new",
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Type:       req.Type,
		Status:     model.StatusPending,
	}, nil
}

func (m *mockAPI) CreateShiftSwap(ctx context.Context, req apiclient.ShiftSwapPayload) (*model.ShiftSwapRequest, error) {
	if err := m.record("CreateShiftSwap"); err != nil {
		return nil, err
	}
	return &model.ShiftSwapRequest{ID: "s-new", RequesterID: req.RequesterID, TargetEmployeeID: req.TargetEmployeeID}, nil
}

func (m *mockAPI) CreateShift(ctx context.Context, req apiclient.ShiftRequest) (*model.Shift, error) {
	if err := m.record("CreateShift"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdShifts = append(m.createdShifts, req)
	return &model.Shift{
		ID:        model.ID(fmt.Sprintf("%d", 500+len(m.createdShifts))),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		ShiftType: req.ShiftType,
		Status:    model.ShiftPublished,
	}, nil
}

func (m *mockAPI) DeleteShift(ctx context.Context, id model.ID) (*model.Shift, error) {
	if err := m.record("DeleteShift"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedShifts = append(m.deletedShifts, id)
	return nil, nil
}

// mockNotifier implements Notifier
type mockNotifier struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to, subject, body string
}

func (m *mockNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// mockSheets implements SchedulePublisher and StaffSource
type mockSheets struct {
	published *sheetsclient.PublishedSchedule
	staff     []sheetsclient.StaffRow
	err       error
}

func (m *mockSheets) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = schedule
	return schedule.Department + " - " + schedule.Month.Format("January 2006"), nil
}

func (m *mockSheets) ListStaff(ctx context.Context, spreadsheetID, tab string) ([]sheetsclient.StaffRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.staff, nil
}

// failingStore wraps a MemoryDB and fails selected operations
type failingStore struct {
	*db.MemoryDB
	insertPublicationErr error
	getDraftsErr         error
}

func (s *failingStore) GetDrafts(ctx context.Context) ([]db.Draft, error) {
	if s.getDraftsErr != nil {
		return nil, s.getDraftsErr
	}
	return s.MemoryDB.GetDrafts(ctx)
}

func (s *failingStore) InsertPublication(ctx context.Context, p db.Publication) error {
	if s.insertPublicationErr != nil {
		return s.insertPublicationErr
	}
	return s.MemoryDB.InsertPublication(ctx, p)
}
