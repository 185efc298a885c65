package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/session"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// testServer answers every request with status and body and records what it received
type testServer struct {
	*httptest.Server
	hits     atomic.Int32
	mu       sync.Mutex
	last     recordedRequest
	status   int
	response string
}

func newTestServer(t *testing.T, status int, response string) *testServer {
	t.Helper()
	ts := &testServer{status: status, response: response}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.last = recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		}
		ts.mu.Unlock()
		w.WriteHeader(ts.status)
		_, _ = io.WriteString(w, ts.response)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) lastRequest() recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.last
}

func fullSession() map[string]string {
	return map[string]string{
		session.KeyAuthToken:      "tok-123",
		session.KeyOrganizationID: "3",
		session.KeyDepartmentID:   "4",
		session.KeyUserData:       `{"id": 10, "employee": {"id": 42}}`,
	}
}

func newTestClient(t *testing.T, ts *testServer, values map[string]string) *Client {
	t.Helper()
	c, err := New(ts.URL+"/api", session.NewResolver(session.NewMemoryStore(values)), zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	resolver := session.NewResolver(session.NewMemoryStore(nil))

	_, err := New("not a url", resolver, nil)
	assert.Error(t, err)

	_, err = New("http://localhost:8080/api", nil, nil)
	assert.Error(t, err)

	c, err := New("http://localhost:8080/api/", resolver, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", c.BaseURL())
}

func TestClient_ScopesRequestsFromSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func(c *Client) error
		method   string
		path     string
		response string
	}{
		{
			name: "departments by organization",
			call: func(c *Client) error {
				_, err := c.ListDepartments(ctx)
				return err
			},
			method: http.MethodGet, path: "/api/departments/organization/3", response: `[]`,
		},
		{
			name: "departments of session employee",
			call: func(c *Client) error {
				_, err := c.ListEmployeeDepartments(ctx, "")
				return err
			},
			method: http.MethodGet, path: "/api/departments/employee/42", response: `[]`,
		},
		{
			name: "explicit employee",
			call: func(c *Client) error {
				_, err := c.GetEmployee(ctx, "7")
				return err
			},
			method: http.MethodGet, path: "/api/employees/7", response: `{"id": 7}`,
		},
		{
			name: "contract types put organization first",
			call: func(c *Client) error {
				_, err := c.ListContractTypes(ctx)
				return err
			},
			method: http.MethodGet, path: "/api/contractTypes/3/organization", response: `[]`,
		},
		{
			name: "current schedule of session department",
			call: func(c *Client) error {
				_, err := c.CurrentSchedule(ctx, "")
				return err
			},
			method: http.MethodGet, path: "/api/shifts/3/4/current/schedule", response: `[]`,
		},
		{
			name: "created shifts",
			call: func(c *Client) error {
				_, err := c.ListCreatedShifts(ctx)
				return err
			},
			method: http.MethodGet, path: "/api/shifts/3/created", response: `[]`,
		},
		{
			name: "roster assignments",
			call: func(c *Client) error {
				_, err := c.ListRosterAssignments(ctx, "")
				return err
			},
			method: http.MethodGet, path: "/api/rosterAssignments/employee/42", response: `[]`,
		},
		{
			name: "availability of session employee",
			call: func(c *Client) error {
				_, err := c.ListAvailability(ctx, "")
				return err
			},
			method: http.MethodGet, path: "/api/employeeAvailabilities/employee/42", response: `[]`,
		},
		{
			name: "approve availability",
			call: func(c *Client) error {
				_, err := c.ApproveAvailability(ctx, "5", false)
				return err
			},
			method: http.MethodPut, path: "/api/employeeAvailabilities/5/approve/false", response: ``,
		},
		{
			name: "approve time off",
			call: func(c *Client) error {
				_, err := c.ApproveTimeOff(ctx, "8", true)
				return err
			},
			method: http.MethodPut, path: "/api/timeOffRequests/8/approve/true", response: ``,
		},
		{
			name: "delete shift",
			call: func(c *Client) error {
				_, err := c.DeleteShift(ctx, "11")
				return err
			},
			method: http.MethodDelete, path: "/api/shifts/11/delete", response: ``,
		},
		{
			name: "ids are escaped",
			call: func(c *Client) error {
				_, err := c.GetRole(ctx, "a/b")
				return err
			},
			method: http.MethodGet, path: "/api/roles/a%2Fb", response: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, tt.response)
			c := newTestClient(t, ts, fullSession())

			require.NoError(t, tt.call(c))
			assert.Equal(t, int32(1), ts.hits.Load())
			assert.Equal(t, tt.method, ts.lastRequest().Method)
			assert.Equal(t, tt.path, ts.lastRequest().Path)
			assert.Equal(t, "Bearer tok-123", ts.lastRequest().Auth)
		})
	}
}

func TestClient_MissingIdentityAbortsBeforeRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		values   map[string]string
		call     func(c *Client) error
		expected session.Identifier
	}{
		{
			name:   "no auth token",
			values: map[string]string{session.KeyOrganizationID: "3"},
			call: func(c *Client) error {
				_, err := c.ListDepartments(ctx)
				return err
			},
			expected: session.IdentAuthToken,
		},
		{
			name:   "no organization",
			values: map[string]string{session.KeyAuthToken: "t"},
			call: func(c *Client) error {
				_, err := c.ListRoles(ctx)
				return err
			},
			expected: session.IdentOrganization,
		},
		{
			name:   "no employee",
			values: map[string]string{session.KeyAuthToken: "t", session.KeyOrganizationID: "3"},
			call: func(c *Client) error {
				_, err := c.ListAvailability(ctx, "")
				return err
			},
			expected: session.IdentEmployee,
		},
		{
			name:   "no department",
			values: map[string]string{session.KeyAuthToken: "t", session.KeyOrganizationID: "3"},
			call: func(c *Client) error {
				_, err := c.CurrentSchedule(ctx, "")
				return err
			},
			expected: session.IdentDepartment,
		},
		{
			name:   "create without organization",
			values: map[string]string{session.KeyAuthToken: "t"},
			call: func(c *Client) error {
				_, err := c.CreateDepartment(ctx, DepartmentRequest{Name: "Kitchen"})
				return err
			},
			expected: session.IdentOrganization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, `[]`)
			c := newTestClient(t, ts, tt.values)

			err := tt.call(c)
			var missing *session.MissingIdentityError
			require.True(t, errors.As(err, &missing), "expected MissingIdentityError, got %v", err)
			assert.Equal(t, tt.expected, missing.Identifier)
			assert.Equal(t, int32(0), ts.hits.Load())
		})
	}
}

func TestClient_NonSuccessStatusBecomesAPIError(t *testing.T) {
	ts := newTestServer(t, http.StatusNotFound, "department not found\n")
	c := newTestClient(t, ts, fullSession())

	_, err := c.GetEmployee(context.Background(), "99")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/employees/99", apiErr.Path)
	assert.Equal(t, "department not found", apiErr.Body)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "404")
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	ts := newTestServer(t, http.StatusInternalServerError, "")
	c := newTestClient(t, ts, fullSession())

	_, err := c.ListSkills(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Body)
	assert.False(t, IsNotFound(err))
}

func TestClient_DecodeFailuresFailFast(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"malformed json", `{"id": 1,`},
		{"wrong shape", `{"id": 1}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, tt.response)
			c := newTestClient(t, ts, fullSession())

			deps, err := c.ListDepartments(context.Background())

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
			assert.Equal(t, "/departments/organization/3", decodeErr.Path)
			assert.Nil(t, deps)
		})
	}
}

func TestClient_UnknownFieldsAreIgnored(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `[{"id": 1, "name": "Kitchen", "headcount": 12}]`)
	c := newTestClient(t, ts, fullSession())

	deps, err := c.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, model.ID("1"), deps[0].ID)
	assert.Equal(t, "Kitchen", deps[0].Name)
}

func TestClient_DeleteResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		expected *model.Department
	}{
		{"no content", http.StatusNoContent, "", nil},
		{"ok with payload", http.StatusOK, `{"id": 2, "name": "Bar"}`, &model.Department{ID: "2", Name: "Bar"}},
		{"ok without body", http.StatusOK, "", nil},
		{"accepted with whitespace", http.StatusAccepted, "  \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.status, tt.response)
			c := newTestClient(t, ts, fullSession())

			got, err := c.DeleteDepartment(context.Background(), "2")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, http.MethodDelete, ts.lastRequest().Method)
			assert.Equal(t, "/api/departments/2", ts.lastRequest().Path)
		})
	}
}

func TestClient_DeleteWithUnreadableBody(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "Deleted")
	c := newTestClient(t, ts, fullSession())

	_, err := c.DeleteRole(context.Background(), "2")

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestClient_CreateFillsOrganizationAndSendsJSON(t *testing.T) {
	ts := newTestServer(t, http.StatusCreated, `{"id": 9, "name": "Kitchen", "organizationId": 3}`)
	c := newTestClient(t, ts, fullSession())

	dep, err := c.CreateDepartment(context.Background(), DepartmentRequest{Name: "Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("9"), dep.ID)

	assert.Equal(t, http.MethodPost, ts.lastRequest().Method)
	assert.Equal(t, "/api/departments", ts.lastRequest().Path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(ts.lastRequest().Body, &sent))
	assert.Equal(t, "Kitchen", sent["name"])
	assert.Equal(t, float64(3), sent["organizationId"])
}

func TestClient_CreateShiftPostsToCreateRoute(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": 31, "date": "2025-08-18", "startTime": "07:00", "endTime": "15:00", "shiftType": "EARLY", "requiredCount": 2, "status": "published"}`)
	c := newTestClient(t, ts, fullSession())

	shift, err := c.CreateShift(context.Background(), ShiftRequest{
		Date:          "2025-08-18",
		StartTime:     "07:00",
		EndTime:       "15:00",
		ShiftType:     "EARLY",
		DepartmentID:  "4",
		RequiredCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/shifts/create", ts.lastRequest().Path)
	assert.Equal(t, model.ShiftPublished, shift.Status)
}

func TestClient_InvalidPayloadNeverSent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(c *Client) error
	}{
		{
			name: "department without name",
			call: func(c *Client) error {
				_, err := c.CreateDepartment(ctx, DepartmentRequest{})
				return err
			},
		},
		{
			name: "shift with bad time",
			call: func(c *Client) error {
				_, err := c.CreateShift(ctx, ShiftRequest{
					Date: "2025-08-18", StartTime: "7am", EndTime: "15:00",
					ShiftType: "EARLY", DepartmentID: "4", RequiredCount: 1,
				})
				return err
			},
		},
		{
			name: "availability with unknown type",
			call: func(c *Client) error {
				_, err := c.CreateAvailability(ctx, AvailabilityRequest{AvailabilityDate: "2025-08-18", Type: "MAYBE"})
				return err
			},
		},
		{
			name: "availability with only a start time",
			call: func(c *Client) error {
				_, err := c.CreateAvailability(ctx, AvailabilityRequest{
					AvailabilityDate: "2025-08-18", StartTime: "09:00", Type: model.AvailabilityAvailable,
				})
				return err
			},
		},
		{
			name: "time off ending before it starts",
			call: func(c *Client) error {
				_, err := c.CreateTimeOff(ctx, TimeOffPayload{StartDate: "2024-03-22", EndDate: "2024-03-20", Type: "VACATION"})
				return err
			},
		},
		{
			name: "contract type with max below min",
			call: func(c *Client) error {
				_, err := c.CreateContractType(ctx, ContractTypeRequest{Name: "Part time", MinHoursPerWeek: 20, MaxHoursPerWeek: 10})
				return err
			},
		},
		{
			name: "app user with bad email",
			call: func(c *Client) error {
				_, err := c.CreateAppUser(ctx, AppUserRequest{Username: "ada", Email: "nope", UserRole: "MANAGER"})
				return err
			},
		},
		{
			name: "swap without shift",
			call: func(c *Client) error {
				_, err := c.CreateShiftSwap(ctx, ShiftSwapPayload{})
				return err
			},
		},
		{
			name: "update without id",
			call: func(c *Client) error {
				_, err := c.UpdateSkill(ctx, "", SkillRequest{Name: "Barista"})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, `{}`)
			c := newTestClient(t, ts, fullSession())

			err := tt.call(c)
			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.Equal(t, int32(0), ts.hits.Load())
		})
	}
}

func TestClient_CreateAvailabilityDefaultsToSessionEmployee(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": 1, "employeeId": 42, "availabilityDate": "2025-08-18", "type": "AVAILABLE"}`)
	c := newTestClient(t, ts, fullSession())

	entry, err := c.CreateAvailability(context.Background(), AvailabilityRequest{
		AvailabilityDate: "2025-08-18",
		Type:             model.AvailabilityAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalPending, entry.Approved)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(ts.lastRequest().Body, &sent))
	assert.Equal(t, float64(42), sent["employeeId"])
	assert.NotContains(t, sent, "startTime")
}

func TestClient_ApproveReturnsUpdatedRecordWhenSent(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": 5, "status": "APPROVED", "shift": {"date": "2025-08-18"}}`)
	c := newTestClient(t, ts, fullSession())

	swap, err := c.ApproveShiftSwap(context.Background(), "5", true)
	require.NoError(t, err)
	require.NotNil(t, swap)
	assert.Equal(t, model.ApprovalApproved, swap.Status.Approval())
	assert.Equal(t, "/api/shiftSwaps/5/approve/true", ts.lastRequest().Path)
}

func TestClient_CancelledContext(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(t, ts, fullSession())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListDepartments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
