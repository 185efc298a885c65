package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a backend identifier. The backend sends numeric ids; strings are accepted too.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so the backend receives its native type
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Approval is a manager decision. The zero value is pending, which is also what an absent
// or null JSON field decodes to.
type Approval int

const (
	ApprovalPending Approval = iota
	ApprovalApproved
	ApprovalRejected
)

// ApprovalFromBool maps an explicit decision onto an Approval
func ApprovalFromBool(approved bool) Approval {
	if approved {
		return ApprovalApproved
	}
	return ApprovalRejected
}

func (a Approval) String() string {
	switch a {
	case ApprovalApproved:
		return "approved"
	case ApprovalRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// IsTerminal reports whether a decision has been made. There is no way back to pending.
func (a Approval) IsTerminal() bool {
	return a == ApprovalApproved || a == ApprovalRejected
}

func (a Approval) MarshalJSON() ([]byte, error) {
	switch a {
	case ApprovalApproved:
		return []byte("true"), nil
	case ApprovalRejected:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (a *Approval) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "true", "approved":
		*a = ApprovalApproved
	case "false", "rejected":
		*a = ApprovalRejected
	case "null", "", "pending":
		*a = ApprovalPending
	default:
		return fmt.Errorf("invalid approval value %s", data)
	}
	return nil
}

// RequestStatus is the status string used by time-off and shift-swap requests
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// Approval maps the status onto the tri-state. Empty or unknown statuses are pending.
func (s RequestStatus) Approval() Approval {
	switch RequestStatus(strings.ToUpper(string(s))) {
	case StatusApproved:
		return ApprovalApproved
	case StatusRejected:
		return ApprovalRejected
	default:
		return ApprovalPending
	}
}

// AvailabilityType classifies an availability entry
type AvailabilityType string

const (
	AvailabilityAvailable   AvailabilityType = "AVAILABLE"
	AvailabilityUnavailable AvailabilityType = "UNAVAILABLE"
	AvailabilityPreferred   AvailabilityType = "PREFERRED"
)

func (t AvailabilityType) IsValid() bool {
	return t == AvailabilityAvailable || t == AvailabilityUnavailable || t == AvailabilityPreferred
}

// ShiftStatus is the lifecycle state of a shift: draft -> published, or cancelled
type ShiftStatus string

const (
	ShiftDraft     ShiftStatus = "draft"
	ShiftPublished ShiftStatus = "published"
	ShiftCancelled ShiftStatus = "cancelled"
)

// IsCancelled accepts either spelling and any case
func (s ShiftStatus) IsCancelled() bool {
	lower := strings.ToLower(string(s))
	return lower == "cancelled" || lower == "canceled"
}

// Organization is the tenant every other record is scoped to
type Organization struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Department represents a department within an organization
type Department struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	OrganizationID ID     `json:"organizationId,omitempty"`
}

// Role is a job role a shift can require
type Role struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	OrganizationID ID     `json:"organizationId,omitempty"`
}

// Skill is a capability an employee can hold
type Skill struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	OrganizationID ID     `json:"organizationId,omitempty"`
}

// ContractType bounds the hours an employee can be scheduled for
type ContractType struct {
	ID              ID      `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	MinHoursPerWeek float64 `json:"minHoursPerWeek,omitempty"`
	MaxHoursPerWeek float64 `json:"maxHoursPerWeek,omitempty"`
	OrganizationID  ID      `json:"organizationId,omitempty"`
}

// AppUser is a login account
type AppUser struct {
	ID             ID     `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	UserRole       string `json:"role,omitempty"`
	OrganizationID ID     `json:"organizationId,omitempty"`
	EmployeeID     ID     `json:"employeeId,omitempty"`
}

// Employee represents a member of staff
type Employee struct {
	ID             ID            `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone,omitempty"`
	HireDate       string        `json:"hireDate,omitempty"`
	Active         bool          `json:"active"`
	OrganizationID ID            `json:"organizationId,omitempty"`
	Department     *Department   `json:"department,omitempty"`
	Role           *Role         `json:"role,omitempty"`
	ContractType   *ContractType `json:"contractType,omitempty"`
	Skills         []Skill       `json:"skills,omitempty"`
}

// FullName returns "First Last", trimmed when either part is missing
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Shift is a scheduled unit of work on a single date
type Shift struct {
	ID               ID          `json:"id,omitempty"`
	Date             string      `json:"date"`
	StartTime        string      `json:"startTime"`
	EndTime          string      `json:"endTime"`
	ShiftType        string      `json:"shiftType"`
	DepartmentID     ID          `json:"departmentId,omitempty"`
	DepartmentName   string      `json:"departmentName,omitempty"`
	RequiredRoleID   ID          `json:"requiredRoleId,omitempty"`
	RequiredRoleName string      `json:"requiredRoleName,omitempty"`
	RequiredCount    int         `json:"requiredCount"`
	Status           ShiftStatus `json:"status,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

func (s Shift) DateSpan() (string, string)   { return s.Date, s.Date }
func (s Shift) TimeWindow() (string, string) { return s.StartTime, s.EndTime }
func (s Shift) IsCancelled() bool            { return s.Status.IsCancelled() }

func (s Shift) Label() string {
	label := s.ShiftType
	if s.RequiredRoleName != "" {
		label += " · " + s.RequiredRoleName
	}
	return fmt.Sprintf("%s %s-%s", label, s.StartTime, s.EndTime)
}

// AvailabilityEntry marks an employee as available, unavailable or preferred for a window
type AvailabilityEntry struct {
	ID               ID               `json:"id,omitempty"`
	EmployeeID       ID               `json:"employeeId"`
	AvailabilityDate string           `json:"availabilityDate"`
	StartTime        string           `json:"startTime,omitempty"`
	EndTime          string           `json:"endTime,omitempty"`
	Type             AvailabilityType `json:"type"`
	Approved         Approval         `json:"approved"`
	Notes            string           `json:"notes,omitempty"`
}

func (a AvailabilityEntry) DateSpan() (string, string) {
	return a.AvailabilityDate, a.AvailabilityDate
}

func (a AvailabilityEntry) TimeWindow() (string, string) { return a.StartTime, a.EndTime }

func (a AvailabilityEntry) Label() string {
	label := strings.ToLower(string(a.Type))
	if a.StartTime != "" && a.EndTime != "" {
		label += fmt.Sprintf(" %s-%s", a.StartTime, a.EndTime)
	}
	return fmt.Sprintf("%s (%s)", label, a.Approved)
}

// TimeOffRequest covers an inclusive range of days
type TimeOffRequest struct {
	ID         ID            `json:"id,omitempty"`
	EmployeeID ID            `json:"employeeId"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
	Type       string        `json:"type"`
	Status     RequestStatus `json:"status,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

func (r TimeOffRequest) DateSpan() (string, string) { return r.StartDate, r.EndDate }

func (r TimeOffRequest) Label() string {
	return fmt.Sprintf("time off: %s (%s)", strings.ToLower(r.Type), r.Status.Approval())
}

// ShiftSwapRequest asks to hand a shift to another employee. It is dated by its shift.
type ShiftSwapRequest struct {
	ID               ID            `json:"id,omitempty"`
	RequesterID      ID            `json:"requestingEmployeeId"`
	TargetEmployeeID ID            `json:"targetEmployeeId,omitempty"`
	Shift            Shift         `json:"shift"`
	Status           RequestStatus `json:"status,omitempty"`
	Reason           string        `json:"reason,omitempty"`
}

func (r ShiftSwapRequest) DateSpan() (string, string) { return r.Shift.DateSpan() }

func (r ShiftSwapRequest) Label() string {
	return fmt.Sprintf("swap: %s (%s)", r.Shift.ShiftType, r.Status.Approval())
}

// RosterAssignment links an employee to a shift
type RosterAssignment struct {
	ID         ID     `json:"id"`
	EmployeeID ID     `json:"employeeId"`
	Shift      Shift  `json:"shift"`
	Status     string `json:"status,omitempty"`
}

// DisplayNames picks the shortest unambiguous name for each employee:
// first name when unique, then "First L.", then the full name
func DisplayNames(employees []Employee) map[ID]string {
	firstNameCounts := make(map[string]int)
	initialCounts := make(map[string]int)
	for _, e := range employees {
		firstNameCounts[e.FirstName]++
		if key, ok := withInitial(e); ok {
			initialCounts[key]++
		}
	}

	names := make(map[ID]string, len(employees))
	for _, e := range employees {
		if firstNameCounts[e.FirstName] == 1 && e.FirstName != "" {
			names[e.ID] = e.FirstName
			continue
		}
		if key, ok := withInitial(e); ok && initialCounts[key] == 1 {
			names[e.ID] = key
			continue
		}
		names[e.ID] = e.FullName()
	}
	return names
}

func withInitial(e Employee) (string, bool) {
	last := []rune(strings.TrimSpace(e.LastName))
	if len(last) == 0 {
		return "", false
	}
	return e.FirstName + " " + string(last[0]) + ".", true
}
