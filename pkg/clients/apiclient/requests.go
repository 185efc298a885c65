package apiclient

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

var validate = validator.New()

// validatePayload checks a request struct before anything is sent
func validatePayload(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// DepartmentRequest creates or updates a department.
// OrganizationID is filled from the session when empty.
type DepartmentRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	OrganizationID model.ID `json:"organizationId" validate:"required"`
}

// RoleRequest creates or updates a role
type RoleRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	OrganizationID model.ID `json:"organizationId" validate:"required"`
}

// SkillRequest creates or updates a skill
type SkillRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	OrganizationID model.ID `json:"organizationId" validate:"required"`
}

// ContractTypeRequest creates or updates a contract type
type ContractTypeRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description,omitempty"`
	MinHoursPerWeek float64  `json:"minHoursPerWeek" validate:"gte=0"`
	MaxHoursPerWeek float64  `json:"maxHoursPerWeek" validate:"gte=0,gtefield=MinHoursPerWeek"`
	OrganizationID  model.ID `json:"organizationId" validate:"required"`
}

// AppUserRequest creates or updates a login account. Password may be empty on update.
type AppUserRequest struct {
	Username       string   `json:"username" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password,omitempty" validate:"omitempty,min=8"`
	UserRole       string   `json:"role" validate:"required"`
	OrganizationID model.ID `json:"organizationId" validate:"required"`
	EmployeeID     model.ID `json:"employeeId,omitempty"`
}

// EmployeeRequest creates or updates an employee
type EmployeeRequest struct {
	FirstName      string     `json:"firstName" validate:"required"`
	LastName       string     `json:"lastName" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          string     `json:"phone,omitempty"`
	HireDate       string     `json:"hireDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Active         bool       `json:"active"`
	OrganizationID model.ID   `json:"organizationId" validate:"required"`
	DepartmentID   model.ID   `json:"departmentId,omitempty"`
	RoleID         model.ID   `json:"roleId,omitempty"`
	ContractTypeID model.ID   `json:"contractTypeId,omitempty"`
	SkillIDs       []model.ID `json:"skillIds,omitempty"`
}

// ShiftRequest creates or updates a published shift
type ShiftRequest struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string   `json:"startTime" validate:"required,datetime=15:04"`
	EndTime        string   `json:"endTime" validate:"required,datetime=15:04"`
	ShiftType      string   `json:"shiftType" validate:"required"`
	DepartmentID   model.ID `json:"departmentId" validate:"required"`
	RequiredRoleID model.ID `json:"requiredRoleId,omitempty"`
	RequiredCount  int      `json:"requiredCount" validate:"min=1"`
	OrganizationID model.ID `json:"organizationId" validate:"required"`
	Notes          string   `json:"notes,omitempty"`
}

// ShiftRequestFrom copies the schedulable fields of a shift into a request
func ShiftRequestFrom(s model.Shift) ShiftRequest {
	return ShiftRequest{
		Date:           s.Date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		ShiftType:      s.ShiftType,
		DepartmentID:   s.DepartmentID,
		RequiredRoleID: s.RequiredRoleID,
		RequiredCount:  s.RequiredCount,
		Notes:          s.Notes,
	}
}

// AvailabilityRequest submits an availability entry. EmployeeID defaults to the session employee.
type AvailabilityRequest struct {
	EmployeeID       model.ID               `json:"employeeId" validate:"required"`
	AvailabilityDate string                 `json:"availabilityDate" validate:"required,datetime=2006-01-02"`
	StartTime        string                 `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime          string                 `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Type             model.AvailabilityType `json:"type" validate:"required,oneof=AVAILABLE UNAVAILABLE PREFERRED"`
	Notes            string                 `json:"notes,omitempty"`
}

// TimeOffPayload submits a time-off request. Dates are inclusive.
type TimeOffPayload struct {
	EmployeeID model.ID `json:"employeeId" validate:"required"`
	StartDate  string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	Type       string   `json:"type" validate:"required"`
	Reason     string   `json:"reason,omitempty"`
}

// ShiftSwapPayload offers a shift to another employee, or to anyone when TargetEmployeeID is empty
type ShiftSwapPayload struct {
	RequesterID      model.ID `json:"requestingEmployeeId" validate:"required"`
	ShiftID          model.ID `json:"shiftId" validate:"required"`
	TargetEmployeeID model.ID `json:"targetEmployeeId,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}
