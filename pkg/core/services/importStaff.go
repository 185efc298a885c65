package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// StaffSource defines the sheets operation needed to read a staff list
type StaffSource interface {
	ListStaff(ctx context.Context, spreadsheetID, tab string) ([]sheetsclient.StaffRow, error)
}

// EmployeeDirectory defines the API operations needed to import employees
type EmployeeDirectory interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, req apiclient.EmployeeRequest) (*model.Employee, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	ListContractTypes(ctx context.Context) ([]model.ContractType, error)
}

// SkippedStaff is a sheet row that was not imported and why
type SkippedStaff struct {
	Row    sheetsclient.StaffRow
	Reason string
}

// FailedStaff is a sheet row whose employee could not be created
type FailedStaff struct {
	Row sheetsclient.StaffRow
	Err error
}

// ImportStaffResult lists what happened to every row of the sheet
type ImportStaffResult struct {
	Created []model.Employee
	Skipped []SkippedStaff
	Failed  []FailedStaff
}

// ImportStaff creates an employee for every staff sheet row whose email is not already known.
// Department, role and contract columns are matched by name, case-insensitively; an unknown
// name skips the row. With dryRun set nothing is created and Created lists the would-be employees.
func ImportStaff(
	ctx context.Context,
	source StaffSource,
	directory EmployeeDirectory,
	logger *zap.Logger,
	spreadsheetID, tab string,
	dryRun bool,
) (*ImportStaffResult, error) {
	logger = logging.OrNop(logger)
	logger.Debug("Starting importStaff", zap.String("tab", tab), zap.Bool("dry_run", dryRun))

	rows, err := source.ListStaff(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read staff sheet: %w", err)
	}
	logger.Debug("Read staff rows", zap.Int("count", len(rows)))

	existing, err := directory.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	knownEmails := make(map[string]bool, len(existing))
	for _, e := range existing {
		knownEmails[normalizeEmail(e.Email)] = true
	}

	lookups, err := loadStaffLookups(ctx, directory, rows)
	if err != nil {
		return nil, err
	}

	result := &ImportStaffResult{}
	for _, row := range rows {
		email := normalizeEmail(row.Email)
		if email != "" && knownEmails[email] {
			result.Skipped = append(result.Skipped, SkippedStaff{Row: row, Reason: "email already registered"})
			continue
		}

		req := apiclient.EmployeeRequest{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     strings.TrimSpace(row.Email),
			Phone:     row.Phone,
			HireDate:  row.HireDate,
			Active:    true,
		}

		var reason string
		req.DepartmentID, reason = lookups.resolve("department", lookups.departments, row.Department)
		if reason == "" {
			req.RoleID, reason = lookups.resolve("role", lookups.roles, row.Role)
		}
		if reason == "" {
			req.ContractTypeID, reason = lookups.resolve("contract", lookups.contracts, row.ContractType)
		}
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedStaff{Row: row, Reason: reason})
			continue
		}

		// The organization is filled in from the session when the request is sent
		if err := validate.StructExcept(req, "OrganizationID"); err != nil {
			logger.Warn("Invalid staff row", zap.Int("row", row.Row), zap.Error(err))
			result.Failed = append(result.Failed, FailedStaff{Row: row, Err: fmt.Errorf("%w: %w", apiclient.ErrInvalidPayload, err)})
			continue
		}

		// Duplicate emails within the sheet only import once
		knownEmails[email] = true

		if dryRun {
			result.Created = append(result.Created, model.Employee{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Email:     req.Email,
				Phone:     req.Phone,
				HireDate:  req.HireDate,
				Active:    true,
			})
			continue
		}

		created, err := directory.CreateEmployee(ctx, req)
		if err != nil {
			logger.Warn("Failed to create employee", zap.Int("row", row.Row), zap.String("email", row.Email), zap.Error(err))
			result.Failed = append(result.Failed, FailedStaff{Row: row, Err: err})
			continue
		}
		result.Created = append(result.Created, *created)
	}

	logger.Info("Staff import finished",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)),
		zap.Bool("dry_run", dryRun))

	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// staffLookups maps lower-cased names to ids
type staffLookups struct {
	departments map[string]model.ID
	roles       map[string]model.ID
	contracts   map[string]model.ID
}

func (l staffLookups) resolve(kind string, names map[string]model.ID, name string) (model.ID, string) {
	if name == "" {
		return "", ""
	}
	id, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Sprintf("unknown %s %q", kind, name)
	}
	return id, ""
}

// loadStaffLookups fetches only the reference lists the sheet actually uses
func loadStaffLookups(ctx context.Context, directory EmployeeDirectory, rows []sheetsclient.StaffRow) (staffLookups, error) {
	var needDepartments, needRoles, needContracts bool
	for _, r := range rows {
		needDepartments = needDepartments || r.Department != ""
		needRoles = needRoles || r.Role != ""
		needContracts = needContracts || r.ContractType != ""
	}

	lookups := staffLookups{
		departments: map[string]model.ID{},
		roles:       map[string]model.ID{},
		contracts:   map[string]model.ID{},
	}

	if needDepartments {
		departments, err := directory.ListDepartments(ctx)
		if err != nil {
			return lookups, fmt.Errorf("failed to fetch departments: %w", err)
		}
		for _, d := range departments {
			lookups.departments[strings.ToLower(d.Name)] = d.ID
		}
	}
	if needRoles {
		roles, err := directory.ListRoles(ctx)
		if err != nil {
			return lookups, fmt.Errorf("failed to fetch roles: %w", err)
		}
		for _, r := range roles {
			lookups.roles[strings.ToLower(r.Name)] = r.ID
		}
	}
	if needContracts {
		contracts, err := directory.ListContractTypes(ctx)
		if err != nil {
			return lookups, fmt.Errorf("failed to fetch contract types: %w", err)
		}
		for _, c := range contracts {
			lookups.contracts[strings.ToLower(c.Name)] = c.ID
		}
	}

	return lookups, nil
}
