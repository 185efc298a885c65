package sheetsclient

import (
	"context"
	"fmt"
	"strings"
)

// Columns a staff sheet must have
var requiredStaffFields = []string{
	"First name",
	"Last name",
	"Email",
}

// Columns read when present
var optionalStaffFields = []string{
	"Phone",
	"Hire date",
	"Department",
	"Role",
	"Contract",
}

// StaffRow is one employee listed in a staff sheet
type StaffRow struct {
	Row          int // 1-based sheet row, for error reporting
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	HireDate     string
	Department   string
	Role         string
	ContractType string
}

// ListStaff reads employees to import from a tab whose first row is a header
func (c *Client) ListStaff(ctx context.Context, spreadsheetID, tab string) ([]StaffRow, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	staff, err := parseStaff(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}
	return staff, nil
}

// parseStaff converts raw spreadsheet data into StaffRows
func parseStaff(raw [][]interface{}) ([]StaffRow, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	fieldIndexes := make(map[string]int)

	for _, field := range requiredStaffFields {
		index := findColumnIndex(headerRow, field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalStaffFields {
		if index := findColumnIndex(headerRow, field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cellString(row, index))
	}

	staff := make([]StaffRow, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		firstName := getField("First name", row)
		// Skip empty rows (rows with no first name)
		if firstName == "" {
			continue
		}

		email := getField("Email", row)
		if email == "" {
			return nil, fmt.Errorf("missing email for %s in row %d", firstName, i+1)
		}

		staff = append(staff, StaffRow{
			Row:          i + 1,
			FirstName:    firstName,
			LastName:     getField("Last name", row),
			Email:        email,
			Phone:        getField("Phone", row),
			HireDate:     getField("Hire date", row),
			Department:   getField("Department", row),
			Role:         getField("Role", row),
			ContractType: getField("Contract", row),
		})
	}

	return staff, nil
}
