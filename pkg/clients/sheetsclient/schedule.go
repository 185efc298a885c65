package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

const (
	dateFormat = "Mon Jan 02 2006"
	headerRow  = 2 // zero-based; the tab keeps a 2-row gap above the header
)

// managedColumns are overwritten on every publish. Any other column is kept.
var managedColumns = []string{"Date", "Shift", "Start", "End", "Role", "Required", "Status"}

// PublishedScheduleRow is one shift in the published schedule
type PublishedScheduleRow struct {
	Date          time.Time
	ShiftType     string
	StartTime     string
	EndTime       string
	Role          string
	RequiredCount int
	Status        string
}

func (r PublishedScheduleRow) key() string {
	return rowKey(r.Date.Format(dateFormat), r.ShiftType, r.StartTime)
}

func (r PublishedScheduleRow) managedValues() []interface{} {
	return []interface{}{
		r.Date.Format(dateFormat),
		r.ShiftType,
		r.StartTime,
		r.EndTime,
		r.Role,
		strconv.Itoa(r.RequiredCount),
		r.Status,
	}
}

// PublishedSchedule is a department's shifts for one month
type PublishedSchedule struct {
	Department string
	Month      time.Time
	Rows       []PublishedScheduleRow
}

// PublishSchedule writes the schedule to a tab named after the department and month.
// A missing tab is created. An existing tab has its managed columns overwritten while
// other columns (notes, cover arrangements) stay with the shift they were written next to.
// Returns the tab title.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) (string, error) {
	tabTitle := generateTabTitle(schedule.Department, schedule.Month)

	exists, err := c.hasTab(ctx, spreadsheetID, tabTitle)
	if err != nil {
		return "", err
	}

	var rows [][]interface{}
	if !exists {
		if _, err := c.CreateSheet(ctx, spreadsheetID, tabTitle); err != nil {
			return "", fmt.Errorf("failed to create tab: %w", err)
		}
		rows = layoutNewTab(schedule)
	} else {
		existing, err := c.GetValues(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1:ZZ", tabTitle))
		if err != nil {
			return "", fmt.Errorf("failed to read existing tab data: %w", err)
		}
		rows, err = mergeExistingTab(existing, schedule)
		if err != nil {
			return "", err
		}
		if err := c.clearTab(ctx, spreadsheetID, tabTitle); err != nil {
			return "", err
		}
	}

	if err := c.writeValues(ctx, spreadsheetID, tabTitle, rows); err != nil {
		return "", fmt.Errorf("failed to write schedule: %w", err)
	}
	return tabTitle, nil
}

func (c *Client) clearTab(ctx context.Context, spreadsheetID, tabTitle string) error {
	_, err := c.service.Spreadsheets.Values.Clear(
		spreadsheetID,
		fmt.Sprintf("'%s'!A1:ZZ", tabTitle),
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear existing tab: %w", err)
	}
	return nil
}

// generateTabTitle creates a title like "Kitchen - August 2025"
func generateTabTitle(department string, month time.Time) string {
	title := month.Format("January 2006")
	department = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '?', '/', '\\', ':', '\'':
			return '-'
		}
		return r
	}, strings.TrimSpace(department))
	if department != "" {
		title = department + " - " + title
	}
	return title
}

func layoutNewTab(schedule *PublishedSchedule) [][]interface{} {
	header := make([]interface{}, 0, len(managedColumns)+1)
	for _, col := range managedColumns {
		header = append(header, col)
	}
	header = append(header, "Notes")

	rows := [][]interface{}{
		{}, // Row 1 (empty)
		{}, // Row 2 (empty)
		header,
	}
	for _, row := range schedule.Rows {
		rows = append(rows, append(row.managedValues(), ""))
	}
	return rows
}

// mergeExistingTab keeps the existing header and carries unmanaged cells over
// to the new row for the same date, shift and start time
func mergeExistingTab(existing [][]interface{}, schedule *PublishedSchedule) ([][]interface{}, error) {
	if len(existing) <= headerRow {
		return nil, fmt.Errorf("existing tab has insufficient rows (expected header on row %d)", headerRow+1)
	}
	header := existing[headerRow]

	managedIdx := make([]int, len(managedColumns))
	isManaged := make(map[int]bool, len(managedColumns))
	for i, col := range managedColumns {
		idx := findColumnIndex(header, col)
		if idx == -1 {
			return nil, fmt.Errorf("existing tab missing required column %q", col)
		}
		managedIdx[i] = idx
		isManaged[idx] = true
	}

	byKey := make(map[string][]interface{})
	for _, row := range existing[headerRow+1:] {
		key := rowKey(cellString(row, managedIdx[0]), cellString(row, managedIdx[1]), cellString(row, managedIdx[2]))
		if _, seen := byKey[key]; !seen {
			byKey[key] = row
		}
	}

	rows := [][]interface{}{{}, {}, header}
	for _, r := range schedule.Rows {
		sheetRow := make([]interface{}, len(header))
		previous := byKey[r.key()]
		for i := range header {
			if isManaged[i] {
				continue
			}
			sheetRow[i] = cellString(previous, i)
		}
		for i, v := range r.managedValues() {
			sheetRow[managedIdx[i]] = v
		}
		rows = append(rows, sheetRow)
	}
	return rows, nil
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && strings.EqualFold(strings.TrimSpace(str), columnName) {
			return i
		}
	}
	return -1
}

func cellString(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	return fmt.Sprint(row[idx])
}

func rowKey(date, shift, start string) string {
	return date + "|" + shift + "|" + start
}
