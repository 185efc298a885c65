package commands

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorGreen   = "\033[32m"
	colorRed     = "\033[31m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorDim     = "\033[2m"
)

// parseMonth reads YYYY-MM in loc, defaulting to the current month when empty
func parseMonth(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return calendar.FirstOfMonth(time.Now().In(loc), 0), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be YYYY-MM, got: %s", s)
	}
	return calendar.FirstOfMonth(time.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, loc), 0), nil
}

// parseDate reads YYYY-MM-DD in loc
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got: %s", s)
	}
	return calendar.ParseRecordDate(s, loc)
}

// padRight pads s with spaces to width runes, truncating with an ellipsis when it is longer
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n <= width {
		return s + strings.Repeat(" ", width-n)
	}
	if width <= 1 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-1]) + "…"
}

// colored wraps text in a color code. An empty color leaves the text as is.
func colored(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + colorReset
}

// entryColor picks the color a calendar entry is drawn in
func entryColor(r calendar.Record) string {
	switch e := r.(type) {
	case model.Shift:
		switch {
		case e.IsCancelled():
			return colorDim
		case e.Status == model.ShiftDraft:
			return colorYellow
		default:
			return colorGreen
		}
	case model.AvailabilityEntry:
		switch {
		case e.Approved == model.ApprovalRejected:
			return colorDim
		case e.Type == model.AvailabilityUnavailable:
			return colorRed
		default:
			return colorCyan
		}
	case model.TimeOffRequest:
		if e.Status.Approval() == model.ApprovalRejected {
			return colorDim
		}
		return colorMagenta
	default:
		return ""
	}
}

// approvalColor colors a decision: green approved, red rejected, yellow pending
func approvalColor(a model.Approval) string {
	switch a {
	case model.ApprovalApproved:
		return colorGreen
	case model.ApprovalRejected:
		return colorRed
	default:
		return colorYellow
	}
}

// entryLabel is the text shown for an entry inside a day cell
func entryLabel(r calendar.Record) string {
	if l, ok := r.(calendar.Labeled); ok {
		return l.Label()
	}
	start, _ := r.DateSpan()
	return start
}
