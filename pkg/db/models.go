package db

import (
	"time"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// Draft is a shift that exists only locally until it is published
type Draft struct {
	ID             string // uuid
	BatchID        string // uuid shared by drafts expanded from one template run, empty otherwise
	TemplateName   string
	Date           string // YYYY-MM-DD
	StartTime      string // HH:MM
	EndTime        string // HH:MM
	ShiftType      string
	DepartmentID   string
	RequiredRoleID string
	RequiredCount  int
	Notes          string
	CreatedAt      time.Time
}

// Shift returns the draft as a shift in draft status
func (d Draft) Shift() model.Shift {
	return model.Shift{
		Date:           d.Date,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		ShiftType:      d.ShiftType,
		DepartmentID:   model.ID(d.DepartmentID),
		RequiredRoleID: model.ID(d.RequiredRoleID),
		RequiredCount:  d.RequiredCount,
		Status:         model.ShiftDraft,
		Notes:          d.Notes,
	}
}

// Publication records that a draft was published as a backend shift
type Publication struct {
	ID          string // uuid
	DraftID     string
	ShiftID     string // backend id of the created shift
	ShiftDate   string
	PublishedAt time.Time
}
