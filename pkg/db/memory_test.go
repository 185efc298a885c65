package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-admin/pkg/core/model"
)

func newDraft(date, start string) Draft {
	return Draft{
		ID:            uuid.NewString(),
		Date:          date,
		StartTime:     start,
		EndTime:       "15:00",
		ShiftType:     "EARLY",
		DepartmentID:  "4",
		RequiredCount: 1,
		CreatedAt:     time.Now(),
	}
}

func TestMemoryDB_DraftsOrderedByDateAndStart(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	late := newDraft("2025-08-19", "07:00")
	early := newDraft("2025-08-18", "13:00")
	earliest := newDraft("2025-08-18", "07:00")
	require.NoError(t, m.InsertDrafts(ctx, []Draft{late, early, earliest}))

	drafts, err := m.GetDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, earliest.ID, drafts[0].ID)
	assert.Equal(t, early.ID, drafts[1].ID)
	assert.Equal(t, late.ID, drafts[2].ID)
}

func TestMemoryDB_InsertIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	existing := newDraft("2025-08-18", "07:00")
	require.NoError(t, m.InsertDrafts(ctx, []Draft{existing}))

	tests := []struct {
		name   string
		drafts []Draft
	}{
		{"clashes with stored draft", []Draft{newDraft("2025-08-20", "07:00"), existing}},
		{"duplicate within batch", func() []Draft {
			d := newDraft("2025-08-21", "07:00")
			return []Draft{d, d}
		}()},
		{"missing id", []Draft{{Date: "2025-08-22"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, m.InsertDrafts(ctx, tt.drafts))

			drafts, err := m.GetDrafts(ctx)
			require.NoError(t, err)
			assert.Len(t, drafts, 1)
		})
	}
}

func TestMemoryDB_DeleteDraft(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	d := newDraft("2025-08-18", "07:00")
	require.NoError(t, m.InsertDrafts(ctx, []Draft{d}))

	require.NoError(t, m.DeleteDraft(ctx, d.ID))

	err := m.DeleteDraft(ctx, d.ID)
	assert.True(t, errors.Is(err, ErrDraftNotFound))

	drafts, err := m.GetDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestMemoryDB_Publications(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	p := Publication{ID: uuid.NewString(), DraftID: "d-1", ShiftID: "31", ShiftDate: "2025-08-18", PublishedAt: time.Now()}
	require.NoError(t, m.InsertPublication(ctx, p))

	pubs, err := m.GetPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "31", pubs[0].ShiftID)

	pubs[0].ShiftID = "changed"
	again, err := m.GetPublications(ctx)
	require.NoError(t, err)
	assert.Equal(t, "31", again[0].ShiftID)
}

func TestDraft_Shift(t *testing.T) {
	d := newDraft("2025-08-18", "07:00")
	d.RequiredRoleID = "2"

	s := d.Shift()
	assert.Equal(t, "2025-08-18", s.Date)
	assert.Equal(t, model.ID("4"), s.DepartmentID)
	assert.Equal(t, model.ID("2"), s.RequiredRoleID)
	assert.Equal(t, model.ShiftDraft, s.Status)
	assert.Empty(t, s.ID)
}
