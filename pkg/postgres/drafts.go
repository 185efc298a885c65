package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/shift-admin/pkg/db"
)

// GetDrafts retrieves all draft shifts ordered by date and start time
func (d *DB) GetDrafts(ctx context.Context) ([]db.Draft, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, batch_id, template_name, shift_date, start_time, end_time, shift_type,
		       department_id, required_role_id, required_count, notes, created_at
		FROM draft_shift
		ORDER BY shift_date, start_time, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []db.Draft
	for rows.Next() {
		var dr db.Draft
		var shiftDate time.Time
		var batchID, templateName, roleID, notes *string
		if err := rows.Scan(&dr.ID, &batchID, &templateName, &shiftDate, &dr.StartTime, &dr.EndTime, &dr.ShiftType,
			&dr.DepartmentID, &roleID, &dr.RequiredCount, &notes, &dr.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		dr.Date = shiftDate.Format("2006-01-02")
		dr.BatchID = deref(batchID)
		dr.TemplateName = deref(templateName)
		dr.RequiredRoleID = deref(roleID)
		dr.Notes = deref(notes)
		drafts = append(drafts, dr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}

	return drafts, nil
}

// InsertDrafts inserts draft records in a single transaction
func (d *DB) InsertDrafts(ctx context.Context, drafts []db.Draft) error {
	if len(drafts) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, dr := range drafts {
		createdAt := dr.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO draft_shift (id, batch_id, template_name, shift_date, start_time, end_time, shift_type,
			                         department_id, required_role_id, required_count, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, dr.ID, nullable(dr.BatchID), nullable(dr.TemplateName), dr.Date, dr.StartTime, dr.EndTime, dr.ShiftType,
			dr.DepartmentID, nullable(dr.RequiredRoleID), dr.RequiredCount, nullable(dr.Notes), createdAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert draft: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteDraft removes a draft by id. Draft ids are uuids, so any other id (such as a backend
// shift id) is reported as not found without querying.
func (d *DB) DeleteDraft(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", db.ErrDraftNotFound, id)
	}

	tag, err := d.pool.Exec(ctx, `DELETE FROM draft_shift WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", db.ErrDraftNotFound, id)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
