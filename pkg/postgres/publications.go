package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shift-admin/pkg/db"
)

// GetPublications retrieves all publication records, oldest first
func (d *DB) GetPublications(ctx context.Context) ([]db.Publication, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, draft_id, shift_id, shift_date, published_at
		FROM publication
		ORDER BY published_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query publications: %w", err)
	}
	defer rows.Close()

	var publications []db.Publication
	for rows.Next() {
		var p db.Publication
		var shiftDate time.Time
		if err := rows.Scan(&p.ID, &p.DraftID, &p.ShiftID, &shiftDate, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		p.ShiftDate = shiftDate.Format("2006-01-02")
		publications = append(publications, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publications: %w", err)
	}

	return publications, nil
}

// InsertPublication records a published draft
func (d *DB) InsertPublication(ctx context.Context, p db.Publication) error {
	publishedAt := p.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO publication (id, draft_id, shift_id, shift_date, published_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.DraftID, p.ShiftID, p.ShiftDate, publishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert publication: %w", err)
	}
	return nil
}
