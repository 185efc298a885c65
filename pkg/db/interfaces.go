package db

import (
	"context"
	"errors"
)

// ErrDraftNotFound is returned when deleting a draft that isn't stored
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore defines the interface for draft shift operations
type DraftStore interface {
	GetDrafts(ctx context.Context) ([]Draft, error)
	InsertDrafts(ctx context.Context, drafts []Draft) error
	DeleteDraft(ctx context.Context, id string) error
}

// PublicationStore records which drafts became backend shifts
type PublicationStore interface {
	GetPublications(ctx context.Context) ([]Publication, error)
	InsertPublication(ctx context.Context, publication Publication) error
}

// Database defines the interface for all database operations.
// Both the in-memory MemoryDB and postgres.DB implement this interface.
type Database interface {
	DraftStore
	PublicationStore
	Close()
}
