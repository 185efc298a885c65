package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryDB keeps drafts for the lifetime of the process. Used when no database URL is configured.
type MemoryDB struct {
	mu           sync.RWMutex
	drafts       map[string]Draft
	publications []Publication
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{drafts: make(map[string]Draft)}
}

// GetDrafts returns drafts ordered by date, then start time
func (m *MemoryDB) GetDrafts(ctx context.Context) ([]Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	drafts := make([]Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		drafts = append(drafts, d)
	}
	SortDrafts(drafts)
	return drafts, nil
}

// InsertDrafts stores all drafts or none of them
func (m *MemoryDB) InsertDrafts(ctx context.Context, drafts []Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		if d.ID == "" {
			return fmt.Errorf("failed to insert draft: missing id")
		}
		if _, exists := m.drafts[d.ID]; exists || seen[d.ID] {
			return fmt.Errorf("failed to insert draft: duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}

	for _, d := range drafts {
		m.drafts[d.ID] = d
	}
	return nil
}

func (m *MemoryDB) DeleteDraft(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	delete(m.drafts, id)
	return nil
}

func (m *MemoryDB) GetPublications(ctx context.Context) ([]Publication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	publications := make([]Publication, len(m.publications))
	copy(publications, m.publications)
	return publications, nil
}

func (m *MemoryDB) InsertPublication(ctx context.Context, publication Publication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.publications = append(m.publications, publication)
	return nil
}

// Close is a no-op
func (m *MemoryDB) Close() {}

// SortDrafts orders drafts by date, start time, then creation
func SortDrafts(drafts []Draft) {
	sort.SliceStable(drafts, func(i, j int) bool {
		if drafts[i].Date != drafts[j].Date {
			return drafts[i].Date < drafts[j].Date
		}
		if drafts[i].StartTime != drafts[j].StartTime {
			return drafts[i].StartTime < drafts[j].StartTime
		}
		return drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
	})
}
