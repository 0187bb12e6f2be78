package analysis

import (
	"context"
	"errors"
	"time"

	"orion.app/api/internal/model"
	"orion.app/api/internal/store"
)

const DefaultReindexMaxAgeMinutes = 60

// IndexStore keeps the latest CodeIndex per project. Concurrent saves for the
// same project are not coordinated; the last write wins.
type IndexStore struct {
	indexes store.CodeIndexStore
	now     func() time.Time
}

func NewIndexStore(indexes store.CodeIndexStore) *IndexStore {
	return &IndexStore{indexes: indexes, now: time.Now}
}

// WithClock replaces the clock used by ShouldReindex.
func (s *IndexStore) WithClock(now func() time.Time) *IndexStore {
	s.now = now
	return s
}

func (s *IndexStore) Save(ctx context.Context, index model.CodeIndex) (*model.StoredCodeIndex, error) {
	return s.indexes.Upsert(ctx, index)
}

// Get returns nil without error when the project has never been indexed.
func (s *IndexStore) Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error) {
	stored, err := s.indexes.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return stored, nil
}

// ShouldReindex is true when no index exists or the stored one is older than
// maxAgeMinutes. Only elapsed time is considered, not file changes.
func (s *IndexStore) ShouldReindex(ctx context.Context, projectID int64, maxAgeMinutes int) (bool, error) {
	stored, err := s.Get(ctx, projectID)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return true, nil
	}
	return IsStale(stored.UpdatedAt, s.now(), maxAgeMinutes), nil
}

func IsStale(updatedAt, now time.Time, maxAgeMinutes int) bool {
	if maxAgeMinutes <= 0 {
		maxAgeMinutes = DefaultReindexMaxAgeMinutes
	}
	return now.Sub(updatedAt).Minutes() > float64(maxAgeMinutes)
}
