package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"orion.app/api/internal/model"
)

const (
	defaultIndexCacheSize = 256
	defaultIndexCacheTTL  = 30 * time.Second
)

// cachedCodeIndexStore keeps recently read indexes in memory. Upsert replaces
// the cached entry with the row returned by the database. Entries expire after
// ttl, so rows written by another process are picked up within that window.
type cachedCodeIndexStore struct {
	next  CodeIndexStore
	cache *expirable.LRU[int64, model.StoredCodeIndex]
}

func NewCachedCodeIndexStore(next CodeIndexStore, size int, ttl time.Duration) CodeIndexStore {
	if size <= 0 {
		size = defaultIndexCacheSize
	}
	if ttl <= 0 {
		ttl = defaultIndexCacheTTL
	}
	return &cachedCodeIndexStore{
		next:  next,
		cache: expirable.NewLRU[int64, model.StoredCodeIndex](size, nil, ttl),
	}
}

func (s *cachedCodeIndexStore) Upsert(ctx context.Context, index model.CodeIndex) (*model.StoredCodeIndex, error) {
	stored, err := s.next.Upsert(ctx, index)
	if err != nil {
		s.cache.Remove(index.ProjectID)
		return nil, err
	}
	s.cache.Add(index.ProjectID, *stored)
	return stored, nil
}

func (s *cachedCodeIndexStore) Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error) {
	if cached, ok := s.cache.Get(projectID); ok {
		return &cached, nil
	}
	stored, err := s.next.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(projectID, *stored)
	return stored, nil
}
