package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/model"
)

type codeIndexStore struct {
	queries *sqlc.Queries
}

func newCodeIndexStore(queries *sqlc.Queries) CodeIndexStore {
	return &codeIndexStore{queries: queries}
}

func (s *codeIndexStore) Upsert(ctx context.Context, index model.CodeIndex) (*model.StoredCodeIndex, error) {
	data, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("marshaling code index: %w", err)
	}
	row, err := s.queries.UpsertCodeIndex(ctx, sqlc.UpsertCodeIndexParams{
		ProjectID: index.ProjectID,
		Data:      data,
	})
	if err != nil {
		return nil, err
	}
	return toStoredCodeIndex(row)
}

func (s *codeIndexStore) Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error) {
	row, err := s.queries.GetCodeIndex(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toStoredCodeIndex(row)
}

func toStoredCodeIndex(row sqlc.CodeIndex) (*model.StoredCodeIndex, error) {
	var index model.CodeIndex
	if err := json.Unmarshal(row.Data, &index); err != nil {
		return nil, fmt.Errorf("unmarshaling code index: %w", err)
	}
	return &model.StoredCodeIndex{
		Index:     index,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}
