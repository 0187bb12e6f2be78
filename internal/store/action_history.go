package store

import (
	"context"
	"encoding/json"

	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/model"
)

type actionHistoryStore struct {
	queries *sqlc.Queries
}

func newActionHistoryStore(queries *sqlc.Queries) ActionHistoryStore {
	return &actionHistoryStore{queries: queries}
}

func (s *actionHistoryStore) Create(ctx context.Context, entry *model.ActionHistoryEntry) error {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}
	row, err := s.queries.CreateActionHistory(ctx, sqlc.CreateActionHistoryParams{
		ID:        entry.ID,
		ProjectID: entry.ProjectID,
		UserID:    entry.UserID,
		Action:    string(entry.Action),
		Details:   detailsJSON,
	})
	if err != nil {
		return err
	}
	created, err := toActionHistoryModel(row)
	if err != nil {
		return err
	}
	*entry = *created
	return nil
}

func (s *actionHistoryStore) ListByProject(ctx context.Context, projectID int64, limit int32) ([]model.ActionHistoryEntry, error) {
	rows, err := s.queries.ListActionHistoryByProject(ctx, sqlc.ListActionHistoryByProjectParams{
		ProjectID: projectID,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.ActionHistoryEntry, 0, len(rows))
	for _, row := range rows {
		e, err := toActionHistoryModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, nil
}

func toActionHistoryModel(row sqlc.ActionHistory) (*model.ActionHistoryEntry, error) {
	e := &model.ActionHistoryEntry{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		UserID:    row.UserID,
		Action:    model.ActionType(row.Action),
		CreatedAt: row.CreatedAt.Time,
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &e.Details); err != nil {
			return nil, err
		}
	}
	return e, nil
}
