package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/model"
)

type projectStore struct {
	queries *sqlc.Queries
}

func newProjectStore(queries *sqlc.Queries) ProjectStore {
	return &projectStore{queries: queries}
}

func (s *projectStore) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Project, error) {
	row, err := s.queries.GetProjectByIDAndOwner(ctx, sqlc.GetProjectByIDAndOwnerParams{
		ID:      id,
		OwnerID: ownerID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toProjectModel(row), nil
}

func (s *projectStore) ListSources(ctx context.Context, projectID int64) ([]model.ProjectSource, error) {
	rows, err := s.queries.ListProjectSources(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]model.ProjectSource, len(rows))
	for i, row := range rows {
		result[i] = model.ProjectSource{
			ID:         row.ID,
			ProjectID:  row.ProjectID,
			SourceName: row.SourceName,
			SourceURL:  row.SourceUrl,
			SizeBytes:  row.SizeBytes,
			CreatedAt:  row.CreatedAt.Time,
		}
	}
	return result, nil
}

func toProjectModel(row sqlc.Project) *model.Project {
	return &model.Project{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
