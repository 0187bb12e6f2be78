package store

import (
	"context"

	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/model"
)

type artifactStore struct {
	queries *sqlc.Queries
}

func newArtifactStore(queries *sqlc.Queries) ArtifactStore {
	return &artifactStore{queries: queries}
}

func (s *artifactStore) Create(ctx context.Context, artifact *model.Artifact) error {
	row, err := s.queries.CreateArtifact(ctx, sqlc.CreateArtifactParams{
		ID:          artifact.ID,
		AnalysisID:  artifact.AnalysisID,
		ProjectID:   artifact.ProjectID,
		Name:        artifact.Name,
		Type:        string(artifact.Type),
		Description: artifact.Description,
		Content:     artifact.Content,
	})
	if err != nil {
		return err
	}
	*artifact = toArtifactModel(row)
	return nil
}

func (s *artifactStore) ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Artifact, error) {
	rows, err := s.queries.ListArtifactsByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Artifact, len(rows))
	for i, row := range rows {
		result[i] = toArtifactModel(row)
	}
	return result, nil
}

func toArtifactModel(row sqlc.Artifact) model.Artifact {
	return model.Artifact{
		ID:          row.ID,
		AnalysisID:  row.AnalysisID,
		ProjectID:   row.ProjectID,
		Name:        row.Name,
		Type:        model.ArtifactType(row.Type),
		Description: row.Description,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt.Time,
	}
}
