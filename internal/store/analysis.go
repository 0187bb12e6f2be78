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

type analysisStore struct {
	queries *sqlc.Queries
}

func newAnalysisStore(queries *sqlc.Queries) AnalysisStore {
	return &analysisStore{queries: queries}
}

func (s *analysisStore) Create(ctx context.Context, analysis *model.Analysis) error {
	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return err
	}
	risksJSON, err := json.Marshal(emptyIfNil(analysis.Risks))
	if err != nil {
		return err
	}
	assumptionsJSON, err := json.Marshal(emptyIfNil(analysis.Assumptions))
	if err != nil {
		return err
	}
	nextStepsJSON, err := json.Marshal(emptyIfNil(analysis.NextSteps))
	if err != nil {
		return err
	}

	row, err := s.queries.CreateAnalysis(ctx, sqlc.CreateAnalysisParams{
		ID:            analysis.ID,
		ProjectID:     analysis.ProjectID,
		UserID:        analysis.UserID,
		Kind:          string(analysis.Kind),
		Result:        string(resultJSON),
		Risks:         risksJSON,
		Assumptions:   assumptionsJSON,
		NextSteps:     nextStepsJSON,
		IssueCount:    analysis.IssueCount,
		CriticalCount: analysis.CriticalCount,
	})
	if err != nil {
		return err
	}
	created, err := toAnalysisModel(row)
	if err != nil {
		return err
	}
	*analysis = *created
	return nil
}

func (s *analysisStore) GetByID(ctx context.Context, id int64) (*model.Analysis, error) {
	row, err := s.queries.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) ListByProject(ctx context.Context, projectID int64, limit int32) ([]model.Analysis, error) {
	rows, err := s.queries.ListAnalysesByProject(ctx, sqlc.ListAnalysesByProjectParams{
		ProjectID: projectID,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := toAnalysisModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, nil
}

func (s *analysisStore) Stats(ctx context.Context, projectID int64) (*model.AnalysisStats, error) {
	row, err := s.queries.GetProjectAnalysisStats(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats := &model.AnalysisStats{
		TotalAnalyses:  row.TotalAnalyses,
		DeepAnalyses:   row.DeepAnalyses,
		TotalIssues:    row.TotalIssues,
		CriticalIssues: row.CriticalIssues,
	}
	if row.LastAnalysisAt.Valid {
		t := row.LastAnalysisAt.Time
		stats.LastAnalysisAt = &t
	}
	return stats, nil
}

func toAnalysisModel(row sqlc.Analysis) (*model.Analysis, error) {
	a := &model.Analysis{
		ID:            row.ID,
		ProjectID:     row.ProjectID,
		UserID:        row.UserID,
		Kind:          model.AnalysisKind(row.Kind),
		IssueCount:    row.IssueCount,
		CriticalCount: row.CriticalCount,
		CreatedAt:     row.CreatedAt.Time,
	}
	if err := json.Unmarshal([]byte(row.Result), &a.Result); err != nil {
		return nil, fmt.Errorf("unmarshaling analysis result: %w", err)
	}
	if len(row.Risks) > 0 {
		if err := json.Unmarshal(row.Risks, &a.Risks); err != nil {
			return nil, err
		}
	}
	if len(row.Assumptions) > 0 {
		if err := json.Unmarshal(row.Assumptions, &a.Assumptions); err != nil {
			return nil, err
		}
	}
	if len(row.NextSteps) > 0 {
		if err := json.Unmarshal(row.NextSteps, &a.NextSteps); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
