package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/model"
)

type decisionStore struct {
	queries *sqlc.Queries
}

func newDecisionStore(queries *sqlc.Queries) DecisionStore {
	return &decisionStore{queries: queries}
}

func (s *decisionStore) Create(ctx context.Context, decision *model.Decision) error {
	prosJSON, err := json.Marshal(emptyIfNil(decision.Item.Pros))
	if err != nil {
		return err
	}
	consJSON, err := json.Marshal(emptyIfNil(decision.Item.Cons))
	if err != nil {
		return err
	}

	row, err := s.queries.CreateDecision(ctx, sqlc.CreateDecisionParams{
		ID:              decision.ID,
		AnalysisID:      decision.AnalysisID,
		ProjectID:       decision.ProjectID,
		Title:           decision.Item.Title,
		Category:        decision.Item.Category,
		Description:     decision.Item.Description,
		Pros:            prosJSON,
		Cons:            consJSON,
		Recommendation:  string(decision.Item.Recommendation),
		EstimatedEffort: decision.Item.EstimatedEffort,
	})
	if err != nil {
		return err
	}
	created, err := toDecisionModel(row)
	if err != nil {
		return err
	}
	*decision = *created
	return nil
}

func (s *decisionStore) GetByID(ctx context.Context, id int64) (*model.Decision, error) {
	row, err := s.queries.GetDecision(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDecisionModel(row)
}

func (s *decisionStore) ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Decision, error) {
	rows, err := s.queries.ListDecisionsByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Decision, 0, len(rows))
	for _, row := range rows {
		d, err := toDecisionModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

func (s *decisionStore) UpdateStatus(ctx context.Context, id int64, status model.DecisionStatus) (*model.Decision, error) {
	row, err := s.queries.UpdateDecisionStatus(ctx, sqlc.UpdateDecisionStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDecisionModel(row)
}

func toDecisionModel(row sqlc.Decision) (*model.Decision, error) {
	d := &model.Decision{
		ID:         row.ID,
		AnalysisID: row.AnalysisID,
		ProjectID:  row.ProjectID,
		Item: model.DecisionItem{
			Title:           row.Title,
			Category:        row.Category,
			Description:     row.Description,
			Recommendation:  model.DecisionRecommendation(row.Recommendation),
			EstimatedEffort: row.EstimatedEffort,
		},
		Status:    model.DecisionStatus(row.Status),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
	if len(row.Pros) > 0 {
		if err := json.Unmarshal(row.Pros, &d.Item.Pros); err != nil {
			return nil, err
		}
	}
	if len(row.Cons) > 0 {
		if err := json.Unmarshal(row.Cons, &d.Item.Cons); err != nil {
			return nil, err
		}
	}
	return d, nil
}
