package store

import (
	"orion.app/api/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.queries)
}

func (s *Stores) CodeIndexes() CodeIndexStore {
	return newCodeIndexStore(s.queries)
}

func (s *Stores) Analyses() AnalysisStore {
	return newAnalysisStore(s.queries)
}

func (s *Stores) Artifacts() ArtifactStore {
	return newArtifactStore(s.queries)
}

func (s *Stores) Decisions() DecisionStore {
	return newDecisionStore(s.queries)
}

func (s *Stores) ActionHistory() ActionHistoryStore {
	return newActionHistoryStore(s.queries)
}
