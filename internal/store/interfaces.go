package store

import (
	"context"
	"errors"

	"orion.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ProjectStore defines read access to projects and their uploaded sources
type ProjectStore interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Project, error)
	ListSources(ctx context.Context, projectID int64) ([]model.ProjectSource, error)
}

// CodeIndexStore persists the latest code index per project (last write wins)
type CodeIndexStore interface {
	Upsert(ctx context.Context, index model.CodeIndex) (*model.StoredCodeIndex, error)
	Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error)
}

// AnalysisStore defines the contract for analysis records
type AnalysisStore interface {
	Create(ctx context.Context, analysis *model.Analysis) error
	GetByID(ctx context.Context, id int64) (*model.Analysis, error)
	ListByProject(ctx context.Context, projectID int64, limit int32) ([]model.Analysis, error)
	Stats(ctx context.Context, projectID int64) (*model.AnalysisStats, error)
}

// ArtifactStore defines the contract for generated artifact rows
type ArtifactStore interface {
	Create(ctx context.Context, artifact *model.Artifact) error
	ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Artifact, error)
}

// DecisionStore defines the contract for decisions and their status lifecycle
type DecisionStore interface {
	Create(ctx context.Context, decision *model.Decision) error
	GetByID(ctx context.Context, id int64) (*model.Decision, error)
	ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Decision, error)
	UpdateStatus(ctx context.Context, id int64, status model.DecisionStatus) (*model.Decision, error)
}

// ActionHistoryStore records user-visible actions per project
type ActionHistoryStore interface {
	Create(ctx context.Context, entry *model.ActionHistoryEntry) error
	ListByProject(ctx context.Context, projectID int64, limit int32) ([]model.ActionHistoryEntry, error)
}
