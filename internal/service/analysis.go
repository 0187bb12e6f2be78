package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"orion.app/api/common/id"
	"orion.app/api/common/logger"
	"orion.app/api/internal/analysis"
	"orion.app/api/internal/model"
	"orion.app/api/internal/queue"
	"orion.app/api/internal/store"
)

const (
	MaxDeepFiles = 5

	defaultListLimit = 20
	maxListLimit     = 100
)

// Analyzer runs one orchestration. *analysis.Orchestrator implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*model.AnalysisResult, error)
}

// CodeIndexReader returns nil without error when no index exists.
type CodeIndexReader interface {
	Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error)
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, job queue.AnalysisJob) (string, error)
}

// CodeIndexView is the latest index of a project and whether a rescan is due.
type CodeIndexView struct {
	Index model.StoredCodeIndex
	Stale bool
}

type AnalysisService interface {
	AnalyzeProject(ctx context.Context, projectID, userID int64) (*model.Analysis, error)
	AnalyzeProjectDeep(ctx context.Context, projectID, userID int64, deepFiles []string) (*model.Analysis, error)
	Enqueue(ctx context.Context, projectID, userID int64, deepFiles []string) (string, error)
	ListByProject(ctx context.Context, projectID, userID int64, limit int32) ([]model.Analysis, error)
	GetByID(ctx context.Context, id, userID int64) (*model.Analysis, error)
	Stats(ctx context.Context, projectID, userID int64) (*model.AnalysisStats, error)
	ListArtifacts(ctx context.Context, analysisID, userID int64) ([]model.Artifact, error)
	ListDecisions(ctx context.Context, analysisID, userID int64) ([]model.Decision, error)
	UpdateDecisionStatus(ctx context.Context, decisionID, userID int64, status model.DecisionStatus) (*model.Decision, error)
	GetCodeIndex(ctx context.Context, projectID, userID int64) (*CodeIndexView, error)
	CheckProjectAccess(ctx context.Context, projectID, userID int64) error
}

type AnalysisServiceDeps struct {
	Analyzer      Analyzer
	Projects      store.ProjectStore
	Analyses      store.AnalysisStore
	Artifacts     store.ArtifactStore
	Decisions     store.DecisionStore
	ActionHistory store.ActionHistoryStore
	Indexes       CodeIndexReader
	TxRunner      TxRunner
	Jobs          JobEnqueuer // nil disables Enqueue
	ReindexMaxAge int         // minutes
	Now           func() time.Time
}

type analysisService struct {
	analyzer      Analyzer
	projects      store.ProjectStore
	analyses      store.AnalysisStore
	artifacts     store.ArtifactStore
	decisions     store.DecisionStore
	history       store.ActionHistoryStore
	indexes       CodeIndexReader
	txRunner      TxRunner
	jobs          JobEnqueuer
	reindexMaxAge int
	now           func() time.Time
}

func NewAnalysisService(deps AnalysisServiceDeps) AnalysisService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.ReindexMaxAge <= 0 {
		deps.ReindexMaxAge = analysis.DefaultReindexMaxAgeMinutes
	}
	return &analysisService{
		analyzer:      deps.Analyzer,
		projects:      deps.Projects,
		analyses:      deps.Analyses,
		artifacts:     deps.Artifacts,
		decisions:     deps.Decisions,
		history:       deps.ActionHistory,
		indexes:       deps.Indexes,
		txRunner:      deps.TxRunner,
		jobs:          deps.Jobs,
		reindexMaxAge: deps.ReindexMaxAge,
		now:           deps.Now,
	}
}

func (s *analysisService) AnalyzeProject(ctx context.Context, projectID, userID int64) (*model.Analysis, error) {
	return s.run(ctx, projectID, userID, nil, model.AnalysisKindQuick)
}

func (s *analysisService) AnalyzeProjectDeep(ctx context.Context, projectID, userID int64, deepFiles []string) (*model.Analysis, error) {
	if err := validateDeepFiles(deepFiles); err != nil {
		return nil, err
	}
	return s.run(ctx, projectID, userID, deepFiles, model.AnalysisKindDeep)
}

func validateDeepFiles(deepFiles []string) error {
	if len(deepFiles) == 0 {
		return ErrNoDeepFiles
	}
	if len(deepFiles) > MaxDeepFiles {
		return fmt.Errorf("%w: got %d, at most %d allowed", ErrTooManyDeepFiles, len(deepFiles), MaxDeepFiles)
	}
	return nil
}

// run detaches from the caller's cancellation: a client that disconnects
// mid-analysis does not stop the run or its persistence.
func (s *analysisService) run(ctx context.Context, projectID, userID int64, deepFiles []string, kind model.AnalysisKind) (*model.Analysis, error) {
	ctx = logger.WithLogFields(context.WithoutCancel(ctx), logger.LogFields{
		ProjectID: logger.Ptr(projectID),
		UserID:    logger.Ptr(userID),
		Component: "orion.service.analysis",
	})

	start := s.now()
	result, err := s.analyzer.Analyze(ctx, analysis.Request{
		ProjectID: projectID,
		UserID:    userID,
		DeepFiles: deepFiles,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("analyzing project: %w", ErrProjectNotFound)
		}
		return nil, fmt.Errorf("analyzing project: %w", err)
	}

	record := NewAnalysisRecord(id.New(), projectID, userID, kind, result)
	ctx = logger.WithLogFields(ctx, logger.LogFields{AnalysisID: logger.Ptr(record.ID)})

	if err := s.persist(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to persist analysis", "error", err)
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	slog.InfoContext(ctx, "analysis stored",
		"kind", kind,
		"issues", record.IssueCount,
		"critical", record.CriticalCount,
		"duration_ms", s.now().Sub(start).Milliseconds())
	return record, nil
}

func (s *analysisService) persist(ctx context.Context, record *model.Analysis) error {
	return s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Analyses().Create(ctx, record); err != nil {
			return fmt.Errorf("creating analysis: %w", err)
		}

		for _, a := range record.Result.Artifacts {
			if err := sp.Artifacts().Create(ctx, &model.Artifact{
				ID:          id.New(),
				AnalysisID:  record.ID,
				ProjectID:   record.ProjectID,
				Name:        a.Name,
				Type:        a.Type,
				Description: a.Description,
				Content:     a.Content,
			}); err != nil {
				return fmt.Errorf("creating artifact %q: %w", a.Name, err)
			}
		}

		for _, d := range record.Result.Decisions {
			if err := sp.Decisions().Create(ctx, &model.Decision{
				ID:         id.New(),
				AnalysisID: record.ID,
				ProjectID:  record.ProjectID,
				Item:       d,
				Status:     model.DecisionStatusPending,
			}); err != nil {
				return fmt.Errorf("creating decision: %w", err)
			}
		}

		if err := sp.ActionHistory().Create(ctx, &model.ActionHistoryEntry{
			ID:        id.New(),
			ProjectID: record.ProjectID,
			UserID:    record.UserID,
			Action:    model.ActionAnalysisCompleted,
			Details: map[string]any{
				"analysis_id": strconv.FormatInt(record.ID, 10),
				"kind":        string(record.Kind),
				"issues":      record.IssueCount,
				"critical":    record.CriticalCount,
				"artifacts":   len(record.Result.Artifacts),
				"decisions":   len(record.Result.Decisions),
			},
		}); err != nil {
			return fmt.Errorf("recording action history: %w", err)
		}
		return nil
	})
}

func (s *analysisService) Enqueue(ctx context.Context, projectID, userID int64, deepFiles []string) (string, error) {
	if s.jobs == nil {
		return "", ErrAsyncUnavailable
	}
	if len(deepFiles) > 0 {
		if err := validateDeepFiles(deepFiles); err != nil {
			return "", err
		}
	}
	if err := s.ensureProject(ctx, projectID, userID); err != nil {
		return "", err
	}

	job := queue.AnalysisJob{ProjectID: projectID, UserID: userID, DeepFiles: deepFiles}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		job.TraceID = traceID
	}
	jobID, err := s.jobs.Enqueue(ctx, job)
	if err != nil {
		return "", fmt.Errorf("enqueueing analysis: %w", err)
	}

	if err := s.history.Create(ctx, &model.ActionHistoryEntry{
		ID:        id.New(),
		ProjectID: projectID,
		UserID:    userID,
		Action:    model.ActionAnalysisQueued,
		Details:   map[string]any{"job_id": jobID, "deep_files": len(deepFiles)},
	}); err != nil {
		slog.WarnContext(ctx, "failed to record queued analysis", "error", err, "job_id", jobID)
	}
	return jobID, nil
}

// CheckProjectAccess returns ErrProjectNotFound unless userID owns the project.
func (s *analysisService) CheckProjectAccess(ctx context.Context, projectID, userID int64) error {
	return s.ensureProject(ctx, projectID, userID)
}

func (s *analysisService) ensureProject(ctx context.Context, projectID, userID int64) error {
	if _, err := s.projects.GetByIDAndOwner(ctx, projectID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("loading project: %w", err)
	}
	return nil
}

func (s *analysisService) ListByProject(ctx context.Context, projectID, userID int64, limit int32) ([]model.Analysis, error) {
	if err := s.ensureProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	analyses, err := s.analyses.ListByProject(ctx, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return analyses, nil
}

// GetByID hides analyses of projects the user does not own behind ErrAnalysisNotFound.
func (s *analysisService) GetByID(ctx context.Context, analysisID, userID int64) (*model.Analysis, error) {
	a, err := s.analyses.GetByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	if err := s.ensureProject(ctx, a.ProjectID, userID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *analysisService) Stats(ctx context.Context, projectID, userID int64) (*model.AnalysisStats, error) {
	if err := s.ensureProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	stats, err := s.analyses.Stats(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting analysis stats: %w", err)
	}
	return stats, nil
}

func (s *analysisService) ListArtifacts(ctx context.Context, analysisID, userID int64) ([]model.Artifact, error) {
	if _, err := s.GetByID(ctx, analysisID, userID); err != nil {
		return nil, err
	}
	artifacts, err := s.artifacts.ListByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	return artifacts, nil
}

func (s *analysisService) ListDecisions(ctx context.Context, analysisID, userID int64) ([]model.Decision, error) {
	if _, err := s.GetByID(ctx, analysisID, userID); err != nil {
		return nil, err
	}
	decisions, err := s.decisions.ListByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	return decisions, nil
}

func (s *analysisService) UpdateDecisionStatus(ctx context.Context, decisionID, userID int64, status model.DecisionStatus) (*model.Decision, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecisionStatus, status)
	}

	current, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDecisionNotFound
		}
		return nil, fmt.Errorf("getting decision: %w", err)
	}
	if err := s.ensureProject(ctx, current.ProjectID, userID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrDecisionNotFound
		}
		return nil, err
	}

	var updated *model.Decision
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		updated, err = sp.Decisions().UpdateStatus(ctx, decisionID, status)
		if err != nil {
			return err
		}
		return sp.ActionHistory().Create(ctx, &model.ActionHistoryEntry{
			ID:        id.New(),
			ProjectID: current.ProjectID,
			UserID:    userID,
			Action:    model.ActionDecisionUpdated,
			Details: map[string]any{
				"decision_id": strconv.FormatInt(decisionID, 10),
				"from":        string(current.Status),
				"to":          string(status),
			},
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDecisionNotFound
		}
		return nil, fmt.Errorf("updating decision status: %w", err)
	}

	slog.InfoContext(ctx, "decision status updated",
		"decision_id", decisionID,
		"status", status)
	return updated, nil
}

func (s *analysisService) GetCodeIndex(ctx context.Context, projectID, userID int64) (*CodeIndexView, error) {
	if err := s.ensureProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	stored, err := s.indexes.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting code index: %w", err)
	}
	if stored == nil {
		return nil, ErrCodeIndexNotFound
	}
	return &CodeIndexView{
		Index: *stored,
		Stale: analysis.IsStale(stored.UpdatedAt, s.now(), s.reindexMaxAge),
	}, nil
}
