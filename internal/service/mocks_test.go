package service_test

import (
	"context"
	"sync"

	"orion.app/api/internal/analysis"
	"orion.app/api/internal/model"
	"orion.app/api/internal/queue"
	"orion.app/api/internal/service"
	"orion.app/api/internal/store"
)

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, req analysis.Request) (*model.AnalysisResult, error)
	calls     int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*model.AnalysisResult, error) {
	m.calls++
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, req)
	}
	return &model.AnalysisResult{}, nil
}

type mockProjectStore struct {
	getByIDAndOwnerFn func(ctx context.Context, id, ownerID int64) (*model.Project, error)
	listSourcesFn     func(ctx context.Context, projectID int64) ([]model.ProjectSource, error)
}

func (m *mockProjectStore) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Project, error) {
	if m.getByIDAndOwnerFn != nil {
		return m.getByIDAndOwnerFn(ctx, id, ownerID)
	}
	return &model.Project{ID: id, OwnerID: ownerID}, nil
}

func (m *mockProjectStore) ListSources(ctx context.Context, projectID int64) ([]model.ProjectSource, error) {
	if m.listSourcesFn != nil {
		return m.listSourcesFn(ctx, projectID)
	}
	return nil, nil
}

type mockAnalysisStore struct {
	createFn        func(ctx context.Context, a *model.Analysis) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Analysis, error)
	listByProjectFn func(ctx context.Context, projectID int64, limit int32) ([]model.Analysis, error)
	statsFn         func(ctx context.Context, projectID int64) (*model.AnalysisStats, error)
}

func (m *mockAnalysisStore) Create(ctx context.Context, a *model.Analysis) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockAnalysisStore) GetByID(ctx context.Context, id int64) (*model.Analysis, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockAnalysisStore) ListByProject(ctx context.Context, projectID int64, limit int32) ([]model.Analysis, error) {
	if m.listByProjectFn != nil {
		return m.listByProjectFn(ctx, projectID, limit)
	}
	return []model.Analysis{}, nil
}

func (m *mockAnalysisStore) Stats(ctx context.Context, projectID int64) (*model.AnalysisStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, projectID)
	}
	return &model.AnalysisStats{}, nil
}

type mockArtifactStore struct {
	createFn         func(ctx context.Context, a *model.Artifact) error
	listByAnalysisFn func(ctx context.Context, analysisID int64) ([]model.Artifact, error)
}

func (m *mockArtifactStore) Create(ctx context.Context, a *model.Artifact) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockArtifactStore) ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Artifact, error) {
	if m.listByAnalysisFn != nil {
		return m.listByAnalysisFn(ctx, analysisID)
	}
	return []model.Artifact{}, nil
}

type mockDecisionStore struct {
	createFn         func(ctx context.Context, d *model.Decision) error
	getByIDFn        func(ctx context.Context, id int64) (*model.Decision, error)
	listByAnalysisFn func(ctx context.Context, analysisID int64) ([]model.Decision, error)
	updateStatusFn   func(ctx context.Context, id int64, status model.DecisionStatus) (*model.Decision, error)
}

func (m *mockDecisionStore) Create(ctx context.Context, d *model.Decision) error {
	if m.createFn != nil {
		return m.createFn(ctx, d)
	}
	return nil
}

func (m *mockDecisionStore) GetByID(ctx context.Context, id int64) (*model.Decision, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockDecisionStore) ListByAnalysis(ctx context.Context, analysisID int64) ([]model.Decision, error) {
	if m.listByAnalysisFn != nil {
		return m.listByAnalysisFn(ctx, analysisID)
	}
	return []model.Decision{}, nil
}

func (m *mockDecisionStore) UpdateStatus(ctx context.Context, id int64, status model.DecisionStatus) (*model.Decision, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &model.Decision{ID: id, Status: status}, nil
}

type mockActionHistoryStore struct {
	mu      sync.Mutex
	entries []model.ActionHistoryEntry
	err     error
}

func (m *mockActionHistoryStore) Create(_ context.Context, entry *model.ActionHistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockActionHistoryStore) ListByProject(_ context.Context, projectID int64, _ int32) ([]model.ActionHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ActionHistoryEntry
	for _, e := range m.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockIndexReader struct {
	getFn func(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error)
}

func (m *mockIndexReader) Get(ctx context.Context, projectID int64) (*model.StoredCodeIndex, error) {
	if m.getFn != nil {
		return m.getFn(ctx, projectID)
	}
	return nil, nil
}

type mockJobs struct {
	enqueueFn func(ctx context.Context, job queue.AnalysisJob) (string, error)
	jobs      []queue.AnalysisJob
}

func (m *mockJobs) Enqueue(ctx context.Context, job queue.AnalysisJob) (string, error) {
	m.jobs = append(m.jobs, job)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, job)
	}
	return "1700000000000-0", nil
}

// mockStoreProvider hands out the same mocks inside and outside transactions.
type mockStoreProvider struct {
	analyses  *mockAnalysisStore
	artifacts *mockArtifactStore
	decisions *mockDecisionStore
	history   *mockActionHistoryStore
}

func (m *mockStoreProvider) Analyses() store.AnalysisStore           { return m.analyses }
func (m *mockStoreProvider) Artifacts() store.ArtifactStore          { return m.artifacts }
func (m *mockStoreProvider) Decisions() store.DecisionStore          { return m.decisions }
func (m *mockStoreProvider) ActionHistory() store.ActionHistoryStore { return m.history }

type mockTxRunner struct {
	stores  service.StoreProvider
	commits int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	if err := fn(m.stores); err != nil {
		return err
	}
	m.commits++
	return nil
}
