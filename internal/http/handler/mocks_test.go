package handler_test

import (
	"context"
	"errors"

	"orion.app/api/internal/model"
	"orion.app/api/internal/service"
)

type mockAnalysisService struct {
	analyzeFn        func(ctx context.Context, projectID, userID int64) (*model.Analysis, error)
	analyzeDeepFn    func(ctx context.Context, projectID, userID int64, deepFiles []string) (*model.Analysis, error)
	enqueueFn        func(ctx context.Context, projectID, userID int64, deepFiles []string) (string, error)
	listByProjectFn  func(ctx context.Context, projectID, userID int64, limit int32) ([]model.Analysis, error)
	getByIDFn        func(ctx context.Context, id, userID int64) (*model.Analysis, error)
	statsFn          func(ctx context.Context, projectID, userID int64) (*model.AnalysisStats, error)
	listArtifactsFn  func(ctx context.Context, analysisID, userID int64) ([]model.Artifact, error)
	listDecisionsFn  func(ctx context.Context, analysisID, userID int64) ([]model.Decision, error)
	updateDecisionFn func(ctx context.Context, decisionID, userID int64, status model.DecisionStatus) (*model.Decision, error)
	getCodeIndexFn   func(ctx context.Context, projectID, userID int64) (*service.CodeIndexView, error)
	checkAccessFn    func(ctx context.Context, projectID, userID int64) error
}

var errNotMocked = errors.New("not mocked")

func (m *mockAnalysisService) AnalyzeProject(ctx context.Context, projectID, userID int64) (*model.Analysis, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, projectID, userID)
	}
	return nil, errNotMocked
}

func (m *mockAnalysisService) AnalyzeProjectDeep(ctx context.Context, projectID, userID int64, deepFiles []string) (*model.Analysis, error) {
	if m.analyzeDeepFn != nil {
		return m.analyzeDeepFn(ctx, projectID, userID, deepFiles)
	}
	return nil, errNotMocked
}

func (m *mockAnalysisService) Enqueue(ctx context.Context, projectID, userID int64, deepFiles []string) (string, error) {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, projectID, userID, deepFiles)
	}
	return "", errNotMocked
}

func (m *mockAnalysisService) ListByProject(ctx context.Context, projectID, userID int64, limit int32) ([]model.Analysis, error) {
	if m.listByProjectFn != nil {
		return m.listByProjectFn(ctx, projectID, userID, limit)
	}
	return []model.Analysis{}, nil
}

func (m *mockAnalysisService) GetByID(ctx context.Context, id, userID int64) (*model.Analysis, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, userID)
	}
	return nil, service.ErrAnalysisNotFound
}

func (m *mockAnalysisService) Stats(ctx context.Context, projectID, userID int64) (*model.AnalysisStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, projectID, userID)
	}
	return &model.AnalysisStats{}, nil
}

func (m *mockAnalysisService) ListArtifacts(ctx context.Context, analysisID, userID int64) ([]model.Artifact, error) {
	if m.listArtifactsFn != nil {
		return m.listArtifactsFn(ctx, analysisID, userID)
	}
	return []model.Artifact{}, nil
}

func (m *mockAnalysisService) ListDecisions(ctx context.Context, analysisID, userID int64) ([]model.Decision, error) {
	if m.listDecisionsFn != nil {
		return m.listDecisionsFn(ctx, analysisID, userID)
	}
	return []model.Decision{}, nil
}

func (m *mockAnalysisService) UpdateDecisionStatus(ctx context.Context, decisionID, userID int64, status model.DecisionStatus) (*model.Decision, error) {
	if m.updateDecisionFn != nil {
		return m.updateDecisionFn(ctx, decisionID, userID, status)
	}
	return nil, errNotMocked
}

func (m *mockAnalysisService) GetCodeIndex(ctx context.Context, projectID, userID int64) (*service.CodeIndexView, error) {
	if m.getCodeIndexFn != nil {
		return m.getCodeIndexFn(ctx, projectID, userID)
	}
	return nil, service.ErrCodeIndexNotFound
}

func (m *mockAnalysisService) CheckProjectAccess(ctx context.Context, projectID, userID int64) error {
	if m.checkAccessFn != nil {
		return m.checkAccessFn(ctx, projectID, userID)
	}
	return nil
}

type mockVerifier struct {
	tokens map[string]int64
}

func (m *mockVerifier) Verify(token string) (int64, error) {
	if userID, found := m.tokens[token]; found {
		return userID, nil
	}
	return 0, errors.New("invalid token")
}
