package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/common/id"
	"orion.app/api/internal/analysis"
	"orion.app/api/internal/model"
	"orion.app/api/internal/queue"
	"orion.app/api/internal/service"
	"orion.app/api/internal/store"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Summary: "# Code Analysis Summary",
		Issues: []model.Issue{
			{Severity: model.SeverityCritical, Category: "security", Description: "Hardcoded secret", Suggestion: "Use env vars"},
			{Severity: model.SeverityHigh, Category: "performance", Description: "N+1 query"},
			{Severity: model.SeverityLow, Category: "quality", Description: "Naming"},
		},
		Suggestions:     []model.Suggestion{{File: "src/app.ts", Reason: "entry point", Priority: "high"}},
		Metrics:         model.Metrics{CodeQuality: 80, Maintainability: 75, Performance: 70, Security: 40},
		Recommendations: []string{"Rotate secrets"},
		Artifacts: []model.GeneratedArtifact{
			{Name: "Code Review Checklist", Type: model.ArtifactTypeChecklist},
			{Name: "Action Plan", Type: model.ArtifactTypePlan},
		},
		Decisions: []model.DecisionItem{
			{Title: "Fix security issue: Hardcoded secret", Recommendation: model.RecommendationHighPriority},
			{Title: "Fix performance issue: N+1 query", Recommendation: model.RecommendationMediumPriority},
		},
	}
}

var _ = Describe("AnalysisService", func() {
	var (
		ctx       context.Context
		analyzer  *mockAnalyzer
		projects  *mockProjectStore
		analyses  *mockAnalysisStore
		artifacts *mockArtifactStore
		decisions *mockDecisionStore
		history   *mockActionHistoryStore
		indexes   *mockIndexReader
		jobs      *mockJobs
		txRunner  *mockTxRunner
		now       time.Time
		svc       service.AnalysisService
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		analyzer = &mockAnalyzer{}
		projects = &mockProjectStore{}
		analyses = &mockAnalysisStore{}
		artifacts = &mockArtifactStore{}
		decisions = &mockDecisionStore{}
		history = &mockActionHistoryStore{}
		indexes = &mockIndexReader{}
		jobs = &mockJobs{}
		txRunner = &mockTxRunner{stores: &mockStoreProvider{
			analyses:  analyses,
			artifacts: artifacts,
			decisions: decisions,
			history:   history,
		}}
	})

	JustBeforeEach(func() {
		svc = service.NewAnalysisService(service.AnalysisServiceDeps{
			Analyzer:      analyzer,
			Projects:      projects,
			Analyses:      analyses,
			Artifacts:     artifacts,
			Decisions:     decisions,
			ActionHistory: history,
			Indexes:       indexes,
			TxRunner:      txRunner,
			Jobs:          jobs,
			ReindexMaxAge: 60,
			Now:           func() time.Time { return now },
		})
	})

	Describe("AnalyzeProject", func() {
		It("persists the analysis with its artifacts, decisions and history in one transaction", func() {
			analyzer.analyzeFn = func(_ context.Context, req analysis.Request) (*model.AnalysisResult, error) {
				Expect(req.ProjectID).To(Equal(int64(10)))
				Expect(req.UserID).To(Equal(int64(20)))
				Expect(req.DeepFiles).To(BeEmpty())
				return sampleResult(), nil
			}
			var stored *model.Analysis
			analyses.createFn = func(_ context.Context, a *model.Analysis) error {
				stored = a
				return nil
			}
			var storedArtifacts []model.Artifact
			artifacts.createFn = func(_ context.Context, a *model.Artifact) error {
				storedArtifacts = append(storedArtifacts, *a)
				return nil
			}
			var storedDecisions []model.Decision
			decisions.createFn = func(_ context.Context, d *model.Decision) error {
				storedDecisions = append(storedDecisions, *d)
				return nil
			}

			record, err := svc.AnalyzeProject(ctx, 10, 20)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.ID).NotTo(BeZero())
			Expect(record.Kind).To(Equal(model.AnalysisKindQuick))
			Expect(record.IssueCount).To(Equal(int32(3)))
			Expect(record.CriticalCount).To(Equal(int32(1)))
			Expect(stored).To(BeIdenticalTo(record))
			Expect(txRunner.commits).To(Equal(1))

			Expect(storedArtifacts).To(HaveLen(2))
			for _, a := range storedArtifacts {
				Expect(a.AnalysisID).To(Equal(record.ID))
				Expect(a.ProjectID).To(Equal(int64(10)))
			}
			Expect(storedDecisions).To(HaveLen(2))
			Expect(storedDecisions[0].Status).To(Equal(model.DecisionStatusPending))

			Expect(history.entries).To(HaveLen(1))
			Expect(history.entries[0].Action).To(Equal(model.ActionAnalysisCompleted))
		})

		It("derives risks, assumptions and next steps", func() {
			analyzer.analyzeFn = func(context.Context, analysis.Request) (*model.AnalysisResult, error) {
				return sampleResult(), nil
			}

			record, err := svc.AnalyzeProject(ctx, 10, 20)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.Risks).To(Equal([]model.Risk{
				{Issue: "Hardcoded secret", Severity: model.SeverityCritical, Mitigation: "Use env vars"},
				{Issue: "N+1 query", Severity: model.SeverityHigh, Mitigation: "Review performance findings"},
			}))
			Expect(record.Assumptions).To(Equal([]model.Assumption{{Recommendation: "Rotate secrets", Validated: false}}))
			Expect(record.NextSteps).To(Equal([]model.NextStep{
				{Suggestion: "Review src/app.ts: entry point", Priority: "high", Status: "pending"},
			}))
		})

		It("keeps running when the caller's context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			analyzer.analyzeFn = func(c context.Context, _ analysis.Request) (*model.AnalysisResult, error) {
				Expect(c.Err()).NotTo(HaveOccurred())
				return sampleResult(), nil
			}

			_, err := svc.AnalyzeProject(cancelled, 10, 20)
			Expect(err).NotTo(HaveOccurred())
		})

		It("maps a missing project to ErrProjectNotFound and stores nothing", func() {
			analyzer.analyzeFn = func(context.Context, analysis.Request) (*model.AnalysisResult, error) {
				return nil, fmt.Errorf("loading project 10: %w", store.ErrNotFound)
			}

			_, err := svc.AnalyzeProject(ctx, 10, 20)

			Expect(errors.Is(err, service.ErrProjectNotFound)).To(BeTrue())
			Expect(txRunner.commits).To(BeZero())
		})

		It("rolls back when a decision cannot be stored", func() {
			analyzer.analyzeFn = func(context.Context, analysis.Request) (*model.AnalysisResult, error) {
				return sampleResult(), nil
			}
			decisions.createFn = func(context.Context, *model.Decision) error {
				return errors.New("constraint violation")
			}

			_, err := svc.AnalyzeProject(ctx, 10, 20)

			Expect(err).To(MatchError(ContainSubstring("constraint violation")))
			Expect(txRunner.commits).To(BeZero())
		})
	})

	Describe("AnalyzeProjectDeep", func() {
		It("rejects more than five files before any model call", func() {
			files := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts", "f.ts"}

			_, err := svc.AnalyzeProjectDeep(ctx, 10, 20, files)

			Expect(errors.Is(err, service.ErrTooManyDeepFiles)).To(BeTrue())
			Expect(analyzer.calls).To(BeZero())
		})

		It("rejects an empty file list", func() {
			_, err := svc.AnalyzeProjectDeep(ctx, 10, 20, nil)

			Expect(errors.Is(err, service.ErrNoDeepFiles)).To(BeTrue())
			Expect(analyzer.calls).To(BeZero())
		})

		It("passes the files through and stores a deep analysis", func() {
			files := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts"}
			analyzer.analyzeFn = func(_ context.Context, req analysis.Request) (*model.AnalysisResult, error) {
				Expect(req.DeepFiles).To(Equal(files))
				return sampleResult(), nil
			}

			record, err := svc.AnalyzeProjectDeep(ctx, 10, 20, files)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.Kind).To(Equal(model.AnalysisKindDeep))
		})
	})

	Describe("Enqueue", func() {
		It("enqueues a job for an owned project and records it", func() {
			jobID, err := svc.Enqueue(ctx, 10, 20, []string{"a.ts"})

			Expect(err).NotTo(HaveOccurred())
			Expect(jobID).To(Equal("1700000000000-0"))
			Expect(jobs.jobs).To(Equal([]queue.AnalysisJob{{ProjectID: 10, UserID: 20, DeepFiles: []string{"a.ts"}}}))
			Expect(history.entries).To(HaveLen(1))
			Expect(history.entries[0].Action).To(Equal(model.ActionAnalysisQueued))
		})

		It("does not enqueue for a project the user does not own", func() {
			projects.getByIDAndOwnerFn = func(context.Context, int64, int64) (*model.Project, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Enqueue(ctx, 10, 20, nil)

			Expect(errors.Is(err, service.ErrProjectNotFound)).To(BeTrue())
			Expect(jobs.jobs).To(BeEmpty())
		})

		It("validates deep files before enqueueing", func() {
			_, err := svc.Enqueue(ctx, 10, 20, []string{"1", "2", "3", "4", "5", "6"})

			Expect(errors.Is(err, service.ErrTooManyDeepFiles)).To(BeTrue())
			Expect(jobs.jobs).To(BeEmpty())
		})
	})

	Describe("reads", func() {
		BeforeEach(func() {
			analyses.getByIDFn = func(_ context.Context, analysisID int64) (*model.Analysis, error) {
				if analysisID != 5 {
					return nil, store.ErrNotFound
				}
				return &model.Analysis{ID: 5, ProjectID: 10}, nil
			}
			projects.getByIDAndOwnerFn = func(_ context.Context, projectID, ownerID int64) (*model.Project, error) {
				if projectID != 10 || ownerID != 20 {
					return nil, store.ErrNotFound
				}
				return &model.Project{ID: 10, OwnerID: 20}, nil
			}
		})

		It("returns an owned analysis", func() {
			a, err := svc.GetByID(ctx, 5, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).To(Equal(int64(5)))
		})

		It("hides analyses of other users", func() {
			_, err := svc.GetByID(ctx, 5, 99)
			Expect(errors.Is(err, service.ErrAnalysisNotFound)).To(BeTrue())
		})

		It("reports unknown analyses as not found", func() {
			_, err := svc.GetByID(ctx, 6, 20)
			Expect(errors.Is(err, service.ErrAnalysisNotFound)).To(BeTrue())
		})

		It("clamps the list limit", func() {
			var gotLimit int32
			analyses.listByProjectFn = func(_ context.Context, _ int64, limit int32) ([]model.Analysis, error) {
				gotLimit = limit
				return []model.Analysis{}, nil
			}

			_, err := svc.ListByProject(ctx, 10, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(int32(20)))

			_, err = svc.ListByProject(ctx, 10, 20, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(int32(100)))
		})

		It("lists artifacts and decisions only for owned analyses", func() {
			_, err := svc.ListArtifacts(ctx, 5, 99)
			Expect(errors.Is(err, service.ErrAnalysisNotFound)).To(BeTrue())

			decisions.listByAnalysisFn = func(_ context.Context, analysisID int64) ([]model.Decision, error) {
				return []model.Decision{{ID: 1, AnalysisID: analysisID}}, nil
			}
			list, err := svc.ListDecisions(ctx, 5, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("returns stats for an owned project", func() {
			analyses.statsFn = func(context.Context, int64) (*model.AnalysisStats, error) {
				return &model.AnalysisStats{TotalAnalyses: 3, CriticalIssues: 2}, nil
			}

			stats, err := svc.Stats(ctx, 10, 20)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalAnalyses).To(Equal(int64(3)))
		})
	})

	Describe("UpdateDecisionStatus", func() {
		BeforeEach(func() {
			decisions.getByIDFn = func(_ context.Context, decisionID int64) (*model.Decision, error) {
				return &model.Decision{ID: decisionID, ProjectID: 10, Status: model.DecisionStatusPending}, nil
			}
		})

		It("rejects unknown statuses", func() {
			_, err := svc.UpdateDecisionStatus(ctx, 1, 20, model.DecisionStatus("maybe"))
			Expect(errors.Is(err, service.ErrInvalidDecisionStatus)).To(BeTrue())
		})

		It("updates the status and records the change", func() {
			decision, err := svc.UpdateDecisionStatus(ctx, 1, 20, model.DecisionStatusConfirmed)

			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Status).To(Equal(model.DecisionStatusConfirmed))
			Expect(txRunner.commits).To(Equal(1))
			Expect(history.entries).To(HaveLen(1))
			Expect(history.entries[0].Details).To(HaveKeyWithValue("to", "confirmed"))
		})

		It("hides decisions of projects the user does not own", func() {
			projects.getByIDAndOwnerFn = func(context.Context, int64, int64) (*model.Project, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.UpdateDecisionStatus(ctx, 1, 99, model.DecisionStatusRejected)
			Expect(errors.Is(err, service.ErrDecisionNotFound)).To(BeTrue())
		})

		It("reports a missing decision", func() {
			decisions.getByIDFn = func(context.Context, int64) (*model.Decision, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.UpdateDecisionStatus(ctx, 1, 20, model.DecisionStatusRejected)
			Expect(errors.Is(err, service.ErrDecisionNotFound)).To(BeTrue())
		})
	})

	Describe("GetCodeIndex", func() {
		It("flags an old index as stale", func() {
			indexes.getFn = func(_ context.Context, projectID int64) (*model.StoredCodeIndex, error) {
				return &model.StoredCodeIndex{
					Index:     model.NewCodeIndex(projectID, now),
					Version:   2,
					UpdatedAt: now.Add(-2 * time.Hour),
				}, nil
			}

			view, err := svc.GetCodeIndex(ctx, 10, 20)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stale).To(BeTrue())
			Expect(view.Index.Version).To(Equal(int32(2)))
		})

		It("returns ErrCodeIndexNotFound before the first scan", func() {
			_, err := svc.GetCodeIndex(ctx, 10, 20)
			Expect(errors.Is(err, service.ErrCodeIndexNotFound)).To(BeTrue())
		})
	})

	Describe("CheckProjectAccess", func() {
		It("allows the owner", func() {
			Expect(svc.CheckProjectAccess(ctx, 10, 20)).To(Succeed())
		})

		It("reports other users' projects as not found", func() {
			projects.getByIDAndOwnerFn = func(context.Context, int64, int64) (*model.Project, error) {
				return nil, store.ErrNotFound
			}

			Expect(svc.CheckProjectAccess(ctx, 10, 99)).To(MatchError(service.ErrProjectNotFound))
		})

		It("wraps store failures", func() {
			projects.getByIDAndOwnerFn = func(context.Context, int64, int64) (*model.Project, error) {
				return nil, errors.New("connection reset")
			}

			err := svc.CheckProjectAccess(ctx, 10, 20)

			Expect(err).To(MatchError(ContainSubstring("loading project")))
			Expect(errors.Is(err, service.ErrProjectNotFound)).To(BeFalse())
		})
	})
})
