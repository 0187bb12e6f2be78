package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"orion.app/api/common/logger"
	"orion.app/api/internal/model"
	"orion.app/api/internal/progress"
	"orion.app/api/internal/store"
)

type Request struct {
	ProjectID int64
	UserID    int64
	DeepFiles []string
}

type StructureAnalyzer interface {
	AnalyzeStructure(ctx context.Context, index model.CodeIndex) (Parsed[model.StructuralAnalysis], error)
}

type DimensionsAnalyzer interface {
	AnalyzeDimension(ctx context.Context, index model.CodeIndex, dim model.Dimension) (Parsed[model.DimensionAnalysis], error)
}

type FilesAnalyzer interface {
	AnalyzeFiles(ctx context.Context, refs []model.FileRef) ([]model.FileReview, error)
}

// BatchResult holds the five concurrent model analyses. Dimensions follow
// the order of model.Dimensions.
type BatchResult struct {
	Structural Parsed[model.StructuralAnalysis]
	Dimensions []Parsed[model.DimensionAnalysis]
}

func (b BatchResult) dimensionValues() []model.DimensionAnalysis {
	out := make([]model.DimensionAnalysis, len(b.Dimensions))
	for i, d := range b.Dimensions {
		out[i] = d.Value
	}
	return out
}

type Orchestrator struct {
	projects   store.ProjectStore
	scanner    *Scanner
	indexes    *IndexStore
	structural StructureAnalyzer
	dimensions DimensionsAnalyzer
	deep       FilesAnalyzer
	progress   progress.Publisher
	logger     *slog.Logger
}

type OrchestratorDeps struct {
	Projects   store.ProjectStore
	Scanner    *Scanner
	Indexes    *IndexStore
	Structural StructureAnalyzer
	Dimensions DimensionsAnalyzer
	Deep       FilesAnalyzer
	Progress   progress.Publisher
	Logger     *slog.Logger
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Progress == nil {
		deps.Progress = progress.Nop{}
	}
	return &Orchestrator{
		projects:   deps.Projects,
		scanner:    deps.Scanner,
		indexes:    deps.Indexes,
		structural: deps.Structural,
		dimensions: deps.Dimensions,
		deep:       deps.Deep,
		progress:   deps.Progress,
		logger:     deps.Logger,
	}
}

// Analyze runs one analysis: scan, index, the structural and dimension batch,
// optional deep review, then merge and synthesis. Progress is published for
// every stage; on failure an error event is published and the error returned.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (result *model.AnalysisResult, err error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ProjectID: logger.Ptr(req.ProjectID),
		UserID:    logger.Ptr(req.UserID),
		Component: "orion.analysis.orchestrator",
	})
	span := logger.StartSpan(ctx, "analysis.run", trace.WithAttributes(
		attribute.Int64("project_id", req.ProjectID),
		attribute.Int("deep_files", len(req.DeepFiles)),
	))
	defer span.End()
	ctx = span.Context()

	defer func() {
		if err != nil {
			span.RecordError(err)
			o.logger.ErrorContext(ctx, "analysis failed", "error", err)
			o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusError, err.Error()))
		}
	}()

	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusQueued, "Analysis queued"))

	if _, err := o.projects.GetByIDAndOwner(ctx, req.ProjectID, req.UserID); err != nil {
		return nil, fmt.Errorf("loading project %d: %w", req.ProjectID, err)
	}
	sources, err := o.projects.ListSources(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("listing project sources: %w", err)
	}

	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusScanning, "Scanning project files"))
	index := o.scan(ctx, req.ProjectID, model.RefsFromSources(sources))

	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusIndexing, "Indexing code structure"))
	if _, err := o.indexes.Save(ctx, index); err != nil {
		return nil, fmt.Errorf("saving code index: %w", err)
	}

	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusStructural, "Analyzing project structure"))
	batch, err := o.runModelBatch(ctx, index)
	if err != nil {
		return nil, err
	}

	suggested := suggestedPaths(batch.Structural.Value)
	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusDimensions, "Architecture, security, performance and quality analyzed").
		WithSuggestedFiles(suggested))

	deep := []model.FileReview{}
	if len(req.DeepFiles) > 0 {
		o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusDeep, fmt.Sprintf("Reviewing %d files in depth", len(req.DeepFiles))))
		deep = o.runDeep(ctx, sources, req.DeepFiles)
	}

	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusMerging, "Merging results"))
	result = Synthesize(batch, deep)

	o.logger.InfoContext(ctx, "analysis completed",
		"issues", len(result.Issues),
		"artifacts", len(result.Artifacts),
		"decisions", len(result.Decisions))
	o.emit(ctx, progress.NewEvent(req.ProjectID, progress.StatusCompleted, "Analysis completed").
		WithSuggestedFiles(suggested))

	return result, nil
}

func (o *Orchestrator) scan(ctx context.Context, projectID int64, refs []model.FileRef) model.CodeIndex {
	span := logger.StartSpan(ctx, "analysis.scan", trace.WithAttributes(attribute.Int("files", len(refs))))
	defer span.End()
	return o.scanner.Scan(span.Context(), projectID, refs)
}

// runModelBatch issues the structural call and the four dimension calls
// concurrently. The first failure cancels the others and fails the batch.
func (o *Orchestrator) runModelBatch(ctx context.Context, index model.CodeIndex) (BatchResult, error) {
	span := logger.StartSpan(ctx, "analysis.model_batch")
	defer span.End()

	batch := BatchResult{Dimensions: make([]Parsed[model.DimensionAnalysis], len(model.Dimensions))}

	g, gctx := errgroup.WithContext(span.Context())
	g.Go(func() error {
		parsed, err := o.structural.AnalyzeStructure(gctx, index)
		if err != nil {
			return err
		}
		batch.Structural = parsed
		return nil
	})
	for i, dim := range model.Dimensions {
		g.Go(func() error {
			parsed, err := o.dimensions.AnalyzeDimension(gctx, index, dim)
			if err != nil {
				return err
			}
			batch.Dimensions[i] = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return BatchResult{}, fmt.Errorf("model batch: %w", err)
	}

	fallbacks := 0
	if batch.Structural.Fallback {
		fallbacks++
	}
	for _, d := range batch.Dimensions {
		if d.Fallback {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		o.logger.WarnContext(ctx, "model batch degraded to fallbacks", "fallbacks", fallbacks)
	}
	return batch, nil
}

// runDeep applies the degrade policy: any failure yields no deep results.
func (o *Orchestrator) runDeep(ctx context.Context, sources []model.ProjectSource, paths []string) []model.FileReview {
	span := logger.StartSpan(ctx, "analysis.deep", trace.WithAttributes(attribute.Int("files", len(paths))))
	defer span.End()
	ctx = span.Context()

	if o.deep == nil {
		return []model.FileReview{}
	}

	refs := resolveDeepFiles(sources, paths)
	if len(refs) < len(paths) {
		o.logger.WarnContext(ctx, "deep analysis files not found in project",
			"requested", len(paths),
			"resolved", len(refs))
	}

	reviews, err := o.deep.AnalyzeFiles(ctx, refs)
	if err != nil {
		span.RecordError(err)
		o.logger.WarnContext(ctx, "deep analysis failed, continuing without it",
			"policy", PolicyFor(StageDeep),
			"error", err)
		return []model.FileReview{}
	}
	return reviews
}

func (o *Orchestrator) emit(ctx context.Context, event progress.Event) {
	if err := o.progress.Publish(ctx, event); err != nil {
		o.logger.WarnContext(ctx, "failed to publish progress event",
			"status", event.Status,
			"error", err)
	}
}

// Synthesize assembles the final result from the model batch and deep reviews.
func Synthesize(batch BatchResult, deep []model.FileReview) *model.AnalysisResult {
	dims := batch.dimensionValues()
	issues := MergeIssues(dims, deep)
	metrics := BuildMetrics(dims)
	recommendations := BuildRecommendations(dims)

	return &model.AnalysisResult{
		Summary:         BuildSummary(batch.Structural.Value, dims, issues),
		Issues:          issues,
		Suggestions:     BuildSuggestions(batch.Structural.Value),
		Metrics:         metrics,
		Recommendations: recommendations,
		Artifacts:       BuildArtifacts(issues, recommendations, metrics),
		Decisions:       BuildDecisions(issues),
	}
}

func resolveDeepFiles(sources []model.ProjectSource, paths []string) []model.FileRef {
	byName := make(map[string]model.FileRef, len(sources))
	for _, s := range sources {
		if s.SourceURL != nil && *s.SourceURL != "" {
			byName[s.SourceName] = s.Ref()
		}
	}
	refs := make([]model.FileRef, 0, len(paths))
	for _, p := range paths {
		if ref, ok := byName[p]; ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func suggestedPaths(s model.StructuralAnalysis) []string {
	out := make([]string, 0, len(s.SuggestedFiles))
	for _, f := range s.SuggestedFiles {
		out = append(out, f.Path)
	}
	return out
}
