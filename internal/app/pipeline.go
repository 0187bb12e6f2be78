// Package app assembles the analysis pipeline shared by the API server and
// the worker.
package app

import (
	"fmt"
	"log/slog"
	"strings"

	"orion.app/api/common/llm"
	"orion.app/api/core/config"
	"orion.app/api/internal/analysis"
	"orion.app/api/internal/filestore"
	"orion.app/api/internal/progress"
	"orion.app/api/internal/store"
)

type Pipeline struct {
	Orchestrator *analysis.Orchestrator
	Indexes      *analysis.IndexStore
}

// NewPipeline builds the model clients, analyzers and the orchestrator.
// Code indexes are read through an LRU cache in front of stores.
func NewPipeline(cfg config.Config, stores *store.Stores, publisher progress.Publisher) (*Pipeline, error) {
	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return nil, fmt.Errorf("creating file store: %w", err)
	}

	structuralClient, err := newTextClient("STRUCTURAL", cfg.StructuralLLM)
	if err != nil {
		return nil, err
	}
	dimensionClient, err := newTextClient("DIMENSION", cfg.DimensionLLM)
	if err != nil {
		return nil, err
	}
	deepClient, err := newTextClient("DEEP", cfg.DeepLLM)
	if err != nil {
		return nil, err
	}

	codeIndexes := store.NewCachedCodeIndexStore(stores.CodeIndexes(), cfg.Analysis.IndexCacheSize, cfg.Analysis.IndexCacheTTL)
	indexes := analysis.NewIndexStore(codeIndexes)

	logger := slog.Default()
	orchestrator := analysis.NewOrchestrator(analysis.OrchestratorDeps{
		Projects:   stores.Projects(),
		Scanner:    analysis.NewScanner(files, logger, analysis.WithScanConcurrency(cfg.Analysis.ScanConcurrency)),
		Indexes:    indexes,
		Structural: analysis.NewStructuralAnalyzer(structuralClient, cfg.StructuralLLM.MaxTokens, logger),
		Dimensions: analysis.NewDimensionAnalyzer(dimensionClient, cfg.DimensionLLM.MaxTokens, logger),
		Deep:       analysis.NewDeepAnalyzer(deepClient, files, cfg.DeepLLM.MaxTokens, cfg.Analysis.MaxDeepFileBytes, logger),
		Progress:   publisher,
		Logger:     logger,
	})

	slog.Info("analysis pipeline ready",
		"structural_model", structuralClient.Model(),
		"dimension_model", dimensionClient.Model(),
		"deep_model", deepClient.Model(),
		"file_store", cfg.FileStore.Backend)

	return &Pipeline{Orchestrator: orchestrator, Indexes: indexes}, nil
}

// newTextClient builds the client for one stage; envPrefix names its
// variables in error messages.
func newTextClient(envPrefix string, cfg config.LLMConfig) (llm.TextClient, error) {
	stage := strings.ToLower(envPrefix)
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%s model is not configured: set %s_LLM_API_KEY and a supported provider", stage, envPrefix)
	}
	client, err := llm.NewTextClient(llm.Config{
		Provider:       cfg.Provider,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		MaxAttempts:    cfg.MaxAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s model client: %w", stage, err)
	}
	return client, nil
}
