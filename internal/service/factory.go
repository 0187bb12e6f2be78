package service

import (
	"orion.app/api/core/config"
	"orion.app/api/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	analyzer Analyzer
	indexes  CodeIndexReader
	jobs     JobEnqueuer
	cfg      config.AnalysisConfig
}

// NewServices wires the services over shared stores. jobs may be nil when no
// job stream is configured.
func NewServices(stores *store.Stores, txRunner TxRunner, analyzer Analyzer, indexes CodeIndexReader, jobs JobEnqueuer, cfg config.AnalysisConfig) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		analyzer: analyzer,
		indexes:  indexes,
		jobs:     jobs,
		cfg:      cfg,
	}
}

func (s *Services) Analyses() AnalysisService {
	return NewAnalysisService(AnalysisServiceDeps{
		Analyzer:      s.analyzer,
		Projects:      s.stores.Projects(),
		Analyses:      s.stores.Analyses(),
		Artifacts:     s.stores.Artifacts(),
		Decisions:     s.stores.Decisions(),
		ActionHistory: s.stores.ActionHistory(),
		Indexes:       s.indexes,
		TxRunner:      s.txRunner,
		Jobs:          s.jobs,
		ReindexMaxAge: s.cfg.ReindexMaxAgeMinutes,
	})
}
