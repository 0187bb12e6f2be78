package service

import (
	"context"

	"orion.app/api/core/db"
	"orion.app/api/core/db/sqlc"
	"orion.app/api/internal/store"
)

// StoreProvider exposes only the stores written by a transactional operation.
type StoreProvider interface {
	Analyses() store.AnalysisStore
	Artifacts() store.ArtifactStore
	Decisions() store.DecisionStore
	ActionHistory() store.ActionHistoryStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
