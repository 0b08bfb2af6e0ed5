package catalog

import (
	"context"

	"catalog-tracker/core/reconcile"

	"gorm.io/gorm"
)

// Backend runs one reconciliation pass inside a single database
// transaction. A rollback leaves every table exactly as it was, including
// historical_changes.
type Backend struct {
	db *gorm.DB
}

// NewBackend creates a Backend on the given connection.
func NewBackend(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// RunInTransaction opens a transaction and hands the engine a Store and
// History bound to it. The error returned by fn decides commit or rollback.
func (b *Backend) RunInTransaction(ctx context.Context, fn func(store reconcile.Store, history reconcile.History) error) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx), NewHistory(tx))
	})
}
