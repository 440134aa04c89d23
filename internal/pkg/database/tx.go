package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TxManager runs a unit of work inside a single database transaction.
// Every mutating engine operation acquires exactly one transaction and
// threads the handle through each repository call it makes.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction begins a transaction, runs fn, and commits. Any error
// or panic out of fn rolls the whole unit back before it propagates, so
// a partial ledger mutation is never observable outside a commit.
func (m *txManager) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
