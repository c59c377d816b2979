package trm

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ExtractTx returns the transaction carried by ctx, or nil when the caller
// runs outside of Manager.Do.
func ExtractTx(ctx context.Context) *sqlx.Tx {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	if !ok {
		return nil
	}
	return tx
}

type Manager interface {
	Do(ctx context.Context, callback func(ctx context.Context) error) error
}

type manager struct {
	db *sqlx.DB
}

func NewManager(db *sqlx.DB) Manager {
	return &manager{db: db}
}

// Do runs callback inside a transaction placed into the context. Repositories
// pick it up via ExtractTx, so multi-statement writes (order + items) commit
// or roll back as a unit.
func (m *manager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := callback(withTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
