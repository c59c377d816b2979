package repo

import (
	"context"
	"database/sql"

	"github.com/dkochetov/storefront/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// ListParams are the common paging inputs of every listing endpoint.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	FetchAll bool
}

func (p ListParams) offset() uint64 {
	if p.Page < 1 {
		return 0
	}
	return uint64((p.Page - 1) * p.Limit)
}

// pgBase carries the shared statement builder and routes every query through
// the transaction in ctx when one is present.
type pgBase struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func newPgBase(db *sqlx.DB) pgBase {
	return pgBase{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b pgBase) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return b.db.ExecContext(ctx, query, args...)
}

func (b pgBase) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return b.db.GetContext(ctx, dest, query, args...)
}

func (b pgBase) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return b.db.SelectContext(ctx, dest, query, args...)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
