package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	db DBTX
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// InTx runs fn against a transaction-bound repository. The interaction insert
// and the lead schedule update either both commit or both roll back.
func (r *Repository) InTx(ctx context.Context, fn func(w ScheduleWriter) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&Repository{db: tx})
	})
}

var (
	_ LeadReader        = (*Repository)(nil)
	_ LeadWriter        = (*Repository)(nil)
	_ ScheduleWriter    = (*Repository)(nil)
	_ InteractionReader = (*Repository)(nil)
	_ ContactStore      = (*Repository)(nil)
	_ TxRunner          = (*Repository)(nil)
)
