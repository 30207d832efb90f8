package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a READ COMMITTED transaction. Row locks taken with FOR UPDATE
// serialize competing redemptions.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewTransactionError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewTransactionError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewTransactionError("failed to rollback transaction", err)
	}
	return nil
}

// unitOfWork binds the expense and token repositories to one transaction.
type unitOfWork struct {
	BaseRepository
}

func newUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &unitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = u.Rollback(context.WithoutCancel(ctx), tx) }()

	repos := portsrepo.TxRepositories{
		Expenses: &PgxExpenseRepository{db: tx},
		Tokens:   &PgxApprovalTokenRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
