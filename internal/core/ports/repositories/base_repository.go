package repositories

import (
	"context"
)

// TxRepositories are the repositories bound to one open transaction.
// They must not be retained after the function passed to UnitOfWork.Do returns.
type TxRepositories struct {
	Expenses ExpenseRepository
	Tokens   ApprovalTokenRepository
}

// UnitOfWork runs a function inside a single store transaction.
//
// If fn returns an error the transaction is rolled back and that error is
// returned unchanged. If fn succeeds the transaction is committed; a failure to
// begin or commit is reported as an apperrors.ErrTransactionFailure.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
