package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// ExpenseLocker reads pending records with a write intent.
type ExpenseLocker interface {
	// LockPending returns the pending record and holds a row lock on it until the
	// transaction ends. Returns apperrors.ErrRecordNotFound if it is not pending.
	LockPending(ctx context.Context, pendingID int64) (*domain.ExpenseRecord, error)
}

// ExpenseWriter places records in the pending, approved and rejected collections.
type ExpenseWriter interface {
	// InsertPending stores a new pending record and returns its id.
	InsertPending(ctx context.Context, expense domain.ExpenseRecord) (int64, error)

	// InsertDecided stores expense in the collection named by expense.Status and returns its id.
	// A second insert with the same OriginPendingID fails with apperrors.ErrDuplicate.
	InsertDecided(ctx context.Context, expense domain.ExpenseRecord) (int64, error)

	// DeletePending removes a pending record. Returns apperrors.ErrRecordNotFound if absent.
	DeletePending(ctx context.Context, pendingID int64) error
}

// ExpenseRepository is the transaction-scoped record store.
type ExpenseRepository interface {
	ExpenseLocker
	ExpenseWriter
}
