package boltdb

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"go.etcd.io/bbolt"
)

// Bucket names match the PostgreSQL table names.
const (
	pendingExpensesBucket  = "pending_expenses"
	approvedExpensesBucket = "expenses"
	rejectedExpensesBucket = "rejected_expenses"
)

// originIndex names the bucket mapping origin pending id to row id, the
// equivalent of UNIQUE(pending_id).
func originIndex(bucket string) []byte {
	return []byte(bucket + "_by_origin")
}

func bucketForStatus(status domain.ExpenseStatus) (string, error) {
	switch status {
	case domain.StatusPending:
		return pendingExpensesBucket, nil
	case domain.StatusApproved:
		return approvedExpensesBucket, nil
	case domain.StatusRejected:
		return rejectedExpensesBucket, nil
	}
	return "", fmt.Errorf("unknown expense status %q", status)
}

type expenseRepository struct {
	tx *bbolt.Tx
}

var _ portsrepo.ExpenseRepository = (*expenseRepository)(nil)

// LockPending needs no explicit lock: the enclosing write transaction is exclusive.
func (r *expenseRepository) LockPending(_ context.Context, pendingID int64) (*domain.ExpenseRecord, error) {
	var m models.Expense
	found, err := get(r.tx.Bucket([]byte(pendingExpensesBucket)), pendingID, &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrRecordNotFound
	}
	rec := mapping.ToDomainExpense(m, domain.StatusPending)
	return &rec, nil
}

func (r *expenseRepository) InsertPending(_ context.Context, expense domain.ExpenseRecord) (int64, error) {
	b := r.tx.Bucket([]byte(pendingExpensesBucket))
	id, err := nextID(b)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelExpense(expense)
	m.ID = id
	m.OriginPendingID, m.DecidedAt = nil, nil
	if err := put(b, id, m); err != nil {
		return 0, fmt.Errorf("failed to insert pending expense: %w", err)
	}
	return id, nil
}

func (r *expenseRepository) InsertDecided(_ context.Context, expense domain.ExpenseRecord) (int64, error) {
	if !expense.Status.IsDecided() || expense.OriginPendingID == nil || expense.DecidedAt == nil {
		return 0, fmt.Errorf("expense is not a decided copy (status %q)", expense.Status)
	}
	name, err := bucketForStatus(expense.Status)
	if err != nil {
		return 0, err
	}

	origins := r.tx.Bucket(originIndex(name))
	originKey := itob(*expense.OriginPendingID)
	if origins.Get(originKey) != nil {
		return 0, fmt.Errorf("%w: pending expense %d already moved to %s", apperrors.ErrDuplicate, *expense.OriginPendingID, name)
	}

	b := r.tx.Bucket([]byte(name))
	id, err := nextID(b)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelExpense(expense)
	m.ID = id
	if err := put(b, id, m); err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	if err := origins.Put(originKey, itob(id)); err != nil {
		return 0, fmt.Errorf("failed to index %s origin: %w", name, err)
	}
	return id, nil
}

func (r *expenseRepository) DeletePending(_ context.Context, pendingID int64) error {
	b := r.tx.Bucket([]byte(pendingExpensesBucket))
	if b.Get(itob(pendingID)) == nil {
		return apperrors.ErrRecordNotFound
	}
	if err := b.Delete(itob(pendingID)); err != nil {
		return fmt.Errorf("failed to delete pending expense %d: %w", pendingID, err)
	}
	return nil
}
