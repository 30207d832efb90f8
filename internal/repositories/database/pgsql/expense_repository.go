package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	pendingExpensesTable  = "pending_expenses"
	approvedExpensesTable = "expenses"
	rejectedExpensesTable = "rejected_expenses"

	// Columns shared by all three collections, in scan order.
	expenseColumns = `
		id, expense_date, client, office_name, head, subhead,
		from_location, to_location, weight, amount, awb, remark, vehicle_type,
		created_by, created_at`
)

// tableForStatus maps a status to the table that holds it. The result is only
// ever one of the three constants above, so it is safe to splice into SQL.
func tableForStatus(status domain.ExpenseStatus) (string, error) {
	switch status {
	case domain.StatusPending:
		return pendingExpensesTable, nil
	case domain.StatusApproved:
		return approvedExpensesTable, nil
	case domain.StatusRejected:
		return rejectedExpensesTable, nil
	}
	return "", fmt.Errorf("unknown expense status %q", status)
}

// PgxExpenseRepository reads and writes the expense collections inside one transaction.
type PgxExpenseRepository struct {
	db dbtx
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row, m *models.Expense, extra ...any) error {
	dest := []any{
		&m.ID, &m.ExpenseDate, &m.Client, &m.OfficeName, &m.Head, &m.Subhead,
		&m.FromLocation, &m.ToLocation, &m.Weight, &m.Amount, &m.AWB, &m.Remark, &m.VehicleType,
		&m.CreatedBy, &m.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *PgxExpenseRepository) LockPending(ctx context.Context, pendingID int64) (*domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + ` FROM ` + pendingExpensesTable + ` WHERE id = $1 FOR UPDATE`

	var m models.Expense
	if err := scanExpense(r.db.QueryRow(ctx, query, pendingID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to lock pending expense %d: %w", pendingID, err)
	}
	rec := mapping.ToDomainExpense(m, domain.StatusPending)
	return &rec, nil
}

func (r *PgxExpenseRepository) InsertPending(ctx context.Context, expense domain.ExpenseRecord) (int64, error) {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO ` + pendingExpensesTable + ` (
			expense_date, client, office_name, head, subhead,
			from_location, to_location, weight, amount, awb, remark, vehicle_type,
			created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		m.ExpenseDate, m.Client, m.OfficeName, m.Head, m.Subhead,
		m.FromLocation, m.ToLocation, m.Weight, m.Amount, m.AWB, m.Remark, m.VehicleType,
		m.CreatedBy, m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pending expense: %w", err)
	}
	return id, nil
}

func (r *PgxExpenseRepository) InsertDecided(ctx context.Context, expense domain.ExpenseRecord) (int64, error) {
	if !expense.Status.IsDecided() || expense.OriginPendingID == nil || expense.DecidedAt == nil {
		return 0, fmt.Errorf("expense is not a decided copy (status %q)", expense.Status)
	}
	table, err := tableForStatus(expense.Status)
	if err != nil {
		return 0, err
	}

	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO ` + table + ` (
			expense_date, client, office_name, head, subhead,
			from_location, to_location, weight, amount, awb, remark, vehicle_type,
			created_by, created_at, pending_id, decided_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id int64
	err = r.db.QueryRow(ctx, query,
		m.ExpenseDate, m.Client, m.OfficeName, m.Head, m.Subhead,
		m.FromLocation, m.ToLocation, m.Weight, m.Amount, m.AWB, m.Remark, m.VehicleType,
		m.CreatedBy, m.CreatedAt, m.OriginPendingID, m.DecidedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: pending expense %d already moved to %s", apperrors.ErrDuplicate, *m.OriginPendingID, table)
		}
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return id, nil
}

func (r *PgxExpenseRepository) DeletePending(ctx context.Context, pendingID int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM `+pendingExpensesTable+` WHERE id = $1`, pendingID)
	if err != nil {
		return fmt.Errorf("failed to delete pending expense %d: %w", pendingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}
