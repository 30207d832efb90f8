package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardRepository answers read-only aggregate queries over the three collections.
type DashboardRepository interface {
	// SumApprovedAmount totals the amount of approved expenses matching the filter.
	SumApprovedAmount(ctx context.Context, filter domain.DashboardFilter) (decimal.Decimal, error)

	// CountExpenses counts records of one collection matching the filter.
	CountExpenses(ctx context.Context, status domain.ExpenseStatus, filter domain.DashboardFilter) (int64, error)

	// ListExpenses returns one user's records of a collection, newest expense date first.
	ListExpenses(ctx context.Context, status domain.ExpenseStatus, userID int64) ([]domain.ExpenseRecord, error)

	// ListApprovedSubmitters returns the users who own at least one approved expense.
	ListApprovedSubmitters(ctx context.Context) ([]domain.FilterOption, error)

	// ListApprovedDistinct returns the sorted distinct values of a column among approved expenses.
	ListApprovedDistinct(ctx context.Context, column domain.GroupBy) ([]string, error)

	// TopApproved returns the largest approved totals grouped by column.
	TopApproved(ctx context.Context, column domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error)
}
