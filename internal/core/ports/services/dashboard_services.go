package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// DashboardSvc answers dashboard queries for the calling user.
// Non-admin callers only ever see their own expenses.
type DashboardSvc interface {
	KPIs(ctx context.Context, caller domain.User, filter domain.DashboardFilter) (*domain.DashboardKPIs, error)
	ListExpenses(ctx context.Context, caller domain.User, status domain.ExpenseStatus) ([]domain.ExpenseRecord, error)

	// Admin only; others get apperrors.ErrForbidden.
	FilterOptions(ctx context.Context, caller domain.User) (*domain.AdminFilterOptions, error)
	TopApproved(ctx context.Context, caller domain.User, column domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error)
}
