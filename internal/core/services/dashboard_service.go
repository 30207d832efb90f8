package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
)

// DefaultTopN is the number of pie slices returned when none is requested.
const DefaultTopN = 3

type dashboardService struct {
	BaseService
	repo portsrepo.DashboardRepository
}

// NewDashboardService creates the read-only dashboard service.
func NewDashboardService(repo portsrepo.DashboardRepository) portssvc.DashboardSvc {
	return &dashboardService{repo: repo}
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

func (s *dashboardService) KPIs(ctx context.Context, caller domain.User, filter domain.DashboardFilter) (*domain.DashboardKPIs, error) {
	if !caller.IsAdmin() {
		// filters are an admin feature; everyone else sees only their own rows
		filter = domain.DashboardFilter{UserID: &caller.ID}
	}

	total, err := s.repo.SumApprovedAmount(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved expenses: %w", err)
	}

	kpis := &domain.DashboardKPIs{TotalExpense: total}
	counts := map[domain.ExpenseStatus]*int64{
		domain.StatusPending:  &kpis.TotalPending,
		domain.StatusApproved: &kpis.TotalApproved,
		domain.StatusRejected: &kpis.TotalRejected,
	}
	for status, dst := range counts {
		n, err := s.repo.CountExpenses(ctx, status, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s expenses: %w", status, err)
		}
		*dst = n
	}
	kpis.TotalUploaded = kpis.TotalPending + kpis.TotalApproved + kpis.TotalRejected
	return kpis, nil
}

func (s *dashboardService) ListExpenses(ctx context.Context, caller domain.User, status domain.ExpenseStatus) ([]domain.ExpenseRecord, error) {
	records, err := s.repo.ListExpenses(ctx, status, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s expenses: %w", status, err)
	}
	return records, nil
}

func (s *dashboardService) FilterOptions(ctx context.Context, caller domain.User) (*domain.AdminFilterOptions, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.repo.ListApprovedSubmitters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitters: %w", err)
	}
	opts := &domain.AdminFilterOptions{Users: users}
	for column, dst := range map[domain.GroupBy]*[]string{
		domain.GroupByOffice:  &opts.Offices,
		domain.GroupByHead:    &opts.Heads,
		domain.GroupBySubhead: &opts.Subheads,
	} {
		values, err := s.repo.ListApprovedDistinct(ctx, column)
		if err != nil {
			return nil, fmt.Errorf("failed to list distinct %s: %w", column, err)
		}
		*dst = values
	}
	return opts, nil
}

func (s *dashboardService) TopApproved(ctx context.Context, caller domain.User, column domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !column.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot group by %q", column))
	}
	if limit <= 0 {
		limit = DefaultTopN
	}

	slices, err := s.repo.TopApproved(ctx, column, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate approved expenses by %s: %w", column, err)
	}
	return slices, nil
}
