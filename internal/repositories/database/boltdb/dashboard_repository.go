package boltdb

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"go.etcd.io/bbolt"
)

type dashboardRepository struct {
	db *bbolt.DB
}

var _ portsrepo.DashboardRepository = (*dashboardRepository)(nil)

func matches(m models.Expense, f domain.DashboardFilter) bool {
	if f.UserID != nil && m.CreatedBy != *f.UserID {
		return false
	}
	if f.Office != nil && m.OfficeName != *f.Office {
		return false
	}
	if f.Head != nil && m.Head != *f.Head {
		return false
	}
	if f.Subhead != nil && m.Subhead != *f.Subhead {
		return false
	}
	if f.Date != nil {
		if m.ExpenseDate == nil || m.ExpenseDate.Format(dto.DateLayout) != f.Date.Format(dto.DateLayout) {
			return false
		}
	}
	return true
}

// scan visits every row of the collection for status that matches filter.
func (r *dashboardRepository) scan(status domain.ExpenseStatus, filter domain.DashboardFilter, fn func(models.Expense)) error {
	name, err := bucketForStatus(status)
	if err != nil {
		return err
	}
	return r.db.View(func(tx *bbolt.Tx) error {
		return forEach(tx.Bucket([]byte(name)), func(m models.Expense) error {
			if matches(m, filter) {
				fn(m)
			}
			return nil
		})
	})
}

func column(m models.Expense, col domain.GroupBy) string {
	switch col {
	case domain.GroupByOffice:
		return m.OfficeName
	case domain.GroupBySubhead:
		return m.Subhead
	}
	return m.Head
}

func (r *dashboardRepository) SumApprovedAmount(_ context.Context, filter domain.DashboardFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.scan(domain.StatusApproved, filter, func(m models.Expense) {
		if m.Amount != nil {
			total = total.Add(*m.Amount)
		}
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing approved expenses: %w", err)
	}
	return total, nil
}

func (r *dashboardRepository) CountExpenses(_ context.Context, status domain.ExpenseStatus, filter domain.DashboardFilter) (int64, error) {
	var n int64
	if err := r.scan(status, filter, func(models.Expense) { n++ }); err != nil {
		return 0, fmt.Errorf("error counting %s expenses: %w", status, err)
	}
	return n, nil
}

func (r *dashboardRepository) ListExpenses(_ context.Context, status domain.ExpenseStatus, userID int64) ([]domain.ExpenseRecord, error) {
	rows := []models.Expense{}
	err := r.scan(status, domain.DashboardFilter{UserID: &userID}, func(m models.Expense) {
		rows = append(rows, m)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing %s expenses: %w", status, err)
	}

	// newest expense date first, undated last, then newest id
	slices.SortStableFunc(rows, func(a, b models.Expense) int {
		switch {
		case a.ExpenseDate == nil && b.ExpenseDate == nil:
		case a.ExpenseDate == nil:
			return 1
		case b.ExpenseDate == nil:
			return -1
		default:
			if c := b.ExpenseDate.Compare(*a.ExpenseDate); c != 0 {
				return c
			}
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return mapping.ToDomainExpenseSlice(rows, status), nil
}

func (r *dashboardRepository) ListApprovedSubmitters(_ context.Context) ([]domain.FilterOption, error) {
	opts := []domain.FilterOption{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		seen := map[int64]bool{}
		users := tx.Bucket(usersBucket)
		return forEach(tx.Bucket([]byte(approvedExpensesBucket)), func(m models.Expense) error {
			if seen[m.CreatedBy] {
				return nil
			}
			seen[m.CreatedBy] = true

			var u models.User
			found, err := get(users, m.CreatedBy, &u)
			if err != nil || !found {
				return err
			}
			label := u.Email
			if u.Name != nil && *u.Name != "" {
				label = *u.Name
			}
			opts = append(opts, domain.FilterOption{ID: u.ID, Label: label})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error listing submitters: %w", err)
	}
	slices.SortFunc(opts, func(a, b domain.FilterOption) int { return cmp.Compare(a.Label, b.Label) })
	return opts, nil
}

func (r *dashboardRepository) ListApprovedDistinct(_ context.Context, col domain.GroupBy) ([]string, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("cannot list distinct %q", col)
	}
	values := []string{}
	err := r.scan(domain.StatusApproved, domain.DashboardFilter{}, func(m models.Expense) {
		values = append(values, column(m, col))
	})
	if err != nil {
		return nil, fmt.Errorf("error listing distinct %s: %w", col, err)
	}
	slices.Sort(values)
	return slices.Compact(values), nil
}

func (r *dashboardRepository) TopApproved(_ context.Context, col domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("cannot group by %q", col)
	}
	totals := map[string]decimal.Decimal{}
	err := r.scan(domain.StatusApproved, filter, func(m models.Expense) {
		key := column(m, col)
		sum := totals[key]
		if m.Amount != nil {
			sum = sum.Add(*m.Amount)
		}
		totals[key] = sum
	})
	if err != nil {
		return nil, fmt.Errorf("error aggregating approved expenses by %s: %w", col, err)
	}

	result := make([]domain.LabelValue, 0, len(totals))
	for label, value := range totals {
		result = append(result, domain.LabelValue{Label: label, Value: value})
	}
	slices.SortFunc(result, func(a, b domain.LabelValue) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
