package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// dashboardRepository implements the read-only DashboardRepository interface
type dashboardRepository struct {
	BaseRepository
}

func newDashboardRepository(db *pgxpool.Pool) portsrepo.DashboardRepository {
	return &dashboardRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.DashboardRepository = (*dashboardRepository)(nil)

// whereClause renders the non-nil filter fields as a WHERE clause with positional args.
func whereClause(filter domain.DashboardFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.UserID != nil {
		add("created_by = $%d", *filter.UserID)
	}
	if filter.Office != nil {
		add("office_name = $%d", *filter.Office)
	}
	if filter.Head != nil {
		add("head = $%d", *filter.Head)
	}
	if filter.Subhead != nil {
		add("subhead = $%d", *filter.Subhead)
	}
	if filter.Date != nil {
		add("expense_date = $%d", *filter.Date)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *dashboardRepository) SumApprovedAmount(ctx context.Context, filter domain.DashboardFilter) (decimal.Decimal, error) {
	where, args := whereClause(filter)
	query := `SELECT COALESCE(SUM(amount), 0) FROM ` + approvedExpensesTable + where

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("error summing approved expenses: %w", err)
	}
	return total, nil
}

func (r *dashboardRepository) CountExpenses(ctx context.Context, status domain.ExpenseStatus, filter domain.DashboardFilter) (int64, error) {
	table, err := tableForStatus(status)
	if err != nil {
		return 0, err
	}
	where, args := whereClause(filter)

	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}

func (r *dashboardRepository) ListExpenses(ctx context.Context, status domain.ExpenseStatus, userID int64) ([]domain.ExpenseRecord, error) {
	table, err := tableForStatus(status)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + expenseColumns + ` FROM ` + table + `
		WHERE created_by = $1
		ORDER BY expense_date DESC NULLS LAST, id DESC`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", table, err)
	}
	defer rows.Close()

	result := []models.Expense{}
	for rows.Next() {
		var m models.Expense
		if err := scanExpense(rows, &m); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", table, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return mapping.ToDomainExpenseSlice(result, status), nil
}

func (r *dashboardRepository) ListApprovedSubmitters(ctx context.Context) ([]domain.FilterOption, error) {
	query := `
		SELECT DISTINCT u.id, COALESCE(NULLIF(u.name, ''), u.email)
		FROM ` + approvedExpensesTable + ` e
		JOIN users u ON u.id = e.created_by
		ORDER BY 2`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying submitters: %w", err)
	}
	opts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FilterOption, error) {
		var o domain.FilterOption
		err := row.Scan(&o.ID, &o.Label)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning submitters: %w", err)
	}
	return opts, nil
}

func (r *dashboardRepository) ListApprovedDistinct(ctx context.Context, column domain.GroupBy) ([]string, error) {
	if !column.Valid() {
		return nil, fmt.Errorf("cannot list distinct %q", column)
	}
	col := string(column)
	query := `SELECT DISTINCT ` + col + ` FROM ` + approvedExpensesTable + ` ORDER BY ` + col

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying distinct %s: %w", col, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning distinct %s: %w", col, err)
	}
	return values, nil
}

func (r *dashboardRepository) TopApproved(ctx context.Context, column domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error) {
	if !column.Valid() {
		return nil, fmt.Errorf("cannot group by %q", column)
	}
	col := string(column)
	where, args := whereClause(filter)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %[1]s, COALESCE(SUM(amount), 0) AS total
		FROM %[2]s%[3]s
		GROUP BY %[1]s
		ORDER BY total DESC, %[1]s
		LIMIT $%[4]d`, col, approvedExpensesTable, where, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error aggregating approved expenses by %s: %w", col, err)
	}
	slices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LabelValue, error) {
		var lv domain.LabelValue
		err := row.Scan(&lv.Label, &lv.Value)
		return lv, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s totals: %w", col, err)
	}
	return slices, nil
}
