package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardFilter narrows dashboard aggregates. Nil fields are not applied.
type DashboardFilter struct {
	UserID  *int64
	Office  *string
	Head    *string
	Subhead *string
	Date    *time.Time
}

// DashboardKPIs are the headline numbers shown on the dashboard.
type DashboardKPIs struct {
	TotalExpense  decimal.Decimal `json:"total_expense"`
	TotalUploaded int64           `json:"total_uploaded"`
	TotalApproved int64           `json:"total_approved"`
	TotalRejected int64           `json:"total_rejected"`
	TotalPending  int64           `json:"total_pending"`
}

// ExpenseSummary is one row of a user's expense list.
type ExpenseSummary struct {
	Date    *time.Time       `json:"date"`
	Head    string           `json:"head"`
	Subhead string           `json:"subhead"`
	Amount  *decimal.Decimal `json:"amount"`
}

// FilterOption is a selectable user in the admin filter bar.
type FilterOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// AdminFilterOptions lists the distinct values present in approved expenses.
type AdminFilterOptions struct {
	Users    []FilterOption `json:"users"`
	Offices  []string       `json:"offices"`
	Heads    []string       `json:"heads"`
	Subheads []string       `json:"subheads"`
}

// LabelValue is one slice of a pie chart.
type LabelValue struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// GroupBy selects a column of the approved collection for grouping or distinct listing.
type GroupBy string

const (
	GroupByHead    GroupBy = "head"
	GroupByOffice  GroupBy = "office_name"
	GroupBySubhead GroupBy = "subhead"
)

// Valid reports whether g names a groupable column.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByHead, GroupByOffice, GroupBySubhead:
		return true
	}
	return false
}
