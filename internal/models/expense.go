package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of pending_expenses, expenses or rejected_expenses.
// OriginPendingID and DecidedAt are NULL on pending rows.
type Expense struct {
	ID              int64            `db:"id" json:"id"`
	ExpenseDate     *time.Time       `db:"expense_date" json:"expense_date,omitempty"`
	Client          string           `db:"client" json:"client"`
	OfficeName      string           `db:"office_name" json:"office_name"`
	Head            string           `db:"head" json:"head"`
	Subhead         string           `db:"subhead" json:"subhead"`
	FromLocation    *string          `db:"from_location" json:"from_location,omitempty"`
	ToLocation      *string          `db:"to_location" json:"to_location,omitempty"`
	Weight          *decimal.Decimal `db:"weight" json:"weight,omitempty"`
	Amount          *decimal.Decimal `db:"amount" json:"amount,omitempty"`
	AWB             *string          `db:"awb" json:"awb,omitempty"`
	Remark          *string          `db:"remark" json:"remark,omitempty"`
	VehicleType     *string          `db:"vehicle_type" json:"vehicle_type,omitempty"`
	CreatedBy       int64            `db:"created_by" json:"created_by"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	OriginPendingID *int64           `db:"pending_id" json:"pending_id,omitempty"`
	DecidedAt       *time.Time       `db:"decided_at" json:"decided_at,omitempty"`
}
