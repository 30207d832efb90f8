package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

// SubmitExpenseRequest defines the data needed to submit an expense for approval.
// Shipment fields are optional here; the head-specific rules are applied by the service.
type SubmitExpenseRequest struct {
	ExpenseDate  *string          `json:"expense_date" binding:"omitempty,datetime=2006-01-02"`
	Client       string           `json:"client" binding:"required"`
	OfficeName   string           `json:"office_name" binding:"required"`
	Head         string           `json:"head" binding:"required"`
	Subhead      string           `json:"subhead" binding:"required"`
	FromLocation *string          `json:"from_location"`
	ToLocation   *string          `json:"to_location"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"number"`
	Amount       *decimal.Decimal `json:"amount" swaggertype:"number"`
	AWB          *string          `json:"awb"`
	Remark       *string          `json:"remark"`
	VehicleType  *string          `json:"vehicle_type"`
}

// ToDomain converts the request to an unsaved expense record.
func (r SubmitExpenseRequest) ToDomain() (domain.ExpenseRecord, error) {
	e := domain.ExpenseRecord{
		Client:       r.Client,
		OfficeName:   r.OfficeName,
		Head:         r.Head,
		Subhead:      r.Subhead,
		FromLocation: r.FromLocation,
		ToLocation:   r.ToLocation,
		Weight:       r.Weight,
		Amount:       r.Amount,
		AWB:          r.AWB,
		Remark:       r.Remark,
		VehicleType:  r.VehicleType,
	}
	if r.ExpenseDate != nil && *r.ExpenseDate != "" {
		d, err := time.Parse(DateLayout, *r.ExpenseDate)
		if err != nil {
			return domain.ExpenseRecord{}, fmt.Errorf("invalid expense_date %q: %w", *r.ExpenseDate, err)
		}
		e.ExpenseDate = &d
	}
	return e, nil
}

// SubmitExpenseResponse is returned when an expense was stored as pending.
// Warning is set when the approval email could not be delivered.
type SubmitExpenseResponse struct {
	Message   string `json:"message"`
	PendingID int64  `json:"pending_id"`
	Warning   string `json:"warning,omitempty"`
}

// ReviewResponse is returned after a token was redeemed.
type ReviewResponse struct {
	Status string `json:"status"`
}

// ExpenseSummaryResponse is one row of a user's expense list.
type ExpenseSummaryResponse struct {
	Date    *string          `json:"date"`
	Head    string           `json:"head"`
	Subhead string           `json:"subhead"`
	Amount  *decimal.Decimal `json:"amount" swaggertype:"number"`
}

// ToExpenseSummaryResponses converts records to list rows.
func ToExpenseSummaryResponses(records []domain.ExpenseRecord) []ExpenseSummaryResponse {
	out := make([]ExpenseSummaryResponse, len(records))
	for i, r := range records {
		var date *string
		if r.ExpenseDate != nil {
			s := r.ExpenseDate.Format(DateLayout)
			date = &s
		}
		out[i] = ExpenseSummaryResponse{
			Date:    date,
			Head:    r.Head,
			Subhead: r.Subhead,
			Amount:  r.Amount,
		}
	}
	return out
}
