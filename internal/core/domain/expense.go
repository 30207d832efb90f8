package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus names the collection an expense currently lives in.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "PENDING"
	StatusApproved ExpenseStatus = "APPROVED"
	StatusRejected ExpenseStatus = "REJECTED"
)

// ParseExpenseStatus accepts the lower-case path form used by the dashboard ("approved", ...).
func ParseExpenseStatus(s string) (ExpenseStatus, bool) {
	switch ExpenseStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// IsDecided reports whether the status is terminal.
func (s ExpenseStatus) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

// ExpenseRecord is an expense claim. It lives in exactly one of the pending, approved
// or rejected collections; Status says which.
type ExpenseRecord struct {
	ID           int64            `json:"id"`
	Status       ExpenseStatus    `json:"status"`
	ExpenseDate  *time.Time       `json:"expense_date,omitempty"`
	Client       string           `json:"client" validate:"required"`
	OfficeName   string           `json:"office_name" validate:"required"`
	Head         string           `json:"head" validate:"required"`
	Subhead      string           `json:"subhead" validate:"required"`
	FromLocation *string          `json:"from_location,omitempty"`
	ToLocation   *string          `json:"to_location,omitempty"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	AWB          *string          `json:"awb,omitempty"`
	VehicleType  *string          `json:"vehicle_type,omitempty"`
	Remark       *string          `json:"remark,omitempty"`
	CreatedBy    int64            `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`

	// Set only on approved and rejected rows.
	OriginPendingID *int64     `json:"origin_pending_id,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

// DecidedCopy returns the row to insert into the approved or rejected collection when the
// pending record is moved there. Every submitted field and created_by are carried over.
func (e ExpenseRecord) DecidedCopy(status ExpenseStatus, decidedAt time.Time) ExpenseRecord {
	origin := e.ID
	moved := e
	moved.ID = 0
	moved.Status = status
	moved.OriginPendingID = &origin
	moved.DecidedAt = &decidedAt
	return moved
}

// Submission is the outcome of a successful expense submission.
type Submission struct {
	PendingID    int64
	Expense      ExpenseRecord
	ApproveToken ApprovalToken
	RejectToken  ApprovalToken
	// NotificationErr is set when the approval email could not be sent.
	// The submission itself is committed regardless.
	NotificationErr error
}

// ApprovalNotification is everything the notification sender needs for one approval email.
type ApprovalNotification struct {
	Recipients  []string
	ApproveURL  string
	RejectURL   string
	Expense     ExpenseRecord
	SubmittedBy string
}
