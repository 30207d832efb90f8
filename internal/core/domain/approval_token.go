package domain

import (
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
)

// TokenAction is the transition an approval token authorizes.
type TokenAction string

const (
	ActionApprove TokenAction = "approve"
	ActionReject  TokenAction = "reject"
)

// Valid reports whether a is a known action.
func (a TokenAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// TargetStatus is the collection a pending expense moves to when a is redeemed.
func (a TokenAction) TargetStatus() ExpenseStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// ApprovalToken is a single-use, expiring credential bound to one pending expense.
// Rows are never deleted.
type ApprovalToken struct {
	ID        int64       `json:"id"`
	Token     string      `json:"-"`
	PendingID int64       `json:"pending_id"`
	Action    TokenAction `json:"action"`
	ExpiresAt time.Time   `json:"expires_at"`
	IsUsed    bool        `json:"is_used"`
	UsedAt    *time.Time  `json:"used_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CheckRedeemable returns nil when the token may still be redeemed at now.
// A token is still valid at exactly ExpiresAt.
func (t *ApprovalToken) CheckRedeemable(now time.Time) error {
	if t.IsUsed {
		return apperrors.ErrTokenAlreadyUsed
	}
	if now.After(t.ExpiresAt) {
		return apperrors.ErrTokenExpired
	}
	return nil
}

// MarkUsed records the redemption time.
func (t *ApprovalToken) MarkUsed(at time.Time) {
	t.IsUsed = true
	t.UsedAt = &at
}
