package models

import "time"

// ApprovalToken is a row of approval_tokens.
type ApprovalToken struct {
	ID        int64      `db:"id" json:"id"`
	Token     string     `db:"token" json:"token"`
	PendingID int64      `db:"pending_id" json:"pending_id"`
	Action    string     `db:"action" json:"action"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	IsUsed    bool       `db:"is_used" json:"is_used"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// TableName returns the table backing approval tokens.
func (ApprovalToken) TableName() string {
	return "approval_tokens"
}
