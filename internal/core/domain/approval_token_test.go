package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApprovalToken_CheckRedeemable(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)

	tests := []struct {
		name  string
		token domain.ApprovalToken
		now   time.Time
		want  error
	}{
		{"fresh token", domain.ApprovalToken{ExpiresAt: expires}, issued.Add(time.Hour), nil},
		{"exactly at expiry is still valid", domain.ApprovalToken{ExpiresAt: expires}, expires, nil},
		{"one second past expiry", domain.ApprovalToken{ExpiresAt: expires}, expires.Add(time.Second), apperrors.ErrTokenExpired},
		{"used token", domain.ApprovalToken{ExpiresAt: expires, IsUsed: true}, issued, apperrors.ErrTokenAlreadyUsed},
		{"used and expired reports used", domain.ApprovalToken{ExpiresAt: expires, IsUsed: true}, expires.Add(time.Hour), apperrors.ErrTokenAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.CheckRedeemable(tt.now))
		})
	}
}

func TestTokenAction(t *testing.T) {
	assert.Equal(t, domain.StatusApproved, domain.ActionApprove.TargetStatus())
	assert.Equal(t, domain.StatusRejected, domain.ActionReject.TargetStatus())
	assert.True(t, domain.ActionApprove.Valid())
	assert.False(t, domain.TokenAction("escalate").Valid())
}

func TestExpenseRecord_DecidedCopy(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	pending := porterExpense()
	pending.ID = 41
	pending.Status = domain.StatusPending
	pending.ExpenseDate = &date
	pending.CreatedBy = 7
	pending.Remark = stringPtr("fragile")
	pending.Amount = decimalPtr(decimal.RequireFromString("450.75"))

	decidedAt := date.Add(48 * time.Hour)
	moved := pending.DecidedCopy(domain.StatusApproved, decidedAt)

	assert.Zero(t, moved.ID)
	assert.Equal(t, domain.StatusApproved, moved.Status)
	assert.Equal(t, int64(41), *moved.OriginPendingID)
	assert.Equal(t, decidedAt, *moved.DecidedAt)
	assert.Equal(t, pending.CreatedBy, moved.CreatedBy)
	assert.Equal(t, pending.Client, moved.Client)
	assert.Equal(t, pending.Remark, moved.Remark)
	assert.True(t, pending.Amount.Equal(*moved.Amount))
	// the source record is untouched
	assert.Equal(t, int64(41), pending.ID)
	assert.Nil(t, pending.OriginPendingID)
}

func TestParseExpenseStatus(t *testing.T) {
	s, ok := domain.ParseExpenseStatus("approved")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusApproved, s)

	_, ok = domain.ParseExpenseStatus("archived")
	assert.False(t, ok)
}
