package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenLedger_IssueUsesConfiguredTTL(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	tokens := new(MockApprovalTokenRepository)
	tokens.On("CreateToken", mock.Anything, mock.MatchedBy(func(tok domain.ApprovalToken) bool {
		return tok.ExpiresAt.Equal(now.Add(2*time.Hour)) && tok.CreatedAt.Equal(now) && !tok.IsUsed
	})).Return(int64(11), nil).Once()

	ledger := services.NewTokenLedgerService(services.WithTokenTTL(2*time.Hour), services.WithLedgerClock(fixedClock(now)))
	tok, err := ledger.Issue(context.Background(), tokens, 3, domain.ActionReject)

	require.NoError(t, err)
	assert.Equal(t, int64(11), tok.ID)
	assert.Equal(t, int64(3), tok.PendingID)
	assert.Equal(t, domain.ActionReject, tok.Action)
	assert.Len(t, tok.Token, 64)
	tokens.AssertExpectations(t)
}

func TestTokenLedger_IssueRejectsUnknownAction(t *testing.T) {
	tokens := new(MockApprovalTokenRepository)
	ledger := services.NewTokenLedgerService()

	_, err := ledger.Issue(context.Background(), tokens, 3, domain.TokenAction("maybe"))

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	tokens.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything)
}

func TestTokenLedger_IssueTokensAreUnique(t *testing.T) {
	tokens := new(MockApprovalTokenRepository)
	tokens.On("CreateToken", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger := services.NewTokenLedgerService()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok, err := ledger.Issue(context.Background(), tokens, int64(i), domain.ActionApprove)
		require.NoError(t, err)
		assert.False(t, seen[tok.Token], "duplicate token issued")
		seen[tok.Token] = true
	}
}

func TestTokenLedger_ValidateDoesNotWrite(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	tokens := new(MockApprovalTokenRepository)
	tokens.On("FindTokenForUpdate", mock.Anything, "abc", domain.ActionApprove).Return(&domain.ApprovalToken{
		ID: 4, PendingID: 8, Action: domain.ActionApprove, ExpiresAt: now,
	}, nil).Once()

	ledger := services.NewTokenLedgerService(services.WithLedgerClock(fixedClock(now)))
	tokenID, pendingID, err := ledger.Validate(context.Background(), tokens, "abc", domain.ActionApprove)

	require.NoError(t, err, "a token is still valid at exactly its expiry time")
	assert.Equal(t, int64(4), tokenID)
	assert.Equal(t, int64(8), pendingID)
	tokens.AssertNotCalled(t, "MarkTokenUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenLedger_ValidateErrors(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	ledger := services.NewTokenLedgerService(services.WithLedgerClock(fixedClock(now)))

	t.Run("empty token", func(t *testing.T) {
		_, _, err := ledger.Validate(context.Background(), new(MockApprovalTokenRepository), "", domain.ActionApprove)
		assert.Equal(t, apperrors.ErrTokenNotFound, err)
	})

	t.Run("store failure is not a token error", func(t *testing.T) {
		tokens := new(MockApprovalTokenRepository)
		tokens.On("FindTokenForUpdate", mock.Anything, "abc", domain.ActionReject).Return(nil, errors.New("timeout")).Once()

		_, _, err := ledger.Validate(context.Background(), tokens, "abc", domain.ActionReject)
		require.Error(t, err)
		assert.False(t, errors.Is(err, apperrors.ErrTokenNotFound))
	})

	t.Run("expired one second ago", func(t *testing.T) {
		tokens := new(MockApprovalTokenRepository)
		tokens.On("FindTokenForUpdate", mock.Anything, "abc", domain.ActionReject).Return(&domain.ApprovalToken{
			ID: 4, PendingID: 8, Action: domain.ActionReject, ExpiresAt: now.Add(-time.Second),
		}, nil).Once()

		_, _, err := ledger.Validate(context.Background(), tokens, "abc", domain.ActionReject)
		assert.Equal(t, apperrors.ErrTokenExpired, err)
	})
}

func TestTokenLedger_Consume(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	ledger := services.NewTokenLedgerService(services.WithLedgerClock(fixedClock(now)))

	tokens := new(MockApprovalTokenRepository)
	tokens.On("MarkTokenUsed", mock.Anything, int64(4), now).Return(nil).Once()
	assert.NoError(t, ledger.Consume(context.Background(), tokens, 4))

	raced := new(MockApprovalTokenRepository)
	raced.On("MarkTokenUsed", mock.Anything, int64(4), now).Return(apperrors.ErrTokenAlreadyUsed).Once()
	assert.Equal(t, apperrors.ErrTokenAlreadyUsed, ledger.Consume(context.Background(), raced, 4))
}
