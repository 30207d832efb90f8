package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/utils"
)

const (
	// DefaultApprovalTokenTTL is how long an emailed link stays redeemable.
	DefaultApprovalTokenTTL = 24 * time.Hour

	// approvalTokenBytes gives 256 bits of entropy (64 hex characters).
	approvalTokenBytes = 32
)

// tokenLedgerService issues and checks approval tokens.
type tokenLedgerService struct {
	BaseService
	ttl      time.Duration
	generate func() (string, error)
}

// TokenLedgerOption configures the token ledger.
type TokenLedgerOption func(*tokenLedgerService)

// WithTokenTTL overrides DefaultApprovalTokenTTL.
func WithTokenTTL(ttl time.Duration) TokenLedgerOption {
	return func(s *tokenLedgerService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLedgerClock replaces the ledger's time source.
func WithLedgerClock(now Clock) TokenLedgerOption {
	return func(s *tokenLedgerService) {
		s.now = now
	}
}

// withTokenGenerator replaces the random token source.
func withTokenGenerator(gen func() (string, error)) TokenLedgerOption {
	return func(s *tokenLedgerService) {
		s.generate = gen
	}
}

// NewTokenLedgerService creates the approval token ledger.
func NewTokenLedgerService(options ...TokenLedgerOption) portssvc.TokenLedgerSvc {
	s := &tokenLedgerService{
		ttl: DefaultApprovalTokenTTL,
		generate: func() (string, error) {
			return utils.GenerateSecureRandomString(approvalTokenBytes)
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.TokenLedgerSvc = (*tokenLedgerService)(nil)

func (s *tokenLedgerService) Issue(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, pendingID int64, action domain.TokenAction) (*domain.ApprovalToken, error) {
	if !action.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown token action %q", action), "action")
	}

	value, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate approval token: %w", err)
	}

	now := s.Now()
	token := domain.ApprovalToken{
		Token:     value,
		PendingID: pendingID,
		Action:    action,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	id, err := tokens.CreateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s token for pending expense %d: %w", action, pendingID, err)
	}
	token.ID = id

	s.LogDebug(ctx, "Approval token issued",
		slog.Int64("pending_id", pendingID),
		slog.String("action", string(action)),
		slog.Time("expires_at", token.ExpiresAt))
	return &token, nil
}

func (s *tokenLedgerService) Validate(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, token string, action domain.TokenAction) (int64, int64, error) {
	if token == "" || !action.Valid() {
		return 0, 0, apperrors.ErrTokenNotFound
	}

	t, err := tokens.FindTokenForUpdate(ctx, token, action)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return 0, 0, apperrors.ErrTokenNotFound
		}
		return 0, 0, fmt.Errorf("failed to look up approval token: %w", err)
	}

	if err := t.CheckRedeemable(s.Now()); err != nil {
		s.LogInfo(ctx, "Approval token not redeemable",
			slog.Int64("token_id", t.ID),
			slog.Int64("pending_id", t.PendingID),
			slog.String("reason", err.Error()))
		return 0, 0, err
	}
	return t.ID, t.PendingID, nil
}

func (s *tokenLedgerService) Consume(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, tokenID int64) error {
	if err := tokens.MarkTokenUsed(ctx, tokenID, s.Now()); err != nil {
		if errors.Is(err, apperrors.ErrTokenAlreadyUsed) {
			return apperrors.ErrTokenAlreadyUsed
		}
		return fmt.Errorf("failed to mark approval token %d used: %w", tokenID, err)
	}
	return nil
}
