package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
)

// TokenLedgerSvc issues, validates and consumes approval tokens.
// Every method works on the transaction-scoped repository it is given so the
// caller decides the transaction boundary.
type TokenLedgerSvc interface {
	// Issue creates an unused token for pendingID and action that expires after the configured TTL.
	Issue(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, pendingID int64, action domain.TokenAction) (*domain.ApprovalToken, error)

	// Validate checks that token exists for action, is unused and not expired.
	// It does not modify the token.
	Validate(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, token string, action domain.TokenAction) (tokenID int64, pendingID int64, err error)

	// Consume marks the token used.
	Consume(ctx context.Context, tokens portsrepo.ApprovalTokenRepository, tokenID int64) error
}
