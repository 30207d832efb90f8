package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// ApprovalTokenRepository persists the approval token ledger. Rows are never deleted.
type ApprovalTokenRepository interface {
	// CreateToken persists a new token and returns its id.
	CreateToken(ctx context.Context, token domain.ApprovalToken) (int64, error)

	// FindTokenForUpdate returns the token matching both value and action, holding a row
	// lock on it until the transaction ends. Returns apperrors.ErrTokenNotFound if none matches.
	FindTokenForUpdate(ctx context.Context, token string, action domain.TokenAction) (*domain.ApprovalToken, error)

	// MarkTokenUsed flips is_used from false to true. Returns apperrors.ErrTokenAlreadyUsed
	// when the token was already used.
	MarkTokenUsed(ctx context.Context, tokenID int64, usedAt time.Time) error

	// ListTokensByPendingID returns every token issued for a pending record, oldest first.
	ListTokensByPendingID(ctx context.Context, pendingID int64) ([]domain.ApprovalToken, error)
}
