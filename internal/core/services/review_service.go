package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
)

// terminalRedemptionErrors are reported to the caller unchanged. Retrying never helps.
var terminalRedemptionErrors = []error{
	apperrors.ErrTokenNotFound,
	apperrors.ErrTokenAlreadyUsed,
	apperrors.ErrTokenExpired,
	apperrors.ErrRecordNotFound,
}

// reviewService moves pending expenses to their decided collection.
// It is the only writer of the approved and rejected collections.
type reviewService struct {
	BaseService
	uow    portsrepo.UnitOfWork
	ledger portssvc.TokenLedgerSvc
}

// ReviewServiceOption configures the review service.
type ReviewServiceOption func(*reviewService)

// WithReviewClock replaces the service's time source.
func WithReviewClock(now Clock) ReviewServiceOption {
	return func(s *reviewService) {
		s.now = now
	}
}

// NewReviewService creates the transition engine.
func NewReviewService(uow portsrepo.UnitOfWork, ledger portssvc.TokenLedgerSvc, options ...ReviewServiceOption) portssvc.ReviewSvc {
	s := &reviewService{uow: uow, ledger: ledger}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.ReviewSvc = (*reviewService)(nil)

func (s *reviewService) Redeem(ctx context.Context, token string, action domain.TokenAction) (domain.ExpenseStatus, error) {
	if !action.Valid() {
		return "", apperrors.ErrTokenNotFound
	}
	target := action.TargetStatus()

	var pendingID int64
	err := s.uow.Do(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		tokenID, pid, err := s.ledger.Validate(ctx, repos.Tokens, token, action)
		if err != nil {
			return err
		}
		pendingID = pid

		pending, err := repos.Expenses.LockPending(ctx, pid)
		if err != nil {
			return err
		}

		if _, err := repos.Expenses.InsertDecided(ctx, pending.DecidedCopy(target, s.Now())); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// already moved by a transaction that committed after our lock read
				return apperrors.ErrRecordNotFound
			}
			return fmt.Errorf("failed to insert %s expense: %w", target, err)
		}
		if err := repos.Expenses.DeletePending(ctx, pid); err != nil {
			return fmt.Errorf("failed to delete pending expense: %w", err)
		}
		return s.ledger.Consume(ctx, repos.Tokens, tokenID)
	})
	if err != nil {
		for _, terminal := range terminalRedemptionErrors {
			if errors.Is(err, terminal) {
				s.LogInfo(ctx, "Redemption refused",
					slog.String("action", string(action)),
					slog.Int64("pending_id", pendingID),
					slog.String("reason", terminal.Error()))
				return "", terminal
			}
		}
		s.LogError(ctx, err, "Redemption rolled back",
			slog.String("action", string(action)),
			slog.Int64("pending_id", pendingID))
		if errors.Is(err, apperrors.ErrTransactionFailure) {
			return "", err
		}
		return "", apperrors.NewTransactionError("failed to record decision", err)
	}

	s.LogInfo(ctx, "Expense decided",
		slog.Int64("pending_id", pendingID),
		slog.String("status", string(target)))
	return target, nil
}
