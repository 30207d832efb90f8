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
	"github.com/SscSPs/expense_approval_app/internal/dto"
)

// expenseService handles expense submissions.
type expenseService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	ledger   portssvc.TokenLedgerSvc
	users    portssvc.UserReaderSvc
	notifier portssvc.Notifier
	baseURL  string
}

// ExpenseServiceOption configures the expense service.
type ExpenseServiceOption func(*expenseService)

// WithApprovalBaseURL sets the public origin the review links point at.
func WithApprovalBaseURL(baseURL string) ExpenseServiceOption {
	return func(s *expenseService) {
		s.baseURL = baseURL
	}
}

// WithExpenseClock replaces the service's time source.
func WithExpenseClock(now Clock) ExpenseServiceOption {
	return func(s *expenseService) {
		s.now = now
	}
}

// NewExpenseService creates the submission intake service.
func NewExpenseService(
	uow portsrepo.UnitOfWork,
	ledger portssvc.TokenLedgerSvc,
	users portssvc.UserReaderSvc,
	notifier portssvc.Notifier,
	options ...ExpenseServiceOption,
) portssvc.ExpenseSvc {
	s := &expenseService{
		uow:      uow,
		ledger:   ledger,
		users:    users,
		notifier: notifier,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.ExpenseSvc = (*expenseService)(nil)

func (s *expenseService) SubmitExpense(ctx context.Context, req dto.SubmitExpenseRequest, submitter domain.User) (*domain.Submission, error) {
	expense, err := req.ToDomain()
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), "expense_date")
	}
	expense.Status = domain.StatusPending
	expense.CreatedBy = submitter.ID
	expense.CreatedAt = s.Now()

	if err := domain.ValidateForSubmission(expense); err != nil {
		s.LogInfo(ctx, "Expense submission rejected by validation",
			slog.Int64("submitter_id", submitter.ID),
			slog.String("head", expense.Head),
			slog.String("error", err.Error()))
		return nil, err
	}

	submission := &domain.Submission{}
	err = s.uow.Do(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		pendingID, err := repos.Expenses.InsertPending(ctx, expense)
		if err != nil {
			return fmt.Errorf("failed to insert pending expense: %w", err)
		}

		approve, err := s.ledger.Issue(ctx, repos.Tokens, pendingID, domain.ActionApprove)
		if err != nil {
			return err
		}
		reject, err := s.ledger.Issue(ctx, repos.Tokens, pendingID, domain.ActionReject)
		if err != nil {
			return err
		}

		expense.ID = pendingID
		submission.PendingID = pendingID
		submission.ApproveToken = *approve
		submission.RejectToken = *reject
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to store expense submission", slog.Int64("submitter_id", submitter.ID))
		if errors.Is(err, apperrors.ErrTransactionFailure) {
			return nil, err
		}
		return nil, apperrors.NewTransactionError("failed to store expense submission", err)
	}
	submission.Expense = expense

	s.LogInfo(ctx, "Expense submitted for approval",
		slog.Int64("pending_id", submission.PendingID),
		slog.Int64("submitter_id", submitter.ID),
		slog.String("head", expense.Head))

	if err := s.notifyAdmins(ctx, submission, submitter); err != nil {
		submission.NotificationErr = fmt.Errorf("%w: %w", apperrors.ErrNotificationFailure, err)
		s.LogWarn(ctx, "Approval email not delivered; submission kept",
			slog.Int64("pending_id", submission.PendingID),
			slog.String("error", err.Error()))
	}
	return submission, nil
}

// notifyAdmins runs after commit. Its failure never affects the stored submission.
func (s *expenseService) notifyAdmins(ctx context.Context, sub *domain.Submission, submitter domain.User) error {
	if s.notifier == nil {
		return errors.New("no notifier configured")
	}
	recipients, err := s.users.ListAdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admin emails: %w", err)
	}
	if len(recipients) == 0 {
		return errors.New("no admin recipients")
	}

	return s.notifier.SendApprovalRequest(ctx, domain.ApprovalNotification{
		Recipients:  recipients,
		ApproveURL:  s.reviewURL(domain.ActionApprove, sub.ApproveToken.Token),
		RejectURL:   s.reviewURL(domain.ActionReject, sub.RejectToken.Token),
		Expense:     sub.Expense,
		SubmittedBy: submitter.Email,
	})
}

func (s *expenseService) reviewURL(action domain.TokenAction, token string) string {
	return fmt.Sprintf("%s/review/%s/%s", s.baseURL, action, token)
}
