package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
)

// ExpenseSvc accepts expense submissions.
type ExpenseSvc interface {
	// SubmitExpense validates the request, stores it as pending together with its two
	// approval tokens, then asks the admins for a decision. A failed notification does not
	// undo the submission; it is reported in Submission.NotificationErr.
	SubmitExpense(ctx context.Context, req dto.SubmitExpenseRequest, submitter domain.User) (*domain.Submission, error)
}

// ReviewSvc redeems approval tokens.
type ReviewSvc interface {
	// Redeem validates token for action and moves the bound pending record to the
	// approved or rejected collection, consuming the token. All or nothing.
	Redeem(ctx context.Context, token string, action domain.TokenAction) (domain.ExpenseStatus, error)
}

// Notifier delivers approval requests to admins.
type Notifier interface {
	SendApprovalRequest(ctx context.Context, n domain.ApprovalNotification) error
}
