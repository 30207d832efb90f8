package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListAdminEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var emails []string
	if args.Get(0) != nil {
		emails = args.Get(0).([]string)
	}
	return emails, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) LockPending(ctx context.Context, pendingID int64) (*domain.ExpenseRecord, error) {
	args := m.Called(ctx, pendingID)
	var rec *domain.ExpenseRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*domain.ExpenseRecord)
	}
	return rec, args.Error(1)
}

func (m *MockExpenseRepository) InsertPending(ctx context.Context, expense domain.ExpenseRecord) (int64, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) InsertDecided(ctx context.Context, expense domain.ExpenseRecord) (int64, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) DeletePending(ctx context.Context, pendingID int64) error {
	args := m.Called(ctx, pendingID)
	return args.Error(0)
}

// --- Mock ApprovalTokenRepository ---
type MockApprovalTokenRepository struct {
	mock.Mock
}

func (m *MockApprovalTokenRepository) CreateToken(ctx context.Context, token domain.ApprovalToken) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApprovalTokenRepository) FindTokenForUpdate(ctx context.Context, token string, action domain.TokenAction) (*domain.ApprovalToken, error) {
	args := m.Called(ctx, token, action)
	var t *domain.ApprovalToken
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.ApprovalToken)
	}
	return t, args.Error(1)
}

func (m *MockApprovalTokenRepository) MarkTokenUsed(ctx context.Context, tokenID int64, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockApprovalTokenRepository) ListTokensByPendingID(ctx context.Context, pendingID int64) ([]domain.ApprovalToken, error) {
	args := m.Called(ctx, pendingID)
	var tokens []domain.ApprovalToken
	if args.Get(0) != nil {
		tokens = args.Get(0).([]domain.ApprovalToken)
	}
	return tokens, args.Error(1)
}

// --- Mock DashboardRepository ---
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) SumApprovedAmount(ctx context.Context, filter domain.DashboardFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepository) CountExpenses(ctx context.Context, status domain.ExpenseStatus, filter domain.DashboardFilter) (int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) ListExpenses(ctx context.Context, status domain.ExpenseStatus, userID int64) ([]domain.ExpenseRecord, error) {
	args := m.Called(ctx, status, userID)
	var recs []domain.ExpenseRecord
	if args.Get(0) != nil {
		recs = args.Get(0).([]domain.ExpenseRecord)
	}
	return recs, args.Error(1)
}

func (m *MockDashboardRepository) ListApprovedSubmitters(ctx context.Context) ([]domain.FilterOption, error) {
	args := m.Called(ctx)
	var opts []domain.FilterOption
	if args.Get(0) != nil {
		opts = args.Get(0).([]domain.FilterOption)
	}
	return opts, args.Error(1)
}

func (m *MockDashboardRepository) ListApprovedDistinct(ctx context.Context, column domain.GroupBy) ([]string, error) {
	args := m.Called(ctx, column)
	var values []string
	if args.Get(0) != nil {
		values = args.Get(0).([]string)
	}
	return values, args.Error(1)
}

func (m *MockDashboardRepository) TopApproved(ctx context.Context, column domain.GroupBy, filter domain.DashboardFilter, limit int) ([]domain.LabelValue, error) {
	args := m.Called(ctx, column, filter, limit)
	var values []domain.LabelValue
	if args.Get(0) != nil {
		values = args.Get(0).([]domain.LabelValue)
	}
	return values, args.Error(1)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendApprovalRequest(ctx context.Context, n domain.ApprovalNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// fakeUnitOfWork runs fn against fixed repositories and records the outcome.
type fakeUnitOfWork struct {
	repos      portsrepo.TxRepositories
	commitErr  error
	calls      int
	committed  int
	rolledBack int
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	u.calls++
	if err := fn(ctx, u.repos); err != nil {
		u.rolledBack++
		return err
	}
	if u.commitErr != nil {
		u.rolledBack++
		return apperrors.NewTransactionError("failed to commit transaction", u.commitErr)
	}
	u.committed++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func stringPtr(s string) *string { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
