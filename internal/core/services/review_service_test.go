package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	now          time.Time
	mockExpenses *MockExpenseRepository
	mockTokens   *MockApprovalTokenRepository
	uow          *fakeUnitOfWork
	service      portssvc.ReviewSvc
}

func (suite *ReviewServiceTestSuite) SetupTest() {
	suite.now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	suite.mockExpenses = new(MockExpenseRepository)
	suite.mockTokens = new(MockApprovalTokenRepository)
	suite.uow = &fakeUnitOfWork{repos: portsrepo.TxRepositories{Expenses: suite.mockExpenses, Tokens: suite.mockTokens}}

	clock := fixedClock(suite.now)
	suite.service = services.NewReviewService(
		suite.uow,
		services.NewTokenLedgerService(services.WithLedgerClock(clock)),
		services.WithReviewClock(clock),
	)
}

func (suite *ReviewServiceTestSuite) liveToken(action domain.TokenAction) *domain.ApprovalToken {
	return &domain.ApprovalToken{
		ID:        5,
		Token:     "tok-" + string(action),
		PendingID: 41,
		Action:    action,
		ExpiresAt: suite.now.Add(time.Hour),
	}
}

func pendingRecord() *domain.ExpenseRecord {
	return &domain.ExpenseRecord{
		ID:         41,
		Status:     domain.StatusPending,
		Client:     "Acme Logistics",
		OfficeName: "Pune",
		Head:       "Travel",
		Subhead:    "Cab",
		Amount:     decimalPtr(decimal.RequireFromString("812.40")),
		Remark:     stringPtr("airport run"),
		CreatedBy:  7,
	}
}

func (suite *ReviewServiceTestSuite) TestRedeem_ApproveMovesRecordAndConsumesToken() {
	ctx := context.Background()
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-approve", domain.ActionApprove).Return(suite.liveToken(domain.ActionApprove), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.MatchedBy(func(e domain.ExpenseRecord) bool {
		return e.Status == domain.StatusApproved &&
			e.ID == 0 &&
			*e.OriginPendingID == 41 &&
			e.DecidedAt.Equal(suite.now) &&
			e.Client == "Acme Logistics" &&
			e.CreatedBy == 7 &&
			*e.Remark == "airport run" &&
			e.Amount.Equal(decimal.RequireFromString("812.40"))
	})).Return(int64(100), nil).Once()
	suite.mockExpenses.On("DeletePending", mock.Anything, int64(41)).Return(nil).Once()
	suite.mockTokens.On("MarkTokenUsed", mock.Anything, int64(5), suite.now).Return(nil).Once()

	status, err := suite.service.Redeem(ctx, "tok-approve", domain.ActionApprove)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, status)
	suite.Equal(1, suite.uow.committed)
	suite.mockExpenses.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
}

func (suite *ReviewServiceTestSuite) TestRedeem_RejectGoesToRejectedCollection() {
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-reject", domain.ActionReject).Return(suite.liveToken(domain.ActionReject), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.MatchedBy(func(e domain.ExpenseRecord) bool {
		return e.Status == domain.StatusRejected
	})).Return(int64(7), nil).Once()
	suite.mockExpenses.On("DeletePending", mock.Anything, int64(41)).Return(nil).Once()
	suite.mockTokens.On("MarkTokenUsed", mock.Anything, int64(5), suite.now).Return(nil).Once()

	status, err := suite.service.Redeem(context.Background(), "tok-reject", domain.ActionReject)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, status)
}

func (suite *ReviewServiceTestSuite) TestRedeem_TerminalTokenErrors() {
	used := suite.liveToken(domain.ActionApprove)
	used.MarkUsed(suite.now.Add(-time.Minute))
	expired := suite.liveToken(domain.ActionApprove)
	expired.ExpiresAt = suite.now.Add(-time.Second)

	tests := []struct {
		name    string
		found   *domain.ApprovalToken
		findErr error
		want    error
	}{
		{"unknown token", nil, apperrors.ErrTokenNotFound, apperrors.ErrTokenNotFound},
		{"used token", used, nil, apperrors.ErrTokenAlreadyUsed},
		{"expired token", expired, nil, apperrors.ErrTokenExpired},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok", domain.ActionApprove).Return(tt.found, tt.findErr).Once()

			status, err := suite.service.Redeem(context.Background(), "tok", domain.ActionApprove)

			suite.Empty(status)
			suite.Equal(tt.want, err)
			suite.Equal(0, suite.uow.committed)
			suite.mockExpenses.AssertNotCalled(suite.T(), "LockPending", mock.Anything, mock.Anything)
			suite.mockTokens.AssertNotCalled(suite.T(), "MarkTokenUsed", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (suite *ReviewServiceTestSuite) TestRedeem_SiblingAlreadyDecided() {
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-reject", domain.ActionReject).Return(suite.liveToken(domain.ActionReject), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(nil, apperrors.ErrRecordNotFound).Once()

	_, err := suite.service.Redeem(context.Background(), "tok-reject", domain.ActionReject)

	suite.Equal(apperrors.ErrRecordNotFound, err)
	suite.Equal(1, suite.uow.rolledBack)
	suite.mockExpenses.AssertNotCalled(suite.T(), "InsertDecided", mock.Anything, mock.Anything)
	suite.mockTokens.AssertNotCalled(suite.T(), "MarkTokenUsed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewServiceTestSuite) TestRedeem_DuplicateDecisionReportsRecordNotFound() {
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-approve", domain.ActionApprove).Return(suite.liveToken(domain.ActionApprove), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.Anything).Return(int64(0), apperrors.ErrDuplicate).Once()

	_, err := suite.service.Redeem(context.Background(), "tok-approve", domain.ActionApprove)

	suite.Equal(apperrors.ErrRecordNotFound, err)
}

func (suite *ReviewServiceTestSuite) TestRedeem_StoreFailureRollsBack() {
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-approve", domain.ActionApprove).Return(suite.liveToken(domain.ActionApprove), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full")).Once()

	status, err := suite.service.Redeem(context.Background(), "tok-approve", domain.ActionApprove)

	suite.Empty(status)
	suite.True(errors.Is(err, apperrors.ErrTransactionFailure))
	suite.Equal(1, suite.uow.rolledBack)
	suite.mockExpenses.AssertNotCalled(suite.T(), "DeletePending", mock.Anything, mock.Anything)
	suite.mockTokens.AssertNotCalled(suite.T(), "MarkTokenUsed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewServiceTestSuite) TestRedeem_LostConsumeRaceReportsAlreadyUsed() {
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-approve", domain.ActionApprove).Return(suite.liveToken(domain.ActionApprove), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.Anything).Return(int64(100), nil).Once()
	suite.mockExpenses.On("DeletePending", mock.Anything, int64(41)).Return(nil).Once()
	suite.mockTokens.On("MarkTokenUsed", mock.Anything, int64(5), suite.now).Return(apperrors.ErrTokenAlreadyUsed).Once()

	_, err := suite.service.Redeem(context.Background(), "tok-approve", domain.ActionApprove)

	suite.Equal(apperrors.ErrTokenAlreadyUsed, err)
	suite.Equal(1, suite.uow.rolledBack)
	suite.Equal(0, suite.uow.committed)
}

func (suite *ReviewServiceTestSuite) TestRedeem_CommitFailure() {
	suite.uow.commitErr = errors.New("connection lost")
	suite.mockTokens.On("FindTokenForUpdate", mock.Anything, "tok-approve", domain.ActionApprove).Return(suite.liveToken(domain.ActionApprove), nil).Once()
	suite.mockExpenses.On("LockPending", mock.Anything, int64(41)).Return(pendingRecord(), nil).Once()
	suite.mockExpenses.On("InsertDecided", mock.Anything, mock.Anything).Return(int64(100), nil).Once()
	suite.mockExpenses.On("DeletePending", mock.Anything, int64(41)).Return(nil).Once()
	suite.mockTokens.On("MarkTokenUsed", mock.Anything, int64(5), suite.now).Return(nil).Once()

	_, err := suite.service.Redeem(context.Background(), "tok-approve", domain.ActionApprove)

	suite.True(errors.Is(err, apperrors.ErrTransactionFailure))
}

func (suite *ReviewServiceTestSuite) TestRedeem_UnknownAction() {
	_, err := suite.service.Redeem(context.Background(), "tok", domain.TokenAction("escalate"))

	suite.Equal(apperrors.ErrTokenNotFound, err)
	suite.Equal(0, suite.uow.calls)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
