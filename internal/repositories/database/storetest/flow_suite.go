// Package storetest holds behaviour tests shared by every store implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const reviewBaseURL = "https://expenses.example.com"

// FlowSuite drives submission and redemption through the real services against a store.
type FlowSuite struct {
	suite.Suite

	// NewStore returns an empty store. It is called before every test.
	NewStore func(t *testing.T) portsrepo.RepositoryProvider

	repos     portsrepo.RepositoryProvider
	notifier  *recordingNotifier
	ledger    portssvc.TokenLedgerSvc
	expenses  portssvc.ExpenseSvc
	review    portssvc.ReviewSvc
	submitter domain.User
	admin     domain.User
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.ApprovalNotification
}

func (n *recordingNotifier) SendApprovalRequest(_ context.Context, msg domain.ApprovalNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (s *FlowSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "FlowSuite.NewStore must be set")
	s.repos = s.NewStore(s.T())
	s.notifier = &recordingNotifier{}
	s.ledger = services.NewTokenLedgerService()

	users := services.NewUserService(s.repos.UserRepo)
	s.expenses = services.NewExpenseService(s.repos.UnitOfWork, s.ledger, users, s.notifier, services.WithApprovalBaseURL(reviewBaseURL))
	s.review = services.NewReviewService(s.repos.UnitOfWork, s.ledger)

	s.admin = s.saveUser("approver@example.com", domain.RoleAdmin)
	s.submitter = s.saveUser("clerk@example.com", domain.RoleUser)
}

func (s *FlowSuite) saveUser(email string, role domain.UserRole) domain.User {
	u := domain.User{Email: email, Role: role, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	id, err := s.repos.UserRepo.SaveUser(context.Background(), u)
	s.Require().NoError(err)
	u.ID = id
	return u
}

func strPtr(v string) *string { return &v }

func porterRequest() dto.SubmitExpenseRequest {
	weight := decimal.RequireFromString("12.5")
	amount := decimal.RequireFromString("450")
	return dto.SubmitExpenseRequest{
		ExpenseDate:  strPtr("2026-02-14"),
		Client:       "Acme Logistics",
		OfficeName:   "Mumbai",
		Head:         domain.HeadPorter,
		Subhead:      "Local",
		FromLocation: strPtr("Andheri"),
		ToLocation:   strPtr("Bandra"),
		Weight:       &weight,
		Amount:       &amount,
		AWB:          strPtr("AWB-0001"),
		Remark:       strPtr("fragile"),
		VehicleType:  strPtr("Tempo"),
	}
}

func (s *FlowSuite) submit() *domain.Submission {
	sub, err := s.expenses.SubmitExpense(context.Background(), porterRequest(), s.submitter)
	s.Require().NoError(err)
	s.Require().NoError(sub.NotificationErr)
	return sub
}

func (s *FlowSuite) tokensFor(pendingID int64) []domain.ApprovalToken {
	var tokens []domain.ApprovalToken
	err := s.repos.UnitOfWork.Do(context.Background(), func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		tokens, err = repos.Tokens.ListTokensByPendingID(ctx, pendingID)
		return err
	})
	s.Require().NoError(err)
	return tokens
}

func (s *FlowSuite) list(status domain.ExpenseStatus) []domain.ExpenseRecord {
	records, err := s.repos.DashboardRepo.ListExpenses(context.Background(), status, s.submitter.ID)
	s.Require().NoError(err)
	return records
}

func (s *FlowSuite) count(status domain.ExpenseStatus) int64 {
	n, err := s.repos.DashboardRepo.CountExpenses(context.Background(), status, domain.DashboardFilter{})
	s.Require().NoError(err)
	return n
}

func (s *FlowSuite) tokenByAction(tokens []domain.ApprovalToken, action domain.TokenAction) domain.ApprovalToken {
	for _, t := range tokens {
		if t.Action == action {
			return t
		}
	}
	s.FailNow(fmt.Sprintf("no %s token", action))
	return domain.ApprovalToken{}
}

func (s *FlowSuite) TestSubmitStoresPendingWithTwoTokens() {
	before := time.Now()
	sub := s.submit()

	pending := s.list(domain.StatusPending)
	s.Require().Len(pending, 1)
	s.Equal(sub.PendingID, pending[0].ID)
	s.Equal(s.submitter.ID, pending[0].CreatedBy)
	s.Equal("AWB-0001", *pending[0].AWB)
	s.True(decimal.RequireFromString("450").Equal(*pending[0].Amount))

	tokens := s.tokensFor(sub.PendingID)
	s.Require().Len(tokens, 2)
	approve := s.tokenByAction(tokens, domain.ActionApprove)
	reject := s.tokenByAction(tokens, domain.ActionReject)
	s.NotEqual(approve.Token, reject.Token)
	for _, t := range tokens {
		s.False(t.IsUsed)
		s.Nil(t.UsedAt)
		s.Len(t.Token, 64)
		s.WithinDuration(before.Add(services.DefaultApprovalTokenTTL), t.ExpiresAt, time.Minute)
	}

	s.Require().Len(s.notifier.sent, 1)
	msg := s.notifier.sent[0]
	s.Equal([]string{s.admin.Email}, msg.Recipients)
	s.Equal(reviewBaseURL+"/review/approve/"+approve.Token, msg.ApproveURL)
	s.Equal(reviewBaseURL+"/review/reject/"+reject.Token, msg.RejectURL)
}

func (s *FlowSuite) TestPorterWithoutAmountPersistsNothing() {
	req := porterRequest()
	req.Amount = nil

	sub, err := s.expenses.SubmitExpense(context.Background(), req, s.submitter)

	s.Nil(sub)
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.Zero(s.count(domain.StatusPending))
	s.Empty(s.tokensFor(1))
	s.Empty(s.notifier.sent)
}

func (s *FlowSuite) TestApproveMovesRecord() {
	sub := s.submit()

	status, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, status)
	s.Empty(s.list(domain.StatusPending))
	s.Empty(s.list(domain.StatusRejected))

	approved := s.list(domain.StatusApproved)
	s.Require().Len(approved, 1)
	moved := approved[0]
	s.Equal(sub.PendingID, *moved.OriginPendingID)
	s.NotNil(moved.DecidedAt)
	s.Equal(sub.Expense.Client, moved.Client)
	s.Equal(sub.Expense.OfficeName, moved.OfficeName)
	s.Equal(sub.Expense.Head, moved.Head)
	s.Equal(sub.Expense.Subhead, moved.Subhead)
	s.Equal(*sub.Expense.FromLocation, *moved.FromLocation)
	s.Equal(*sub.Expense.ToLocation, *moved.ToLocation)
	s.Equal(*sub.Expense.Remark, *moved.Remark)
	s.Equal(*sub.Expense.AWB, *moved.AWB)
	s.Equal("Tempo", *moved.VehicleType)
	s.True(sub.Expense.Weight.Equal(*moved.Weight))
	s.True(sub.Expense.Amount.Equal(*moved.Amount))
	s.True(sub.Expense.ExpenseDate.Equal(*moved.ExpenseDate))
	s.Equal(s.submitter.ID, moved.CreatedBy)
	s.WithinDuration(sub.Expense.CreatedAt, moved.CreatedAt, time.Millisecond)

	tokens := s.tokensFor(sub.PendingID)
	s.True(s.tokenByAction(tokens, domain.ActionApprove).IsUsed)
	s.NotNil(s.tokenByAction(tokens, domain.ActionApprove).UsedAt)
	s.False(s.tokenByAction(tokens, domain.ActionReject).IsUsed, "sibling token stays unused")
}

func (s *FlowSuite) TestFractionalAmountSurvivesApproval() {
	req := porterRequest()
	amount := decimal.RequireFromString("1234.56")
	weight := decimal.RequireFromString("0.125")
	req.Amount = &amount
	req.Weight = &weight

	sub, err := s.expenses.SubmitExpense(context.Background(), req, s.submitter)
	s.Require().NoError(err)
	_, err = s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)
	s.Require().NoError(err)

	approved := s.list(domain.StatusApproved)
	s.Require().Len(approved, 1)
	s.True(amount.Equal(*approved[0].Amount))
	s.True(weight.Equal(*approved[0].Weight))
	s.Equal("1234.56", approved[0].Amount.StringFixed(2))
	s.Equal("0.125", approved[0].Weight.StringFixed(3))
}

func (s *FlowSuite) TestRejectMovesRecord() {
	sub := s.submit()

	status, err := s.review.Redeem(context.Background(), sub.RejectToken.Token, domain.ActionReject)

	s.Require().NoError(err)
	s.Equal(domain.StatusRejected, status)
	s.Empty(s.list(domain.StatusPending))
	s.Empty(s.list(domain.StatusApproved))
	rejected := s.list(domain.StatusRejected)
	s.Require().Len(rejected, 1)
	s.Equal(sub.PendingID, *rejected[0].OriginPendingID)
}

func (s *FlowSuite) TestSecondRedemptionIsAlreadyUsed() {
	sub := s.submit()
	_, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)
	s.Require().NoError(err)

	_, err = s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)

	s.Equal(apperrors.ErrTokenAlreadyUsed, err)
	s.Len(s.list(domain.StatusApproved), 1)
}

func (s *FlowSuite) TestSiblingAfterDecisionFindsNoRecord() {
	sub := s.submit()
	_, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)
	s.Require().NoError(err)

	_, err = s.review.Redeem(context.Background(), sub.RejectToken.Token, domain.ActionReject)

	s.Equal(apperrors.ErrRecordNotFound, err)
	s.Empty(s.list(domain.StatusRejected))
	s.Len(s.list(domain.StatusApproved), 1)
	// the failed attempt was rolled back
	s.False(s.tokenByAction(s.tokensFor(sub.PendingID), domain.ActionReject).IsUsed)
}

func (s *FlowSuite) TestTokenMustMatchAction() {
	sub := s.submit()

	_, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionReject)
	s.Equal(apperrors.ErrTokenNotFound, err)

	_, err = s.review.Redeem(context.Background(), strings.Repeat("0", 64), domain.ActionApprove)
	s.Equal(apperrors.ErrTokenNotFound, err)

	s.Len(s.list(domain.StatusPending), 1)
}

func (s *FlowSuite) TestExpiredTokenChangesNothing() {
	sub := s.submit()
	later := services.NewTokenLedgerService(services.WithLedgerClock(func() time.Time {
		return time.Now().Add(services.DefaultApprovalTokenTTL + time.Hour)
	}))
	review := services.NewReviewService(s.repos.UnitOfWork, later)

	_, err := review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)

	s.Equal(apperrors.ErrTokenExpired, err)
	s.Len(s.list(domain.StatusPending), 1)
	s.Empty(s.list(domain.StatusApproved))
	s.False(s.tokenByAction(s.tokensFor(sub.PendingID), domain.ActionApprove).IsUsed)
}

// redeemConcurrently starts every attempt at once and returns their errors in order.
func (s *FlowSuite) redeemConcurrently(attempts []func() error) []error {
	errs := make([]error, len(attempts))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, attempt := range attempts {
		wg.Add(1)
		go func(i int, attempt func() error) {
			defer wg.Done()
			<-start
			errs[i] = attempt()
		}(i, attempt)
	}
	close(start)
	wg.Wait()
	return errs
}

func (s *FlowSuite) TestConcurrentRedemptionsOfOneToken() {
	sub := s.submit()
	const n = 8
	attempts := make([]func() error, n)
	for i := range attempts {
		attempts[i] = func() error {
			_, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)
			return err
		}
	}

	errs := s.redeemConcurrently(attempts)

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Equal(apperrors.ErrTokenAlreadyUsed, err)
	}
	s.Equal(1, succeeded)
	s.Len(s.list(domain.StatusApproved), 1)
	s.Empty(s.list(domain.StatusPending))
}

func (s *FlowSuite) TestConcurrentApproveAndReject() {
	sub := s.submit()

	errs := s.redeemConcurrently([]func() error{
		func() error {
			_, err := s.review.Redeem(context.Background(), sub.ApproveToken.Token, domain.ActionApprove)
			return err
		},
		func() error {
			_, err := s.review.Redeem(context.Background(), sub.RejectToken.Token, domain.ActionReject)
			return err
		},
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Equal(apperrors.ErrRecordNotFound, err)
	}
	s.Equal(1, succeeded)
	s.Equal(int64(1), s.count(domain.StatusApproved)+s.count(domain.StatusRejected))
	s.Zero(s.count(domain.StatusPending))
}

func (s *FlowSuite) TestDashboardAggregates() {
	first := s.submit()
	second := s.submit()
	third := s.submit()
	_, err := s.review.Redeem(context.Background(), first.ApproveToken.Token, domain.ActionApprove)
	s.Require().NoError(err)
	_, err = s.review.Redeem(context.Background(), second.RejectToken.Token, domain.ActionReject)
	s.Require().NoError(err)
	_ = third

	dashboard := services.NewDashboardService(s.repos.DashboardRepo)
	kpis, err := dashboard.KPIs(context.Background(), s.submitter, domain.DashboardFilter{})
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("450").Equal(kpis.TotalExpense))
	s.Equal(int64(1), kpis.TotalApproved)
	s.Equal(int64(1), kpis.TotalRejected)
	s.Equal(int64(1), kpis.TotalPending)
	s.Equal(int64(3), kpis.TotalUploaded)

	opts, err := dashboard.FilterOptions(context.Background(), s.admin)
	s.Require().NoError(err)
	s.Equal([]domain.FilterOption{{ID: s.submitter.ID, Label: s.submitter.Email}}, opts.Users)
	s.Equal([]string{"Mumbai"}, opts.Offices)
	s.Equal([]string{domain.HeadPorter}, opts.Heads)

	office := "Pune"
	none, err := dashboard.KPIs(context.Background(), s.admin, domain.DashboardFilter{Office: &office})
	s.Require().NoError(err)
	s.True(none.TotalExpense.IsZero())

	slices, err := dashboard.TopApproved(context.Background(), s.admin, domain.GroupByHead, domain.DashboardFilter{}, 0)
	s.Require().NoError(err)
	s.Require().Len(slices, 1)
	s.Equal(domain.HeadPorter, slices[0].Label)
	s.True(decimal.RequireFromString("450").Equal(slices[0].Value))
}
