package boltdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/repositories/database/boltdb"
	"github.com/SscSPs/expense_approval_app/internal/repositories/database/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func openStore(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return boltdb.NewRepositoryProvider(store)
}

func TestBoltStoreFlows(t *testing.T) {
	suite.Run(t, &storetest.FlowSuite{NewStore: openStore})
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	repos := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.UnitOfWork.Do(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Expenses.InsertPending(ctx, domain.ExpenseRecord{Client: "c", OfficeName: "o", Head: "h", Subhead: "s"})
		require.NoError(t, err)
		return boom
	})

	assert.Equal(t, boom, err)
	n, err := repos.DashboardRepo.CountExpenses(ctx, domain.StatusPending, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnitOfWork_CancelledContext(t *testing.T) {
	repos := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repos.UnitOfWork.Do(ctx, func(context.Context, portsrepo.TxRepositories) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, errors.Is(err, apperrors.ErrTransactionFailure))
}

func TestExpenseRepository_DecidedOriginIsUnique(t *testing.T) {
	repos := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	origin := int64(5)
	decided := domain.ExpenseRecord{
		Status: domain.StatusApproved, Client: "c", OfficeName: "o", Head: "h", Subhead: "s",
		OriginPendingID: &origin, DecidedAt: &now,
	}

	err := repos.UnitOfWork.Do(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := tx.Expenses.InsertDecided(ctx, decided); err != nil {
			return err
		}
		_, err := tx.Expenses.InsertDecided(ctx, decided)
		return err
	})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))

	// the same origin may still appear once in the other collection
	decided.Status = domain.StatusRejected
	err = repos.UnitOfWork.Do(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Expenses.InsertDecided(ctx, decided)
		return err
	})
	assert.NoError(t, err)
}

func TestExpenseRepository_MissingPendingRecord(t *testing.T) {
	repos := openStore(t)

	err := repos.UnitOfWork.Do(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Expenses.LockPending(ctx, 42)
		assert.Equal(t, apperrors.ErrRecordNotFound, err)
		return tx.Expenses.DeletePending(ctx, 42)
	})

	assert.Equal(t, apperrors.ErrRecordNotFound, err)
}

func TestApprovalTokenRepository_MarkUsedOnce(t *testing.T) {
	repos := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	err := repos.UnitOfWork.Do(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		id, err := tx.Tokens.CreateToken(ctx, domain.ApprovalToken{
			Token: "abc", PendingID: 1, Action: domain.ActionApprove, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
		})
		require.NoError(t, err)

		_, err = tx.Tokens.FindTokenForUpdate(ctx, "abc", domain.ActionReject)
		assert.Equal(t, apperrors.ErrTokenNotFound, err)

		require.NoError(t, tx.Tokens.MarkTokenUsed(ctx, id, now))
		assert.Equal(t, apperrors.ErrTokenAlreadyUsed, tx.Tokens.MarkTokenUsed(ctx, id, now))

		found, err := tx.Tokens.FindTokenForUpdate(ctx, "abc", domain.ActionApprove)
		require.NoError(t, err)
		assert.True(t, found.IsUsed)
		assert.True(t, now.Equal(*found.UsedAt))
		assert.Equal(t, id, found.ID)
		assert.Equal(t, int64(1), found.PendingID)
		assert.Equal(t, domain.ActionApprove, found.Action)
		assert.True(t, now.Add(time.Hour).Equal(found.ExpiresAt))
		return nil
	})
	require.NoError(t, err)
}

func TestUserRepository(t *testing.T) {
	repos := openStore(t)
	ctx := context.Background()

	id, err := repos.UserRepo.SaveUser(ctx, domain.User{Email: "a@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = repos.UserRepo.SaveUser(ctx, domain.User{Email: "a@example.com", Role: domain.RoleUser})
	assert.Equal(t, apperrors.ErrDuplicate, err)
	_, err = repos.UserRepo.SaveUser(ctx, domain.User{Email: "b@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	user, err := repos.UserRepo.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = repos.UserRepo.FindUserByID(ctx, 99)
	assert.Equal(t, apperrors.ErrNotFound, err)

	emails, err := repos.UserRepo.ListAdminEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, emails)
}
