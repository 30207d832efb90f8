package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"go.etcd.io/bbolt"
)

type approvalTokenRepository struct {
	tx *bbolt.Tx
}

var _ portsrepo.ApprovalTokenRepository = (*approvalTokenRepository)(nil)

func (r *approvalTokenRepository) CreateToken(_ context.Context, token domain.ApprovalToken) (int64, error) {
	byValue := r.tx.Bucket(tokensByValueBucket)
	if byValue.Get([]byte(token.Token)) != nil {
		return 0, fmt.Errorf("%w: approval token collision", apperrors.ErrDuplicate)
	}

	b := r.tx.Bucket(tokensBucket)
	id, err := nextID(b)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelApprovalToken(token)
	m.ID = id
	m.IsUsed, m.UsedAt = false, nil
	if err := put(b, id, m); err != nil {
		return 0, fmt.Errorf("failed to insert approval token: %w", err)
	}
	if err := byValue.Put([]byte(token.Token), itob(id)); err != nil {
		return 0, fmt.Errorf("failed to index approval token: %w", err)
	}
	return id, nil
}

func (r *approvalTokenRepository) load(id int64) (*models.ApprovalToken, error) {
	var m models.ApprovalToken
	found, err := get(r.tx.Bucket(tokensBucket), id, &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrTokenNotFound
	}
	return &m, nil
}

func (r *approvalTokenRepository) FindTokenForUpdate(_ context.Context, token string, action domain.TokenAction) (*domain.ApprovalToken, error) {
	idKey := r.tx.Bucket(tokensByValueBucket).Get([]byte(token))
	if idKey == nil {
		return nil, apperrors.ErrTokenNotFound
	}
	m, err := r.load(btoi(idKey))
	if err != nil {
		return nil, err
	}
	if m.Action != string(action) {
		return nil, apperrors.ErrTokenNotFound
	}
	t := mapping.ToDomainApprovalToken(*m)
	return &t, nil
}

func (r *approvalTokenRepository) MarkTokenUsed(_ context.Context, tokenID int64, usedAt time.Time) error {
	m, err := r.load(tokenID)
	if err != nil {
		return err
	}
	if m.IsUsed {
		return apperrors.ErrTokenAlreadyUsed
	}
	t := mapping.ToDomainApprovalToken(*m)
	t.MarkUsed(usedAt)
	if err := put(r.tx.Bucket(tokensBucket), tokenID, mapping.ToModelApprovalToken(t)); err != nil {
		return fmt.Errorf("failed to mark approval token %d used: %w", tokenID, err)
	}
	return nil
}

func (r *approvalTokenRepository) ListTokensByPendingID(_ context.Context, pendingID int64) ([]domain.ApprovalToken, error) {
	tokens := []models.ApprovalToken{}
	err := forEach(r.tx.Bucket(tokensBucket), func(m models.ApprovalToken) error {
		if m.PendingID == pendingID {
			tokens = append(tokens, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list approval tokens: %w", err)
	}
	return mapping.ToDomainApprovalTokenSlice(tokens), nil
}
