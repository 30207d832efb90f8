package boltdb

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"go.etcd.io/bbolt"
)

type userRepository struct {
	db *bbolt.DB
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

func (r *userRepository) FindUserByID(_ context.Context, userID int64) (*domain.User, error) {
	var m models.User
	var found bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		found, err = get(tx.Bucket(usersBucket), userID, &m)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID %d: %w", userID, err)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var id int64
	_ = r.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(usersByEmailBucket).Get([]byte(email)); v != nil {
			id = btoi(v)
		}
		return nil
	})
	if id == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindUserByID(ctx, id)
}

func (r *userRepository) ListAdminEmails(_ context.Context) ([]string, error) {
	emails := []string{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		return forEach(tx.Bucket(usersBucket), func(m models.User) error {
			if m.Role == string(domain.RoleAdmin) {
				emails = append(emails, m.Email)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	return emails, nil
}

func (r *userRepository) SaveUser(_ context.Context, user domain.User) (int64, error) {
	var id int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		byEmail := tx.Bucket(usersByEmailBucket)
		if byEmail.Get([]byte(user.Email)) != nil {
			return apperrors.ErrDuplicate
		}
		b := tx.Bucket(usersBucket)
		var err error
		if id, err = nextID(b); err != nil {
			return err
		}
		m := mapping.ToModelUser(user)
		m.ID = id
		if err := put(b, id, m); err != nil {
			return err
		}
		return byEmail.Put([]byte(user.Email), itob(id))
	})
	if err != nil {
		if err == apperrors.ErrDuplicate {
			return 0, err
		}
		return 0, fmt.Errorf("failed to save user: %w", err)
	}
	return id, nil
}
