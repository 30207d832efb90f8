package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListAdminEmails returns the email address of every admin.
	ListAdminEmails(ctx context.Context) ([]string, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user and returns its id.
	// Returns apperrors.ErrDuplicate if the email is taken.
	SaveUser(ctx context.Context, user domain.User) (int64, error)
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
