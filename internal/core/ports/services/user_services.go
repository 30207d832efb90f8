package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// ListAdminEmails returns the addresses approval requests are sent to.
	ListAdminEmails(ctx context.Context) ([]string, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Register creates a user with the default role.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// CreateUser creates a user with an explicit role. Only admins may call it.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creator domain.User) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// AuthenticateGoogleUser signs in the user owning a verified Google email.
	// Unknown emails are registered with the default role.
	AuthenticateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
