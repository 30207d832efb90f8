package services

import (
	"context"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// TokenSvcFacade issues session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed session token whose subject is the user id.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google sign-in operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCode trades an authorization code for the verified identity in its ID token.
	ExchangeCode(ctx context.Context, code string) (*domain.GoogleUserInfo, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns the identity it carries.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error)
}
