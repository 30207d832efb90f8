package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService issues session JWTs.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	now := s.Now()
	accessToken, err := utils.GenerateJWT(user.ID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, now.Add(s.cfg.JWTExpiryDuration), nil
}

// --- GoogleOAuthHandlerSvcFacade Implementation ---

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
	validate     idTokenValidator
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code and verifies the ID token returned with it.
func (s *googleOAuthHandlerService) ExchangeCode(ctx context.Context, code string) (*domain.GoogleUserInfo, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange oauth code for token: %w", apperrors.ErrUnauthorized, err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google token response carried no id_token")
	}
	return s.ValidateGoogleIDToken(ctx, rawIDToken)
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the identity it carries.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := s.validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %w", apperrors.ErrUnauthorized, err)
	}
	return googleUserInfoFromPayload(payload), nil
}

func googleUserInfoFromPayload(p *idtoken.Payload) *domain.GoogleUserInfo {
	info := &domain.GoogleUserInfo{Subject: p.Subject}
	if email, ok := p.Claims["email"].(string); ok {
		info.Email = email
	}
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		info.EmailVerified = v
	case string:
		info.EmailVerified = v == "true"
	}
	if name, ok := p.Claims["name"].(string); ok {
		info.Name = name
	}
	return info
}
