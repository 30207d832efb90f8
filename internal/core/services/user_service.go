package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/utils"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) ListAdminEmails(ctx context.Context) ([]string, error) {
	emails, err := s.userRepo.ListAdminEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	return emails, nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	return s.create(ctx, req.Name, req.Email, req.Password, domain.RoleUser)
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creator domain.User) (*domain.User, error) {
	if !creator.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if req.Role != domain.RoleUser && req.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role), "role")
	}
	user, err := s.create(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User created by admin", slog.Int64("user_id", user.ID), slog.Int64("creator_id", creator.ID), slog.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) create(ctx context.Context, name *string, email, password string, role domain.UserRole) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", "email")
	}

	var hash string
	if password != "" {
		h, err := utils.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.Now(),
	}
	id, err := s.userRepo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user %s already exists", apperrors.ErrDuplicate, email)
		}
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}
	user.ID = id
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	// Users created through Google sign-in have no password.
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) AuthenticateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if !info.EmailVerified || info.Email == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(info.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	var name *string
	if info.Name != "" {
		name = &info.Name
	}
	user, err = s.create(ctx, name, info.Email, "", domain.RoleUser)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User registered through Google sign-in", slog.Int64("user_id", user.ID))
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
