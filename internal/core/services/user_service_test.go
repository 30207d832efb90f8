package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestRegister_HashesPasswordAndDefaultsRole() {
	ctx := context.Background()
	req := dto.RegisterRequest{Email: "  New.Hire@Example.com ", Password: "password123"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new.hire@example.com" &&
			u.Role == domain.RoleUser &&
			u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Return(int64(12), nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(12), user.ID)
	suite.True(utils.CheckPasswordHash("password123", user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.mockUserRepo.On("SaveUser", mock.Anything, mock.Anything).Return(int64(0), apperrors.ErrDuplicate).Once()

	_, err := suite.service.Register(context.Background(), dto.RegisterRequest{Email: "a@example.com", Password: "password123"})

	suite.True(errors.Is(err, apperrors.ErrDuplicate))
}

func (suite *UserServiceTestSuite) TestCreateUser_RequiresAdmin() {
	req := dto.CreateUserRequest{Email: "a@example.com", Password: "password123", Role: domain.RoleAdmin}

	_, err := suite.service.CreateUser(context.Background(), req, domain.User{ID: 2, Role: domain.RoleUser})

	suite.Equal(apperrors.ErrForbidden, err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_AdminCanCreateAdmin() {
	req := dto.CreateUserRequest{Email: "b@example.com", Password: "password123", Role: domain.RoleAdmin}
	suite.mockUserRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(int64(3), nil).Once()

	user, err := suite.service.CreateUser(context.Background(), req, domain.User{ID: 1, Role: domain.RoleAdmin})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	stored := &domain.User{ID: 4, Email: "x@example.com", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "x@example.com").Return(stored, nil)
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	user, err := suite.service.AuthenticateUser(context.Background(), "X@example.com", "s3cret-pass")
	suite.Require().NoError(err)
	suite.Equal(int64(4), user.ID)

	_, err = suite.service.AuthenticateUser(context.Background(), "x@example.com", "wrong")
	suite.Equal(apperrors.ErrUnauthorized, err)

	_, err = suite.service.AuthenticateUser(context.Background(), "nobody@example.com", "s3cret-pass")
	suite.Equal(apperrors.ErrUnauthorized, err)
}

func (suite *UserServiceTestSuite) TestAuthenticateGoogleUser_RegistersUnknownEmail() {
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "g@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "g@example.com" && u.PasswordHash == "" && *u.Name == "Gee"
	})).Return(int64(20), nil).Once()

	user, err := suite.service.AuthenticateGoogleUser(context.Background(), domain.GoogleUserInfo{Email: "g@example.com", EmailVerified: true, Name: "Gee"})

	suite.Require().NoError(err)
	suite.Equal(int64(20), user.ID)
}

func (suite *UserServiceTestSuite) TestAuthenticateGoogleUser_UnverifiedEmail() {
	_, err := suite.service.AuthenticateGoogleUser(context.Background(), domain.GoogleUserInfo{Email: "g@example.com"})

	suite.Equal(apperrors.ErrUnauthorized, err)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(context.Background(), 99)

	suite.Nil(user)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func TestPasswordlessUserCannotLogIn(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByEmail", mock.Anything, "g@example.com").Return(&domain.User{ID: 20, Email: "g@example.com"}, nil)

	_, err := services.NewUserService(repo).AuthenticateUser(context.Background(), "g@example.com", "")

	assert.Equal(t, apperrors.ErrUnauthorized, err)
}
