package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cookie       sessionCookie
}

// sessionCookie writes the httpOnly cookie that carries the session JWT.
type sessionCookie struct {
	name   string
	secure bool
}

func (s sessionCookie) set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, token, maxAge, "/", "", s.secure, true)
}

func (s sessionCookie) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		cookie:       sessionCookie{name: cfg.AuthCookieName, secure: cfg.IsProduction},
	}
}

// registerAuthRoutes sets up the routes for authentication.
// loginLimit guards the credential endpoints.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := NewAuthHandler(services.User, services.Token, cfg)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", loginLimit, h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me",
			middleware.AuthMiddleware(cfg.JWTSecret, cfg.AuthCookieName),
			middleware.LoadCurrentUser(services.User),
			h.Me)
	}
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account with the default role.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("User registered", slog.Int64("new_user_id", user.ID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user, sets the session cookie and returns the JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.startSession(c, user)
}

// Logout godoc
// @Summary User logout
// @Description Clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.clear(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current user
// @Description Returns the signed-in user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// startSession issues a JWT for user, stores it in the cookie and writes the login response.
func (h *AuthHandler) startSession(c *gin.Context, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to generate access token",
			slog.String("error", err.Error()), slog.Int64("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "Failed to generate token"})
		return
	}

	h.cookie.set(c, token, expiresAt)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
