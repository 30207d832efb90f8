package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 10 * 60
)

// GoogleOAuthHandler handles Google sign-in. It shares the session cookie with AuthHandler.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	auth               *AuthHandler
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	auth *AuthHandler,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		auth:               auth,
	}
}

// ExchangeCodeRequest is the body of the authorization-code callback.
type ExchangeCodeRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state" binding:"required"`
}

// GoogleLoginURLResponse points the browser at Google's consent screen.
type GoogleLoginURLResponse struct {
	URL string `json:"url"`
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := NewGoogleOAuthHandler(services.GoogleAuth, services.User, NewAuthHandler(services.User, services.Token, cfg))
	googleRoutes := r.Group("/auth/google", loginLimit)
	{
		googleRoutes.GET("/login", h.LoginURL)
		googleRoutes.POST("", h.SignInWithIDToken)
		googleRoutes.POST("/exchange-code", h.ExchangeCode)
	}
}

// LoginURL godoc
// @Summary Google consent URL
// @Description Returns the Google authorization URL and sets a short-lived state cookie.
// @Tags oauth
// @Produce json
// @Success 200 {object} GoogleLoginURLResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginURL(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/auth/google", "", h.auth.cookie.secure, true)
	c.JSON(http.StatusOK, GoogleLoginURLResponse{URL: h.googleOAuthService.GetGoogleLoginURL(ctx, state)})
}

// SignInWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Description Verifies an ID token obtained by the frontend and starts a session.
// @Tags oauth
// @Accept json
// @Produce json
// @Param body body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google [post]
func (h *GoogleOAuthHandler) SignInWithIDToken(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	info, err := h.googleOAuthService.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.completeSignIn(c, info)
}

// ExchangeCode godoc
// @Summary Exchange authorization code
// @Description Exchanges a Google authorization code for a session. The state must match the state cookie.
// @Tags oauth
// @Accept json
// @Produce json
// @Param body body ExchangeCodeRequest true "Authorization code and state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCode(c *gin.Context) {
	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(expected), []byte(req.State)) != 1 {
		middleware.GetLoggerFromContext(c).Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_state", Message: "OAuth state does not match"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.auth.cookie.secure, true)

	info, err := h.googleOAuthService.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.completeSignIn(c, info)
}

// completeSignIn resolves the Google identity to a user and starts a session.
func (h *GoogleOAuthHandler) completeSignIn(c *gin.Context, info *domain.GoogleUserInfo) {
	user, err := h.userService.AuthenticateGoogleUser(c.Request.Context(), *info)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Google sign-in failed",
			slog.String("email", info.Email), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}
	h.auth.startSession(c, user)
}
