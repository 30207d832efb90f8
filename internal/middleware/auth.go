package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserLoader resolves the authenticated user id to a user.
type UserLoader interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
// The token is read from the session cookie first, then from a Bearer Authorization header.
func AuthMiddleware(jwtSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := tokenFromRequest(c, cookieName)
		if !ok {
			logger.Warn("Session token missing")
			abortUnauthorized(c, "Not authenticated")
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortUnauthorized(c, msg)
			return
		}

		userID, err := utils.UserIDFromClaims(claims)
		if err != nil {
			logger.Error("User ID (subject) missing from valid token", slog.String("subject", claims.Subject))
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		// Add user ID to the logger and store both in the request context
		enrichedLogger := logger.With(slog.Int64("user_id", userID))
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))
		c.Set(string(userIDKey), userID)
		c.Set(string(loggerCtxKey), enrichedLogger)

		c.Next()
	}
}

// LoadCurrentUser fetches the authenticated user so handlers can check roles.
// Must run after AuthMiddleware.
func LoadCurrentUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Token subject no longer exists", slog.Int64("user_id", userID))
				abortUnauthorized(c, "User not found")
				return
			}
			logger.Error("Failed to load current user", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "Failed to load user"})
			return
		}

		c.Set(string(currentUserKey), user)
		c.Next()
	}
}

// RequireAdmin rejects callers whose role is not admin. Must run after LoadCurrentUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			abortUnauthorized(c, "Not authenticated")
			return
		}
		if !user.IsAdmin() {
			GetLoggerFromCtx(c.Request.Context()).Warn("Admin route denied", slog.Int64("user_id", user.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden", Message: "Admins only"})
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) (string, bool) {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v, true
		}
	}
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1], true
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: msg})
}
