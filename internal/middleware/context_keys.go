package middleware

import (
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	userIDKey      = contextKey("userID")
	currentUserKey = contextKey("currentUser")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(int64)
		return userID, ok
	}
	// check in the request context as well
	if v, ok := c.Request.Context().Value(userIDKey).(int64); ok {
		return v, true
	}
	return 0, false
}

// GetCurrentUser returns the user loaded by LoadCurrentUser.
func GetCurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(string(currentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
