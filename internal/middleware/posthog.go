package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// reviewDistinctID groups anonymous token redemptions in analytics.
const reviewDistinctID = "email-reviewer"

// PosthogMiddleware captures one event per successful request, named after the route
// ("/api/expenses/submit" -> "api_expenses_submit"). Authenticated requests are attributed
// to the user; token redemptions, which carry no session, to a shared reviewer id.
// The token path parameter is never sent.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		route := c.FullPath()
		if route == "" || route == "/health" {
			return
		}

		distinctID := reviewDistinctID
		if userID, ok := GetUserIDFromContext(c); ok {
			distinctID = strconv.FormatInt(userID, 10)
		} else if !strings.HasPrefix(route, "/review/") {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		for _, p := range c.Params {
			if p.Key == "token" {
				continue
			}
			props["param_"+p.Key] = p.Value
		}

		eventName := strings.ReplaceAll(strings.Trim(route, "/"), "/", "_")
		eventName = strings.NewReplacer(":", "", "*", "").Replace(eventName)
		posthogClient.Enqueue(distinctID, eventName, props)
	}
}

// PosthogEvent is a helper to manually send custom events from handlers when needed
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(strconv.FormatInt(userID, 10), eventName, properties)
}
