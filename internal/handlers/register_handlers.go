package handlers

import (
	"fmt"

	"github.com/SscSPs/expense_approval_app/cmd/docs"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// It fails only when a configured rate limit cannot be parsed.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	useJSONFieldNames()

	reviewLimiter, err := middleware.NewRateLimiter(cfg.ReviewRateLimit)
	if err != nil {
		return fmt.Errorf("review rate limit: %w", err)
	}
	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	loginLimit := middleware.RateLimit(loginLimiter)

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Token links are the credential, so review routes sit outside the session middleware.
	registerReviewRoutes(r, services.Review, middleware.RateLimit(reviewLimiter))

	registerAuthRoutes(r, cfg, services, loginLimit)
	registerGoogleOAuthRoutes(r, cfg, services, loginLimit)

	setupAPIRoutes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIRoutes configures the authenticated /api group.
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	api := r.Group("/api",
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.AuthCookieName),
		middleware.LoadCurrentUser(services.User),
	)

	registerExpenseRoutes(api, services.Expense)
	registerDashboardRoutes(api, services.Dashboard)
	registerUserRoutes(api.Group("/admin", middleware.RequireAdmin()), services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
