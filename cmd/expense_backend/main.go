package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/SscSPs/expense_approval_app/internal/handlers"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/notification"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/SscSPs/expense_approval_app/internal/repositories/database/boltdb"
	"github.com/SscSPs/expense_approval_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/SscSPs/expense_approval_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Expense Approval API
// @version 1.0
// @description Expense submission with single-use email approval links.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	notifier := notification.NewNotifier(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, logger)
	serviceContainer := services.NewServiceContainer(cfg, repos, notifier)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore connects the configured store and returns its repositories with a close func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return repositories.RepositoryProvider{}, nil, err
		}
		logger.Info("Bolt store opened", slog.String("path", cfg.BoltPath))
		return boltdb.NewRepositoryProvider(store), func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing bolt store", slog.String("error", err.Error()))
			}
		}, nil

	case config.StoreDriverPostgres:
		logger.Info("Running database migrations...")
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		if err != nil {
			return repositories.RepositoryProvider{}, nil, fmt.Errorf("migrations: %w", err)
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}

		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repositories.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
	return repositories.RepositoryProvider{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
