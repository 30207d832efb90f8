package services

import (
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.GoogleAuth = NewGoogleOAuthHandlerService(cfg)
	container.Dashboard = NewDashboardService(repos.DashboardRepo)

	// Intake and review share one ledger so both see the same TTL and clock
	container.TokenLedger = NewTokenLedgerService(WithTokenTTL(cfg.ApprovalTokenTTL))
	container.Expense = NewExpenseService(
		repos.UnitOfWork,
		container.TokenLedger,
		container.User,
		notifier,
		WithApprovalBaseURL(cfg.BaseURL),
	)
	container.Review = NewReviewService(repos.UnitOfWork, container.TokenLedger)

	return container
}
