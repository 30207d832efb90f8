package pgsql

import (
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:    newUnitOfWork(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		DashboardRepo: newDashboardRepository(dbPool),
	}
}
