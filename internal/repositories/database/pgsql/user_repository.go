package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const selectUserFields = `id, name, email, COALESCE(password, ''), role, created_at`

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE ` + where
	var m models.User
	err := r.Pool.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := r.findOne(ctx, "id = $1", userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by ID %d: %w", userID, err)
	}
	return user, err
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.findOne(ctx, "email = $1", email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, err
}

func (r *PgxUserRepository) ListAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT email FROM users WHERE role = $1 ORDER BY id`, string(domain.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to query admin emails: %w", err)
	}
	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan admin emails: %w", err)
	}
	return emails, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) (int64, error) {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (name, email, password, role, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id`

	var id int64
	if err := r.Pool.QueryRow(ctx, query, m.Name, m.Email, m.PasswordHash, m.Role, m.CreatedAt).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, fmt.Errorf("failed to save user: %w", err)
	}
	return id, nil
}
