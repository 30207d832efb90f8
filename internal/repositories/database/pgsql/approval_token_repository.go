package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

var approvalTokensTable = models.ApprovalToken{}.TableName()

const selectApprovalTokenFields = `id, token, pending_id, action, expires_at, is_used, used_at, created_at`

// PgxApprovalTokenRepository persists approval tokens inside one transaction.
type PgxApprovalTokenRepository struct {
	db dbtx
}

var _ portsrepo.ApprovalTokenRepository = (*PgxApprovalTokenRepository)(nil)

func scanApprovalToken(row pgx.Row, m *models.ApprovalToken) error {
	return row.Scan(&m.ID, &m.Token, &m.PendingID, &m.Action, &m.ExpiresAt, &m.IsUsed, &m.UsedAt, &m.CreatedAt)
}

func (r *PgxApprovalTokenRepository) CreateToken(ctx context.Context, token domain.ApprovalToken) (int64, error) {
	m := mapping.ToModelApprovalToken(token)
	query := `
		INSERT INTO ` + approvalTokensTable + ` (token, pending_id, action, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, m.Token, m.PendingID, m.Action, m.ExpiresAt, m.CreatedAt).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: approval token collision", apperrors.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert approval token: %w", err)
	}
	return id, nil
}

func (r *PgxApprovalTokenRepository) FindTokenForUpdate(ctx context.Context, token string, action domain.TokenAction) (*domain.ApprovalToken, error) {
	query := `SELECT ` + selectApprovalTokenFields + ` FROM ` + approvalTokensTable + `
		WHERE token = $1 AND action = $2
		FOR UPDATE`

	var m models.ApprovalToken
	if err := scanApprovalToken(r.db.QueryRow(ctx, query, token, string(action)), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find approval token: %w", err)
	}
	t := mapping.ToDomainApprovalToken(m)
	return &t, nil
}

func (r *PgxApprovalTokenRepository) MarkTokenUsed(ctx context.Context, tokenID int64, usedAt time.Time) error {
	query := `UPDATE ` + approvalTokensTable + ` SET is_used = true, used_at = $2 WHERE id = $1 AND is_used = false`

	cmdTag, err := r.db.Exec(ctx, query, tokenID, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark approval token %d used: %w", tokenID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenAlreadyUsed
	}
	return nil
}

func (r *PgxApprovalTokenRepository) ListTokensByPendingID(ctx context.Context, pendingID int64) ([]domain.ApprovalToken, error) {
	query := `SELECT ` + selectApprovalTokenFields + ` FROM ` + approvalTokensTable + `
		WHERE pending_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval tokens: %w", err)
	}
	defer rows.Close()

	tokens := []models.ApprovalToken{}
	for rows.Next() {
		var m models.ApprovalToken
		if err := scanApprovalToken(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan approval token row: %w", err)
		}
		tokens = append(tokens, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval token rows: %w", err)
	}
	return mapping.ToDomainApprovalTokenSlice(tokens), nil
}
