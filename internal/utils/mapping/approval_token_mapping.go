package mapping

import (
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/models"
)

// ToModelApprovalToken converts a domain ApprovalToken to a model ApprovalToken
func ToModelApprovalToken(d domain.ApprovalToken) models.ApprovalToken {
	return models.ApprovalToken{
		ID:        d.ID,
		Token:     d.Token,
		PendingID: d.PendingID,
		Action:    string(d.Action),
		ExpiresAt: d.ExpiresAt,
		IsUsed:    d.IsUsed,
		UsedAt:    d.UsedAt,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainApprovalToken converts a model ApprovalToken to a domain ApprovalToken
func ToDomainApprovalToken(m models.ApprovalToken) domain.ApprovalToken {
	return domain.ApprovalToken{
		ID:        m.ID,
		Token:     m.Token,
		PendingID: m.PendingID,
		Action:    domain.TokenAction(m.Action),
		ExpiresAt: m.ExpiresAt,
		IsUsed:    m.IsUsed,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainApprovalTokenSlice converts a slice of model ApprovalTokens to a slice of domain ApprovalTokens
func ToDomainApprovalTokenSlice(ms []models.ApprovalToken) []domain.ApprovalToken {
	ds := make([]domain.ApprovalToken, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalToken(m)
	}
	return ds
}
