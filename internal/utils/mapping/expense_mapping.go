package mapping

import (
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/models"
)

// ToModelExpense converts a domain ExpenseRecord to its row representation.
func ToModelExpense(d domain.ExpenseRecord) models.Expense {
	return models.Expense{
		ID:              d.ID,
		ExpenseDate:     d.ExpenseDate,
		Client:          d.Client,
		OfficeName:      d.OfficeName,
		Head:            d.Head,
		Subhead:         d.Subhead,
		FromLocation:    d.FromLocation,
		ToLocation:      d.ToLocation,
		Weight:          d.Weight,
		Amount:          d.Amount,
		AWB:             d.AWB,
		Remark:          d.Remark,
		VehicleType:     d.VehicleType,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		OriginPendingID: d.OriginPendingID,
		DecidedAt:       d.DecidedAt,
	}
}

// ToDomainExpense converts a row from the collection identified by status to a domain ExpenseRecord.
func ToDomainExpense(m models.Expense, status domain.ExpenseStatus) domain.ExpenseRecord {
	return domain.ExpenseRecord{
		ID:              m.ID,
		Status:          status,
		ExpenseDate:     m.ExpenseDate,
		Client:          m.Client,
		OfficeName:      m.OfficeName,
		Head:            m.Head,
		Subhead:         m.Subhead,
		FromLocation:    m.FromLocation,
		ToLocation:      m.ToLocation,
		Weight:          m.Weight,
		Amount:          m.Amount,
		AWB:             m.AWB,
		Remark:          m.Remark,
		VehicleType:     m.VehicleType,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		OriginPendingID: m.OriginPendingID,
		DecidedAt:       m.DecidedAt,
	}
}

// ToDomainExpenseSlice converts rows of one collection.
func ToDomainExpenseSlice(ms []models.Expense, status domain.ExpenseStatus) []domain.ExpenseRecord {
	ds := make([]domain.ExpenseRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m, status)
	}
	return ds
}
