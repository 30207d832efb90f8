package domain_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func porterExpense() domain.ExpenseRecord {
	return domain.ExpenseRecord{
		Client:       "Acme Logistics",
		OfficeName:   "Mumbai",
		Head:         domain.HeadPorter,
		Subhead:      "Local",
		FromLocation: stringPtr("Andheri"),
		ToLocation:   stringPtr("Bandra"),
		Weight:       decimalPtr(decimal.NewFromFloat(12.5)),
		Amount:       decimalPtr(decimal.NewFromInt(450)),
		AWB:          stringPtr("AWB-0001"),
	}
}

func TestValidateForSubmission(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(e *domain.ExpenseRecord)
		wantFields []string
		wantMsg    string
	}{
		{
			name:   "complete porter expense",
			mutate: func(e *domain.ExpenseRecord) {},
		},
		{
			name:       "porter without amount",
			mutate:     func(e *domain.ExpenseRecord) { e.Amount = nil },
			wantFields: []string{"amount"},
			wantMsg:    domain.MandatoryShipmentFieldsMessage,
		},
		{
			name:       "porter with zero amount counts as missing",
			mutate:     func(e *domain.ExpenseRecord) { e.Amount = decimalPtr(decimal.Zero) },
			wantFields: []string{"amount"},
			wantMsg:    domain.MandatoryShipmentFieldsMessage,
		},
		{
			name: "urgent delivery missing every shipment field",
			mutate: func(e *domain.ExpenseRecord) {
				e.Head = domain.HeadUrgentDelivery
				e.FromLocation = nil
				e.ToLocation = stringPtr("   ")
				e.Weight = nil
				e.Amount = nil
				e.AWB = stringPtr("")
			},
			wantFields: []string{"from_location", "to_location", "weight", "amount", "awb"},
			wantMsg:    domain.MandatoryShipmentFieldsMessage,
		},
		{
			name:       "pickup and delivery without awb",
			mutate:     func(e *domain.ExpenseRecord) { e.Head = domain.HeadPickupAndDelivery; e.AWB = nil },
			wantFields: []string{"awb"},
			wantMsg:    domain.MandatoryShipmentFieldsMessage,
		},
		{
			name: "unrestricted head needs no shipment fields",
			mutate: func(e *domain.ExpenseRecord) {
				e.Head = "Travel"
				e.FromLocation, e.ToLocation, e.Weight, e.Amount, e.AWB = nil, nil, nil, nil, nil
			},
		},
		{
			name:       "client is always required",
			mutate:     func(e *domain.ExpenseRecord) { e.Client = "" },
			wantFields: []string{"client"},
			wantMsg:    "invalid expense",
		},
		{
			name:       "amount with three decimal places",
			mutate:     func(e *domain.ExpenseRecord) { e.Amount = decimalPtr(decimal.RequireFromString("10.005")) },
			wantFields: []string{"amount"},
			wantMsg:    "invalid expense",
		},
		{
			name:       "weight with four decimal places",
			mutate:     func(e *domain.ExpenseRecord) { e.Weight = decimalPtr(decimal.RequireFromString("1.23456")) },
			wantFields: []string{"weight"},
			wantMsg:    "invalid expense",
		},
		{
			name: "trailing zeros do not count as decimal places",
			mutate: func(e *domain.ExpenseRecord) {
				e.Amount = decimalPtr(decimal.RequireFromString("10.5000"))
				e.Weight = decimalPtr(decimal.RequireFromString("1.250000"))
			},
		},
		{
			name:       "amount too large for storage",
			mutate:     func(e *domain.ExpenseRecord) { e.Amount = decimalPtr(decimal.RequireFromString("1000000000000000")) },
			wantFields: []string{"amount"},
			wantMsg:    "invalid expense",
		},
		{
			name:   "largest storable amount",
			mutate: func(e *domain.ExpenseRecord) { e.Amount = decimalPtr(decimal.RequireFromString("999999999999.99")) },
		},
		{
			name:       "weight too large for storage",
			mutate:     func(e *domain.ExpenseRecord) { e.Weight = decimalPtr(decimal.RequireFromString("1000000000")) },
			wantFields: []string{"weight"},
			wantMsg:    "invalid expense",
		},
		{
			name:       "limits apply to unrestricted heads",
			mutate:     func(e *domain.ExpenseRecord) { e.Head = "Travel"; e.Amount = decimalPtr(decimal.RequireFromString("0.001")) },
			wantFields: []string{"amount"},
			wantMsg:    "invalid expense",
		},
		{
			name:       "negative amount rejected",
			mutate:     func(e *domain.ExpenseRecord) { e.Head = "Travel"; e.Amount = decimalPtr(decimal.NewFromInt(-5)) },
			wantFields: []string{"amount"},
			wantMsg:    "invalid expense",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := porterExpense()
			tt.mutate(&e)

			err := domain.ValidateForSubmission(e)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			var ve *apperrors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.ElementsMatch(t, tt.wantFields, ve.Fields)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestIsRestrictedHead(t *testing.T) {
	assert.True(t, domain.IsRestrictedHead("Porter"))
	assert.True(t, domain.IsRestrictedHead("Urgent Delivery"))
	assert.True(t, domain.IsRestrictedHead("Pickup & Delivery"))
	assert.False(t, domain.IsRestrictedHead("porter"))
	assert.False(t, domain.IsRestrictedHead("Fuel"))
}
