package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Heads that require the full shipment details.
const (
	HeadPorter            = "Porter"
	HeadUrgentDelivery    = "Urgent Delivery"
	HeadPickupAndDelivery = "Pickup & Delivery"
)

const tagRequiredForHead = "required_for_head"

// Storage limits of the amount and weight columns, NUMERIC(14,2) and NUMERIC(12,3).
const (
	AmountMaxScale         = 2
	AmountMaxIntegerDigits = 12
	WeightMaxScale         = 3
	WeightMaxIntegerDigits = 9
)

// MandatoryShipmentFieldsMessage is returned when a restricted head is missing shipment details.
const MandatoryShipmentFieldsMessage = "From, To, Weight, Amount and AWB are mandatory for this expense type"

var restrictedHeads = map[string]struct{}{
	HeadPorter:            {},
	HeadUrgentDelivery:    {},
	HeadPickupAndDelivery: {},
}

// IsRestrictedHead reports whether head needs from/to/weight/amount/awb.
func IsRestrictedHead(head string) bool {
	_, ok := restrictedHeads[head]
	return ok
}

var expenseValidator = newExpenseValidator()

func newExpenseValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(expenseStructRules, ExpenseRecord{})
	return v
}

// expenseStructRules enforces the restricted-head rule and the numeric limits.
// Blank strings and zero numbers count as missing.
func expenseStructRules(sl validator.StructLevel) {
	e := sl.Current().Interface().(ExpenseRecord)

	checkNumber(sl, e.Weight, "weight", "Weight", WeightMaxScale, WeightMaxIntegerDigits)
	checkNumber(sl, e.Amount, "amount", "Amount", AmountMaxScale, AmountMaxIntegerDigits)

	if !IsRestrictedHead(e.Head) {
		return
	}
	if blank(e.FromLocation) {
		sl.ReportError(e.FromLocation, "from_location", "FromLocation", tagRequiredForHead, e.Head)
	}
	if blank(e.ToLocation) {
		sl.ReportError(e.ToLocation, "to_location", "ToLocation", tagRequiredForHead, e.Head)
	}
	if e.Weight == nil || e.Weight.IsZero() {
		sl.ReportError(e.Weight, "weight", "Weight", tagRequiredForHead, e.Head)
	}
	if e.Amount == nil || e.Amount.IsZero() {
		sl.ReportError(e.Amount, "amount", "Amount", tagRequiredForHead, e.Head)
	}
	if blank(e.AWB) {
		sl.ReportError(e.AWB, "awb", "AWB", tagRequiredForHead, e.Head)
	}
}

// checkNumber reports d when it is negative or does not fit a column with maxScale
// decimal places and maxDigits integer digits. Trailing zeros are not counted.
func checkNumber(sl validator.StructLevel, d *decimal.Decimal, field, structField string, maxScale int32, maxDigits int32) {
	if d == nil {
		return
	}
	switch {
	case d.IsNegative():
		sl.ReportError(d, field, structField, "gte", "0")
	case !d.Equal(d.Truncate(maxScale)):
		sl.ReportError(d, field, structField, "max_scale", fmt.Sprint(maxScale))
	case d.GreaterThanOrEqual(decimal.New(1, maxDigits)):
		sl.ReportError(d, field, structField, "max_digits", fmt.Sprint(maxDigits))
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ValidateForSubmission checks an expense before anything is written.
// It returns an *apperrors.ValidationError naming the offending fields.
func ValidateForSubmission(e ExpenseRecord) error {
	err := expenseValidator.Struct(e)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	message := "invalid expense"
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		if fe.Tag() == tagRequiredForHead {
			message = MandatoryShipmentFieldsMessage
		}
	}
	return apperrors.NewValidationError(message, fields...)
}
