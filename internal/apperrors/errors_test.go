package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := NewValidationError("missing fields", "amount", "awb")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrTokenNotFound))
	assert.Equal(t, "missing fields (amount, awb)", err.Error())

	wrapped := fmt.Errorf("submit: %w", err)
	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, []string{"amount", "awb"}, ve.Fields)
}

func TestTransactionErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransactionError("failed to commit", cause)

	assert.True(t, errors.Is(err, ErrTransactionFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 500, err.Code)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("user 7 not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "user 7 not found: resource not found", err.Error())
}
