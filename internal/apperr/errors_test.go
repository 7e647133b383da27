package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("book: %w", InvalidBooking("ticketQuantity", "must be between 1 and 10"))

	ve, ok := IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, "ticketQuantity", ve.Field)
	assert.ErrorIs(t, err, ErrInvalidBooking)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "book: ticketQuantity: must be between 1 and 10", err.Error())
}

func TestPlainValidationHasNoKind(t *testing.T) {
	err := Invalid("email", "please enter a valid email address")

	assert.NotErrorIs(t, err, ErrInvalidBooking)
	assert.Equal(t, "email: please enter a valid email address", err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("event 9: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrTimeout))
}
