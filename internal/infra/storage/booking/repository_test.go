package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	serialization := &pq.Error{Code: pgCodeSerializationFailure}

	assert.True(t, IsSerializationFailure(serialization))
	// Код различим и через цепочку обёрток транзакционного менеджера
	assert.True(t, IsSerializationFailure(fmt.Errorf("txmanager: commit transaction: %w", serialization)))

	assert.False(t, IsSerializationFailure(&pq.Error{Code: pgCodeUniqueViolation}))
	assert.False(t, IsSerializationFailure(errors.New("plain error")))
	assert.False(t, IsSerializationFailure(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: pgCodeUniqueViolation, Constraint: "uq_bookings_provider_slot"}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", unique)))

	assert.False(t, isUniqueViolation(&pq.Error{Code: pgCodeSerializationFailure}))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
}
