package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusActive, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusActive, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestStatusBlocksVehicle(t *testing.T) {
	assert.True(t, StatusPending.BlocksVehicle())
	assert.True(t, StatusConfirmed.BlocksVehicle())
	assert.True(t, StatusActive.BlocksVehicle())
	assert.False(t, StatusCompleted.BlocksVehicle())
	assert.False(t, StatusCancelled.BlocksVehicle())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)
}
