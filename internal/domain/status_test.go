package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	legal := map[[2]OrderStatus]bool{
		{StatusReceived, StatusInProgress}:   true,
		{StatusInProgress, StatusReceived}:   true,
		{StatusInProgress, StatusReady}:      true,
		{StatusReady, StatusInProgress}:      true,
		{StatusReady, StatusDelivered}:       true,
		{StatusDelivered, StatusReady}:       true,
	}

	all := []OrderStatus{StatusReceived, StatusInProgress, StatusReady, StatusDelivered}
	for _, from := range all {
		for _, to := range all {
			want := legal[[2]OrderStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(OrderStatus(42), StatusReceived))
	assert.False(t, CanTransition(StatusReceived, OrderStatus(42)))
	assert.Empty(t, AllowedTransitions(OrderStatus(42)))
}

func TestNoSelfLoops(t *testing.T) {
	for _, s := range []OrderStatus{StatusReceived, StatusInProgress, StatusReady, StatusDelivered} {
		assert.False(t, CanTransition(s, s), "%s must not self-loop", s)
	}
}

// Replaying a sequence of legal transitions step by step must land on the
// same status as applying the table one edge at a time from the start.
func TestTransitionReplay(t *testing.T) {
	sequences := [][]OrderStatus{
		{StatusInProgress, StatusReady, StatusDelivered},
		{StatusInProgress, StatusReceived, StatusInProgress, StatusReady},
		{StatusInProgress, StatusReady, StatusDelivered, StatusReady, StatusInProgress},
	}

	for _, seq := range sequences {
		current := StatusReceived
		for _, next := range seq {
			require.True(t, CanTransition(current, next), "%s -> %s", current, next)
			current = next
		}
		assert.Equal(t, seq[len(seq)-1], current)
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusReceived, StatusInProgress, StatusReady, StatusDelivered} {
		parsed, err := ParseOrderStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseOrderStatus("baking")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
