package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	customerID := int64(7)
	order, err := NewOrder(1, &customerID, []OrderItem{
		{RecipeID: 10, Quantity: 2, UnitPrice: 3.5},
		{RecipeID: 11, Quantity: 1, UnitPrice: 12},
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, order.Status)
	assert.Equal(t, 19.0, order.TotalAmount)
	assert.Equal(t, &customerID, order.CustomerID)
	assert.True(t, order.Deletable())
}

func TestNewOrderWalkIn(t *testing.T) {
	order, err := NewOrder(1, nil, []OrderItem{{RecipeID: 10, Quantity: 1, UnitPrice: 5}}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, order.CustomerID)
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
	}{
		{"no items", nil},
		{"zero quantity", []OrderItem{{RecipeID: 10, Quantity: 0, UnitPrice: 5}}},
		{"negative quantity", []OrderItem{{RecipeID: 10, Quantity: -1, UnitPrice: 5}}},
		{"negative price", []OrderItem{{RecipeID: 10, Quantity: 1, UnitPrice: -0.5}}},
		{"missing recipe", []OrderItem{{Quantity: 1, UnitPrice: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(1, nil, tt.items, nil, nil)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestOrderDeletable(t *testing.T) {
	order, err := NewOrder(1, nil, []OrderItem{{RecipeID: 10, Quantity: 1, UnitPrice: 5}}, nil, nil)
	require.NoError(t, err)

	for _, s := range []OrderStatus{StatusInProgress, StatusReady, StatusDelivered} {
		order.Status = s
		assert.False(t, order.Deletable(), "status %s", s)
	}
	order.Status = StatusReceived
	assert.True(t, order.Deletable())
}
