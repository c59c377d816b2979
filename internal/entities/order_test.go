package entities_test

import (
	"testing"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name string
		from entities.OrderStatus
		to   entities.OrderStatus
		want bool
	}{
		{"pending to shipped", entities.OrderStatusPending, entities.OrderStatusShipped, true},
		{"pending to cancelled", entities.OrderStatusPending, entities.OrderStatusCancelled, true},
		{"shipped to delivered", entities.OrderStatusShipped, entities.OrderStatusDelivered, true},
		{"delivered to returned", entities.OrderStatusDelivered, entities.OrderStatusReturned, true},
		{"pending to delivered skips shipped", entities.OrderStatusPending, entities.OrderStatusDelivered, false},
		{"shipped back to pending", entities.OrderStatusShipped, entities.OrderStatusPending, false},
		{"delivered to cancelled", entities.OrderStatusDelivered, entities.OrderStatusCancelled, false},
		{"cancelled is terminal", entities.OrderStatusCancelled, entities.OrderStatusShipped, false},
		{"returned is terminal", entities.OrderStatusReturned, entities.OrderStatusDelivered, false},
		{"same state is idempotent", entities.OrderStatusReturned, entities.OrderStatusReturned, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entities.CanTransition(tc.from, tc.to))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	prices := map[string]float64{"p1": 50, "p2": 25}

	total, ok := entities.OrderTotal([]entities.OrderItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}, prices)
	assert.True(t, ok)
	assert.InDelta(t, 118.0, total, 0.001)

	_, ok = entities.OrderTotal([]entities.OrderItem{{ProductID: "missing", Quantity: 1}}, prices)
	assert.False(t, ok)
}

func TestAmountsMatch(t *testing.T) {
	assert.True(t, entities.AmountsMatch(118.0, 118.0))
	assert.True(t, entities.AmountsMatch(118.0, 118.01))
	assert.False(t, entities.AmountsMatch(118.0, 120.0))
}
