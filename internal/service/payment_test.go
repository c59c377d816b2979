package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dkochetov/storefront/internal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	calls int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, _ string) (string, error) {
	g.calls++
	return fmt.Sprintf("gw_order_%d", g.calls), nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

type memIdemStore struct {
	data map[string]string
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{data: make(map[string]string)}
}

func (s *memIdemStore) Get(_ context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *memIdemStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func TestPaymentService_Initiate(t *testing.T) {
	productID := uuid.NewString()
	products := newFakeProductRepo(entities.Product{ID: productID, Price: 100})
	items := []entities.OrderItem{{ProductID: productID, Quantity: 1}}

	t.Run("computes amount with tax", func(t *testing.T) {
		svc := NewPaymentService(testLogger(), &fakeGateway{}, products, newMemIdemStore())

		result, err := svc.Initiate(context.Background(), items, "")
		require.NoError(t, err)

		assert.Equal(t, "gw_order_1", result.OrderID)
		assert.InDelta(t, 118.0, result.Amount, 0.001)
	})

	t.Run("idempotency key replays the original result", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewPaymentService(testLogger(), gw, products, newMemIdemStore())

		first, err := svc.Initiate(context.Background(), items, "key-1")
		require.NoError(t, err)

		second, err := svc.Initiate(context.Background(), items, "key-1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, gw.calls)
	})

	t.Run("different keys hit the gateway again", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewPaymentService(testLogger(), gw, products, newMemIdemStore())

		_, err := svc.Initiate(context.Background(), items, "key-1")
		require.NoError(t, err)
		_, err = svc.Initiate(context.Background(), items, "key-2")
		require.NoError(t, err)

		assert.Equal(t, 2, gw.calls)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := NewPaymentService(testLogger(), &fakeGateway{}, newFakeProductRepo(), newMemIdemStore())

		_, err := svc.Initiate(context.Background(), items, "")
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
	})
}

func TestPaymentService_Verify(t *testing.T) {
	svc := NewPaymentService(testLogger(), &fakeGateway{}, newFakeProductRepo(), newMemIdemStore())

	assert.True(t, svc.Verify("order", "payment", "valid"))
	assert.False(t, svc.Verify("order", "payment", "forged"))
}
