package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	orders map[string]entities.Order

	lastFilter repo.OrderFilter
}

func newFakeOrderRepo(orders ...entities.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]entities.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, o entities.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (entities.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repo.OrderFilter, _ repo.ListParams) ([]entities.Order, int, error) {
	r.lastFilter = filter
	var out []entities.Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.OrderID != "" && o.ID != filter.OrderID {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status entities.OrderStatus, returnStatus entities.ReturnStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return entities.ErrOrderNotFound
	}
	o.Status = status
	o.ReturnStatus = returnStatus
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) SetReturnRequested(_ context.Context, id string, reason string) error {
	o, ok := r.orders[id]
	if !ok {
		return entities.ErrOrderNotFound
	}
	o.ReturnStatus = entities.ReturnStatusPending
	o.ReturnReason = reason
	r.orders[id] = o
	return nil
}

type fakeProductRepo struct {
	products map[string]entities.Product
}

func newFakeProductRepo(products ...entities.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]entities.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p entities.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (entities.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return entities.Product{}, entities.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]entities.Product, error) {
	out := make(map[string]entities.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repo.ListParams) ([]entities.Product, int, error) {
	var out []entities.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p entities.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateStatus(_ context.Context, id string, status entities.ProductStatus) error {
	p, ok := r.products[id]
	if !ok {
		return entities.ErrProductNotFound
	}
	p.Status = status
	r.products[id] = p
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

type recordingProducer struct {
	events []string
}

func (p *recordingProducer) Publish(_ context.Context, eventType, _ string, _ any) error {
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrderService_Place(t *testing.T) {
	productID := uuid.NewString()
	products := newFakeProductRepo(entities.Product{ID: productID, Price: 100})

	input := func(total float64) PlaceOrderInput {
		return PlaceOrderInput{
			Items:         []entities.OrderItem{{ProductID: productID, Quantity: 2}},
			TotalAmount:   total,
			PaymentMethod: entities.PaymentMethodCash,
		}
	}

	t.Run("success", func(t *testing.T) {
		orders := newFakeOrderRepo()
		producer := &recordingProducer{}
		svc := NewOrderService(testLogger(), fakeTxManager{}, orders, products, producer)

		// 2 x 100 plus 18% tax
		order, err := svc.Place(context.Background(), "user-1", input(236))
		require.NoError(t, err)

		assert.Equal(t, entities.OrderStatusPending, order.Status)
		assert.InDelta(t, 236.0, order.TotalAmount, 0.001)
		assert.Equal(t, []string{"order.created"}, producer.events)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		orders := newFakeOrderRepo()
		svc := NewOrderService(testLogger(), fakeTxManager{}, orders, products, &recordingProducer{})

		_, err := svc.Place(context.Background(), "user-1", input(200))
		assert.ErrorIs(t, err, entities.ErrAmountMismatch)
		assert.Empty(t, orders.orders)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(), newFakeProductRepo(), &recordingProducer{})

		_, err := svc.Place(context.Background(), "user-1", input(236))
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
	})
}

func TestOrderService_Get(t *testing.T) {
	order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusPending}
	svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(order), newFakeProductRepo(), &recordingProducer{})

	t.Run("owner sees own order", func(t *testing.T) {
		got, err := svc.Get(context.Background(), entities.Principal{UserID: "owner", Role: entities.RoleUser}, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), entities.Principal{UserID: "stranger", Role: entities.RoleUser}, order.ID)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		_, err := svc.Get(context.Background(), entities.Principal{UserID: "admin", Role: entities.RoleAdmin}, order.ID)
		assert.NoError(t, err)
	})
}

func TestOrderService_List_Scoping(t *testing.T) {
	repo := newFakeOrderRepo(
		entities.Order{ID: uuid.NewString(), UserID: "a"},
		entities.Order{ID: uuid.NewString(), UserID: "b"},
	)
	svc := NewOrderService(testLogger(), fakeTxManager{}, repo, newFakeProductRepo(), &recordingProducer{})

	t.Run("user is scoped to own orders", func(t *testing.T) {
		orders, total, err := svc.List(context.Background(), entities.Principal{UserID: "a", Role: entities.RoleUser}, listParams())
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "a", orders[0].UserID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		_, total, err := svc.List(context.Background(), entities.Principal{UserID: "admin", Role: entities.RoleAdmin}, listParams())
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("order id search narrows the filter", func(t *testing.T) {
		id := uuid.NewString()
		params := listParams()
		params.Search = id

		_, _, err := svc.List(context.Background(), entities.Principal{UserID: "admin", Role: entities.RoleAdmin}, params)
		require.NoError(t, err)
		assert.Equal(t, id, repo.lastFilter.OrderID)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name         string
		order        entities.Order
		status       entities.OrderStatus
		returnStatus entities.ReturnStatus
		wantErr      error
		wantEvents   int
	}{
		{
			name:       "pending to shipped",
			order:      entities.Order{Status: entities.OrderStatusPending},
			status:     entities.OrderStatusShipped,
			wantEvents: 1,
		},
		{
			name:    "pending to delivered skips shipping",
			order:   entities.Order{Status: entities.OrderStatusPending},
			status:  entities.OrderStatusDelivered,
			wantErr: entities.ErrInvalidTransition,
		},
		{
			name:       "same status is a no-op",
			order:      entities.Order{Status: entities.OrderStatusShipped},
			status:     entities.OrderStatusShipped,
			wantEvents: 0,
		},
		{
			name:    "cancelled is terminal",
			order:   entities.Order{Status: entities.OrderStatusCancelled},
			status:  entities.OrderStatusShipped,
			wantErr: entities.ErrInvalidTransition,
		},
		{
			name:    "returned requires a completed return request",
			order:   entities.Order{Status: entities.OrderStatusDelivered},
			status:  entities.OrderStatusReturned,
			wantErr: entities.ErrInvalidTransition,
		},
		{
			name:         "completing a return twice is a no-op",
			order:        entities.Order{Status: entities.OrderStatusReturned, ReturnStatus: entities.ReturnStatusCompleted},
			status:       entities.OrderStatusReturned,
			returnStatus: entities.ReturnStatusCompleted,
			wantEvents:   0,
		},
		{
			name:         "returned after completed return request",
			order:        entities.Order{Status: entities.OrderStatusDelivered, ReturnStatus: entities.ReturnStatusApproved},
			status:       entities.OrderStatusReturned,
			returnStatus: entities.ReturnStatusCompleted,
			wantEvents:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.order.ID = uuid.NewString()
			tc.order.UserID = "owner"
			producer := &recordingProducer{}
			svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(tc.order), newFakeProductRepo(), producer)

			err := svc.UpdateStatus(context.Background(), tc.order.ID, tc.status, tc.returnStatus)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, producer.events, tc.wantEvents)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(), newFakeProductRepo(), &recordingProducer{})
		err := svc.UpdateStatus(context.Background(), uuid.NewString(), entities.OrderStatusShipped, "")
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	owner := entities.Principal{UserID: "owner", Role: entities.RoleUser}

	t.Run("owner cancels pending order", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusPending}
		repo := newFakeOrderRepo(order)
		producer := &recordingProducer{}
		svc := NewOrderService(testLogger(), fakeTxManager{}, repo, newFakeProductRepo(), producer)

		require.NoError(t, svc.Cancel(context.Background(), owner, order.ID))
		assert.Equal(t, entities.OrderStatusCancelled, repo.orders[order.ID].Status)
		assert.Equal(t, []string{"order.cancelled"}, producer.events)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusCancelled}
		producer := &recordingProducer{}
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(order), newFakeProductRepo(), producer)

		require.NoError(t, svc.Cancel(context.Background(), owner, order.ID))
		assert.Empty(t, producer.events)
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusDelivered}
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(order), newFakeProductRepo(), &recordingProducer{})

		assert.ErrorIs(t, svc.Cancel(context.Background(), owner, order.ID), entities.ErrInvalidTransition)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusPending}
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(order), newFakeProductRepo(), &recordingProducer{})

		stranger := entities.Principal{UserID: "stranger", Role: entities.RoleUser}
		assert.ErrorIs(t, svc.Cancel(context.Background(), stranger, order.ID), entities.ErrOrderNotFound)
	})
}

func TestOrderService_RequestReturn(t *testing.T) {
	owner := entities.Principal{UserID: "owner", Role: entities.RoleUser}

	t.Run("delivered order accepts a return request", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusDelivered}
		repo := newFakeOrderRepo(order)
		producer := &recordingProducer{}
		svc := NewOrderService(testLogger(), fakeTxManager{}, repo, newFakeProductRepo(), producer)

		require.NoError(t, svc.RequestReturn(context.Background(), owner, order.ID, "damaged on arrival"))

		stored := repo.orders[order.ID]
		assert.Equal(t, entities.ReturnStatusPending, stored.ReturnStatus)
		assert.Equal(t, "damaged on arrival", stored.ReturnReason)
		assert.Equal(t, entities.OrderStatusDelivered, stored.Status)
		assert.Equal(t, []string{"order.return_requested"}, producer.events)
	})

	t.Run("pending order cannot be returned", func(t *testing.T) {
		order := entities.Order{ID: uuid.NewString(), UserID: "owner", Status: entities.OrderStatusPending}
		svc := NewOrderService(testLogger(), fakeTxManager{}, newFakeOrderRepo(order), newFakeProductRepo(), &recordingProducer{})

		err := svc.RequestReturn(context.Background(), owner, order.ID, "changed my mind")
		assert.ErrorIs(t, err, entities.ErrReturnNotAvailable)
	})
}

func listParams() repo.ListParams {
	return repo.ListParams{Page: 1, Limit: 10}
}
