package service

import (
	"context"
	"log/slog"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/events"
	"github.com/dkochetov/storefront/internal/repo"
	"github.com/dkochetov/storefront/pkg/trm"

	"github.com/google/uuid"
)

type OrderRepo interface {
	Create(ctx context.Context, o entities.Order) error
	GetByID(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context, filter repo.OrderFilter, params repo.ListParams) ([]entities.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, returnStatus entities.ReturnStatus) error
	SetReturnRequested(ctx context.Context, id string, reason string) error
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	products  ProductRepo
	producer  events.Producer
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, products ProductRepo, producer events.Producer) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		products:  products,
		producer:  producer,
	}
}

type PlaceOrderInput struct {
	Items           []entities.OrderItem
	ShippingDetails entities.ShippingDetails
	TotalAmount     float64
	PaymentMethod   entities.PaymentMethod
}

// Place creates an order after recomputing the total from catalog prices.
// The order row and its items are written in one transaction.
func (s *orderService) Place(ctx context.Context, userID string, in PlaceOrderInput) (entities.Order, error) {
	order := entities.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           in.Items,
		ShippingDetails: in.ShippingDetails,
		PaymentMethod:   in.PaymentMethod,
		Status:          entities.OrderStatusPending,
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ids := make([]string, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.ProductID)
		}

		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		prices := make(map[string]float64, len(products))
		for id, p := range products {
			prices[id] = p.Price
		}

		computed, ok := entities.OrderTotal(in.Items, prices)
		if !ok {
			return entities.ErrProductNotFound
		}
		if !entities.AmountsMatch(in.TotalAmount, computed) {
			return entities.ErrAmountMismatch
		}
		order.TotalAmount = computed

		return s.repo.Create(ctx, order)
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.publish(ctx, events.EventOrderCreated, order.ID, map[string]any{
		"user_id":        order.UserID,
		"total_amount":   order.TotalAmount,
		"payment_method": order.PaymentMethod,
	})
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID), slog.Float64("total", order.TotalAmount))

	return s.repo.GetByID(ctx, order.ID)
}

func (s *orderService) Get(ctx context.Context, principal entities.Principal, id string) (entities.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if !principal.IsAdmin() && order.UserID != principal.UserID {
		// existence of other users' orders is not disclosed
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return order, nil
}

// List scopes results to the caller unless they are an administrator. A search
// term that parses as an order id narrows to that order; anything else is a no-op.
func (s *orderService) List(ctx context.Context, principal entities.Principal, params repo.ListParams) ([]entities.Order, int, error) {
	var filter repo.OrderFilter
	if !principal.IsAdmin() {
		filter.UserID = principal.UserID
	}
	if params.Search != "" {
		if _, err := uuid.Parse(params.Search); err == nil {
			filter.OrderID = params.Search
		}
	}
	return s.repo.List(ctx, filter, params)
}

// UpdateStatus applies a guarded status transition. Reapplying the current
// state is an idempotent no-op. An empty returnStatus keeps the stored one.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, returnStatus entities.ReturnStatus) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if returnStatus == "" {
		returnStatus = order.ReturnStatus
	}

	if order.Status == status && order.ReturnStatus == returnStatus {
		return nil
	}
	if !entities.CanTransition(order.Status, status) {
		return entities.ErrInvalidTransition
	}
	// an order only becomes Returned by completing a requested return
	if status == entities.OrderStatusReturned && order.Status != status {
		if order.ReturnStatus == "" || returnStatus != entities.ReturnStatusCompleted {
			return entities.ErrInvalidTransition
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status, returnStatus); err != nil {
		return err
	}

	s.publish(ctx, events.EventOrderStatusChanged, id, map[string]any{
		"status":        status,
		"return_status": returnStatus,
	})
	return nil
}

func (s *orderService) Cancel(ctx context.Context, principal entities.Principal, id string) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && order.UserID != principal.UserID {
		return entities.ErrOrderNotFound
	}

	if order.Status == entities.OrderStatusCancelled {
		return nil
	}
	if !entities.CanTransition(order.Status, entities.OrderStatusCancelled) {
		return entities.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.OrderStatusCancelled, order.ReturnStatus); err != nil {
		return err
	}

	s.publish(ctx, events.EventOrderCancelled, id, nil)
	return nil
}

// RequestReturn records a return request on a delivered order; the order
// status itself stays Delivered until the return is completed.
func (s *orderService) RequestReturn(ctx context.Context, principal entities.Principal, id, reason string) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && order.UserID != principal.UserID {
		return entities.ErrOrderNotFound
	}

	if order.Status != entities.OrderStatusDelivered {
		return entities.ErrReturnNotAvailable
	}

	if err := s.repo.SetReturnRequested(ctx, id, reason); err != nil {
		return err
	}

	s.publish(ctx, events.EventOrderReturnRequested, id, map[string]any{
		"reason": reason,
	})
	return nil
}

// publish is best-effort: event delivery never fails the request.
func (s *orderService) publish(ctx context.Context, eventType, orderID string, payload any) {
	if err := s.producer.Publish(ctx, eventType, orderID, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			slog.String("event", eventType), slog.String("order_id", orderID), slog.Any("error", err))
	}
}
