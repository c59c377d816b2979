package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/redisx"
	"github.com/dkochetov/storefront/pkg/utils"

	"github.com/google/uuid"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// IdemStore keeps idempotency records for payment initiation. Get returns
// ("", nil) when the key is absent.
type IdemStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type paymentService struct {
	logger   *slog.Logger
	gateway  PaymentGateway
	products ProductRepo
	idem     IdemStore
}

func NewPaymentService(logger *slog.Logger, gateway PaymentGateway, products ProductRepo, idem IdemStore) *paymentService {
	return &paymentService{
		logger:   logger.With(slog.String("service", "payment")),
		gateway:  gateway,
		products: products,
		idem:     idem,
	}
}

type InitiateResult struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

// Initiate recomputes the payable amount from catalog prices plus tax and
// registers a payment order with the gateway. When the caller supplies an
// idempotency key, a replay returns the original result.
func (s *paymentService) Initiate(ctx context.Context, items []entities.OrderItem, idemKey string) (InitiateResult, error) {
	if idemKey != "" {
		cached, err := s.idem.Get(ctx, redisx.IdemPaymentKey(idemKey))
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to read idempotency record", slog.Any("error", err))
		} else if cached != "" {
			var result InitiateResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return result, nil
			}
		}
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return InitiateResult{}, err
	}
	prices := make(map[string]float64, len(products))
	for id, p := range products {
		prices[id] = p.Price
	}

	amount, ok := entities.OrderTotal(items, prices)
	if !ok {
		return InitiateResult{}, entities.ErrProductNotFound
	}

	var gatewayOrderID string
	err = utils.Retry(utils.RetryConfig{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond}, func() error {
		var err error
		gatewayOrderID, err = s.gateway.CreateOrder(ctx, amount, uuid.NewString())
		return err
	})
	if err != nil {
		return InitiateResult{}, err
	}

	result := InitiateResult{OrderID: gatewayOrderID, Amount: amount}

	if idemKey != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := s.idem.Set(ctx, redisx.IdemPaymentKey(idemKey), string(data), redisx.TTLIdempotency); err != nil {
				s.logger.ErrorContext(ctx, "failed to store idempotency record", slog.Any("error", err))
			}
		}
	}

	return result, nil
}

func (s *paymentService) Verify(orderID, paymentID, signature string) bool {
	return s.gateway.VerifySignature(orderID, paymentID, signature)
}
