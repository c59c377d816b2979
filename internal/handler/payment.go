package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/middleware"
	"github.com/dkochetov/storefront/internal/service"
	"github.com/dkochetov/storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type PaymentService interface {
	Initiate(ctx context.Context, items []entities.OrderItem, idemKey string) (service.InitiateResult, error)
	Verify(orderID, paymentID, signature string) bool
}

type paymentHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      PaymentService
	auth     *middleware.Auth
}

func NewPaymentHandler(logger *slog.Logger, svc PaymentService, auth *middleware.Auth) *paymentHandler {
	return &paymentHandler{
		logger:   logger.With(slog.String("handler", "payment")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *paymentHandler) Init(r chi.Router) {
	r.Route("/api/v1/payment", func(r chi.Router) {
		r.Use(h.auth.Authenticate)

		r.Post("/initiate-payment", h.initiate)
		r.Post("/verify-payment", h.verify)
	})
}

// initiate takes a bare list of {productId, quantity} pairs.
func (h *paymentHandler) initiate(w http.ResponseWriter, r *http.Request) {
	var req []OrderItem
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req) == 0 {
		utils.WriteError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	items := make([]entities.OrderItem, 0, len(req))
	for _, p := range req {
		if err := h.validate.Struct(p); err != nil {
			utils.WriteValidationError(w, err)
			return
		}
		items = append(items, entities.OrderItem{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	result, err := h.svc.Initiate(r.Context(), items, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	paymentsInitiated.Inc()
	utils.WriteResult(w, "Initiate success", result, http.StatusOK)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

func (h *paymentHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	if !h.svc.Verify(req.OrderID, req.PaymentID, req.Signature) {
		paymentsVerified.WithLabelValues("rejected").Inc()
		utils.WriteError(w, "Payment verification failed", http.StatusBadRequest)
		return
	}

	paymentsVerified.WithLabelValues("verified").Inc()
	utils.WriteResult(w, "Payment successful", nil, http.StatusOK)
}
