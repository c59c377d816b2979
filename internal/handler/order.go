package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/middleware"
	"github.com/dkochetov/storefront/internal/repo"
	"github.com/dkochetov/storefront/internal/service"
	"github.com/dkochetov/storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	Place(ctx context.Context, userID string, in service.PlaceOrderInput) (entities.Order, error)
	Get(ctx context.Context, principal entities.Principal, id string) (entities.Order, error)
	List(ctx context.Context, principal entities.Principal, params repo.ListParams) ([]entities.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, returnStatus entities.ReturnStatus) error
	Cancel(ctx context.Context, principal entities.Principal, id string) error
	RequestReturn(ctx context.Context, principal entities.Principal, id, reason string) error
}

type orderHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
	auth     *middleware.Auth
}

func NewOrderHandler(logger *slog.Logger, svc OrderService, auth *middleware.Auth) *orderHandler {
	return &orderHandler{
		logger:   logger.With(slog.String("handler", "order")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *orderHandler) Init(r chi.Router) {
	r.Route("/api/v1/order", func(r chi.Router) {
		r.Use(h.auth.Authenticate)

		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/add", h.add)
		r.Put("/cancel/{id}", h.cancel)
		r.Put("/return/{id}", h.requestReturn)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Restrict(entities.RoleAdmin))
			r.Put("/status/{id}", h.updateStatus)
		})
	})
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	params := listParamsFromQuery(r)
	orders, total, err := h.svc.List(r.Context(), principal, params)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WritePage(w, "Orders Fetch Successfully", OrdersEntityToJSON(orders),
		utils.NewPagination(params.Page, params.Limit, total), http.StatusOK)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	order, err := h.svc.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Order Fetch Successfully", OrderEntityToJSON(order), http.StatusOK)
}

type placeOrderRequest struct {
	Products        []OrderItem     `json:"products" validate:"required,min=1,dive"`
	TotalAmount     float64         `json:"totalAmount" validate:"required,gt=0"`
	ShippingDetails ShippingDetails `json:"shippingDetails" validate:"required"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required,oneof=cash online"`
}

func (h *orderHandler) add(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req placeOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items := make([]entities.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, entities.OrderItem{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	order, err := h.svc.Place(r.Context(), principal.UserID, service.PlaceOrderInput{
		Items:       items,
		TotalAmount: req.TotalAmount,
		ShippingDetails: entities.ShippingDetails{
			FullName: req.ShippingDetails.FullName,
			Address:  req.ShippingDetails.Address,
			City:     req.ShippingDetails.City,
			State:    req.ShippingDetails.State,
			ZipCode:  req.ShippingDetails.ZipCode,
		},
		PaymentMethod: entities.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	ordersPlaced.Inc()
	utils.WriteResult(w, "Order Add Successfully", OrderEntityToJSON(order), http.StatusCreated)
}

type updateStatusRequest struct {
	Status       string `json:"status" validate:"required"`
	ReturnStatus string `json:"returnStatus" validate:"omitempty"`
}

func (h *orderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	status := entities.OrderStatus(req.Status)
	if !entities.ValidOrderStatus(status) {
		utils.WriteError(w, "Invalid Order Status", http.StatusBadRequest)
		return
	}
	returnStatus := entities.ReturnStatus(req.ReturnStatus)
	if req.ReturnStatus != "" && !entities.ValidReturnStatus(returnStatus) {
		utils.WriteError(w, "Invalid Return Status", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, returnStatus); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	statusUpdates.WithLabelValues(string(status)).Inc()
	utils.WriteResult(w, "Order Status Update Successfully", nil, http.StatusOK)
}

func (h *orderHandler) cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Cancel(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	ordersCancelled.Inc()
	utils.WriteResult(w, "Order Cancelled Successfully", nil, http.StatusOK)
}

type returnRequest struct {
	Reason string `json:"returnReason" validate:"required,min=5"`
}

func (h *orderHandler) requestReturn(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req returnRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	if err := h.svc.RequestReturn(r.Context(), principal, chi.URLParam(r, "id"), req.Reason); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	returnsRequested.Inc()
	utils.WriteResult(w, "Order Return Requested Successfully", nil, http.StatusOK)
}
