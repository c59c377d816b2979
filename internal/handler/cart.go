package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/middleware"
	"github.com/dkochetov/storefront/internal/repo"
	"github.com/dkochetov/storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CartService interface {
	List(ctx context.Context, userID string, params repo.ListParams) ([]entities.CartItem, int, entities.CartSummary, error)
	Get(ctx context.Context, principal entities.Principal, id string) (entities.CartItem, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, principal entities.Principal, id string) error
	Clear(ctx context.Context, userID string) error
}

type cartHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      CartService
	auth     *middleware.Auth
}

func NewCartHandler(logger *slog.Logger, svc CartService, auth *middleware.Auth) *cartHandler {
	return &cartHandler{
		logger:   logger.With(slog.String("handler", "cart")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *cartHandler) Init(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(h.auth.Authenticate)

		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/add", h.add)
		r.Put("/delete/{id}", h.remove)
		r.Put("/delete-all", h.clear)
	})
}

type cartListResponse struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

func (h *cartHandler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	params := listParamsFromQuery(r)
	items, total, summary, err := h.svc.List(r.Context(), principal.UserID, params)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	result := cartListResponse{
		Items: make([]CartItem, 0, len(items)),
		Summary: CartSummary{
			Subtotal: summary.Subtotal,
			Tax:      summary.Tax,
			Total:    summary.Total,
		},
	}
	for _, item := range items {
		result.Items = append(result.Items, CartItemEntityToJSON(item))
	}

	utils.WritePage(w, "Cart Items Fetch Successfully", result,
		utils.NewPagination(params.Page, params.Limit, total), http.StatusOK)
}

func (h *cartHandler) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	item, err := h.svc.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Cart Item Fetch Successfully", CartItemEntityToJSON(item), http.StatusOK)
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
}

func (h *cartHandler) add(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req addToCartRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	if err := h.svc.Add(r.Context(), principal.UserID, req.ProductID); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Cart Item Add Successfully", nil, http.StatusCreated)
}

func (h *cartHandler) remove(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Remove(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Cart Item Delete Successfully", nil, http.StatusOK)
}

func (h *cartHandler) clear(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Clear(r.Context(), principal.UserID); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Cart Items Delete Successfully", nil, http.StatusOK)
}
