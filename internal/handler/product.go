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

type ProductService interface {
	List(ctx context.Context, params repo.ListParams) ([]entities.Product, int, error)
	Get(ctx context.Context, id string) (entities.Product, error)
	Create(ctx context.Context, in service.ProductInput) (entities.Product, error)
	Update(ctx context.Context, id string, in service.ProductInput) error
	UpdateStatus(ctx context.Context, id string, status entities.ProductStatus) error
	Delete(ctx context.Context, id string) error
}

type productHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      ProductService
	auth     *middleware.Auth
}

func NewProductHandler(logger *slog.Logger, svc ProductService, auth *middleware.Auth) *productHandler {
	return &productHandler{
		logger:   logger.With(slog.String("handler", "product")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *productHandler) Init(r chi.Router) {
	r.Route("/api/v1/product", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Authenticate, h.auth.Restrict(entities.RoleAdmin))
			r.Post("/add", h.add)
			r.Put("/update/{id}", h.update)
			r.Put("/status/{id}", h.updateStatus)
			r.Put("/delete/{id}", h.remove)
		})
	})
}

func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	products, total, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductEntityToJSON(p))
	}

	utils.WritePage(w, "Products Fetch Successfully", result,
		utils.NewPagination(params.Page, params.Limit, total), http.StatusOK)
}

func (h *productHandler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Product Fetch Successfully", ProductEntityToJSON(product), http.StatusOK)
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"desc" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image" validate:"omitempty,url"`
}

func (h *productHandler) add(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product, err := h.svc.Create(r.Context(), service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Product Add Successfully", ProductEntityToJSON(product), http.StatusCreated)
}

type updateProductRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2"`
	Price       float64 `json:"price" validate:"omitempty,gt=0"`
	Description string  `json:"desc"`
	Category    string  `json:"category"`
	Image       string  `json:"image" validate:"omitempty,url"`
}

func (h *productHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Product Update Successfully", nil, http.StatusOK)
}

type updateProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *productHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateProductStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), entities.ProductStatus(req.Status)); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Product Status Update Successfully", nil, http.StatusOK)
}

func (h *productHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Product Delete Successfully", nil, http.StatusOK)
}
