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

type UserService interface {
	List(ctx context.Context, params repo.ListParams) ([]entities.User, int, error)
	Get(ctx context.Context, id string) (entities.User, error)
	Update(ctx context.Context, id string, in service.UpdateUserInput) error
	UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error
	Delete(ctx context.Context, id string) error
}

type userHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      UserService
	auth     *middleware.Auth
}

func NewUserHandler(logger *slog.Logger, svc UserService, auth *middleware.Auth) *userHandler {
	return &userHandler{
		logger:   logger.With(slog.String("handler", "user")),
		validate: validator.New(),
		svc:      svc,
		auth:     auth,
	}
}

func (h *userHandler) Init(r chi.Router) {
	r.Route("/api/v1/user", func(r chi.Router) {
		r.Use(h.auth.Authenticate)

		r.Get("/me", h.me)
		r.Put("/update/{id}", h.update)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Restrict(entities.RoleAdmin))
			r.Get("/", h.list)
			r.Get("/{id}", h.get)
			r.Put("/status/{id}", h.updateStatus)
			r.Put("/delete/{id}", h.remove)
		})
	})
}

func (h *userHandler) list(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	users, total, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, UserEntityToJSON(u))
	}

	utils.WritePage(w, "Users Fetch Successfully", result,
		utils.NewPagination(params.Page, params.Limit, total), http.StatusOK)
}

func (h *userHandler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	user, err := h.svc.Get(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Fetch Successfully", UserEntityToJSON(user), http.StatusOK)
}

func (h *userHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Fetch Successfully", UserEntityToJSON(user), http.StatusOK)
}

type updateUserRequest struct {
	Name    string `json:"name" validate:"omitempty,min=2"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,min=10"`
	Profile string `json:"profile" validate:"omitempty,url"`
}

// update lets users edit their own account; admins can edit anyone.
func (h *userHandler) update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if !principal.IsAdmin() && id != principal.UserID {
		utils.WriteError(w, "access denied", http.StatusForbidden)
		return
	}

	var req updateUserRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.Update(r.Context(), id, service.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Profile: req.Profile,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Updated Successfully", nil, http.StatusOK)
}

type updateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *userHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateUserStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), entities.UserStatus(req.Status)); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Status Update Successfully", nil, http.StatusOK)
}

func (h *userHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Delete Successfully", nil, http.StatusOK)
}
