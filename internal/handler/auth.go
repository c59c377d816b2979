package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/service"
	"github.com/dkochetov/storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (entities.User, error)
	Login(ctx context.Context, email, password string) (string, entities.User, error)
}

type authHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      AuthService
}

func NewAuthHandler(logger *slog.Logger, svc AuthService) *authHandler {
	return &authHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *authHandler) Init(r chi.Router) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=10"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "User Registered Successfully", UserEntityToJSON(user), http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	utils.WriteResult(w, "Login Successfully", loginResponse{
		Token: token,
		User:  UserEntityToJSON(user),
	}, http.StatusOK)
}
