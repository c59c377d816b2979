package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/repo"
	"github.com/dkochetov/storefront/pkg/utils"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

func listParamsFromQuery(r *http.Request) repo.ListParams {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	fetchAll, _ := strconv.ParseBool(q.Get("isFetchAll"))

	return repo.ListParams{
		Page:     page,
		Limit:    limit,
		Search:   q.Get("searchQuery"),
		FetchAll: fetchAll,
	}
}

// writeServiceError maps domain errors onto the HTTP taxonomy: not found 404,
// conflicts 409, bad state 409, forbidden 403, everything else a generic 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		utils.WriteError(w, "User Not Found", http.StatusNotFound)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "Product Not Found", http.StatusNotFound)
	case errors.Is(err, entities.ErrCartItemNotFound):
		utils.WriteError(w, "Cart Item Not Found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "Order Not Found", http.StatusNotFound)
	case errors.Is(err, entities.ErrEmailTaken):
		utils.WriteError(w, "Email Already Exists", http.StatusConflict)
	case errors.Is(err, entities.ErrPhoneTaken):
		utils.WriteError(w, "Phone Number Already Exists", http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidTransition):
		utils.WriteError(w, "Invalid Status Transition", http.StatusConflict)
	case errors.Is(err, entities.ErrReturnNotAvailable):
		utils.WriteError(w, "Return Is Only Available For Delivered Orders", http.StatusConflict)
	case errors.Is(err, entities.ErrAmountMismatch):
		utils.WriteError(w, "Total Amount Does Not Match Catalog Prices", http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrInvalidCredentials):
		utils.WriteError(w, "Invalid Credentials", http.StatusUnauthorized)
	case errors.Is(err, entities.ErrForbidden):
		utils.WriteError(w, "Access Denied", http.StatusForbidden)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		utils.WriteError(w, "Something Went Wrong", http.StatusInternalServerError)
	}
}
