package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Pagination describes one page of a listing response.
type Pagination struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalEntries int `json:"totalEntries"`
	TotalPages   int `json:"totalPages"`
}

func NewPagination(page, limit, totalEntries int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalEntries + limit - 1) / limit
	}
	return Pagination{
		Page:         page,
		Limit:        limit,
		TotalEntries: totalEntries,
		TotalPages:   totalPages,
	}
}

// Envelope is the success response shape: {message, result?, pagination?}.
type Envelope struct {
	Message    string      `json:"message"`
	Result     any         `json:"result,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the failure response shape: {message, error?}.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, payload any, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(payload)
}

func WriteResult(w http.ResponseWriter, message string, result any, code int) error {
	return WriteJSON(w, Envelope{Message: message, Result: result}, code)
}

func WritePage(w http.ResponseWriter, message string, result any, p Pagination, code int) error {
	return WriteJSON(w, Envelope{Message: message, Result: result, Pagination: &p}, code)
}

func WriteError(w http.ResponseWriter, message string, code int) error {
	return WriteJSON(w, ErrorResponse{Message: message}, code)
}

// WriteValidationError reports missing/malformed fields as 422 with a
// field -> rule map.
func WriteValidationError(w http.ResponseWriter, err error) error {
	fields := make(map[string]string)

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
	}

	return WriteJSON(w, ErrorResponse{Message: "Validation Error", Error: fields}, http.StatusUnprocessableEntity)
}

func DecodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
