package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-shop-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// PaginatedUsersEnvelope wraps paginated user list responses.
type PaginatedUsersEnvelope struct {
	MaxPage    int           `json:"max_page"`
	ActualPage int           `json:"actual_page"`
	PerPage    int           `json:"per_page"`
	Data       []domain.User `json:"data"`
	Error      string        `json:"error,omitempty"`
}

// PaginatedOrdersEnvelope wraps paginated order list responses.
type PaginatedOrdersEnvelope struct {
	MaxPage    int            `json:"max_page"`
	ActualPage int            `json:"actual_page"`
	PerPage    int            `json:"per_page"`
	Data       []domain.Order `json:"data"`
	Error      string         `json:"error,omitempty"`
}

// ProductListEnvelope wraps filtered product listings.
type ProductListEnvelope struct {
	Items    []domain.Product `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps application sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrEmailDelivery):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
