package handler

import (
	"net/http"

	"github.com/go-shop-api/internal/application/order"
	"github.com/go-shop-api/internal/domain"
	"github.com/go-shop-api/internal/pkg/validate"
	"github.com/go-shop-api/internal/transport/http/middleware"
)

// OrderHandler handles order placement and management endpoints.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler { return &OrderHandler{svc: svc} }

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.svc.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.svc.Get(r.Context(), id, u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	page, perPage := parsePagination(r)
	orders, total, err := h.svc.ListMine(r.Context(), u.ID, page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginatedOrders(orders, total, page, perPage))
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	orders, total, err := h.svc.ListAll(r.Context(), page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginatedOrders(orders, total, page, perPage))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req domain.UpdateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func paginatedOrders(orders []domain.Order, total, page, perPage int) PaginatedOrdersEnvelope {
	maxPage := 1
	if perPage > 0 && total > 0 {
		maxPage = (total + perPage - 1) / perPage
	}
	return PaginatedOrdersEnvelope{
		MaxPage: maxPage, ActualPage: page, PerPage: perPage, Data: orders,
	}
}
