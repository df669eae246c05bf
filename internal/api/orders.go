package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

// OrdersHandler handles the order read path and status transitions. Orders
// are created by the storefront, not through this API.
type OrdersHandler struct {
	DB *sql.DB
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/orders (admin).
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePagination(q)

	orders, total, err := store.ListOrders(r.Context(), h.DB, store.OrderFilters{
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		serverError(w, "failed to list orders", err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"orders":     orders,
		"pagination": paginate(page, pageSize, total),
	})
}

// Get handles GET /api/orders/{id} (admin).
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get order", err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/orders/{id}/status (admin).
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidOrderStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ok, err := store.UpdateOrderStatus(r.Context(), h.DB, id, req.Status)
	if err != nil {
		serverError(w, "failed to update order status", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "order status updated successfully"})
}
