package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

// CustomersHandler handles the customer read path (admin only).
type CustomersHandler struct {
	DB *sql.DB
}

// List handles GET /api/customers.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePagination(q)

	customers, total, err := store.ListCustomers(r.Context(), h.DB, q.Get("search"), page, pageSize)
	if err != nil {
		serverError(w, "failed to list customers", err)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"customers":  customers,
		"pagination": paginate(page, pageSize, total),
	})
}

// Get handles GET /api/customers/{id}.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get customer", err)
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}
	jsonResponse(w, http.StatusOK, customer)
}
