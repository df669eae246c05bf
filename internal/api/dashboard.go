package api

import (
	"database/sql"
	"net/http"

	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

// recentOrderCount is how many orders the dashboard shows.
const recentOrderCount = 5

// DashboardHandler serves the admin landing page aggregates.
type DashboardHandler struct {
	DB *sql.DB
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetDashboardStats(r.Context(), h.DB)
	if err != nil {
		serverError(w, "failed to get dashboard stats", err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// RecentOrders handles GET /api/dashboard/recent-orders.
func (h *DashboardHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := store.RecentOrders(r.Context(), h.DB, recentOrderCount)
	if err != nil {
		serverError(w, "failed to get recent orders", err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	jsonResponse(w, http.StatusOK, orders)
}
