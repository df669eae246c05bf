package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ananev/boutique/internal/cdn"
	"github.com/ananev/boutique/internal/notify"
)

// RouterConfig carries everything the router wires into handlers.
type RouterConfig struct {
	JWTSecret  string
	Verbose    bool          // attach error details to 500 responses
	UploadsDir string        // legacy static assets; empty disables /uploads/
	CDN        *cdn.Client   // nil disables CDN uploads
	Notifier   notify.LeadNotifier
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg RouterConfig) http.Handler {
	verbose = cfg.Verbose

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	productsHandler := &ProductsHandler{DB: db, JWTSecret: cfg.JWTSecret, CDN: cfg.CDN}
	categoriesHandler := &CategoriesHandler{DB: db}
	leadsHandler := &LeadsHandler{DB: db, Notifier: cfg.Notifier}
	ordersHandler := &OrdersHandler{DB: db}
	customersHandler := &CustomersHandler{DB: db}
	settingsHandler := &SettingsHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}

	authMW := AuthMiddleware(cfg.JWTSecret, db)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}

	// Auth.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/auth/change-password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/verify", authMW(http.HandlerFunc(authHandler.Verify)))

	// Products: reads public, writes admin.
	mux.HandleFunc("GET /api/products", productsHandler.List)
	mux.HandleFunc("GET /api/products/{id}", productsHandler.Get)
	mux.HandleFunc("GET /api/products/{id}/image", productsHandler.GetRepresentativeImage)
	mux.HandleFunc("GET /api/products/{id}/images/{imageID}", productsHandler.GetImage)
	mux.Handle("POST /api/products", admin(productsHandler.Create))
	mux.Handle("PUT /api/products/{id}", admin(productsHandler.Update))
	mux.Handle("DELETE /api/products/{id}", admin(productsHandler.Delete))

	// Categories and subcategories: reads public, writes admin.
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.Handle("POST /api/categories", admin(categoriesHandler.Create))
	mux.Handle("PUT /api/categories/{id}", admin(categoriesHandler.Update))
	mux.Handle("DELETE /api/categories/{id}", admin(categoriesHandler.Delete))
	mux.HandleFunc("GET /api/categories/{id}/subcategories", categoriesHandler.ListSubcategories)
	mux.Handle("POST /api/categories/{id}/subcategories", admin(categoriesHandler.CreateSubcategory))
	mux.Handle("PUT /api/subcategories/{id}", admin(categoriesHandler.UpdateSubcategory))
	mux.Handle("DELETE /api/subcategories/{id}", admin(categoriesHandler.DeleteSubcategory))

	// Leads: creation public, the rest admin.
	mux.HandleFunc("POST /api/leads", leadsHandler.Create)
	mux.Handle("GET /api/leads", admin(leadsHandler.List))
	mux.Handle("PUT /api/leads/{id}", admin(leadsHandler.UpdateStatus))

	// Orders and customers (admin).
	mux.Handle("GET /api/orders", admin(ordersHandler.List))
	mux.Handle("GET /api/orders/{id}", admin(ordersHandler.Get))
	mux.Handle("PUT /api/orders/{id}/status", admin(ordersHandler.UpdateStatus))
	mux.Handle("GET /api/customers", admin(customersHandler.List))
	mux.Handle("GET /api/customers/{id}", admin(customersHandler.Get))

	// Settings (admin).
	mux.Handle("GET /api/settings", admin(settingsHandler.List))
	mux.Handle("PUT /api/settings", admin(settingsHandler.Update))

	// Dashboard (admin).
	mux.Handle("GET /api/dashboard/stats", admin(dashboardHandler.Stats))
	mux.Handle("GET /api/dashboard/recent-orders", admin(dashboardHandler.RecentOrders))

	// Health.
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			serverError(w, "database unreachable", err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Legacy uploaded assets, read-only.
	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		mux.Handle("GET /uploads/", fs)
	}

	return mux
}
