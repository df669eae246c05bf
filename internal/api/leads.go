package api

import (
	"database/sql"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/notify"
	"github.com/ananev/boutique/internal/store"
)

// LeadsHandler handles customer inquiries. Creation is public; listing and
// status updates are admin-only.
type LeadsHandler struct {
	DB       *sql.DB
	Notifier notify.LeadNotifier
}

type createLeadRequest struct {
	ProductID    int64  `json:"product_id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type updateLeadRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/leads. The notification email is fire-and-forget:
// once the row is committed the submission has succeeded, whatever the mail
// transport does.
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProductID <= 0 {
		jsonError(w, http.StatusBadRequest, "product_id must be a positive integer")
		return
	}
	if req.CustomerName == "" {
		jsonError(w, http.StatusBadRequest, "customer_name required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		jsonError(w, http.StatusBadRequest, "valid email required")
		return
	}

	id, err := store.CreateLead(r.Context(), h.DB, req.ProductID, req.CustomerName, req.Email, req.Phone)
	if err != nil {
		serverError(w, "failed to create lead", err)
		return
	}

	if h.Notifier != nil {
		if lead, err := store.GetLead(r.Context(), h.DB, id); err == nil && lead != nil {
			h.Notifier.LeadCreated(lead)
		}
	}

	jsonResponse(w, http.StatusCreated, map[string]any{"message": "lead created", "leadId": id})
}

// List handles GET /api/leads (admin).
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := store.ListLeads(r.Context(), h.DB)
	if err != nil {
		serverError(w, "failed to list leads", err)
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	jsonResponse(w, http.StatusOK, leads)
}

// UpdateStatus handles PUT /api/leads/{id} (admin).
func (h *LeadsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req updateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidLeadStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ok, err := store.UpdateLeadStatus(r.Context(), h.DB, id, req.Status)
	if err != nil {
		serverError(w, "failed to update lead status", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "lead not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "lead status updated"})
}
