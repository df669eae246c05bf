package api

import (
	"database/sql"
	"net/http"

	"github.com/ananev/boutique/internal/store"
)

// SettingsHandler handles key/value settings storage (admin only).
type SettingsHandler struct {
	DB *sql.DB
}

// List handles GET /api/settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := store.GetSettings(r.Context(), h.DB)
	if err != nil {
		serverError(w, "failed to get settings", err)
		return
	}
	jsonResponse(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings, upserting every supplied pair.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings map[string]string
	if err := decodeJSON(r, &settings); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(settings) == 0 {
		jsonError(w, http.StatusBadRequest, "no settings supplied")
		return
	}

	// Reject reserved keys up front so a bad pair never leaves the
	// rest of the payload half-written.
	for key := range settings {
		if store.ReservedSetting(key) {
			jsonError(w, http.StatusBadRequest, "setting "+key+" is not editable")
			return
		}
	}

	for key, value := range settings {
		if err := store.SetSetting(r.Context(), h.DB, key, value); err != nil {
			serverError(w, "failed to update settings", err)
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "settings updated successfully"})
}
