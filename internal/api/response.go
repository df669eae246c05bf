package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ananev/boutique/internal/store"
)

// verbose controls whether 500 responses carry the underlying error message.
// Enabled outside production mode only.
var verbose bool

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// serverError logs err and writes a 500. The message stays generic in
// production; details are attached only in non-production mode.
func serverError(w http.ResponseWriter, message string, err error) {
	slog.Error(message, "error", err)
	if verbose {
		jsonError(w, http.StatusInternalServerError, message+": "+err.Error())
		return
	}
	jsonError(w, http.StatusInternalServerError, message)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pagination is the envelope returned by every paginated list endpoint.
type pagination struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	TotalItems int `json:"totalItems"`
	Limit      int `json:"limit"`
}

// paginate builds the envelope from the resolved page values and the total
// match count.
func paginate(page, pageSize, totalItems int) pagination {
	totalPages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		totalPages++
	}
	return pagination{
		Current:    page,
		Total:      totalPages,
		TotalItems: totalItems,
		Limit:      pageSize,
	}
}

// parsePagination reads page/limit query values. Non-numeric or out-of-range
// input resolves to page 1 and the default page size.
func parsePagination(q url.Values) (page, pageSize int) {
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("limit"))
	return store.ClampPage(page, pageSize)
}
