package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

// CategoriesHandler handles category and subcategory CRUD. Reads are public,
// writes are admin-only (enforced by the router).
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		serverError(w, "failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		serverError(w, "failed to create category", err)
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	ok, err := store.UpdateCategory(r.Context(), h.DB, id, req.Name, req.Description)
	if err != nil {
		serverError(w, "failed to update category", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get category", err)
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	ok, err := store.DeleteCategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to delete category", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}

// ListSubcategories handles GET /api/categories/{id}/subcategories.
func (h *CategoriesHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	subcategories, err := store.ListSubcategories(r.Context(), h.DB, categoryID)
	if err != nil {
		serverError(w, "failed to list subcategories", err)
		return
	}
	if subcategories == nil {
		subcategories = []model.Subcategory{}
	}
	jsonResponse(w, http.StatusOK, subcategories)
}

// CreateSubcategory handles POST /api/categories/{id}/subcategories.
func (h *CategoriesHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, categoryID)
	if err != nil {
		serverError(w, "failed to get category", err)
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	subcategory, err := store.CreateSubcategory(r.Context(), h.DB, categoryID, req.Name, req.Description)
	if err != nil {
		serverError(w, "failed to create subcategory", err)
		return
	}
	jsonResponse(w, http.StatusCreated, subcategory)
}

// UpdateSubcategory handles PUT /api/subcategories/{id}.
func (h *CategoriesHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid subcategory id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	ok, err := store.UpdateSubcategory(r.Context(), h.DB, id, req.Name, req.Description)
	if err != nil {
		serverError(w, "failed to update subcategory", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	subcategory, err := store.GetSubcategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get subcategory", err)
		return
	}
	jsonResponse(w, http.StatusOK, subcategory)
}

// DeleteSubcategory handles DELETE /api/subcategories/{id}.
func (h *CategoriesHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid subcategory id")
		return
	}

	ok, err := store.DeleteSubcategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to delete subcategory", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "subcategory not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "subcategory deleted successfully"})
}
