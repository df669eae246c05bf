package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ananev/boutique/internal/cdn"
	"github.com/ananev/boutique/internal/imaging"
	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

// maxUploadBytes caps a multipart product request (fields plus images).
const maxUploadBytes = 25 << 20

// ProductsHandler handles the product catalog endpoints.
type ProductsHandler struct {
	DB        *sql.DB
	JWTSecret string
	CDN       *cdn.Client
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePagination(q)

	filters := store.ProductFilters{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Page:        page,
		PageSize:    pageSize,
	}

	products, total, err := store.ListProducts(r.Context(), h.DB, filters)
	if err != nil {
		serverError(w, "failed to list products", err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"products":   products,
		"pagination": paginate(page, pageSize, total),
	})
}

// Get handles GET /api/products/{id}. Soft-deleted products are 404 for
// everyone except admin operators, who still see them for audit purposes.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get product", err)
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	if !product.IsActive && !isAdmin(optionalClaims(r, h.JWTSecret, h.DB)) {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	jsonResponse(w, http.StatusOK, product)
}

// Create handles POST /api/products (admin, multipart).
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or request too large")
		return
	}

	np := store.NewProduct{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Description:   r.FormValue("description"),
		ProductType:   r.FormValue("product_type"),
		Details:       r.FormValue("details"),
		Contact:       r.FormValue("contact"),
		RentAvailable: r.FormValue("rent_available") == "true",
	}

	if np.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil || price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}
	np.Price = price

	if v := r.FormValue("original_price"); v != "" {
		op, err := decimal.NewFromString(v)
		if err != nil || op.IsNegative() {
			jsonError(w, http.StatusBadRequest, "original_price must be a non-negative number")
			return
		}
		np.OriginalPrice = &op
	}

	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.ParseInt(v, 10, 64)
		if err != nil || stock < 0 {
			jsonError(w, http.StatusBadRequest, "stock must be a non-negative integer")
			return
		}
		np.Stock = stock
	}

	if v := r.FormValue("subcategory_id"); v != "" {
		subID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid subcategory_id")
			return
		}
		np.SubcategoryID = &subID
	}

	if np.Details != "" && !json.Valid([]byte(np.Details)) {
		jsonError(w, http.StatusBadRequest, "details must be valid JSON")
		return
	}

	files := imageFiles(r.MultipartForm)
	for _, f := range files {
		if f.Size == 0 {
			jsonError(w, http.StatusBadRequest, "image file required")
			return
		}
	}

	product, err := store.CreateProduct(r.Context(), h.DB, np)
	if err != nil {
		serverError(w, "failed to create product", err)
		return
	}

	if len(files) > 0 {
		primaryIndex := -1
		if v := r.FormValue("primary"); v != "" {
			primaryIndex, _ = strconv.Atoi(v)
		}
		if err := h.intakeImages(r.Context(), product.ID, files, r.FormValue("alt_text"), primaryIndex, 0); err != nil {
			if errors.Is(err, imaging.ErrBadImage) {
				jsonError(w, http.StatusBadRequest, err.Error())
				return
			}
			serverError(w, "failed to store image", err)
			return
		}
		// Re-read so the response carries the image references.
		product, err = store.GetProduct(r.Context(), h.DB, product.ID)
		if err != nil {
			serverError(w, "failed to get product", err)
			return
		}
	}

	jsonResponse(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} (admin). Accepts the same multipart
// form as Create with every field optional, or a JSON body for field-only
// updates. A supplied image is appended to the product's image list.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var up store.ProductUpdate
	var files []*multipart.FileHeader

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid multipart form or request too large")
			return
		}
		up, err = updateFromForm(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		files = imageFiles(r.MultipartForm)
	} else {
		var req updateProductRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		up, err = req.toUpdate()
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	product, err := store.UpdateProduct(r.Context(), h.DB, id, up)
	if err != nil {
		serverError(w, "failed to update product", err)
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	if len(files) > 0 {
		if err := h.intakeImages(r.Context(), id, files, r.FormValue("alt_text"), -1, len(product.Images)); err != nil {
			if errors.Is(err, imaging.ErrBadImage) {
				jsonError(w, http.StatusBadRequest, err.Error())
				return
			}
			serverError(w, "failed to store image", err)
			return
		}
		product, err = store.GetProduct(r.Context(), h.DB, id)
		if err != nil {
			serverError(w, "failed to get product", err)
			return
		}
	}

	jsonResponse(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} (admin, soft delete).
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ok, err := store.DeleteProduct(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to delete product", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

// GetRepresentativeImage handles GET /api/products/{id}/image.
func (h *ProductsHandler) GetRepresentativeImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	data, mime, err := store.GetRepresentativeImage(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, "failed to get image", err)
		return
	}
	serveImage(w, data, mime)
}

// GetImage handles GET /api/products/{id}/images/{imageID}.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	imageID, err := strconv.ParseInt(r.PathValue("imageID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	data, mime, err := store.GetImageData(r.Context(), h.DB, id, imageID)
	if err != nil {
		serverError(w, "failed to get image", err)
		return
	}
	serveImage(w, data, mime)
}

func serveImage(w http.ResponseWriter, data []byte, mime string) {
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// intakeImages normalizes and stores uploaded images in submission order,
// assigning sort order from baseOrder. Each image is also pushed to the CDN
// best-effort: a failed upload only costs the remote URL, never the request.
func (h *ProductsHandler) intakeImages(ctx context.Context, productID int64, files []*multipart.FileHeader, altText string, primaryIndex, baseOrder int) error {
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		res, err := imaging.Normalize(f)
		f.Close()
		if err != nil {
			return err
		}

		var cdnURL string
		if h.CDN != nil {
			url, err := h.CDN.Upload(ctx, imaging.StorageName(), res.MIME, res.Data)
			if err != nil {
				slog.Warn("cdn upload failed, keeping local copy only",
					"product_id", productID, "error", err)
			} else {
				cdnURL = url
			}
		}

		_, err = store.AddProductImage(ctx, h.DB, productID, store.NewImage{
			Data:      res.Data,
			MIME:      res.MIME,
			CDNURL:    cdnURL,
			AltText:   altText,
			IsPrimary: i == primaryIndex,
			SortOrder: baseOrder + i,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// imageFiles collects uploaded image parts from either the multi-image
// "images" field or the legacy single "image" field.
func imageFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if files := form.File["images"]; len(files) > 0 {
		return files
	}
	return form.File["image"]
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	OriginalPrice *string `json:"original_price"`
	Stock         *int64  `json:"stock"`
	ProductType   *string `json:"product_type"`
	Details       *string `json:"details"`
	SubcategoryID *int64  `json:"subcategory_id"`
	Contact       *string `json:"contact"`
	RentAvailable *bool   `json:"rent_available"`
}

func (req updateProductRequest) toUpdate() (store.ProductUpdate, error) {
	up := store.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Stock:         req.Stock,
		ProductType:   req.ProductType,
		Details:       req.Details,
		SubcategoryID: req.SubcategoryID,
		Contact:       req.Contact,
		RentAvailable: req.RentAvailable,
	}
	if up.Name != nil && strings.TrimSpace(*up.Name) == "" {
		return up, errInvalid("name must not be empty")
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return up, errInvalid("price must be a non-negative number")
		}
		up.Price = &price
	}
	if req.OriginalPrice != nil {
		op, err := decimal.NewFromString(*req.OriginalPrice)
		if err != nil || op.IsNegative() {
			return up, errInvalid("original_price must be a non-negative number")
		}
		up.OriginalPrice = &op
	}
	if up.Details != nil && *up.Details != "" && !json.Valid([]byte(*up.Details)) {
		return up, errInvalid("details must be valid JSON")
	}
	return up, nil
}

// updateFromForm builds a partial update from multipart form values; only
// keys present in the form are applied.
func updateFromForm(r *http.Request) (store.ProductUpdate, error) {
	var req updateProductRequest
	req.Name = formValue(r, "name")
	req.Description = formValue(r, "description")
	req.Price = formValue(r, "price")
	req.OriginalPrice = formValue(r, "original_price")
	req.ProductType = formValue(r, "product_type")
	req.Details = formValue(r, "details")
	req.Contact = formValue(r, "contact")

	if v := formValue(r, "stock"); v != nil {
		stock, err := strconv.ParseInt(*v, 10, 64)
		if err != nil || stock < 0 {
			return store.ProductUpdate{}, errInvalid("stock must be a non-negative integer")
		}
		req.Stock = &stock
	}
	if v := formValue(r, "subcategory_id"); v != nil {
		subID, err := strconv.ParseInt(*v, 10, 64)
		if err != nil {
			return store.ProductUpdate{}, errInvalid("invalid subcategory_id")
		}
		req.SubcategoryID = &subID
	}
	if v := formValue(r, "rent_available"); v != nil {
		rent := *v == "true"
		req.RentAvailable = &rent
	}

	return req.toUpdate()
}

// formValue returns the form value as a pointer, or nil when the key is not
// present at all (absent field vs. explicitly empty).
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

type errInvalid string

func (e errInvalid) Error() string { return string(e) }
