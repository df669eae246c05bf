package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ananev/boutique/internal/auth"
	"github.com/ananev/boutique/internal/db"
	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/notify"
	"github.com/ananev/boutique/internal/store"
)

const testJWTSecret = "test-secret"

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

type testEnv struct {
	server   *httptest.Server
	db       *sql.DB
	token    string // admin token
	notifier *stubNotifier
}

// stubNotifier records lead notifications instead of sending email.
type stubNotifier struct {
	leads []*model.Lead
}

func (s *stubNotifier) LeadCreated(lead *model.Lead) {
	s.leads = append(s.leads, lead)
}

var _ notify.LeadNotifier = (*stubNotifier)(nil)

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	notifier := &stubNotifier{}
	router := NewRouter(database, RouterConfig{
		JWTSecret: testJWTSecret,
		Verbose:   true,
		Notifier:  notifier,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateAdminUser(ctx, database, "admin", "admin@example.com", "Store", "Admin", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}

	return &testEnv{server: server, db: database, token: loginResp.Token, notifier: notifier}
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, target any) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil && err != io.EOF {
			t.Fatalf("decoding %s %s response: %v", req.Method, req.URL.Path, err)
		}
	}
	return resp
}

func testJPEGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

// multipartProduct builds a multipart form for product create/update.
func multipartProduct(t *testing.T, fields map[string]string, images [][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for i, data := range images {
		part, err := mw.CreateFormFile("images", "photo.jpg")
		if err != nil {
			t.Fatalf("creating form file %d: %v", i, err)
		}
		part.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestServer(t)

	// Bad password.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Unknown user.
	body, _ = json.Marshal(map[string]string{"username": "nobody", "password": "password"})
	resp, _ = http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCustomerRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"email": "ana@example.com", "name": "Ana Petrova", "password": "secret123",
	})
	resp, _ := http.Post(env.server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for register, got %d", resp.StatusCode)
	}
	var regResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&regResp)
	resp.Body.Close()
	if regResp.Token == "" {
		t.Fatal("expected token from register")
	}

	// Duplicate registration.
	body, _ = json.Marshal(map[string]string{
		"email": "ana@example.com", "name": "Ana", "password": "secret123",
	})
	resp, _ = http.Post(env.server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Login by email routes to the customer domain.
	body, _ = json.Marshal(map[string]string{"email": "ana@example.com", "password": "secret123"})
	resp, _ = http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for customer login, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Customer tokens cannot reach admin routes.
	req, _ := authRequest("GET", env.server.URL+"/api/leads", regResp.Token, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for customer token on admin route, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupTestServer(t)

	// No token.
	resp, _ := http.Get(env.server.URL + "/api/leads")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Tampered token.
	req, _ := authRequest("GET", env.server.URL+"/api/leads", env.token+"x", nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for tampered token, got %d", resp.StatusCode)
	}

	// Expired token.
	claims := auth.Claims{
		UserID: 1,
		Name:   "admin",
		Role:   model.RoleAdmin,
		Domain: auth.DomainAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ID:        "expired-jti",
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}
	req, _ = authRequest("GET", env.server.URL+"/api/leads", expired, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", resp.StatusCode)
	}

	// Legacy x-auth-token header still works.
	req, _ = http.NewRequest("GET", env.server.URL+"/api/leads", nil)
	req.Header.Set("x-auth-token", env.token)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with x-auth-token header, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("POST", env.server.URL+"/api/auth/logout", env.token, nil)
	resp := doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", resp.StatusCode)
	}

	req, _ = authRequest("GET", env.server.URL+"/api/auth/me", env.token, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestChangePassword(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("POST", env.server.URL+"/api/auth/change-password", env.token,
		map[string]string{"currentPassword": "wrong", "newPassword": "newsecret"})
	resp := doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong current password, got %d", resp.StatusCode)
	}

	req, _ = authRequest("POST", env.server.URL+"/api/auth/change-password", env.token,
		map[string]string{"currentPassword": "password", "newPassword": "newsecret"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for password change, got %d", resp.StatusCode)
	}

	// Old password no longer works.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	loginResp, _ := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if loginResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with old password, got %d", loginResp.StatusCode)
	}
	loginResp.Body.Close()
}

func TestProductLifecycle(t *testing.T) {
	env := setupTestServer(t)

	// Create with an image.
	form, contentType := multipartProduct(t, map[string]string{
		"name":    "Velvet Sofa",
		"price":   "499.90",
		"stock":   "3",
		"details": `{"color":"green"}`,
	}, [][]byte{testJPEGBytes(t, 64, 64)})

	req, _ := http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", contentType)

	var product model.Product
	resp := doJSON(t, req, &product)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for create, got %d", resp.StatusCode)
	}
	if product.ID == 0 || product.Name != "Velvet Sofa" {
		t.Fatalf("unexpected created product: %+v", product)
	}
	if len(product.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(product.Images))
	}
	if product.PrimaryImage == "" {
		t.Error("expected a primary image reference")
	}

	// Public list with envelope.
	var listResp struct {
		Products   []model.Product `json:"products"`
		Pagination struct {
			Current    int `json:"current"`
			Total      int `json:"total"`
			TotalItems int `json:"totalItems"`
			Limit      int `json:"limit"`
		} `json:"pagination"`
	}
	req, _ = http.NewRequest("GET", env.server.URL+"/api/products", nil)
	resp = doJSON(t, req, &listResp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for list, got %d", resp.StatusCode)
	}
	if len(listResp.Products) != 1 || listResp.Pagination.TotalItems != 1 {
		t.Errorf("unexpected list response: %+v", listResp)
	}
	if listResp.Pagination.Limit != store.DefaultPageSize {
		t.Errorf("expected default limit %d, got %d", store.DefaultPageSize, listResp.Pagination.Limit)
	}

	// Public image endpoint serves normalized JPEG.
	url := env.server.URL + product.PrimaryImage
	imgResp, _ := http.Get(url)
	if imgResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for image, got %d", imgResp.StatusCode)
	}
	if ct := imgResp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
	imgResp.Body.Close()

	// Partial JSON update.
	productURL := env.server.URL + "/api/products/" + itoa(product.ID)
	req, _ = authRequest("PUT", productURL, env.token, map[string]any{"price": "450.00"})
	var updated model.Product
	resp = doJSON(t, req, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for update, got %d", resp.StatusCode)
	}
	if !updated.Price.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expected price 450, got %s", updated.Price)
	}
	if updated.Stock != 3 {
		t.Errorf("expected untouched stock 3, got %d", updated.Stock)
	}

	// Soft delete.
	req, _ = authRequest("DELETE", productURL, env.token, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}

	// Gone for the public, still visible to admins.
	resp, _ = http.Get(productURL)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for deleted product without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", productURL, env.token, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for deleted product as admin, got %d", resp.StatusCode)
	}

	// Deleting again is a 404.
	req, _ = authRequest("DELETE", productURL, env.token, nil)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for repeated delete, got %d", resp.StatusCode)
	}
}

func TestProductCreateValidation(t *testing.T) {
	env := setupTestServer(t)

	// Missing name.
	form, contentType := multipartProduct(t, map[string]string{"price": "10"}, nil)
	req, _ := http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", contentType)
	resp := doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", resp.StatusCode)
	}

	// Negative price.
	form, contentType = multipartProduct(t, map[string]string{"name": "X", "price": "-5"}, nil)
	req, _ = http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", contentType)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative price, got %d", resp.StatusCode)
	}

	// Malformed details JSON.
	form, contentType = multipartProduct(t, map[string]string{
		"name": "X", "price": "5", "details": "{not json",
	}, nil)
	req, _ = http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", contentType)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed details, got %d", resp.StatusCode)
	}

	// An uploaded part that is not a decodable image.
	form, contentType = multipartProduct(t, map[string]string{"name": "X", "price": "5"},
		[][]byte{[]byte("definitely not image bytes")})
	req, _ = http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", contentType)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-image upload, got %d", resp.StatusCode)
	}

	// Writes require a token.
	form, contentType = multipartProduct(t, map[string]string{"name": "X", "price": "5"}, nil)
	req, _ = http.NewRequest("POST", env.server.URL+"/api/products", form)
	req.Header.Set("Content-Type", contentType)
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestLeadEndpoints(t *testing.T) {
	env := setupTestServer(t)

	ctx := context.Background()
	product, _ := store.CreateProduct(ctx, env.db, store.NewProduct{
		Name: "Armchair", Price: decimal.NewFromInt(250),
	})

	// Public creation, no token.
	body, _ := json.Marshal(map[string]any{
		"product_id": product.ID, "customer_name": "Ana", "email": "ana@example.com", "phone": "+359 88",
	})
	resp, _ := http.Post(env.server.URL+"/api/leads", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for lead, got %d", resp.StatusCode)
	}
	var leadResp struct {
		LeadID int64 `json:"leadId"`
	}
	json.NewDecoder(resp.Body).Decode(&leadResp)
	resp.Body.Close()
	if leadResp.LeadID == 0 {
		t.Fatal("expected a lead id")
	}

	// The notifier is told about the new lead.
	if len(env.notifier.leads) != 1 || env.notifier.leads[0].CustomerName != "Ana" {
		t.Errorf("expected notifier to receive the lead, got %+v", env.notifier.leads)
	}

	// Invalid email is rejected before any row is written.
	body, _ = json.Marshal(map[string]any{
		"product_id": product.ID, "customer_name": "B", "email": "not-an-email",
	})
	resp, _ = http.Post(env.server.URL+"/api/leads", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admin listing.
	req, _ := authRequest("GET", env.server.URL+"/api/leads", env.token, nil)
	var leads []model.Lead
	resp = doJSON(t, req, &leads)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for lead list, got %d", resp.StatusCode)
	}
	if len(leads) != 1 || leads[0].ProductName != "Armchair" {
		t.Errorf("unexpected leads: %+v", leads)
	}

	// Status update.
	req, _ = authRequest("PUT", env.server.URL+"/api/leads/"+itoa(leadResp.LeadID), env.token,
		map[string]string{"status": "contacted"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for status update, got %d", resp.StatusCode)
	}

	req, _ = authRequest("PUT", env.server.URL+"/api/leads/"+itoa(leadResp.LeadID), env.token,
		map[string]string{"status": "bogus"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bogus status, got %d", resp.StatusCode)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("POST", env.server.URL+"/api/categories", env.token,
		map[string]string{"name": "Furniture"})
	var cat model.Category
	resp := doJSON(t, req, &cat)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for category, got %d", resp.StatusCode)
	}

	// Subcategory under a missing parent.
	req, _ = authRequest("POST", env.server.URL+"/api/categories/9999/subcategories", env.token,
		map[string]string{"name": "Nope"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing parent, got %d", resp.StatusCode)
	}

	req, _ = authRequest("POST", env.server.URL+"/api/categories/"+itoa(cat.ID)+"/subcategories", env.token,
		map[string]string{"name": "Sofas"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for subcategory, got %d", resp.StatusCode)
	}

	// Public reads.
	var cats []model.Category
	listReq, _ := http.NewRequest("GET", env.server.URL+"/api/categories", nil)
	resp = doJSON(t, listReq, &cats)
	if resp.StatusCode != http.StatusOK || len(cats) != 1 {
		t.Errorf("expected 1 category publicly, got %d (status %d)", len(cats), resp.StatusCode)
	}

	var subs []model.Subcategory
	subReq, _ := http.NewRequest("GET", env.server.URL+"/api/categories/"+itoa(cat.ID)+"/subcategories", nil)
	resp = doJSON(t, subReq, &subs)
	if resp.StatusCode != http.StatusOK || len(subs) != 1 {
		t.Errorf("expected 1 subcategory publicly, got %d (status %d)", len(subs), resp.StatusCode)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("PUT", env.server.URL+"/api/settings", env.token,
		map[string]string{"store_name": "Boutique Elegance", "currency": "BGN"})
	resp := doJSON(t, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for settings update, got %d", resp.StatusCode)
	}

	req, _ = authRequest("GET", env.server.URL+"/api/settings", env.token, nil)
	var settings map[string]string
	resp = doJSON(t, req, &settings)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for settings list, got %d", resp.StatusCode)
	}
	if settings["store_name"] != "Boutique Elegance" {
		t.Errorf("expected stored setting, got %+v", settings)
	}
	if _, ok := settings["jwt_secret"]; ok {
		t.Error("expected jwt_secret to stay hidden")
	}

	// The signing secret cannot be overwritten through the API, and a
	// payload containing it must not write any of its other pairs.
	req, _ = authRequest("PUT", env.server.URL+"/api/settings", env.token,
		map[string]string{"jwt_secret": "attacker", "theme": "dark"})
	resp = doJSON(t, req, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for reserved key, got %d", resp.StatusCode)
	}

	req, _ = authRequest("GET", env.server.URL+"/api/settings", env.token, nil)
	settings = nil
	resp = doJSON(t, req, &settings)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for settings list, got %d", resp.StatusCode)
	}
	if _, ok := settings["theme"]; ok {
		t.Error("expected rejected update to write nothing")
	}
}

func TestDashboardEndpoints(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("GET", env.server.URL+"/api/dashboard/stats", env.token, nil)
	var stats store.DashboardStats
	resp := doJSON(t, req, &stats)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", resp.StatusCode)
	}

	req, _ = authRequest("GET", env.server.URL+"/api/dashboard/recent-orders", env.token, nil)
	var orders []model.Order
	resp = doJSON(t, req, &orders)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for recent orders, got %d", resp.StatusCode)
	}
	if len(orders) != 0 {
		t.Errorf("expected no orders on a fresh database, got %d", len(orders))
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.server.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for health, got %d", resp.StatusCode)
	}
	var health map[string]string
	json.NewDecoder(resp.Body).Decode(&health)
	if health["status"] != "OK" {
		t.Errorf("expected status OK, got %q", health["status"])
	}
}
