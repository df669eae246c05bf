package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/ananev/boutique/internal/auth"
	"github.com/ananev/boutique/internal/store"
)

// AuthHandler handles authentication for both credential domains: admin
// operators log in by username, storefront customers by email.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/auth/login. A username routes to the admin domain,
// an email to the customer domain.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password == "" || (req.Username == "" && req.Email == "") {
		jsonError(w, http.StatusBadRequest, "username or email, and password required")
		return
	}

	if req.Username != "" {
		h.loginAdmin(w, r, req.Username, req.Password)
		return
	}
	h.loginCustomer(w, r, req.Email, req.Password)
}

func (h *AuthHandler) loginAdmin(w http.ResponseWriter, r *http.Request, username, password string) {
	user, err := store.GetAdminUserByUsername(r.Context(), h.DB, username)
	if err != nil {
		serverError(w, "failed to look up user", err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("admin login failed", "username", username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateAdminToken(h.JWTSecret, user.ID, user.Username, user.Role)
	if err != nil {
		serverError(w, "failed to generate token", err)
		return
	}

	slog.Info("admin logged in", "username", user.Username, "role", user.Role)
	jsonResponse(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) loginCustomer(w http.ResponseWriter, r *http.Request, email, password string) {
	user, err := store.GetUserByEmail(r.Context(), h.DB, email)
	if err != nil {
		serverError(w, "failed to look up user", err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("customer login failed", "email", email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateCustomerToken(h.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		serverError(w, "failed to generate token", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// Register handles POST /api/auth/register (storefront customers only; admins
// are seeded out-of-band).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		jsonError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if len(req.Password) < 6 {
		jsonError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		serverError(w, "failed to look up user", err)
		return
	}
	if existing != nil {
		jsonError(w, http.StatusBadRequest, "user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "failed to hash password", err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Email, req.Name, string(hash))
	if err != nil {
		serverError(w, "failed to create user", err)
		return
	}

	token, err := auth.GenerateCustomerToken(h.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		serverError(w, "failed to generate token", err)
		return
	}

	slog.Info("customer registered", "email", user.Email)
	jsonResponse(w, http.StatusCreated, map[string]any{"token": token, "user": user})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if claims.Domain == auth.DomainAdmin {
		user, err := store.GetAdminUser(r.Context(), h.DB, claims.UserID)
		if err != nil {
			serverError(w, "failed to look up user", err)
			return
		}
		if user == nil || user.DeletedAt != nil {
			jsonError(w, http.StatusNotFound, "user not found")
			return
		}
		jsonResponse(w, http.StatusOK, user)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		serverError(w, "failed to look up user", err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// ChangePassword handles POST /api/auth/change-password for either domain.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" {
		jsonError(w, http.StatusBadRequest, "current password required")
		return
	}
	if len(req.NewPassword) < 6 {
		jsonError(w, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}

	var currentHash string
	if claims.Domain == auth.DomainAdmin {
		user, err := store.GetAdminUser(r.Context(), h.DB, claims.UserID)
		if err != nil || user == nil {
			serverError(w, "failed to look up user", err)
			return
		}
		currentHash = user.PasswordHash
	} else {
		user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
		if err != nil || user == nil {
			serverError(w, "failed to look up user", err)
			return
		}
		currentHash = user.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
		jsonError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "failed to hash password", err)
		return
	}

	if claims.Domain == auth.DomainAdmin {
		err = store.UpdateAdminPassword(r.Context(), h.DB, claims.UserID, string(hash))
	} else {
		err = store.UpdateUserPassword(r.Context(), h.DB, claims.UserID, string(hash))
	}
	if err != nil {
		serverError(w, "failed to update password", err)
		return
	}

	slog.Info("password changed", "domain", claims.Domain, "user", claims.Name)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// Logout handles POST /api/auth/logout by revoking the token's JTI.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		serverError(w, "failed to revoke token", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Verify handles GET /api/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]bool{"valid": true})
}
