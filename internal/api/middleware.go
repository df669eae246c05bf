package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ananev/boutique/internal/auth"
	"github.com/ananev/boutique/internal/model"
	"github.com/ananev/boutique/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// tokenFromRequest extracts the token from the Authorization header or the
// legacy x-auth-token header the old admin frontend still sends.
func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.Header.Get("x-auth-token")
}

// AuthMiddleware validates the JWT (signature, expiry, revocation) and adds
// claims to the request context. Any failure is a 401, never a 403.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			claims, err := auth.ValidateToken(secret, tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
			if err != nil {
				serverError(w, "failed to check token", err)
				return
			}
			if revoked {
				jsonError(w, http.StatusUnauthorized, "token revoked")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the already-authenticated caller is an admin
// operator. A valid signature alone never authorizes a write.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			jsonError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if claims.Domain != auth.DomainAdmin || !model.IsAdminRole(claims.Role) {
			jsonError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// optionalClaims validates a token if the request carries one, without
// rejecting unauthenticated requests. Used by public routes that show extra
// data to admins (inactive products).
func optionalClaims(r *http.Request, secret string, db *sql.DB) *auth.Claims {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		return nil
	}
	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return nil
	}
	if revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID); err != nil || revoked {
		return nil
	}
	return claims
}

// isAdmin reports whether claims belong to an admin operator.
func isAdmin(claims *auth.Claims) bool {
	return claims != nil && claims.Domain == auth.DomainAdmin && model.IsAdminRole(claims.Role)
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
