package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential domains. Admin operators and storefront customers are separate
// account tables; the domain claim records which one a token belongs to.
const (
	DomainAdmin    = "admin"
	DomainCustomer = "customer"
)

// Token lifetimes per domain.
const (
	AdminTokenExpiry    = 7 * 24 * time.Hour
	CustomerTokenExpiry = 24 * time.Hour
)

// Claims represents the JWT claims.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"` // admin username or customer email
	Role   string `json:"role"`
	Domain string `json:"domain"`
	jwt.RegisteredClaims
}

// GenerateAdminToken creates a 7-day token for an admin operator.
func GenerateAdminToken(secret string, userID int64, username, role string) (string, error) {
	return generateToken(secret, userID, username, role, DomainAdmin, AdminTokenExpiry)
}

// GenerateCustomerToken creates a 24-hour token for a storefront customer.
func GenerateCustomerToken(secret string, userID int64, email, role string) (string, error) {
	return generateToken(secret, userID, email, role, DomainCustomer, CustomerTokenExpiry)
}

func generateToken(secret string, userID int64, name, role, domain string, expiry time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	claims := Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		Domain: domain,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
