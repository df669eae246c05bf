package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananev/boutique/internal/model"
)

func TestGenerateAndValidateAdminToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateAdminToken(secret, 1, "ana", model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)

	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "ana", claims.Name)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, DomainAdmin, claims.Domain)
	assert.NotEmpty(t, claims.ID, "expected a JTI")
}

func TestGenerateAndValidateCustomerToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateCustomerToken(secret, 7, "ana@example.com", model.RoleUser)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", claims.Name)
	assert.Equal(t, DomainCustomer, claims.Domain)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateAdminToken("secret1", 1, "ana", model.RoleAdmin)

	_, err := ValidateToken("secret2", token)
	assert.Error(t, err)
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	secret := "test"
	claims := Claims{
		UserID: 1,
		Name:   "ana",
		Role:   model.RoleAdmin,
		Domain: DomainAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ID:        "expired-jti",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ValidateToken(secret, signed)
	assert.Error(t, err, "expected an expired token to be rejected")
}

func TestValidateTokenWrongAlgorithm(t *testing.T) {
	// A token signed with "none" must be rejected even with a valid payload.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Domain: DomainAdmin})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken("secret", signed)
	assert.Error(t, err)
}

func TestTokenLifetimes(t *testing.T) {
	secret := "test"

	adminToken, _ := GenerateAdminToken(secret, 1, "ana", model.RoleAdmin)
	adminClaims, err := ValidateToken(secret, adminToken)
	require.NoError(t, err)

	diff := time.Until(adminClaims.ExpiresAt.Time) - AdminTokenExpiry
	assert.Less(t, diff.Abs(), 5*time.Second, "admin token expiry off by %v", diff)

	customerToken, _ := GenerateCustomerToken(secret, 2, "ana@example.com", model.RoleUser)
	customerClaims, err := ValidateToken(secret, customerToken)
	require.NoError(t, err)

	diff = time.Until(customerClaims.ExpiresAt.Time) - CustomerTokenExpiry
	assert.Less(t, diff.Abs(), 5*time.Second, "customer token expiry off by %v", diff)
}
