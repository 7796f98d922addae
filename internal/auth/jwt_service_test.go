package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("right-secret").GenerateToken(1)
	assert.NoError(t, err)

	_, err = NewJWTService("wrong-secret").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret")

	// Sign an already-expired token with the service's own secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	tokenString, err := expired.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Malformed(t *testing.T) {
	svc := NewJWTService("test-secret")

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTService_RejectsNonHMAC(t *testing.T) {
	svc := NewJWTService("test-secret")

	// alg=none must never be trusted.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
