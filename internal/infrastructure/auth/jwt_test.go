package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.Issue("a@x.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	email, err := manager.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret")

	// Valid signature, but issued two hours ago.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@x.com",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte("secret"))
	assert.NoError(t, err)

	_, err = manager.Verify(tokenString)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewJWTManager("other-secret")
	token, err := other.Issue("a@x.com")
	assert.NoError(t, err)

	manager := NewJWTManager("secret")
	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	manager := NewJWTManager("secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte("secret"))
	assert.NoError(t, err)

	_, err = manager.Verify(tokenString)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	manager := NewJWTManager("secret")
	mw := Middleware(manager)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := EmailFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "a@x.com", email)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bookings/a@x.com", nil)
		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bookings/a@x.com", nil)
		req.Header.Set("Authorization", "Token abc")
		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := manager.Issue("a@x.com")
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bookings/a@x.com", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
