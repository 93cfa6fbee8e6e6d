package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

const testSecret = "test-secret"

func echoWithIdentity(t *testing.T, captured *model.Identity) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/probe", func(c echo.Context) error {
		*captured = CurrentIdentity(c)
		return c.NoContent(http.StatusOK)
	}, Identity(testSecret))
	return e
}

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestIdentityResolvesBearerToken(t *testing.T) {
	var id model.Identity
	e := echoWithIdentity(t, &id)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", id.UserID)
	assert.Empty(t, id.GuestSessionID)
	assert.Equal(t, "user:user-42", id.Key())
}

func TestIdentityRejectsInvalidToken(t *testing.T) {
	var id model.Identity
	e := echoWithIdentity(t, &id)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other-secret", "user-42")},
		{"missing subject", signToken(t, testSecret, "")},
		{"garbage", "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestIdentityMintsGuestCookie(t *testing.T) {
	var id model.Identity
	e := echoWithIdentity(t, &id)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, id.GuestSessionID)
	assert.True(t, id.Anonymous())

	var minted *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == GuestCookieName {
			minted = ck
		}
	}
	require.NotNil(t, minted)
	assert.Equal(t, id.GuestSessionID, minted.Value)
	assert.True(t, minted.HttpOnly)
}

func TestIdentityReusesGuestCookie(t *testing.T) {
	var id model.Identity
	e := echoWithIdentity(t, &id)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: "existing-guest"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "existing-guest", id.GuestSessionID)
	// No replacement cookie is set for a returning guest.
	assert.Empty(t, rec.Result().Cookies())
}
