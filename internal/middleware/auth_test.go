package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, configure func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/scheduler/run", nil)
	configure(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, handler(c))
	return rec
}

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "ops", "exp": exp.Unix(), "iat": time.Now().UTC().Unix()}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTriggerAuth_InternalKeyMatch(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("X-Internal-Key", "internal-key")
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerAuth_InternalKeyMismatch(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("X-Internal-Key", "wrong")
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTriggerAuth_InternalKeyUnconfigured(t *testing.T) {
	t.Parallel()

	// A caller presenting an internal key against a service without one
	// configured gets 503, never a fallthrough to the JWT path.
	mw := TriggerAuth(testSecret, "")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("X-Internal-Key", "anything")
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTriggerAuth_BearerToken(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(-time.Hour)))
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTriggerAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", time.Now().Add(time.Hour)))
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTriggerAuth_NoCredentials(t *testing.T) {
	t.Parallel()

	mw := TriggerAuth(testSecret, "internal-key")
	rec := invoke(t, mw, func(*http.Request) {})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
