package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/config"
	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/server"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newAuthTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{JWTSecret: testJWTSecret},
		},
		Logger: &logger,
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invokeRequireAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := NewAuthMiddleware(newAuthTestServer())
	handler := auth.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return c, handler(c)
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "Unauthorized", httpErr.Message)
}

func TestRequireAuthValidToken(t *testing.T) {
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   "3f6b2e1a-9d4c-4b70-8a11-2c5e8e3d9f01",
		"email": "jane@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	c, err := invokeRequireAuth(t, "Bearer "+token)
	require.NoError(t, err)

	assert.Equal(t, "3f6b2e1a-9d4c-4b70-8a11-2c5e8e3d9f01", GetUserID(c))
	assert.Equal(t, "jane@x.com", GetUserEmail(c))
}

func TestRequireAuthMissingHeader(t *testing.T) {
	_, err := invokeRequireAuth(t, "")
	requireUnauthorized(t, err)
}

func TestRequireAuthNonBearerScheme(t *testing.T) {
	_, err := invokeRequireAuth(t, "Basic dXNlcjpwYXNz")
	requireUnauthorized(t, err)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := invokeRequireAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	token := signToken(t, "another-secret-another-secret-32", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := invokeRequireAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestRequireAuthMissingSubject(t *testing.T) {
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"email": "jane@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := invokeRequireAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestRequireAuthGarbageToken(t *testing.T) {
	_, err := invokeRequireAuth(t, "Bearer not.a.jwt")
	requireUnauthorized(t, err)
}
