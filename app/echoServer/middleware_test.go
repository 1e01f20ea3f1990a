package echoServer

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func ctxWithToken(t *testing.T, claims jwt.MapClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
	return c, rec
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": float64(7),
		"jti": "jti-123",
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	}
}

func TestTokenGuard_PassesAndStashesIdentity(t *testing.T) {
	c, _ := ctxWithToken(t, validClaims())

	guard := TokenGuard(func(ec echo.Context, jti string) (bool, error) { return false, nil })
	called := false
	err := guard(func(ec echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, int64(7), c.Get("user_id"))
	require.Equal(t, "jti-123", c.Get("jti"))
}

func TestTokenGuard_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = float64(time.Now().Add(-time.Minute).Unix())
	c, rec := ctxWithToken(t, claims)

	guard := TokenGuard(func(ec echo.Context, jti string) (bool, error) { return false, nil })
	err := guard(func(ec echo.Context) error {
		t.Fatal("handler must not run for expired token")
		return nil
	})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenGuard_RevokedToken(t *testing.T) {
	c, rec := ctxWithToken(t, validClaims())

	guard := TokenGuard(func(ec echo.Context, jti string) (bool, error) {
		require.Equal(t, "jti-123", jti)
		return true, nil
	})
	err := guard(func(ec echo.Context) error {
		t.Fatal("handler must not run for revoked token")
		return nil
	})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenGuard_NoToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := TokenGuard(func(ec echo.Context, jti string) (bool, error) { return false, nil })
	err := guard(func(ec echo.Context) error { return nil })(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
