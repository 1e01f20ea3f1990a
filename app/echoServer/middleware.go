// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/SuperarseTics/library-superarse-backend/app/echoServer/jwtx"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// LoginRateLimiter throttles guest authentication attempts per client IP.
func LoginRateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(5.0 / 60.0), // 5 attempts per minute
		Burst:     5,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiter(store)
}

// TokenGuard runs after the echo-jwt gate: it rejects expired or revoked
// tokens with 401 and stashes user_id and jti for the handlers.
func TokenGuard(isRevoked func(c echo.Context, jti string) (bool, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			exp, err := jwtx.ExpFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			if time.Now().Unix() > exp {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "token expired"})
			}

			jti, err := jwtx.JTIFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			revoked, err := isRevoked(c, jti)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "token revoked"})
			}

			uid, err := jwtx.UserIDFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			c.Set("user_id", uid)
			c.Set("jti", jti)
			return next(c)
		}
	}
}
