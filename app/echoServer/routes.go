// app/echoServer/routes.go
package echoServer

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	authctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/auth"
	bookctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/book"
	bookingctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/booking"
	categoryctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/category"
	dashboardctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/dashboard"
	settingctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/setting"
)

// C bundles the controllers the router mounts.
type C struct {
	Auth      *authctl.Controller
	Book      *bookctl.Controller
	Booking   *bookingctl.Controller
	Category  *categoryctl.Controller
	Dashboard *dashboardctl.Controller
	Setting   *settingctl.Controller
}

// Register mounts all routes. Everything except /login, /health,
// /metrics and /swagger sits behind the bearer gate.
func Register(e *echo.Echo, c C, jwtSecret string, isRevoked func(ec echo.Context, jti string) (bool, error)) {

	e.GET("/health", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/login", c.Auth.Login, LoginRateLimiter())

	g := e.Group("")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(ec echo.Context, err error) error {
			return ec.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		},
	}))
	g.Use(TokenGuard(isRevoked))

	g.DELETE("/logout", c.Auth.Logout)

	g.GET("/books", c.Book.Show)
	g.GET("/books/filter", c.Book.Filter)
	g.GET("/books/catalog", c.Book.Catalog)
	g.GET("/books/download", c.Book.Download)
	g.POST("/books", c.Book.Store)
	g.POST("/books/upd", c.Book.Update)
	g.DELETE("/books/:code", c.Book.Destroy)

	g.GET("/categories", c.Category.Show)
	g.GET("/categories/catalog", c.Category.Catalog)
	g.POST("/categories", c.Category.Store)
	g.POST("/categories/upd", c.Category.Update)
	g.DELETE("/categories/:id", c.Category.Destroy)

	g.GET("/settings", c.Setting.Index)
	g.GET("/settings/rules", c.Setting.Rules)
	g.PUT("/settings/upd", c.Setting.Update)

	g.GET("/bookings", c.Booking.Show)
	g.GET("/bookings/record", c.Booking.Record)
	g.PUT("/bookings/reserve", c.Booking.Reserve)
	g.PUT("/bookings/delivery", c.Booking.Delivery)
	g.PUT("/bookings/giveback", c.Booking.Giveback)

	g.GET("/dashboards", c.Dashboard.Generate)
}
