package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	dashboardsvc "github.com/SuperarseTics/library-superarse-backend/service/dashboard"
)

type Controller struct {
	Svc dashboardsvc.Service
	Log *slog.Logger
}

// GET /dashboards
func (h *Controller) Generate(c echo.Context) error {
	report, err := h.Svc.Generate(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard generate", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": report})
}
