package setting

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SuperarseTics/library-superarse-backend/model"
	settingsvc "github.com/SuperarseTics/library-superarse-backend/service/setting"
)

type Controller struct {
	Svc settingsvc.Service
	Log *slog.Logger
}

// GET /settings
func (h *Controller) Index(c echo.Context) error {
	settings, err := h.Svc.Index(c.Request().Context())
	if err != nil {
		h.Log.Error("settings index", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": settings})
}

// GET /settings/rules
func (h *Controller) Rules(c echo.Context) error {
	rules, err := h.Svc.Rules(c.Request().Context())
	if err != nil {
		switch settingsvc.Code(err) {
		case settingsvc.ErrSectionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "settings not found"})
		default:
			h.Log.Error("settings rules", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rules})
}

// PUT /settings/upd
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdateSettingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if len(req) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "empty payload"})
	}

	if err := h.Svc.Update(c.Request().Context(), req); err != nil {
		switch settingsvc.Code(err) {
		case settingsvc.ErrSectionNotFound, settingsvc.ErrUnknownSection:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "settings not found"})
		default:
			h.Log.Error("settings update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "settings updated"})
}
