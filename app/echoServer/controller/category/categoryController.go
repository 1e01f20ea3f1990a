package category

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SuperarseTics/library-superarse-backend/model"
	categorysvc "github.com/SuperarseTics/library-superarse-backend/service/category"
)

type Controller struct {
	Svc categorysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type catalogReq struct {
	Page  int    `query:"page" validate:"required,gte=1"`
	Size  int    `query:"size" validate:"required,gte=5,lte=50"`
	Order string `query:"order" validate:"required,oneof=title status"`
	Sort  string `query:"sort" validate:"required,oneof=asc desc"`
}

// GET /categories/catalog
func (h *Controller) Catalog(c echo.Context) error {
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid query"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	page, err := h.Svc.Catalog(c.Request().Context(), req.Page, req.Size, req.Order, req.Sort)
	if err != nil {
		h.Log.Error("category catalog", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": page})
}

// GET /categories?id=<id>
func (h *Controller) Show(c echo.Context) error {
	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	cat, err := h.Svc.Show(c.Request().Context(), id)
	if err != nil {
		switch categorysvc.Code(err) {
		case categorysvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		default:
			h.Log.Error("category show", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": cat})
}

// POST /categories
func (h *Controller) Store(c echo.Context) error {
	var req model.StoreCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	cat, err := h.Svc.Store(c.Request().Context(), req)
	if err != nil {
		switch categorysvc.Code(err) {
		case categorysvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "title already in use"})
		default:
			h.Log.Error("category store", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "category created", "data": cat})
}

// POST /categories/upd
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdateCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	cat, err := h.Svc.Update(c.Request().Context(), req)
	if err != nil {
		switch categorysvc.Code(err) {
		case categorysvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		case categorysvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "title already in use"})
		default:
			h.Log.Error("category update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "category updated", "data": cat})
}

// DELETE /categories/:id
func (h *Controller) Destroy(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	books, err := h.Svc.Destroy(c.Request().Context(), id)
	if err != nil {
		switch categorysvc.Code(err) {
		case categorysvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		default:
			h.Log.Error("category destroy", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted", "data": echo.Map{"books_removed": books}})
}
