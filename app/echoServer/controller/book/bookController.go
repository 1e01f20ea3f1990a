package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SuperarseTics/library-superarse-backend/model"
	bookrepo "github.com/SuperarseTics/library-superarse-backend/repository/book"
	booksvc "github.com/SuperarseTics/library-superarse-backend/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /books/filter
func (h *Controller) Filter(c echo.Context) error {
	opts, err := h.Svc.Filter(c.Request().Context())
	if err != nil {
		h.Log.Error("book filter", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": opts})
}

// GET /books/catalog
func (h *Controller) Catalog(c echo.Context) error {
	var req model.CatalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid query"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	page, err := h.Svc.Catalog(c.Request().Context(), req)
	if err != nil {
		h.Log.Error("book catalog", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": page})
}

// GET /books?code=<code>
func (h *Controller) Show(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "code is required"})
	}

	b, err := h.Svc.Show(c.Request().Context(), code)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("book show", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": b})
}

// POST /books
func (h *Controller) Store(c echo.Context) error {
	var req model.StoreBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Store(c.Request().Context(), req)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		case booksvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "code or title already in use"})
		default:
			h.Log.Error("book store", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "book created", "data": b})
}

// POST /books/upd
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Update(c.Request().Context(), req)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case booksvc.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		case booksvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "code or title already in use"})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "book updated", "data": b})
}

// DELETE /books/:code
func (h *Controller) Destroy(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "code is required"})
	}

	if err := h.Svc.Destroy(c.Request().Context(), code); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("book destroy", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}

// GET /books/download
func (h *Controller) Download(c echo.Context) error {
	f := bookrepo.Filters{
		Category: c.QueryParam("f_category"),
		Author:   c.QueryParam("f_author"),
		Title:    c.QueryParam("f_title"),
	}
	if y := c.QueryParam("f_publication"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid f_publication"})
		}
		f.Publication = n
	}

	export, err := h.Svc.Download(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("book download", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FileName+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Content)
}
