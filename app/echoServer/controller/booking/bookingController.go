package booking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SuperarseTics/library-superarse-backend/model"
	bs "github.com/SuperarseTics/library-superarse-backend/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /bookings/record
func (h *Controller) Record(c echo.Context) error {
	var req model.RecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid query"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	page, err := h.Svc.Record(c.Request().Context(), uid, req)
	if err != nil {
		h.Log.Error("booking record", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": page})
}

// GET /bookings?code=<uuid>
func (h *Controller) Show(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "code is required"})
	}

	d, err := h.Svc.Show(c.Request().Context(), code)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookingNotFound:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking not found"})
		default:
			h.Log.Error("booking show", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": d})
}

// PUT /bookings/reserve
// @Summary      Reserve a book
// @Description  Holds one copy for the authenticated user
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.ReserveReq  true  "Reservation payload"
// @Success      201  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book not found"
// @Failure      409  {object}  map[string]any "no stock available"
// @Failure      422  {object}  map[string]any "loan limit reached"
// @Router       /bookings/reserve [put]
func (h *Controller) Reserve(c echo.Context) error {
	var req model.ReserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking_date"})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Reserve(c.Request().Context(), uid, req.BookCode, bookingDate)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case bs.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no stock available"})
		case bs.ErrLoanLimit:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "loan limit reached"})
		default:
			h.Log.Error("booking reserve", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "reservation created", "data": b})
}

// PUT /bookings/delivery
func (h *Controller) Delivery(c echo.Context) error {
	var req model.BookingCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Deliver(c.Request().Context(), req.BookingCode)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookingNotFound:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking not found"})
		default:
			h.Log.Error("booking delivery", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "book delivered", "data": b})
}

// PUT /bookings/giveback
func (h *Controller) Giveback(c echo.Context) error {
	var req model.BookingCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.GiveBack(c.Request().Context(), req.BookingCode)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookingNotFound:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking not found"})
		default:
			h.Log.Error("booking giveback", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "book returned", "data": b})
}
