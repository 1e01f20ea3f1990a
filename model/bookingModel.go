// model/booking.go
package model

import "time"

// Booking lifecycle states. The Spanish labels are the persisted values,
// kept for compatibility with the existing front end.
type BookingStatus string

const (
	BookingReserved    BookingStatus = "Reservado"
	BookingDelivered   BookingStatus = "Entregado"
	BookingReturned    BookingStatus = "Devuelto"
	BookingNotReturned BookingStatus = "No Devuelto"
)

type Booking struct {
	ID               int64         `json:"id"`
	UUID             string        `json:"uuid"`
	UserID           int64         `json:"user_id"`
	BookID           int64         `json:"book_id"`
	BookingDate      time.Time     `json:"booking_date"`
	DeliveryDate     *time.Time    `json:"delivery_date,omitempty"`
	GivebackDate     *time.Time    `json:"giveback_date,omitempty"`
	LastGivebackDate time.Time     `json:"last_giveback_date"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
}

// BookingDetail is a Booking joined with user and book display fields.
type BookingDetail struct {
	Booking
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	BookCode      string `json:"book_code"`
	BookTitle     string `json:"book_title"`
	CategoryTitle string `json:"category"`
}

// ReserveReq represents reservation payload
// swagger:model ReserveReq
type ReserveReq struct {
	BookCode    string `json:"book_code" validate:"required"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
}

// BookingCodeReq carries the public booking identifier for delivery/giveback/show.
type BookingCodeReq struct {
	BookingCode string `json:"booking_code" validate:"required,uuid4"`
}

// RecordReq carries pagination and filters for the caller's booking history.
type RecordReq struct {
	Page      int    `query:"page" validate:"required,gte=1"`
	Size      int    `query:"size" validate:"required,gte=5,lte=50"`
	Order     string `query:"order" validate:"required,oneof=booking_date status"`
	Sort      string `query:"sort" validate:"required,oneof=asc desc"`
	FCategory string `query:"f_category"`
	FCode     string `query:"f_code"`
}
