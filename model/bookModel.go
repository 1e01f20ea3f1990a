// model/book.go
package model

import "time"

type Book struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"category_id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Publication int        `json:"publication"`
	Edition     string     `json:"edition"`
	Synopsis    string     `json:"synopsis"`
	Stock       int64      `json:"stock"`
	Status      bool       `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"-"`
}

// CatalogRow is a Book joined with its category title for listings and export.
type CatalogRow struct {
	Book
	CategoryTitle string `json:"category"`
}

// StoreBookReq represents book creation payload
// swagger:model StoreBookReq
type StoreBookReq struct {
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Code        string `json:"code" validate:"required,max=255"`
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Publication int    `json:"publication" validate:"required,gte=1500,lte=2025"`
	Edition     string `json:"edition" validate:"required"`
	Synopsis    string `json:"synopsis" validate:"required"`
	Stock       int64  `json:"stock" validate:"required,gte=1"`
}

// UpdateBookReq represents book update payload
// swagger:model UpdateBookReq
type UpdateBookReq struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Code        string `json:"code" validate:"required,max=255"`
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Publication int    `json:"publication" validate:"required,gte=1500,lte=2025"`
	Edition     string `json:"edition" validate:"required"`
	Synopsis    string `json:"synopsis" validate:"required"`
	Stock       int64  `json:"stock" validate:"required,gte=0"`
	Status      *bool  `json:"status" validate:"required"`
}

// CatalogReq carries pagination, ordering and filters for book listings.
type CatalogReq struct {
	Page         int    `query:"page" validate:"required,gte=1"`
	Size         int    `query:"size" validate:"required,gte=5,lte=50"`
	Order        string `query:"order" validate:"required,oneof=category title status"`
	Sort         string `query:"sort" validate:"required,oneof=asc desc"`
	FCategory    string `query:"f_category"`
	FAuthor      string `query:"f_author"`
	FTitle       string `query:"f_title"`
	FPublication int    `query:"f_publication"`
}
