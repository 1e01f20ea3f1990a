package model

import "time"

type Category struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    bool       `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// StoreCategoryReq represents category creation payload
// swagger:model StoreCategoryReq
type StoreCategoryReq struct {
	Title string `json:"title" validate:"required,max=255"`
}

// UpdateCategoryReq represents category update payload
// swagger:model UpdateCategoryReq
type UpdateCategoryReq struct {
	ID     int64  `json:"id" validate:"required,gt=0"`
	Title  string `json:"title" validate:"required,max=255"`
	Status *bool  `json:"status" validate:"required"`
}
