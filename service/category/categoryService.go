package categorysvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "CATEGORY_NOT_FOUND"
	ErrDuplicate ErrCode = "DUPLICATE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Page wraps a category listing with pagination totals.
type Page struct {
	Items    []model.Category `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	LastPage int64            `json:"last_page"`
}

type Repo interface {
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	Catalog(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error)
	Insert(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category, status bool) error
	Destroy(ctx context.Context, id int64) (int64, error)
}

type Service interface {
	Catalog(ctx context.Context, page, size int, order, sort string) (*Page, error)
	Show(ctx context.Context, id int64) (*model.Category, error)
	Store(ctx context.Context, req model.StoreCategoryReq) (*model.Category, error)
	Update(ctx context.Context, req model.UpdateCategoryReq) (*model.Category, error)

	// Destroy soft-deletes the category and all its books. Returns the
	// number of books cascaded.
	Destroy(ctx context.Context, id int64) (int64, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Catalog(ctx context.Context, page, size int, order, sort string) (*Page, error) {
	offset := (page - 1) * size
	items, total, err := s.r.Catalog(ctx, order, sort, size, offset)
	if err != nil {
		return nil, err
	}
	lp := (total + int64(size) - 1) / int64(size)
	if lp < 1 {
		lp = 1
	}
	return &Page{Items: items, Total: total, Page: page, Size: size, LastPage: lp}, nil
}

func (s *service) Show(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Store(ctx context.Context, req model.StoreCategoryReq) (*model.Category, error) {
	c := &model.Category{Title: req.Title}
	if err := s.r.Insert(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, req model.UpdateCategoryReq) (*model.Category, error) {
	c := &model.Category{ID: req.ID, Title: req.Title}
	if err := s.r.Update(ctx, c, *req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Destroy(ctx context.Context, id int64) (int64, error) {
	books, err := s.r.Destroy(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	return books, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
