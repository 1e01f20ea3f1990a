package booksvc

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SuperarseTics/library-superarse-backend/model"
	bookrepo "github.com/SuperarseTics/library-superarse-backend/repository/book"
)

type ErrCode string

const (
	ErrNotFound         ErrCode = "BOOK_NOT_FOUND"
	ErrCategoryNotFound ErrCode = "CATEGORY_NOT_FOUND"
	ErrDuplicate        ErrCode = "DUPLICATE"
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

// FilterOptions is the distinct-values payload behind GET /books/filter.
type FilterOptions struct {
	Authors     []string `json:"authors"`
	Publication []int    `json:"publication"`
	Categories  []string `json:"categories"`
}

// Page wraps a catalog listing with pagination totals.
type Page struct {
	Items    []model.CatalogRow `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
	LastPage int64              `json:"last_page"`
}

// Export is a rendered CSV catalog download.
type Export struct {
	FileName string
	Content  []byte
}

type Repo interface {
	FindByCode(ctx context.Context, code string) (*model.Book, error)
	FindByID(ctx context.Context, id int64) (*model.Book, error)
	Insert(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book, status bool) error
	SoftDeleteByCode(ctx context.Context, code string) (int64, error)
	Catalog(ctx context.Context, f bookrepo.Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error)
	AllForExport(ctx context.Context, f bookrepo.Filters) ([]model.CatalogRow, error)
	Authors(ctx context.Context) ([]string, error)
	PublicationYears(ctx context.Context) ([]int, error)
	CategoryTitles(ctx context.Context) ([]string, error)
}

type CategoryChecker interface {
	ExistsActive(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Filter(ctx context.Context) (*FilterOptions, error)
	Catalog(ctx context.Context, req model.CatalogReq) (*Page, error)
	Show(ctx context.Context, code string) (*model.Book, error)
	Store(ctx context.Context, req model.StoreBookReq) (*model.Book, error)
	Update(ctx context.Context, req model.UpdateBookReq) (*model.Book, error)
	Destroy(ctx context.Context, code string) error
	Download(ctx context.Context, f bookrepo.Filters) (*Export, error)
}

type service struct {
	r  Repo
	cc CategoryChecker
}

func New(r Repo, cc CategoryChecker) Service { return &service{r: r, cc: cc} }

func (s *service) Filter(ctx context.Context) (*FilterOptions, error) {
	authors, err := s.r.Authors(ctx)
	if err != nil {
		return nil, err
	}
	years, err := s.r.PublicationYears(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.r.CategoryTitles(ctx)
	if err != nil {
		return nil, err
	}
	return &FilterOptions{Authors: authors, Publication: years, Categories: categories}, nil
}

func (s *service) Catalog(ctx context.Context, req model.CatalogReq) (*Page, error) {
	f := bookrepo.Filters{
		Category:    req.FCategory,
		Author:      req.FAuthor,
		Title:       req.FTitle,
		Publication: req.FPublication,
	}
	offset := (req.Page - 1) * req.Size
	items, total, err := s.r.Catalog(ctx, f, req.Order, req.Sort, req.Size, offset)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		Size:     req.Size,
		LastPage: lastPage(total, req.Size),
	}, nil
}

func lastPage(total int64, size int) int64 {
	if size <= 0 {
		return 1
	}
	lp := (total + int64(size) - 1) / int64(size)
	if lp < 1 {
		lp = 1
	}
	return lp
}

func (s *service) Show(ctx context.Context, code string) (*model.Book, error) {
	b, err := s.r.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Store(ctx context.Context, req model.StoreBookReq) (*model.Book, error) {
	ok, err := s.cc.ExistsActive(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrCategoryNotFound)
	}

	b := &model.Book{
		CategoryID:  req.CategoryID,
		Code:        req.Code,
		Title:       req.Title,
		Author:      req.Author,
		Publication: req.Publication,
		Edition:     req.Edition,
		Synopsis:    req.Synopsis,
		Stock:       req.Stock,
	}
	if err := s.r.Insert(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, req model.UpdateBookReq) (*model.Book, error) {
	ok, err := s.cc.ExistsActive(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrCategoryNotFound)
	}

	b := &model.Book{
		ID:          req.ID,
		CategoryID:  req.CategoryID,
		Code:        req.Code,
		Title:       req.Title,
		Author:      req.Author,
		Publication: req.Publication,
		Edition:     req.Edition,
		Synopsis:    req.Synopsis,
		Stock:       req.Stock,
	}
	if err := s.r.Update(ctx, b, *req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Destroy(ctx context.Context, code string) error {
	aff, err := s.r.SoftDeleteByCode(ctx, code)
	if err != nil {
		return err
	}
	if aff == 0 {
		return makeErr(ErrNotFound)
	}
	return nil
}

var exportHeader = []string{"CATEGORY", "CODE", "TITLE", "AUTHOR", "PUBLICATION", "EDITION", "STOCK", "STATUS"}

// Download renders the filtered catalog as a semicolon-delimited CSV with a
// UTF-8 BOM so spreadsheet imports keep accents intact.
func (s *service) Download(ctx context.Context, f bookrepo.Filters) (*Export, error) {
	rows, err := s.r.AllForExport(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		status := "Inactive"
		if row.Status {
			status = "Active"
		}
		rec := []string{
			row.CategoryTitle,
			row.Code,
			row.Title,
			row.Author,
			strconv.Itoa(row.Publication),
			row.Edition,
			strconv.FormatInt(row.Stock, 10),
			status,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("catalogo_libros_%s.csv", time.Now().Format("20060102150405"))
	return &Export{FileName: name, Content: buf.Bytes()}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
