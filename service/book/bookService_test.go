package booksvc_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/SuperarseTics/library-superarse-backend/model"
	bookrepo "github.com/SuperarseTics/library-superarse-backend/repository/book"
	booksvc "github.com/SuperarseTics/library-superarse-backend/service/book"
)

type repoMock struct {
	findByCodeFn   func(ctx context.Context, code string) (*model.Book, error)
	findByIDFn     func(ctx context.Context, id int64) (*model.Book, error)
	insertFn       func(ctx context.Context, b *model.Book) error
	updateFn       func(ctx context.Context, b *model.Book, status bool) error
	softDeleteFn   func(ctx context.Context, code string) (int64, error)
	catalogFn      func(ctx context.Context, f bookrepo.Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error)
	allForExportFn func(ctx context.Context, f bookrepo.Filters) ([]model.CatalogRow, error)
	authorsFn      func(ctx context.Context) ([]string, error)
	yearsFn        func(ctx context.Context) ([]int, error)
	catTitlesFn    func(ctx context.Context) ([]string, error)
}

func (m *repoMock) FindByCode(ctx context.Context, code string) (*model.Book, error) {
	return m.findByCodeFn(ctx, code)
}
func (m *repoMock) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.findByIDFn(ctx, id)
}
func (m *repoMock) Insert(ctx context.Context, b *model.Book) error { return m.insertFn(ctx, b) }
func (m *repoMock) Update(ctx context.Context, b *model.Book, status bool) error {
	return m.updateFn(ctx, b, status)
}
func (m *repoMock) SoftDeleteByCode(ctx context.Context, code string) (int64, error) {
	return m.softDeleteFn(ctx, code)
}
func (m *repoMock) Catalog(ctx context.Context, f bookrepo.Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error) {
	return m.catalogFn(ctx, f, order, sort, limit, offset)
}
func (m *repoMock) AllForExport(ctx context.Context, f bookrepo.Filters) ([]model.CatalogRow, error) {
	return m.allForExportFn(ctx, f)
}
func (m *repoMock) Authors(ctx context.Context) ([]string, error)        { return m.authorsFn(ctx) }
func (m *repoMock) PublicationYears(ctx context.Context) ([]int, error)  { return m.yearsFn(ctx) }
func (m *repoMock) CategoryTitles(ctx context.Context) ([]string, error) { return m.catTitlesFn(ctx) }

type checkerMock struct {
	exists bool
	err    error
}

func (m *checkerMock) ExistsActive(ctx context.Context, id int64) (bool, error) {
	return m.exists, m.err
}

func validStoreReq() model.StoreBookReq {
	return model.StoreBookReq{
		CategoryID:  1,
		Code:        "LIB-001",
		Title:       "El Quijote",
		Author:      "Cervantes",
		Publication: 1605,
		Edition:     "1a",
		Synopsis:    "Un hidalgo pierde el juicio.",
		Stock:       3,
	}
}

func TestShow_NotFound(t *testing.T) {
	r := &repoMock{findByCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	_, err := s.Show(context.Background(), "LIB-404")
	require.Equal(t, booksvc.ErrNotFound, booksvc.Code(err))
}

func TestStore_CategoryMissing(t *testing.T) {
	s := booksvc.New(&repoMock{}, &checkerMock{exists: false})

	_, err := s.Store(context.Background(), validStoreReq())
	require.Equal(t, booksvc.ErrCategoryNotFound, booksvc.Code(err))
}

func TestStore_DuplicateCode(t *testing.T) {
	r := &repoMock{insertFn: func(ctx context.Context, b *model.Book) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_code_uq"}
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	_, err := s.Store(context.Background(), validStoreReq())
	require.Equal(t, booksvc.ErrDuplicate, booksvc.Code(err))
}

func TestStore_NonPgUniqueMessageIsNotDuplicate(t *testing.T) {
	// only a pgconn unique-violation code maps to DUPLICATE; a plain error
	// that merely mentions the word must surface as-is
	insertErr := errors.New("connection reset while checking unique index")
	r := &repoMock{insertFn: func(ctx context.Context, b *model.Book) error {
		return insertErr
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	_, err := s.Store(context.Background(), validStoreReq())
	require.ErrorIs(t, err, insertErr)
	require.NotEqual(t, booksvc.ErrDuplicate, booksvc.Code(err))
}

func TestStore_Success(t *testing.T) {
	r := &repoMock{insertFn: func(ctx context.Context, b *model.Book) error {
		b.ID = 42
		return nil
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	b, err := s.Store(context.Background(), validStoreReq())
	require.NoError(t, err)
	require.Equal(t, int64(42), b.ID)
	require.Equal(t, "LIB-001", b.Code)
}

func TestDestroy_NotFound(t *testing.T) {
	r := &repoMock{softDeleteFn: func(ctx context.Context, code string) (int64, error) {
		return 0, nil
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	err := s.Destroy(context.Background(), "LIB-404")
	require.Equal(t, booksvc.ErrNotFound, booksvc.Code(err))
}

func TestCatalog_PagingMath(t *testing.T) {
	r := &repoMock{catalogFn: func(ctx context.Context, f bookrepo.Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error) {
		require.Equal(t, 10, limit)
		require.Equal(t, 20, offset)
		require.Equal(t, "title", order)
		return make([]model.CatalogRow, 10), 25, nil
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	page, err := s.Catalog(context.Background(), model.CatalogReq{
		Page: 3, Size: 10, Order: "title", Sort: "asc",
	})
	require.NoError(t, err)
	require.Equal(t, int64(25), page.Total)
	require.Equal(t, int64(3), page.LastPage)
}

func exportRow(category, code, title string, stock int64, active bool) model.CatalogRow {
	return model.CatalogRow{
		Book: model.Book{
			Code: code, Title: title, Author: "Cervantes",
			Publication: 1605, Edition: "1a", Stock: stock, Status: active,
		},
		CategoryTitle: category,
	}
}

func TestDownload_CSVFormat(t *testing.T) {
	r := &repoMock{allForExportFn: func(ctx context.Context, f bookrepo.Filters) ([]model.CatalogRow, error) {
		return []model.CatalogRow{
			exportRow("Novela", "LIB-001", "El Quijote", 3, true),
			exportRow("Poesía", "LIB-002", "Veinte poemas", 0, false),
		}, nil
	}}
	s := booksvc.New(r, &checkerMock{exists: true})

	export, err := s.Download(context.Background(), bookrepo.Filters{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(export.FileName, "catalogo_libros_"))
	require.True(t, strings.HasSuffix(export.FileName, ".csv"))

	content := string(export.Content)
	require.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "missing UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "CATEGORY;CODE;TITLE;AUTHOR;PUBLICATION;EDITION;STOCK;STATUS", lines[0])
	require.Equal(t, "Novela;LIB-001;El Quijote;Cervantes;1605;1a;3;Active", lines[1])
	require.Equal(t, "Poesía;LIB-002;Veinte poemas;Cervantes;1605;1a;0;Inactive", lines[2])
}

func TestFilter_CollectsDistincts(t *testing.T) {
	r := &repoMock{
		authorsFn:   func(ctx context.Context) ([]string, error) { return []string{"Cervantes"}, nil },
		yearsFn:     func(ctx context.Context) ([]int, error) { return []int{1605, 1985}, nil },
		catTitlesFn: func(ctx context.Context) ([]string, error) { return []string{"Novela"}, nil },
	}
	s := booksvc.New(r, &checkerMock{exists: true})

	opts, err := s.Filter(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Cervantes"}, opts.Authors)
	require.Equal(t, []int{1605, 1985}, opts.Publication)
	require.Equal(t, []string{"Novela"}, opts.Categories)
}
