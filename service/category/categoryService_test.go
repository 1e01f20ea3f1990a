package categorysvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type repoMock struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Category, error)
	catalogFn  func(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error)
	insertFn   func(ctx context.Context, c *model.Category) error
	updateFn   func(ctx context.Context, c *model.Category, status bool) error
	destroyFn  func(ctx context.Context, id int64) (int64, error)
}

func (m *repoMock) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	return m.findByIDFn(ctx, id)
}
func (m *repoMock) Catalog(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error) {
	return m.catalogFn(ctx, order, sort, limit, offset)
}
func (m *repoMock) Insert(ctx context.Context, c *model.Category) error { return m.insertFn(ctx, c) }
func (m *repoMock) Update(ctx context.Context, c *model.Category, status bool) error {
	return m.updateFn(ctx, c, status)
}
func (m *repoMock) Destroy(ctx context.Context, id int64) (int64, error) {
	return m.destroyFn(ctx, id)
}

func TestShow_NotFound(t *testing.T) {
	s := New(&repoMock{findByIDFn: func(ctx context.Context, id int64) (*model.Category, error) {
		return nil, sql.ErrNoRows
	}})

	_, err := s.Show(context.Background(), 99)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestStore_DuplicateTitle(t *testing.T) {
	s := New(&repoMock{insertFn: func(ctx context.Context, c *model.Category) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "categories_title_uq"}
	}})

	_, err := s.Store(context.Background(), model.StoreCategoryReq{Title: "Novela"})
	require.Equal(t, ErrDuplicate, Code(err))
}

func TestUpdate_NotFound(t *testing.T) {
	s := New(&repoMock{updateFn: func(ctx context.Context, c *model.Category, status bool) error {
		return sql.ErrNoRows
	}})

	status := true
	_, err := s.Update(context.Background(), model.UpdateCategoryReq{ID: 99, Title: "Novela", Status: &status})
	require.Equal(t, ErrNotFound, Code(err))
}

func TestDestroy_ReportsCascadedBooks(t *testing.T) {
	s := New(&repoMock{destroyFn: func(ctx context.Context, id int64) (int64, error) {
		require.Equal(t, int64(4), id)
		return 7, nil
	}})

	books, err := s.Destroy(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(7), books)
}

func TestCatalog_LastPageNeverZero(t *testing.T) {
	s := New(&repoMock{catalogFn: func(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error) {
		return nil, 0, nil
	}})

	page, err := s.Catalog(context.Background(), 1, 10, "title", "asc")
	require.NoError(t, err)
	require.Equal(t, int64(1), page.LastPage)
}
