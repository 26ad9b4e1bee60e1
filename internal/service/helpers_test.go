package service

import (
	"context"
	"testing"
	"time"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/repository/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var epoch = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	catalog *Catalog
	clock   *clock.MockClock
	store   *memstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(epoch)
	return &testEnv{
		catalog: NewCatalog(store, clk, zap.NewNop()),
		clock:   clk,
		store:   store,
	}
}

func (e *testEnv) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := e.catalog.Categories.Create(context.Background(), domain.CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) subcategory(t *testing.T, categoryID int64, name string) *domain.Subcategory {
	t.Helper()
	s, err := e.catalog.Subcategories.Create(context.Background(), domain.SubcategoryInput{Name: name, CategoryID: categoryID})
	require.NoError(t, err)
	return s
}

func (e *testEnv) product(t *testing.T, in domain.ProductInput) *domain.Product {
	t.Helper()
	p, err := e.catalog.Products.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func pixel(categoryID int64, subcategoryID *int64) domain.ProductInput {
	return domain.ProductInput{
		Name:          "Pixel",
		CostPrice:     decimal.RequireFromString("300.00"),
		SalePrice:     decimal.RequireFromString("450.00"),
		Quantity:      10,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
	}
}

func ptr[T any](v T) *T { return &v }

// liveSubcategories counts the listed subcategories of a category
func liveSubcategories(t *testing.T, store repository.Store, categoryID int64) int {
	t.Helper()
	subs, err := store.Repositories().Subcategories.List(context.Background())
	require.NoError(t, err)
	n := 0
	for _, s := range subs {
		if s.CategoryID == categoryID {
			n++
		}
	}
	return n
}
