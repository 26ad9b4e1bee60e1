package service

import (
	"context"
	"testing"
	"time"

	"inventory-catalog/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.category(t, "Electronics")
	s := env.subcategory(t, c.ID, "Phones")

	in := pixel(c.ID, &s.ID)
	in.Name = " Pixel 9 "
	in.SKU = ptr(" PX-9 ")
	in.Barcode = ptr("   ")

	p, err := env.catalog.Products.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Pixel 9", p.Name)
	require.NotNil(t, p.SKU)
	assert.Equal(t, "PX-9", *p.SKU)
	assert.Nil(t, p.Barcode)
	assert.True(t, p.CostPrice.Equal(decimal.RequireFromString("300")))
	assert.True(t, p.SalePrice.Equal(decimal.RequireFromString("450")))
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, epoch, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	require.NotNil(t, p.Category)
	assert.Equal(t, "Electronics", p.Category.Name)
	require.NotNil(t, p.Subcategory)
	assert.Equal(t, "Phones", p.Subcategory.Name)
}

func TestProductService_MissingCategoryWritesNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.catalog.Products.Create(ctx, pixel(9999, nil))
	var missing *domain.MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "categoryId", missing.Field)
	assert.Equal(t, int64(9999), missing.ID)

	list, err := env.catalog.Products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductService_MissingSubcategory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.category(t, "Electronics")
	s := env.subcategory(t, c.ID, "Phones")
	require.NoError(t, env.catalog.Subcategories.Delete(ctx, s.ID))

	for _, id := range []int64{s.ID, 777} {
		_, err := env.catalog.Products.Create(ctx, pixel(c.ID, ptr(id)))
		var missing *domain.MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "subcategoryId", missing.Field)
		assert.Equal(t, id, missing.ID)
	}
}

func TestProductService_SubcategoryMustBelongToCategory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.category(t, "Electronics")
	b := env.category(t, "Books")
	novels := env.subcategory(t, b.ID, "Novels")

	_, err := env.catalog.Products.Create(ctx, pixel(a.ID, &novels.ID))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "subcategoryId", verr.Fields[0].Field)

	list, err := env.catalog.Products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductService_InputValidation(t *testing.T) {
	env := newTestEnv(t)
	c := env.category(t, "Electronics")

	tests := []struct {
		name   string
		mutate func(*domain.ProductInput)
		field  string
	}{
		{"blank name", func(in *domain.ProductInput) { in.Name = "  " }, "name"},
		{"negative cost", func(in *domain.ProductInput) { in.CostPrice = decimal.RequireFromString("-1") }, "costPrice"},
		{"three decimals", func(in *domain.ProductInput) { in.SalePrice = decimal.RequireFromString("1.005") }, "salePrice"},
		{"too large", func(in *domain.ProductInput) { in.SalePrice = domain.MaxPrice }, "salePrice"},
		{"negative quantity", func(in *domain.ProductInput) { in.Quantity = -1 }, "quantity"},
		{"no category", func(in *domain.ProductInput) { in.CategoryID = 0 }, "categoryId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := pixel(c.ID, nil)
			tt.mutate(&in)

			_, err := env.catalog.Products.Create(context.Background(), in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestProductService_UpdateRevalidatesReferences(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	electronics := env.category(t, "Electronics")
	phones := env.subcategory(t, electronics.ID, "Phones")
	books := env.category(t, "Books")
	p := env.product(t, pixel(electronics.ID, &phones.ID))

	_, err := env.catalog.Products.Update(ctx, p.ID, pixel(9999, nil))
	assert.ErrorIs(t, err, domain.ErrMissingDependency)

	_, err = env.catalog.Products.Update(ctx, p.ID, pixel(books.ID, &phones.ID))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// failed updates leave the row as it was
	got, err := env.catalog.Products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, electronics.ID, got.CategoryID)
	assert.Equal(t, p.UpdatedAt, got.UpdatedAt)

	env.clock.Advance(time.Second)
	in := pixel(books.ID, nil)
	in.Quantity = 3
	updated, err := env.catalog.Products.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, books.ID, updated.CategoryID)
	assert.Nil(t, updated.SubcategoryID)
	assert.Nil(t, updated.Subcategory)
	assert.Equal(t, 3, updated.Quantity)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "Books", updated.Category.Name)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	_, err = env.catalog.Products.Update(ctx, 4242, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.category(t, "Electronics")
	p := env.product(t, pixel(c.ID, nil))

	require.NoError(t, env.catalog.Products.Delete(ctx, p.ID))

	_, err := env.catalog.Products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.catalog.Products.Delete(ctx, p.ID), domain.ErrNotFound)

	_, err = env.catalog.Products.Update(ctx, p.ID, pixel(c.ID, nil))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_ListFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	electronics := env.category(t, "Electronics")
	phones := env.subcategory(t, electronics.ID, "Phones")
	books := env.category(t, "Books")

	phone := env.product(t, pixel(electronics.ID, &phones.ID))
	cable := pixel(electronics.ID, nil)
	cable.Name = "Cable"
	env.product(t, cable)
	novel := pixel(books.ID, nil)
	novel.Name = "Novel"
	env.product(t, novel)

	all, err := env.catalog.Products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byCategory, err := env.catalog.Products.List(ctx, ProductFilter{CategoryID: electronics.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	bySubcategory, err := env.catalog.Products.List(ctx, ProductFilter{SubcategoryID: phones.ID})
	require.NoError(t, err)
	require.Len(t, bySubcategory, 1)
	assert.Equal(t, phone.ID, bySubcategory[0].ID)
	require.NotNil(t, bySubcategory[0].Subcategory)
	assert.Equal(t, "Phones", bySubcategory[0].Subcategory.Name)
}
