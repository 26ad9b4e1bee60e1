package repository

import (
	"context"
	"testing"
	"time"

	"inventory-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// Property: creating and reading back a product preserves every attribute
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	repos := NewStore(testDB).Repositories()
	category := mustCreateCategory(t, repos, uniqueName("Property"))
	subcategory := mustCreateSubcategory(t, repos, category.ID, uniqueName("Sub"))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, sku string, costCents int64, saleCents int64, quantity int, withSub bool) bool {
			ctx := context.Background()

			in := domain.ProductInput{
				Name:       name,
				SKU:        &sku,
				CostPrice:  decimal.New(costCents, -2),
				SalePrice:  decimal.New(saleCents, -2),
				Quantity:   quantity,
				CategoryID: category.ID,
			}
			if withSub {
				in.SubcategoryID = &subcategory.ID
			}

			product := domain.NewProduct(in, time.Now())
			if err := repos.Products.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			found, err := repos.Products.FindByID(ctx, product.ID, LockNone)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if found.Name != product.Name || found.Quantity != quantity {
				t.Logf("FAIL: scalar mismatch: %+v vs %+v", found, product)
				return false
			}
			if found.SKU == nil || *found.SKU != sku {
				t.Logf("FAIL: sku mismatch")
				return false
			}
			if !found.CostPrice.Equal(product.CostPrice) || !found.SalePrice.Equal(product.SalePrice) {
				t.Logf("FAIL: price mismatch: %s/%s vs %s/%s",
					found.CostPrice, found.SalePrice, product.CostPrice, product.SalePrice)
				return false
			}
			if found.Category == nil || found.Category.ID != category.ID {
				t.Logf("FAIL: category not joined")
				return false
			}
			if withSub != (found.Subcategory != nil) {
				t.Logf("FAIL: subcategory join mismatch")
				return false
			}
			return found.CreatedAt.Equal(product.CreatedAt) && found.UpdatedAt.Equal(product.UpdatedAt)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= 255 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= 50 }),
		gen.Int64Range(0, 9_999_999_999),
		gen.Int64Range(0, 9_999_999_999),
		gen.IntRange(0, 100000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProductRepository_OptionalFieldsRoundTripAsNull(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()
	c := mustCreateCategory(t, repos, uniqueName("Bare"))

	p := domain.NewProduct(domain.ProductInput{Name: "Widget", CategoryID: c.ID}, time.Now())
	require.NoError(t, repos.Products.Create(ctx, p))

	found, err := repos.Products.FindByID(ctx, p.ID, LockNone)
	require.NoError(t, err)
	assert.Nil(t, found.SKU)
	assert.Nil(t, found.Barcode)
	assert.Nil(t, found.Description)
	assert.Nil(t, found.SubcategoryID)
	assert.Nil(t, found.Subcategory)
	assert.True(t, found.CostPrice.IsZero())
}

func TestProductRepository_UnknownReferencesViolateForeignKeys(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()

	p := domain.NewProduct(domain.ProductInput{Name: "Ghost", CategoryID: 987654321}, time.Now())
	assert.ErrorIs(t, repos.Products.Create(ctx, p), ErrForeignKeyViolation)

	c := mustCreateCategory(t, repos, uniqueName("Real"))
	p = domain.NewProduct(domain.ProductInput{Name: "Ghost", CategoryID: c.ID, SubcategoryID: ptr(int64(987654321))}, time.Now())
	assert.ErrorIs(t, repos.Products.Create(ctx, p), ErrForeignKeyViolation)
}

func TestProductRepository_NegativeQuantityViolatesCheck(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()
	c := mustCreateCategory(t, repos, uniqueName("Check"))

	p := domain.NewProduct(domain.ProductInput{Name: "Broken", CategoryID: c.ID}, time.Now())
	p.Quantity = -1
	assert.ErrorIs(t, repos.Products.Create(ctx, p), ErrCheckViolation)
}

func TestProductRepository_UpdateAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()
	c := mustCreateCategory(t, repos, uniqueName("Electronics"))
	s := mustCreateSubcategory(t, repos, c.ID, "Phones")

	p := domain.NewProduct(domain.ProductInput{
		Name:       "Pixel",
		CostPrice:  decimal.RequireFromString("300"),
		SalePrice:  decimal.RequireFromString("450"),
		Quantity:   10,
		CategoryID: c.ID,
	}, time.Now())
	require.NoError(t, repos.Products.Create(ctx, p))

	p.Apply(domain.ProductInput{
		Name:          "Pixel 9",
		Barcode:       ptr("0123456789012"),
		CostPrice:     decimal.RequireFromString("310.50"),
		SalePrice:     decimal.RequireFromString("459.99"),
		Quantity:      8,
		CategoryID:    c.ID,
		SubcategoryID: &s.ID,
	}, time.Now())
	require.NoError(t, repos.Products.Update(ctx, p))

	found, err := repos.Products.FindByID(ctx, p.ID, LockUpdate)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 9", found.Name)
	assert.Equal(t, "459.99", found.SalePrice.StringFixed(2))
	require.NotNil(t, found.Subcategory)
	assert.Equal(t, "Phones", found.Subcategory.Name)

	p.MarkDeleted(time.Now())
	require.NoError(t, repos.Products.SoftDelete(ctx, p))
	_, err = repos.Products.FindByID(ctx, p.ID, LockNone)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repos.Products.Update(ctx, p), ErrNotFound)
}

func TestProductRepository_ListFiltersAndExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()
	c := mustCreateCategory(t, repos, uniqueName("Listing"))
	s := mustCreateSubcategory(t, repos, c.ID, "Phones")

	live := domain.NewProduct(domain.ProductInput{Name: "Live", CategoryID: c.ID, SubcategoryID: &s.ID}, time.Now())
	gone := domain.NewProduct(domain.ProductInput{Name: "Gone", CategoryID: c.ID}, time.Now())
	require.NoError(t, repos.Products.Create(ctx, live))
	require.NoError(t, repos.Products.Create(ctx, gone))
	gone.MarkDeleted(time.Now())
	require.NoError(t, repos.Products.SoftDelete(ctx, gone))

	byCategory, err := repos.Products.List(ctx, ProductFilter{CategoryID: c.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, live.ID, byCategory[0].ID)

	bySub, err := repos.Products.List(ctx, ProductFilter{CategoryID: c.ID, SubcategoryID: s.ID})
	require.NoError(t, err)
	require.Len(t, bySub, 1)

	all, err := repos.Products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	for _, p := range all {
		assert.False(t, p.IsDeleted)
		assert.NotEqual(t, gone.ID, p.ID)
	}
}

func TestProductRepository_ExistsActiveByCategory(t *testing.T) {
	ctx := context.Background()
	repos := NewStore(testDB).Repositories()
	c := mustCreateCategory(t, repos, uniqueName("Guarded"))
	s := mustCreateSubcategory(t, repos, c.ID, "Phones")

	inUse, err := repos.Products.ExistsActiveByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	p := domain.NewProduct(domain.ProductInput{Name: "Pixel", CategoryID: c.ID, SubcategoryID: &s.ID}, time.Now())
	require.NoError(t, repos.Products.Create(ctx, p))

	inUse, err = repos.Products.ExistsActiveByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	p.MarkDeleted(time.Now())
	require.NoError(t, repos.Products.SoftDelete(ctx, p))

	inUse, err = repos.Products.ExistsActiveByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}
