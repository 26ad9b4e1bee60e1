package service

import (
	"context"
	"errors"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

// ProductFilter narrows product listings
type ProductFilter = repository.ProductFilter

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	base
}

// NewProductService creates a new instance of ProductService
func NewProductService(store repository.Store, clk clock.Clock, logger *zap.Logger) ProductService {
	return &productService{base: base{store: store, clock: clk, logger: logger}}
}

func (s *productService) translate(op string, id int64, in domain.ProductInput, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &domain.NotFoundError{Entity: domain.EntityProduct, ID: id}
	case errors.Is(err, repository.ErrForeignKeyViolation):
		if repository.ConstraintName(err) == repository.ConstraintProductSubcategory && in.SubcategoryID != nil {
			return &domain.MissingDependencyError{Entity: domain.EntityProduct, Field: "subcategoryId", ID: *in.SubcategoryID}
		}
		return &domain.MissingDependencyError{Entity: domain.EntityProduct, Field: "categoryId", ID: in.CategoryID}
	}
	return s.storageFailure(op, err)
}

// resolveReferences checks the category and optional subcategory of a product
// and returns them for display
func resolveReferences(ctx context.Context, repos repository.Repositories, in domain.ProductInput) (*domain.Category, *domain.Subcategory, error) {
	category, err := resolveCategory(ctx, repos, domain.EntityProduct, in.CategoryID)
	if err != nil {
		return nil, nil, err
	}
	if in.SubcategoryID == nil {
		return category, nil, nil
	}

	subcategory, err := resolveSubcategory(ctx, repos, domain.EntityProduct, *in.SubcategoryID)
	if err != nil {
		return nil, nil, err
	}
	if subcategory.CategoryID != in.CategoryID {
		return nil, nil, &domain.ValidationError{
			Entity: domain.EntityProduct,
			Fields: []domain.FieldError{{
				Field:   "subcategoryId",
				Message: "Subcategory does not belong to the selected category",
			}},
		}
	}
	subcategory.Category = nil
	return category, subcategory, nil
}

// Create inserts a product whose category and subcategory exist
func (s *productService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalize()

	var created *domain.Product
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		category, subcategory, err := resolveReferences(ctx, repos, in)
		if err != nil {
			return err
		}

		product := domain.NewProduct(in, s.clock.Now())
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		product.Category = category
		product.Subcategory = subcategory
		created = product
		return nil
	})
	if err != nil {
		return nil, s.translate("create product", 0, in, err)
	}

	return created, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.Repositories().Products.FindByID(ctx, id, repository.LockNone)
	if err != nil {
		return nil, s.translate("get product", id, domain.ProductInput{}, err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	products, err := s.store.Repositories().Products.List(ctx, filter)
	if err != nil {
		return nil, s.storageFailure("list products", err)
	}
	return products, nil
}

// Update replaces every mutable field, re-checking the references
func (s *productService) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalize()

	var updated *domain.Product
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		category, subcategory, err := resolveReferences(ctx, repos, in)
		if err != nil {
			return err
		}

		product.Apply(in, s.clock.Now())
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		product.Category = category
		product.Subcategory = subcategory
		updated = product
		return nil
	})
	if err != nil {
		return nil, s.translate("update product", id, in, err)
	}

	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		product.MarkDeleted(s.clock.Now())
		return repos.Products.SoftDelete(ctx, product)
	})
	if err != nil {
		return s.translate("delete product", id, domain.ProductInput{}, err)
	}
	return nil
}
