package service

import (
	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

// Catalog groups the entity services that share one store and consistency policy
type Catalog struct {
	Categories    CategoryService
	Subcategories SubcategoryService
	Products      ProductService
}

// NewCatalog wires the catalog services to a store
func NewCatalog(store repository.Store, clk clock.Clock, logger *zap.Logger) *Catalog {
	return &Catalog{
		Categories:    NewCategoryService(store, clk, logger),
		Subcategories: NewSubcategoryService(store, clk, logger),
		Products:      NewProductService(store, clk, logger),
	}
}

// base holds what every catalog service needs
type base struct {
	store  repository.Store
	clock  clock.Clock
	logger *zap.Logger
}

// storageFailure wraps an error with no domain meaning and logs it. Errors
// that already carry a domain meaning pass through.
func (b base) storageFailure(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	b.logger.Error("Catalog storage operation failed",
		zap.String("op", op),
		zap.Error(err),
	)
	return &domain.StorageError{Op: op, Err: err}
}
