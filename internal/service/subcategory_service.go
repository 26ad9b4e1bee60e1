package service

import (
	"context"
	"errors"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

// SubcategoryService defines the interface for subcategory business logic
type SubcategoryService interface {
	Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error)
	Get(ctx context.Context, id int64) (*domain.Subcategory, error)
	List(ctx context.Context) ([]*domain.Subcategory, error)
	// Update renames a subcategory and may move it under another live category
	Update(ctx context.Context, id int64, in domain.SubcategoryInput) (*domain.Subcategory, error)
	Delete(ctx context.Context, id int64) error
}

type subcategoryService struct {
	base
}

// NewSubcategoryService creates a new instance of SubcategoryService
func NewSubcategoryService(store repository.Store, clk clock.Clock, logger *zap.Logger) SubcategoryService {
	return &subcategoryService{base: base{store: store, clock: clk, logger: logger}}
}

func (s *subcategoryService) translate(op string, id int64, in domain.SubcategoryInput, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &domain.NotFoundError{Entity: domain.EntitySubcategory, ID: id}
	case errors.Is(err, repository.ErrUniqueViolation):
		return &domain.DuplicateError{
			Entity:  domain.EntitySubcategory,
			Name:    domain.NormalizeName(in.Name),
			ScopeID: in.CategoryID,
		}
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &domain.MissingDependencyError{Entity: domain.EntitySubcategory, Field: "categoryId", ID: in.CategoryID}
	}
	return s.storageFailure(op, err)
}

// Create inserts a subcategory under a live category, unique by name within it
func (s *subcategoryService) Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Subcategory
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		parent, err := resolveCategory(ctx, repos, domain.EntitySubcategory, in.CategoryID)
		if err != nil {
			return err
		}

		if err := checkSubcategoryName(ctx, repos, in.CategoryID, in.Name, 0); err != nil {
			return err
		}

		subcategory := domain.NewSubcategory(in, s.clock.Now())
		if err := repos.Subcategories.Create(ctx, subcategory); err != nil {
			return err
		}
		subcategory.Category = parent
		created = subcategory
		return nil
	})
	if err != nil {
		return nil, s.translate("create subcategory", 0, in, err)
	}

	return created, nil
}

func (s *subcategoryService) Get(ctx context.Context, id int64) (*domain.Subcategory, error) {
	subcategory, err := s.store.Repositories().Subcategories.FindByID(ctx, id, repository.LockNone)
	if err != nil {
		return nil, s.translate("get subcategory", id, domain.SubcategoryInput{}, err)
	}
	return subcategory, nil
}

func (s *subcategoryService) List(ctx context.Context) ([]*domain.Subcategory, error) {
	subcategories, err := s.store.Repositories().Subcategories.List(ctx)
	if err != nil {
		return nil, s.storageFailure("list subcategories", err)
	}
	return subcategories, nil
}

func (s *subcategoryService) Update(ctx context.Context, id int64, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Subcategory
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		subcategory, err := repos.Subcategories.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		parent, err := resolveCategory(ctx, repos, domain.EntitySubcategory, in.CategoryID)
		if err != nil {
			return err
		}

		// products keep their category, so a used subcategory cannot change parent
		if in.CategoryID != subcategory.CategoryID {
			products, err := repos.Products.List(ctx, repository.ProductFilter{SubcategoryID: id})
			if err != nil {
				return err
			}
			if len(products) > 0 {
				return &domain.ValidationError{
					Entity: domain.EntitySubcategory,
					Fields: []domain.FieldError{{
						Field:   "categoryId",
						Message: "Subcategory is used by products of its current category",
					}},
				}
			}
		}

		if err := checkSubcategoryName(ctx, repos, in.CategoryID, in.Name, id); err != nil {
			return err
		}

		subcategory.Apply(in, s.clock.Now())
		if err := repos.Subcategories.Update(ctx, subcategory); err != nil {
			return err
		}
		subcategory.Category = parent
		updated = subcategory
		return nil
	})
	if err != nil {
		return nil, s.translate("update subcategory", id, in, err)
	}

	return updated, nil
}

// Delete soft-deletes a subcategory. Products that reference it keep the reference.
func (s *subcategoryService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		subcategory, err := repos.Subcategories.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		subcategory.MarkDeleted(s.clock.Now())
		return repos.Subcategories.SoftDelete(ctx, subcategory)
	})
	if err != nil {
		return s.translate("delete subcategory", id, domain.SubcategoryInput{}, err)
	}
	return nil
}
