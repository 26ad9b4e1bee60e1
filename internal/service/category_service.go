package service

import (
	"context"
	"errors"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	// Delete soft-deletes a category that no live product uses and removes its subcategories
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	base
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(store repository.Store, clk clock.Clock, logger *zap.Logger) CategoryService {
	return &categoryService{base: base{store: store, clock: clk, logger: logger}}
}

func (s *categoryService) translate(op string, id int64, name string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &domain.NotFoundError{Entity: domain.EntityCategory, ID: id}
	case errors.Is(err, repository.ErrUniqueViolation):
		return &domain.DuplicateError{Entity: domain.EntityCategory, Name: domain.NormalizeName(name)}
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &domain.ConstraintViolationError{
			Entity: domain.EntityCategory,
			ID:     id,
			Reason: "category is still referenced by products",
		}
	}
	return s.storageFailure(op, err)
}

// Create validates the input and inserts a category with a unique name
func (s *categoryService) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Category
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		if err := checkCategoryName(ctx, repos, in.Name, 0); err != nil {
			return err
		}

		category := domain.NewCategory(in, s.clock.Now())
		if err := repos.Categories.Create(ctx, category); err != nil {
			return err
		}
		created = category
		return nil
	})
	if err != nil {
		return nil, s.translate("create category", 0, in.Name, err)
	}

	return created, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.store.Repositories().Categories.FindByID(ctx, id, repository.LockNone)
	if err != nil {
		return nil, s.translate("get category", id, "", err)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.Repositories().Categories.List(ctx)
	if err != nil {
		return nil, s.storageFailure("list categories", err)
	}
	return categories, nil
}

// Update renames a live category
func (s *categoryService) Update(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Category
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		category, err := repos.Categories.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		if err := checkCategoryName(ctx, repos, in.Name, id); err != nil {
			return err
		}

		category.Apply(in, s.clock.Now())
		if err := repos.Categories.Update(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, s.translate("update category", id, in.Name, err)
	}

	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	var removed, flagged int64
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		category, err := repos.Categories.FindByID(ctx, id, repository.LockUpdate)
		if err != nil {
			return err
		}

		inUse, err := repos.Products.ExistsActiveByCategory(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return &domain.ConstraintViolationError{
				Entity: domain.EntityCategory,
				ID:     id,
				Reason: "category is in use by active products",
			}
		}

		now := s.clock.Now()
		removed, flagged, err = repos.Subcategories.PurgeByCategory(ctx, id, now)
		if err != nil {
			return err
		}

		category.MarkDeleted(now)
		return repos.Categories.SoftDelete(ctx, category)
	})
	if err != nil {
		return s.translate("delete category", id, "", err)
	}

	s.logger.Info("Category deleted",
		zap.Int64("category_id", id),
		zap.Int64("subcategories_removed", removed),
		zap.Int64("subcategories_flagged", flagged),
	)
	return nil
}
