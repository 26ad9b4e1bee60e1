package service

import (
	"context"
	"errors"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
)

// resolveCategory loads a live parent category and share-locks it, so a
// concurrent category delete waits for the caller's transaction.
func resolveCategory(ctx context.Context, repos repository.Repositories, entity string, id int64) (*domain.Category, error) {
	category, err := repos.Categories.FindByID(ctx, id, repository.LockShare)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.MissingDependencyError{Entity: entity, Field: "categoryId", ID: id}
	}
	return category, err
}

// resolveSubcategory loads a live subcategory and share-locks it
func resolveSubcategory(ctx context.Context, repos repository.Repositories, entity string, id int64) (*domain.Subcategory, error) {
	subcategory, err := repos.Subcategories.FindByID(ctx, id, repository.LockShare)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.MissingDependencyError{Entity: entity, Field: "subcategoryId", ID: id}
	}
	return subcategory, err
}

// checkCategoryName fails with DuplicateError when another live category uses name
func checkCategoryName(ctx context.Context, repos repository.Repositories, name string, excludeID int64) error {
	taken, err := repos.Categories.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &domain.DuplicateError{Entity: domain.EntityCategory, Name: domain.NormalizeName(name)}
	}
	return nil
}

// checkSubcategoryName fails with DuplicateError when another live subcategory
// of the same category uses name
func checkSubcategoryName(ctx context.Context, repos repository.Repositories, categoryID int64, name string, excludeID int64) error {
	taken, err := repos.Subcategories.ExistsByName(ctx, categoryID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &domain.DuplicateError{Entity: domain.EntitySubcategory, Name: domain.NormalizeName(name), ScopeID: categoryID}
	}
	return nil
}

// isDomainError reports whether err already carries a domain meaning
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrValidation,
		domain.ErrDuplicate,
		domain.ErrMissingDependency,
		domain.ErrNotFound,
		domain.ErrConstraintViolation,
		domain.ErrStorage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
