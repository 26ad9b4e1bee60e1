package repository

import (
	"context"
	"fmt"

	"inventory-catalog/internal/domain"
)

// CategoryRepository defines the interface for category data access.
// Reads only ever see rows with is_deleted = FALSE.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	// ExistsByName reports whether a live category other than excludeID has
	// the same name, ignoring case and surrounding whitespace
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, category *domain.Category) error
	SoftDelete(ctx context.Context, category *domain.Category) error
}

type categoryRepository struct {
	q Querier
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(q Querier) CategoryRepository {
	return &categoryRepository{q: q}
}

const categoryColumns = `c.id, c.name, c.created_at, c.updated_at, c.is_deleted`

// Create inserts a new category and stores the generated ID on it
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		category.Name,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		return classify("create category", err)
	}

	return nil
}

// FindByID retrieves a live category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.id = $1 AND c.is_deleted = FALSE` + lock.clause("c")

	category := &domain.Category{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.IsDeleted,
	)
	if err != nil {
		return nil, classify("find category by ID", err)
	}

	return category, nil
}

// List retrieves all live categories
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.is_deleted = FALSE
		ORDER BY c.id ASC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
			&category.IsDeleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE LOWER(TRIM(name)) = LOWER(TRIM($1))
			  AND is_deleted = FALSE
			  AND id <> $2
		)
	`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// Update writes the mutable fields of a live category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, updated_at = $3
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		return classify("update category", err)
	}
	return expectOneRow("update category", result)
}

// SoftDelete flags a live category as deleted with the category's UpdatedAt
func (r *categoryRepository) SoftDelete(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, category.ID, category.UpdatedAt)
	if err != nil {
		return classify("delete category", err)
	}
	return expectOneRow("delete category", result)
}
