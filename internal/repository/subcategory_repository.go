package repository

import (
	"context"
	"fmt"
	"time"

	"inventory-catalog/internal/domain"
)

// SubcategoryRepository defines the interface for subcategory data access.
// Reads only ever see rows with is_deleted = FALSE and include the parent category.
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *domain.Subcategory) error
	FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Subcategory, error)
	List(ctx context.Context) ([]*domain.Subcategory, error)
	// ExistsByName reports whether a live subcategory of categoryID other than
	// excludeID has the same name, ignoring case and surrounding whitespace
	ExistsByName(ctx context.Context, categoryID int64, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, subcategory *domain.Subcategory) error
	SoftDelete(ctx context.Context, subcategory *domain.Subcategory) error
	// PurgeByCategory removes every subcategory row of a category. Rows still
	// referenced by a product row are soft-deleted at the given time instead.
	PurgeByCategory(ctx context.Context, categoryID int64, at time.Time) (removed, flagged int64, err error)
}

type subcategoryRepository struct {
	q Querier
}

// NewSubcategoryRepository creates a new instance of SubcategoryRepository
func NewSubcategoryRepository(q Querier) SubcategoryRepository {
	return &subcategoryRepository{q: q}
}

const subcategorySelect = `
		SELECT s.id, s.name, s.category_id, s.created_at, s.updated_at, s.is_deleted,
		       ` + categoryColumns + `
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		WHERE s.is_deleted = FALSE`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubcategory(row rowScanner) (*domain.Subcategory, error) {
	s := &domain.Subcategory{Category: &domain.Category{}}
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.CategoryID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.IsDeleted,
		&s.Category.ID,
		&s.Category.Name,
		&s.Category.CreatedAt,
		&s.Category.UpdatedAt,
		&s.Category.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new subcategory and stores the generated ID on it
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *domain.Subcategory) error {
	query := `
		INSERT INTO subcategories (name, category_id, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		subcategory.Name,
		subcategory.CategoryID,
		subcategory.CreatedAt,
		subcategory.UpdatedAt,
	).Scan(&subcategory.ID)
	if err != nil {
		return classify("create subcategory", err)
	}

	return nil
}

// FindByID retrieves a live subcategory with its category
func (r *subcategoryRepository) FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Subcategory, error) {
	query := subcategorySelect + ` AND s.id = $1` + lock.clause("s")

	subcategory, err := scanSubcategory(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("find subcategory by ID", err)
	}
	return subcategory, nil
}

// List retrieves all live subcategories with their categories
func (r *subcategoryRepository) List(ctx context.Context) ([]*domain.Subcategory, error) {
	query := subcategorySelect + ` ORDER BY s.id ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subcategories := []*domain.Subcategory{}
	for rows.Next() {
		subcategory, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, subcategory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subcategories, nil
}

func (r *subcategoryRepository) ExistsByName(ctx context.Context, categoryID int64, name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subcategories
			WHERE category_id = $1
			  AND LOWER(TRIM(name)) = LOWER(TRIM($2))
			  AND is_deleted = FALSE
			  AND id <> $3
		)
	`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, categoryID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subcategory name: %w", err)
	}
	return exists, nil
}

// Update writes the mutable fields of a live subcategory
func (r *subcategoryRepository) Update(ctx context.Context, subcategory *domain.Subcategory) error {
	query := `
		UPDATE subcategories
		SET name = $2, category_id = $3, updated_at = $4
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		subcategory.ID,
		subcategory.Name,
		subcategory.CategoryID,
		subcategory.UpdatedAt,
	)
	if err != nil {
		return classify("update subcategory", err)
	}
	return expectOneRow("update subcategory", result)
}

// SoftDelete flags a live subcategory as deleted with the subcategory's UpdatedAt
func (r *subcategoryRepository) SoftDelete(ctx context.Context, subcategory *domain.Subcategory) error {
	query := `
		UPDATE subcategories
		SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, subcategory.ID, subcategory.UpdatedAt)
	if err != nil {
		return classify("delete subcategory", err)
	}
	return expectOneRow("delete subcategory", result)
}

func (r *subcategoryRepository) PurgeByCategory(ctx context.Context, categoryID int64, at time.Time) (int64, int64, error) {
	deleteQuery := `
		DELETE FROM subcategories s
		WHERE s.category_id = $1
		  AND NOT EXISTS (SELECT 1 FROM products p WHERE p.subcategory_id = s.id)
	`

	result, err := r.q.ExecContext(ctx, deleteQuery, categoryID)
	if err != nil {
		return 0, 0, classify("remove subcategories", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rows affected for remove subcategories: %w", err)
	}

	// updated_at must strictly advance even when the clock lags the stored value
	flagQuery := `
		UPDATE subcategories
		SET is_deleted = TRUE,
		    updated_at = GREATEST($2::timestamptz, updated_at + INTERVAL '1 microsecond')
		WHERE category_id = $1 AND is_deleted = FALSE
	`

	result, err = r.q.ExecContext(ctx, flagQuery, categoryID, domain.StorageTime(at))
	if err != nil {
		return removed, 0, classify("flag subcategories", err)
	}
	flagged, err := result.RowsAffected()
	if err != nil {
		return removed, 0, fmt.Errorf("failed to get rows affected for flag subcategories: %w", err)
	}

	return removed, flagged, nil
}
