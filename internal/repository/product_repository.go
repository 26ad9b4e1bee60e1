package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"inventory-catalog/internal/domain"
)

// ProductFilter narrows List. Zero values mean no filter.
type ProductFilter struct {
	CategoryID    int64
	SubcategoryID int64
}

// ProductRepository defines the interface for product data access.
// Reads only ever see rows with is_deleted = FALSE and include live parents.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// ExistsActiveByCategory reports whether a live product references the
	// category directly or through one of its subcategories
	ExistsActiveByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type productRepository struct {
	q Querier
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(q Querier) ProductRepository {
	return &productRepository{q: q}
}

const productSelect = `
		SELECT p.id, p.name, p.sku, p.barcode, p.description, p.cost_price, p.sale_price,
		       p.quantity, p.category_id, p.subcategory_id, p.created_at, p.updated_at, p.is_deleted,
		       c.id, c.name, c.created_at, c.updated_at,
		       s.id, s.name, s.category_id, s.created_at, s.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id AND c.is_deleted = FALSE
		LEFT JOIN subcategories s ON s.id = p.subcategory_id AND s.is_deleted = FALSE
		WHERE p.is_deleted = FALSE`

// joinedParent holds the nullable columns of a LEFT JOIN
type joinedParent struct {
	id         sql.NullInt64
	name       sql.NullString
	categoryID sql.NullInt64
	createdAt  sql.NullTime
	updatedAt  sql.NullTime
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var cat, sub joinedParent
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.Barcode,
		&p.Description,
		&p.CostPrice,
		&p.SalePrice,
		&p.Quantity,
		&p.CategoryID,
		&p.SubcategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.IsDeleted,
		&cat.id, &cat.name, &cat.createdAt, &cat.updatedAt,
		&sub.id, &sub.name, &sub.categoryID, &sub.createdAt, &sub.updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cat.id.Valid {
		p.Category = &domain.Category{
			ID:    cat.id.Int64,
			Name:  cat.name.String,
			Audit: domain.Audit{CreatedAt: cat.createdAt.Time, UpdatedAt: cat.updatedAt.Time},
		}
	}
	if sub.id.Valid {
		p.Subcategory = &domain.Subcategory{
			ID:         sub.id.Int64,
			Name:       sub.name.String,
			CategoryID: sub.categoryID.Int64,
			Audit:      domain.Audit{CreatedAt: sub.createdAt.Time, UpdatedAt: sub.updatedAt.Time},
		}
	}
	return p, nil
}

// Create inserts a new product and stores the generated ID on it
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, sku, barcode, description, cost_price, sale_price,
		                      quantity, category_id, subcategory_id, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		product.Name,
		product.SKU,
		product.Barcode,
		product.Description,
		product.CostPrice,
		product.SalePrice,
		product.Quantity,
		product.CategoryID,
		product.SubcategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return classify("create product", err)
	}

	return nil
}

// Update replaces every mutable field of a live product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, sku = $3, barcode = $4, description = $5, cost_price = $6,
		    sale_price = $7, quantity = $8, category_id = $9, subcategory_id = $10, updated_at = $11
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.SKU,
		product.Barcode,
		product.Description,
		product.CostPrice,
		product.SalePrice,
		product.Quantity,
		product.CategoryID,
		product.SubcategoryID,
		product.UpdatedAt,
	)
	if err != nil {
		return classify("update product", err)
	}
	return expectOneRow("update product", result)
}

// SoftDelete flags a live product as deleted with the product's UpdatedAt
func (r *productRepository) SoftDelete(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, product.ID, product.UpdatedAt)
	if err != nil {
		return classify("delete product", err)
	}
	return expectOneRow("delete product", result)
}

// FindByID retrieves a live product with its category and subcategory
func (r *productRepository) FindByID(ctx context.Context, id int64, lock LockMode) (*domain.Product, error) {
	query := productSelect + ` AND p.id = $1` + lock.clause("p")

	product, err := scanProduct(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("find product by ID", err)
	}
	return product, nil
}

// List retrieves live products, optionally filtered by category or subcategory
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.SubcategoryID > 0 {
		args = append(args, filter.SubcategoryID)
		conditions = append(conditions, fmt.Sprintf("p.subcategory_id = $%d", len(args)))
	}

	query := productSelect
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.id ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) ExistsActiveByCategory(ctx context.Context, categoryID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products p
			WHERE p.is_deleted = FALSE
			  AND (p.category_id = $1
			       OR p.subcategory_id IN (SELECT id FROM subcategories WHERE category_id = $1))
		)
	`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check products of category: %w", err)
	}
	return exists, nil
}
