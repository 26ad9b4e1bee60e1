package memstore

import (
	"cmp"
	"context"
	"slices"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
)

type productRepository struct {
	acc access
}

// joinProduct attaches the live parents of a product, as the SQL LEFT JOINs do
func (st *state) joinProduct(p domain.Product) domain.Product {
	p.Category = nil
	p.Subcategory = nil
	if c, ok := st.liveCategory(p.CategoryID); ok {
		p.Category = &c
	}
	if p.SubcategoryID != nil {
		if s, ok := st.subcategories[*p.SubcategoryID]; ok && !s.IsDeleted {
			s.Category = nil
			p.Subcategory = &s
		}
	}
	return p
}

func (st *state) checkProduct(action string, p *domain.Product) error {
	if _, ok := st.categories[p.CategoryID]; !ok {
		return violation(action, repository.ErrForeignKeyViolation, fkProductCategory)
	}
	if p.SubcategoryID != nil {
		if _, ok := st.subcategories[*p.SubcategoryID]; !ok {
			return violation(action, repository.ErrForeignKeyViolation, fkProductSubcategory)
		}
	}
	switch {
	case p.CostPrice.IsNegative():
		return violation(action, repository.ErrCheckViolation, "chk_products_cost_price")
	case p.SalePrice.IsNegative():
		return violation(action, repository.ErrCheckViolation, "chk_products_sale_price")
	case p.Quantity < 0:
		return violation(action, repository.ErrCheckViolation, "chk_products_quantity")
	case p.Quantity > domain.MaxQuantity:
		return violation(action, repository.ErrCheckViolation, "integer out of range")
	}
	return checkAudit(action, p.Audit)
}

func storedProduct(p *domain.Product) domain.Product {
	row := *p
	row.Category = nil
	row.Subcategory = nil
	if p.SubcategoryID != nil {
		id := *p.SubcategoryID
		row.SubcategoryID = &id
	}
	return row
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) error {
	return r.acc(true, func(st *state) error {
		if err := st.checkProduct("create product", product); err != nil {
			return err
		}
		st.lastProductID++
		product.ID = st.lastProductID
		product.IsDeleted = false
		st.products[product.ID] = storedProduct(product)
		return nil
	})
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok || current.IsDeleted {
			return repository.ErrNotFound
		}
		row := storedProduct(product)
		row.CreatedAt = current.CreatedAt
		row.IsDeleted = false
		if err := st.checkProduct("update product", &row); err != nil {
			return err
		}
		st.products[row.ID] = row
		return nil
	})
}

func (r *productRepository) SoftDelete(_ context.Context, product *domain.Product) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok || current.IsDeleted {
			return repository.ErrNotFound
		}
		current.IsDeleted = true
		current.UpdatedAt = product.UpdatedAt
		if err := checkAudit("delete product", current.Audit); err != nil {
			return err
		}
		st.products[current.ID] = current
		return nil
	})
}

func (r *productRepository) FindByID(_ context.Context, id int64, _ repository.LockMode) (*domain.Product, error) {
	var found domain.Product
	err := r.acc(false, func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.IsDeleted {
			return repository.ErrNotFound
		}
		found = st.joinProduct(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *productRepository) List(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if p.IsDeleted {
				continue
			}
			if filter.CategoryID > 0 && p.CategoryID != filter.CategoryID {
				continue
			}
			if filter.SubcategoryID > 0 && (p.SubcategoryID == nil || *p.SubcategoryID != filter.SubcategoryID) {
				continue
			}
			joined := st.joinProduct(p)
			products = append(products, &joined)
		}
		return nil
	})
	slices.SortFunc(products, func(a, b *domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return products, err
}

func (r *productRepository) ExistsActiveByCategory(_ context.Context, categoryID int64) (bool, error) {
	var inUse bool
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if p.IsDeleted {
				continue
			}
			if p.CategoryID == categoryID {
				inUse = true
				return nil
			}
			if p.SubcategoryID != nil {
				if s, ok := st.subcategories[*p.SubcategoryID]; ok && s.CategoryID == categoryID {
					inUse = true
					return nil
				}
			}
		}
		return nil
	})
	return inUse, err
}
