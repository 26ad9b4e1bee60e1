package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
)

type subcategoryRepository struct {
	acc access
}

func (st *state) subcategoryNameTaken(categoryID int64, name string, excludeID int64) bool {
	key := domain.NameKey(name)
	for id, s := range st.subcategories {
		if id != excludeID && !s.IsDeleted && s.CategoryID == categoryID && domain.NameKey(s.Name) == key {
			return true
		}
	}
	return false
}

// liveSubcategory returns a copy of a live subcategory with its category attached
func (st *state) liveSubcategory(id int64) (domain.Subcategory, bool) {
	s, ok := st.subcategories[id]
	if !ok || s.IsDeleted {
		return domain.Subcategory{}, false
	}
	c := st.categories[s.CategoryID]
	s.Category = &c
	return s, true
}

func (st *state) referencedBySomeProduct(subcategoryID int64) bool {
	for _, p := range st.products {
		if p.SubcategoryID != nil && *p.SubcategoryID == subcategoryID {
			return true
		}
	}
	return false
}

func (r *subcategoryRepository) Create(_ context.Context, subcategory *domain.Subcategory) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.categories[subcategory.CategoryID]; !ok {
			return violation("create subcategory", repository.ErrForeignKeyViolation, fkSubcategoryCategory)
		}
		if st.subcategoryNameTaken(subcategory.CategoryID, subcategory.Name, 0) {
			return violation("create subcategory", repository.ErrUniqueViolation, uqSubcategoryName)
		}
		if err := checkAudit("create subcategory", subcategory.Audit); err != nil {
			return err
		}
		st.lastSubcategoryID++
		subcategory.ID = st.lastSubcategoryID
		subcategory.IsDeleted = false

		row := *subcategory
		row.Category = nil
		st.subcategories[row.ID] = row
		return nil
	})
}

func (r *subcategoryRepository) FindByID(_ context.Context, id int64, _ repository.LockMode) (*domain.Subcategory, error) {
	var found domain.Subcategory
	err := r.acc(false, func(st *state) error {
		s, ok := st.liveSubcategory(id)
		if !ok {
			return repository.ErrNotFound
		}
		found = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *subcategoryRepository) List(_ context.Context) ([]*domain.Subcategory, error) {
	subcategories := []*domain.Subcategory{}
	err := r.acc(false, func(st *state) error {
		for id := range st.subcategories {
			if s, ok := st.liveSubcategory(id); ok {
				subcategories = append(subcategories, &s)
			}
		}
		return nil
	})
	slices.SortFunc(subcategories, func(a, b *domain.Subcategory) int { return cmp.Compare(a.ID, b.ID) })
	return subcategories, err
}

func (r *subcategoryRepository) ExistsByName(_ context.Context, categoryID int64, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.acc(false, func(st *state) error {
		taken = st.subcategoryNameTaken(categoryID, name, excludeID)
		return nil
	})
	return taken, err
}

func (r *subcategoryRepository) Update(_ context.Context, subcategory *domain.Subcategory) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.subcategories[subcategory.ID]
		if !ok || current.IsDeleted {
			return repository.ErrNotFound
		}
		if _, ok := st.categories[subcategory.CategoryID]; !ok {
			return violation("update subcategory", repository.ErrForeignKeyViolation, fkSubcategoryCategory)
		}
		if st.subcategoryNameTaken(subcategory.CategoryID, subcategory.Name, subcategory.ID) {
			return violation("update subcategory", repository.ErrUniqueViolation, uqSubcategoryName)
		}
		current.Name = subcategory.Name
		current.CategoryID = subcategory.CategoryID
		current.UpdatedAt = subcategory.UpdatedAt
		if err := checkAudit("update subcategory", current.Audit); err != nil {
			return err
		}
		st.subcategories[current.ID] = current
		return nil
	})
}

func (r *subcategoryRepository) SoftDelete(_ context.Context, subcategory *domain.Subcategory) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.subcategories[subcategory.ID]
		if !ok || current.IsDeleted {
			return repository.ErrNotFound
		}
		current.IsDeleted = true
		current.UpdatedAt = subcategory.UpdatedAt
		if err := checkAudit("delete subcategory", current.Audit); err != nil {
			return err
		}
		st.subcategories[current.ID] = current
		return nil
	})
}

func (r *subcategoryRepository) PurgeByCategory(_ context.Context, categoryID int64, at time.Time) (int64, int64, error) {
	var removed, flagged int64
	err := r.acc(true, func(st *state) error {
		for id, s := range st.subcategories {
			if s.CategoryID != categoryID {
				continue
			}
			if !st.referencedBySomeProduct(id) {
				delete(st.subcategories, id)
				removed++
				continue
			}
			if !s.IsDeleted {
				s.MarkDeleted(at)
				st.subcategories[id] = s
				flagged++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return removed, flagged, nil
}
