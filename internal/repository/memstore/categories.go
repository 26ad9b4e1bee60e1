package memstore

import (
	"cmp"
	"context"
	"slices"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
)

type categoryRepository struct {
	acc access
}

func (st *state) categoryNameTaken(name string, excludeID int64) bool {
	key := domain.NameKey(name)
	for id, c := range st.categories {
		if id != excludeID && !c.IsDeleted && domain.NameKey(c.Name) == key {
			return true
		}
	}
	return false
}

func (st *state) liveCategory(id int64) (domain.Category, bool) {
	c, ok := st.categories[id]
	if !ok || c.IsDeleted {
		return domain.Category{}, false
	}
	return c, true
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	return r.acc(true, func(st *state) error {
		if st.categoryNameTaken(category.Name, 0) {
			return violation("create category", repository.ErrUniqueViolation, uqCategoryName)
		}
		if err := checkAudit("create category", category.Audit); err != nil {
			return err
		}
		st.lastCategoryID++
		category.ID = st.lastCategoryID
		category.IsDeleted = false
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepository) FindByID(_ context.Context, id int64, _ repository.LockMode) (*domain.Category, error) {
	var found domain.Category
	err := r.acc(false, func(st *state) error {
		c, ok := st.liveCategory(id)
		if !ok {
			return repository.ErrNotFound
		}
		found = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *categoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	err := r.acc(false, func(st *state) error {
		for _, c := range st.categories {
			if !c.IsDeleted {
				categories = append(categories, &c)
			}
		}
		return nil
	})
	slices.SortFunc(categories, func(a, b *domain.Category) int { return cmp.Compare(a.ID, b.ID) })
	return categories, err
}

func (r *categoryRepository) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.acc(false, func(st *state) error {
		taken = st.categoryNameTaken(name, excludeID)
		return nil
	})
	return taken, err
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.liveCategory(category.ID)
		if !ok {
			return repository.ErrNotFound
		}
		if st.categoryNameTaken(category.Name, category.ID) {
			return violation("update category", repository.ErrUniqueViolation, uqCategoryName)
		}
		current.Name = category.Name
		current.UpdatedAt = category.UpdatedAt
		if err := checkAudit("update category", current.Audit); err != nil {
			return err
		}
		st.categories[current.ID] = current
		return nil
	})
}

func (r *categoryRepository) SoftDelete(_ context.Context, category *domain.Category) error {
	return r.acc(true, func(st *state) error {
		current, ok := st.liveCategory(category.ID)
		if !ok {
			return repository.ErrNotFound
		}
		current.IsDeleted = true
		current.UpdatedAt = category.UpdatedAt
		if err := checkAudit("delete category", current.Audit); err != nil {
			return err
		}
		st.categories[current.ID] = current
		return nil
	})
}
