// Package memstore keeps the catalog in process memory. It enforces the same
// unique, foreign key and check constraints as the PostgreSQL schema and
// reports violations with the repository sentinels.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/repository"
)

// constraint names mirror the migrations so error text reads the same
const (
	uqCategoryName         = "uq_categories_name_live"
	uqSubcategoryName      = "uq_subcategories_category_name_live"
	fkSubcategoryCategory  = "fk_subcategories_category"
	fkProductCategory      = repository.ConstraintProductCategory
	fkProductSubcategory   = repository.ConstraintProductSubcategory
	chkUpdatedAfterCreated = "updated_at >= created_at"
)

type state struct {
	categories    map[int64]domain.Category
	subcategories map[int64]domain.Subcategory
	products      map[int64]domain.Product

	lastCategoryID    int64
	lastSubcategoryID int64
	lastProductID     int64
}

func newState() *state {
	return &state{
		categories:    map[int64]domain.Category{},
		subcategories: map[int64]domain.Subcategory{},
		products:      map[int64]domain.Product{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.categories = maps.Clone(s.categories)
	c.subcategories = maps.Clone(s.subcategories)
	c.products = maps.Clone(s.products)
	return &c
}

// access runs fn against the state the repositories are bound to
type access func(write bool, fn func(st *state) error) error

// Store is an in-memory repository.Store. Transactions are serialized: WithTx
// holds the write lock and works on a copy that replaces the state on success.
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) autocommit(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func bind(acc access) repository.Repositories {
	return repository.Repositories{
		Categories:    &categoryRepository{acc: acc},
		Subcategories: &subcategoryRepository{acc: acc},
		Products:      &productRepository{acc: acc},
	}
}

func (s *Store) Repositories() repository.Repositories {
	return bind(s.autocommit)
}

func (s *Store) WithTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	err := fn(bind(func(_ bool, op func(st *state) error) error {
		return op(work)
	}))
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.st = work
	return nil
}

func violation(action string, kind error, constraint string) error {
	return &repository.ConstraintError{Action: action, Kind: kind, Constraint: constraint}
}

func checkAudit(action string, a domain.Audit) error {
	if a.UpdatedAt.Before(a.CreatedAt) {
		return violation(action, repository.ErrCheckViolation, chkUpdatedAfterCreated)
	}
	return nil
}
