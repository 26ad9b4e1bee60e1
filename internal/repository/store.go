package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Repositories groups the catalog repositories bound to one Querier
type Repositories struct {
	Categories    CategoryRepository
	Subcategories SubcategoryRepository
	Products      ProductRepository
}

// Store hands out repositories and runs units of work atomically
type Store interface {
	// Repositories returns repositories that run each statement on its own
	Repositories() Repositories
	// WithTx runs fn inside one transaction. fn's error rolls it back.
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}

type postgresStore struct {
	db    *sql.DB
	repos Repositories
}

// NewStore creates a Store backed by a PostgreSQL connection pool
func NewStore(db *sql.DB) Store {
	return &postgresStore{db: db, repos: newRepositories(db)}
}

func newRepositories(q Querier) Repositories {
	return Repositories{
		Categories:    NewCategoryRepository(q),
		Subcategories: NewSubcategoryRepository(q),
		Products:      NewProductRepository(q),
	}
}

func (s *postgresStore) Repositories() Repositories {
	return s.repos
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}
