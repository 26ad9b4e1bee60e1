package domain

import "time"

// MaxCategoryNameLength is the column size of categories.name and subcategories.name
const MaxCategoryNameLength = 100

// Category represents a top-level product category
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Audit
}

// CategoryInput carries the mutable fields of a category
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Normalize returns a copy with surrounding whitespace removed
func (in CategoryInput) Normalize() CategoryInput {
	in.Name = NormalizeName(in.Name)
	return in
}

// Validate checks required fields and sizes
func (in CategoryInput) Validate() error {
	if verr := validateStruct(EntityCategory, in.Normalize()); verr != nil {
		return verr
	}
	return nil
}

// NewCategory builds a category ready to insert
func NewCategory(in CategoryInput, now time.Time) *Category {
	c := &Category{Name: NormalizeName(in.Name)}
	c.stampCreated(now)
	return c
}

// Apply replaces the mutable fields and advances UpdatedAt
func (c *Category) Apply(in CategoryInput, now time.Time) {
	c.Name = NormalizeName(in.Name)
	c.touch(now)
}
