package domain

import "time"

// Subcategory belongs to exactly one Category
type Subcategory struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Audit

	// Category is populated on reads for display
	Category *Category `json:"category,omitempty" db:"-"`
}

// SubcategoryInput carries the mutable fields of a subcategory
type SubcategoryInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	CategoryID int64  `json:"categoryId" validate:"gt=0"`
}

func (in SubcategoryInput) Normalize() SubcategoryInput {
	in.Name = NormalizeName(in.Name)
	return in
}

func (in SubcategoryInput) Validate() error {
	if verr := validateStruct(EntitySubcategory, in.Normalize()); verr != nil {
		return verr
	}
	return nil
}

// NewSubcategory builds a subcategory ready to insert
func NewSubcategory(in SubcategoryInput, now time.Time) *Subcategory {
	s := &Subcategory{
		Name:       NormalizeName(in.Name),
		CategoryID: in.CategoryID,
	}
	s.stampCreated(now)
	return s
}

// Apply replaces name and parent, and advances UpdatedAt
func (s *Subcategory) Apply(in SubcategoryInput, now time.Time) {
	if s.CategoryID != in.CategoryID {
		s.Category = nil
	}
	s.Name = NormalizeName(in.Name)
	s.CategoryID = in.CategoryID
	s.touch(now)
}
