package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below matches exactly one of these via errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicate           = errors.New("resource already exists")
	ErrMissingDependency   = errors.New("referenced resource not found")
	ErrNotFound            = errors.New("resource not found")
	ErrConstraintViolation = errors.New("resource is in use")
	ErrStorage             = errors.New("storage failure")
)

// Entity names used in error messages
const (
	EntityCategory    = "category"
	EntitySubcategory = "subcategory"
	EntityProduct     = "product"
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a required field is missing or a value is out of range
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError is returned when a name is already taken within its uniqueness scope
type DuplicateError struct {
	Entity string
	Name   string
	// ScopeID is the parent category for subcategories, zero for categories
	ScopeID int64
}

func (e *DuplicateError) Error() string {
	if e.ScopeID != 0 {
		return fmt.Sprintf("%s %q already exists in category %d", e.Entity, e.Name, e.ScopeID)
	}
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Name)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// MissingDependencyError is returned when a referenced parent does not exist
type MissingDependencyError struct {
	Entity string
	// Field names the failing reference, e.g. "categoryId"
	Field string
	ID    int64
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s references missing %s %d", e.Entity, e.Field, e.ID)
}

func (e *MissingDependencyError) Is(target error) bool { return target == ErrMissingDependency }

// NotFoundError is returned when the target entity is absent or already deleted
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConstraintViolationError is returned when a delete is blocked by existing dependents
type ConstraintViolationError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConstraintViolationError) Is(target error) bool { return target == ErrConstraintViolation }

// StorageError wraps a persistence failure that has no domain meaning.
// Its message is safe to log but must not be shown to API clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
