package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"inventory-catalog/internal/domain"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps a JSON request body
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not a single JSON object
var ErrInvalidBody = errors.New("invalid request body")

var validate = domain.NewValidator()

// SelfValidator is implemented by request bodies that normalize and check
// their own fields. DecodeAndValidate prefers it over tag validation.
type SelfValidator interface {
	Validate() error
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes a JSON request body and validates it.
// Decode failures wrap ErrInvalidBody. A SelfValidator returns its own error,
// anything else fails with validator.ValidationErrors.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidBody)
	}
	if sv, ok := v.(SelfValidator); ok {
		return sv.Validate()
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator and domain validation errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   e.Field(),
				Message: domain.FieldMessage(e),
			})
		}
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		for _, f := range domainErr.Fields {
			errs = append(errs, ValidationError{Field: f.Field, Message: f.Message})
		}
	}

	return errs
}
