package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound of a DECIMAL(10,2) column
var MaxPrice = decimal.New(1, 8)

var validate = NewValidator()

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// NormalizeName trims surrounding whitespace. Stored names are always normalized.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey is the comparison key used by the uniqueness guard
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// validateStruct runs tag validation and converts failures into a ValidationError
func validateStruct(entity string, v interface{}) *ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Entity: entity, Fields: []FieldError{{Field: "input", Message: err.Error()}}}
	}

	out := &ValidationError{Entity: entity}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: FieldMessage(fe)})
	}
	return out
}

// FieldMessage renders a tag failure for API clients
func FieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		if isNumber(e.Kind()) {
			return "Value must be less than or equal to " + e.Param()
		}
		return "Value is too long (max " + e.Param() + ")"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	default:
		return "Invalid value"
	}
}

func isNumber(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// checkMoney validates a currency amount: non-negative, two decimal places, fits DECIMAL(10,2)
func checkMoney(field string, d decimal.Decimal) *FieldError {
	switch {
	case d.IsNegative():
		return &FieldError{Field: field, Message: "Value must be greater than or equal to 0"}
	case !d.Equal(d.Round(2)):
		return &FieldError{Field: field, Message: "Value must have at most 2 decimal places"}
	case d.GreaterThanOrEqual(MaxPrice):
		return &FieldError{Field: field, Message: "Value is too large"}
	}
	return nil
}

// merge appends extra field errors, allocating the ValidationError if needed
func merge(entity string, verr *ValidationError, extra ...*FieldError) *ValidationError {
	for _, fe := range extra {
		if fe == nil {
			continue
		}
		if verr == nil {
			verr = &ValidationError{Entity: entity}
		}
		verr.Fields = append(verr.Fields, *fe)
	}
	return verr
}
