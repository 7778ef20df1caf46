package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"ludora/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator checks request payloads against their `validate` struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance that reports JSON field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns domain.ValidationErrors describing every
// failing field, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("request validation failed", err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return outOfRange(field, fe, "at least")
	case "max", "lte":
		return outOfRange(field, fe, "at most")
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

func outOfRange(field string, fe validator.FieldError, bound string) domain.ValidationError {
	unit := ""
	switch fe.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		unit = " in length"
	}
	return domain.ValidationError{
		Field:   field,
		Code:    domain.CodeOutOfRange,
		Message: fmt.Sprintf("%s must be %s %s%s", field, bound, fe.Param(), unit),
		Value:   fe.Value(),
	}
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "answers[0].question_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
