// Package validation wraps go-playground/validator and converts its output
// into *domain.ValidationError with one message per form field. Field keys
// use the json tag name so they line up with the request payload.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates i. Constraint failures come back as *domain.ValidationError
// carrying i as the input to redisplay.
func (v *Validator) Struct(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		key := fe.Field()
		if _, seen := fields[key]; !seen {
			fields[key] = Message(fe)
		}
	}
	return &domain.ValidationError{Fields: fields, Input: i}
}

// Message converts a single FieldError into a human-readable message.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", field, "YYYY-MM-DD")
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
