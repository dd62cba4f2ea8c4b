// Package validation checks request bodies with go-playground/validator and
// reports failures per JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/HerbHall/spacematch/internal/questions"
)

// FieldErrors maps JSON field names to a readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields by their JSON tag and knows the
// "privacy" tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("privacy", func(fl validator.FieldLevel) bool {
		return questions.IsPrivacyLevel(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate checks s. Failures are returned as FieldErrors.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return fields
}

// fieldPath drops the struct name from the namespace: "req.equipamiento[0]"
// becomes "equipamiento[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must not exceed " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "privacy":
		return "must be one of: " + strings.Join(questions.PrivacyLevels(), ", ")
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
