// internal/app/system/inputval/inputval.go
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
)

var v = newValidate()

func newValidate() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("mediaId") rather than Go field names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// notblank rejects strings that are empty after trimming.
	_ = val.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return val
}

// Struct validates s against its `validate` tags. Failures come back as an
// apperr validation error listing each field, sorted by field name.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" "+message(fe))
	}
	sort.Strings(msgs)
	return apperr.Validation(strings.Join(msgs, "; "))
}

// IsValidEmail reports whether s is a syntactically valid address without a
// display name.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	return v.Var(s, "email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
