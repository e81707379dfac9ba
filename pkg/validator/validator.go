package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON/form names so errors line up with the
	// request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
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
}

func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag such as "omitempty,email".
func ValidateVar(v any, tag string) error {
	return validate.Var(v, tag)
}

func GetValidator() *validator.Validate {
	return validate
}
