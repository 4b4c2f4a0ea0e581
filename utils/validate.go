package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the `validate` tags of s and turns the first failure into a ValidationError.
func ValidateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ValidationError("invalid input: %v", err)
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError("%s is required", field)
	case "min":
		return ValidationError("%s must be at least %s", field, fe.Param())
	case "max":
		return ValidationError("%s must be at most %s", field, fe.Param())
	case "gt":
		return ValidationError("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return ValidationError("%s must be one of: %s", field, fe.Param())
	case "email":
		return ValidationError("%s must be a valid email address", field)
	default:
		return ValidationError("%s is invalid", field)
	}
}
