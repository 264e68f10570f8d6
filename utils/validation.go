package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is a single validation failure reported to API callers
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator and makes
// it report fields by their JSON (or form) names
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("posint", positiveInteger)
	})
}

func fieldName(fld reflect.StructField) string {
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
}

// notBlank fails strings that are empty after trimming whitespace
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return !field.IsZero()
	}
	return strings.TrimSpace(field.String()) != ""
}

// positiveInteger accepts integers >= 1, including numeric strings such as
// json.Number values
func positiveInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		_, err := ParsePositiveInt(field.String())
		return err == nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.Uint() > 0
	}
	return false
}

// ParsePositiveInt parses a decimal integer >= 1
func ParsePositiveInt(value string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%q is not a positive integer", value)
	}
	return uint(n), nil
}

// ValidationErrors converts a binding error into field level messages
func ValidationErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []FieldError{{Field: typeErr.Field, Message: typeErr.Field + " has an invalid type"}}
	}

	return []FieldError{{Field: "body", Message: "Invalid request body"}}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return "Valid email is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "posint":
		return field + " must be a positive integer"
	}
	return field + " is invalid"
}
