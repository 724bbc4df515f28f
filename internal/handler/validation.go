package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-shop-api/pkg/apierror"
)

const msgInvalidRequest = "Invalid request data."

var passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9@]{8,30}$`)

// Validator checks decoded request bodies against their validate tags and
// reports failures under the JSON field names.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct returns nil or an aggregated 400 listing every failing field.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return apierror.BadRequest(msgInvalidRequest, err.Error())
	}

	fields := make([]apierror.FieldError, 0, len(failures))
	for _, fe := range failures {
		fields = append(fields, apierror.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}

	return apierror.Validation(msgInvalidRequest, fields)
}

// fieldPath drops the root struct name from the namespace so nested and
// dived fields read like "images[1]".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", name)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits.", name)
	case "password":
		return fmt.Sprintf("%s must be 8-30 characters of letters, digits or @.", name)
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, fe.Param())
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long.", name, fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("%s must be at most %s.", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters long.", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
