package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/xpx/pkg/errors"
)

// defaultValidator reports field names using their JSON tags so that
// error details match the wire format.
var defaultValidator *validator.Validate

// customMessages holds the user-facing message for each custom tag.
var customMessages = make(map[string]string)

func init() {
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
	defaultValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// RegisterValidation adds a custom validation tag and the message reported
// when it fails. Call it from init only; the validator is not safe for
// registration once in use.
func RegisterValidation(tag string, fn validator.Func, message string) {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
	customMessages[tag] = message
}

// ValidateStruct validates a struct using the default validator.
// Every failing field is recorded on the returned ValidationError.
func ValidateStruct(s interface{}) *errors.ValidationError {
	ve := errors.NewValidationError()
	if err := defaultValidator.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			ve.Add("request", err.Error())
			return ve
		}
		for _, fe := range validationErrors {
			ve.Add(fe.Field(), formatValidationError(fe))
		}
	}
	return ve
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		if msg, ok := customMessages[fe.Tag()]; ok {
			return msg
		}
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
