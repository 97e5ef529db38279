package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rsvpd/lib/apperr"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// Struct validates a single struct object; every failing field is reported
// in one apperr.Validation error
func Struct(s interface{}) error {
	if s == nil {
		return fmt.Errorf("is nil")
	}
	if !isStruct(s) {
		return fmt.Errorf("not a struct")
	}
	var validationErrors validator.ValidationErrors
	var invalidValidationError *validator.InvalidValidationError

	err := get().Struct(s)
	if err == nil {
		return nil
	}

	if errors.As(err, &validationErrors) {
		fields := make([]apperr.FieldError, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			field := fieldPath(fieldErr.Namespace())
			fields = append(fields, apperr.FieldError{
				Field:   field,
				Message: message(field, fieldErr),
			})
		}
		return apperr.Validation(fields)
	} else if errors.As(err, &invalidValidationError) {
		return fmt.Errorf("invalid validation error: %w", err)
	} else {
		return fmt.Errorf("unknown validation error: %w", err)
	}
}

// fieldPath drops the root struct name: "SubmitRsvp.attendees[0].name" -> "attendees[0].name"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s %s", field, fe.Tag())
	}
}

func isStruct(s interface{}) bool {
	r := reflect.TypeOf(s)
	if r.Kind() == reflect.Ptr {
		r = r.Elem()
	}
	return r.Kind() == reflect.Struct
}
