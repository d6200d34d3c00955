package validator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var (
	validate = newValidate()

	digitsRegexp = regexp.MustCompile(`^[0-9]+$`)
	// Intentionally loose: something@something.something with no whitespace.
	looseEmailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match request payloads.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !digitsRegexp.MatchString(s) {
			return false
		}
		if fl.Param() == "" {
			return true
		}
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(s) == n
	})
	mustRegister(v, "loose_email", func(fl validator.FieldLevel) bool {
		return looseEmailRegexp.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps validator.ValidationErrors with a user-friendly message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", err.Field(), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets callers match validation failures with errors.Is.
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		fields[err.Field()] = msgForTag(err)
	}
	return fields
}

// FieldErrors validates s and returns the failing fields with their messages.
// A valid struct yields an empty, non-nil map.
func FieldErrors(s any) map[string]string {
	err := Validate(s)
	if err == nil {
		return map[string]string{}
	}
	if valErr, ok := err.(*ValidationError); ok {
		return valErr.Fields()
	}
	return map[string]string{"": err.Error()}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "trimmed_required":
		return "is required"
	case "email", "loose_email":
		return "must be a valid email address"
	case "digits":
		if fe.Param() != "" {
			return fmt.Sprintf("must be exactly %s digits", fe.Param())
		}
		return "must contain only digits"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}
