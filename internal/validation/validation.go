// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags
// and extracts validation errors into a format the client can
// understand.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/icangrow/icangrow-api/internal/errs"
)

// Validatable is implemented by request payload types that know how
// to validate themselves.
//
// Typical pattern:
//   - define a request struct with validator tags (`validate:"required,email"`)
//   - implement Validate() error that normalizes the payload (trim,
//     lowercase email) and then runs validation.Struct(req)
//   - return validator.ValidationErrors (or CustomValidationErrors
//     for rules that cannot be expressed via tags)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a
// specific field, for rules not expressible as validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that
// satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	// alphaSpaceRe: letters and spaces only (display names).
	alphaSpaceRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

	validate = newValidator()
)

// newValidator builds the shared validator instance.
//
// The instance is read-only after construction and safe for unlimited
// concurrent use. Field names in violations come from json tags so
// details match the wire payload (`client_type`, not `ClientType`);
// query- and param-bound fields fall back to their binding tag.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// alphaspace: letters and spaces only.
	if err := v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	// password: at least one lowercase letter, one uppercase letter,
	// and one digit. Go's regexp has no lookaheads, so scan instead.
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var hasLower, hasUpper, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case r >= 'a' && r <= 'z':
				hasLower = true
			case r >= 'A' && r <= 'Z':
				hasUpper = true
			case r >= '0' && r <= '9':
				hasDigit = true
			}
		}
		return hasLower && hasUpper && hasDigit
	}); err != nil {
		panic(err)
	}

	return v
}

// Struct validates v against its struct tags using the shared
// validator instance. Request types call this from Validate().
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from path params,
//     query string, and body.
//  2. payload.Validate() normalizes and applies validation rules.
//  3. On failure, returns *errs.HTTPError (400) with field-level
//     details in evaluation order; the request is not forwarded.
//
// Non-validation errors raised during evaluation are returned
// unchanged so they reach the generic error pipeline.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		details, ok := extractValidationError(err)
		if !ok {
			return err
		}
		return errs.NewValidationError(details)
	}

	return nil
}

// extractValidationError converts a validation failure into ordered
// field errors. The second return value is false when err is not a
// validation error at all.
func extractValidationError(err error) ([]errs.FieldError, bool) {
	var fieldErrors []errs.FieldError

	if customErrors, ok := err.(CustomValidationErrors); ok {
		for _, cerr := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   cerr.Field,
				Message: cerr.Message,
			})
		}
		return fieldErrors, true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}

	// Convert validator.ValidationErrors into user-friendly messages,
	// preserving the order of evaluation.
	for _, verr := range validationErrors {
		field := verr.Field()
		var msg string

		switch verr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", verr.Param())
			}

		case "max":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", verr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", verr.Param())

		case "email":
			msg = "must be a valid email address"

		case "e164":
			msg = "must be a valid phone number with country code"

		case "uuid":
			msg = "must be a valid UUID"

		case "alphaspace":
			msg = "can only contain letters and spaces"

		case "password":
			msg = "must contain at least one lowercase letter, one uppercase letter, and one number"

		case "eqfield":
			// Cross-field equality; the violation is attached to this
			// field (the confirmation field), not the one it mirrors.
			msg = "does not match"

		default:
			if verr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, verr.Tag(), verr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, verr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   field,
			Message: msg,
		})
	}

	return fieldErrors, true
}
