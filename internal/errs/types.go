package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "message": "Invalid email format" }
type FieldError struct {
	// Field is the wire-level field name the error relates to
	// (e.g. "email", "client_type", "confirmPassword").
	Field string `json:"field"`

	// Message is the human-readable error message.
	Message string `json:"message"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and serializes
// directly into the API's failure envelope:
//
//	validation failure: {"success":false,"error":"Validation error","details":[...]}
//	everything else:    {"success":false,"message":"..."}
//
// Status and Code never reach the wire; they drive the HTTP status
// line and structured logs.
type HTTPError struct {
	// Success is always false; serialized so every failure body
	// carries an explicit success flag.
	Success bool `json:"success"`

	// ErrorText is the headline for validation failures
	// (the fixed string "Validation error"). Empty otherwise.
	ErrorText string `json:"error,omitempty"`

	// Message is the human-friendly message for non-validation
	// failures. Empty on validation failures.
	Message string `json:"message,omitempty"`

	// Details holds field-level validation errors, in the order the
	// schema evaluation produced them.
	Details []FieldError `json:"details,omitempty"`

	// Status is the HTTP status code to respond with.
	Status int `json:"-"`

	// Code is a machine-friendly error code (e.g. "CONFLICT"),
	// used for logging and tracing attributes.
	Code string `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorText
}

// Is customizes how errors.Is treats HTTPError: any *HTTPError
// matches any other *HTTPError, regardless of status or code.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts a string into
// UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
