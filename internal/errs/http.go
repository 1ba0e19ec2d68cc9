package errs

import (
	"net/http"
)

// NewValidationError creates the 400 response for schema violations.
//
// The headline is always the fixed string "Validation error"; the
// per-field violations travel in details, preserving evaluation order.
func NewValidationError(details []FieldError) *HTTPError {
	return &HTTPError{
		Code:      "VALIDATION_ERROR",
		ErrorText: "Validation error",
		Details:   details,
		Status:    http.StatusBadRequest,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError for
// non-schema failures (malformed body, bad parameters).
func NewBadRequestError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewConflictError creates a 409 Conflict HTTPError.
//
// Used for persistence-layer uniqueness violations; the message is a
// fixed human phrase, the underlying constraint detail is not leaked.
func NewConflictError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusConflict)),
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewInternalServerError creates a 500 HTTPError.
//
// The message is the generic status text, never the real internal
// error: clients don't need stack traces.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
