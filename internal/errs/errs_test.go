package errs

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestValidationErrorEnvelope(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "password", Message: "is required"},
	})

	assert.Equal(t, http.StatusBadRequest, err.Status)

	body := marshal(t, err)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["error"])
	assert.NotContains(t, body, "message")

	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 2)

	first := details[0].(map[string]any)
	assert.Equal(t, "email", first["field"])
	assert.Equal(t, "must be a valid email address", first["message"])
}

func TestConflictErrorEnvelope(t *testing.T) {
	err := NewConflictError("A client with this email already exists")

	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "CONFLICT", err.Code)

	body := marshal(t, err)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "A client with this email already exists", body["message"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "details")

	// Status and Code never reach the wire.
	assert.NotContains(t, body, "status")
	assert.NotContains(t, body, "code")
}

func TestUnauthorizedErrorEnvelope(t *testing.T) {
	err := NewUnauthorizedError("Unauthorized")

	assert.Equal(t, http.StatusUnauthorized, err.Status)

	body := marshal(t, err)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestErrorInterface(t *testing.T) {
	assert.Equal(t, "nope", NewBadRequestError("nope").Error())
	assert.Equal(t, "Validation error", NewValidationError(nil).Error())
}

func TestInternalServerErrorHidesDetail(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "Internal Server Error", err.Message)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores("Too Many Requests"))
}
