package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/errs"
)

type signupPayload struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=100,alphaspace"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (p *signupPayload) Validate() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return Struct(p)
}

type failingPayload struct{}

func (p *failingPayload) Validate() error {
	return errors.New("database exploded")
}

func newTestContext(t *testing.T, body string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func TestBindAndValidateCollectsAllViolations(t *testing.T) {
	c := newTestContext(t, `{"fullName":"J4ne","email":"not-an-email","password":"short","confirmPassword":"different"}`)

	err := BindAndValidate(c, &signupPayload{})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation error", httpErr.ErrorText)
	assert.Empty(t, httpErr.Message)

	// One entry per violated field, in evaluation order.
	fields := make([]string, 0, len(httpErr.Details))
	for _, d := range httpErr.Details {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"fullName", "email", "password", "confirmPassword"}, fields)
}

func TestBindAndValidatePassesValidPayload(t *testing.T) {
	payload := &signupPayload{}
	c := newTestContext(t, `{"fullName":"Jane Doe","email":"JANE@X.COM","password":"Sup3rSecret","confirmPassword":"Sup3rSecret"}`)

	err := BindAndValidate(c, payload)
	require.NoError(t, err)

	// Normalization ran before the constraint checks.
	assert.Equal(t, "jane@x.com", payload.Email)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := newTestContext(t, `{"fullName":`)

	err := BindAndValidate(c, &signupPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid request body", httpErr.Message)
	assert.Empty(t, httpErr.Details)
}

func TestBindAndValidateNonValidationErrorPropagates(t *testing.T) {
	c := newTestContext(t, `{}`)

	err := BindAndValidate(c, &failingPayload{})
	require.Error(t, err)

	// Not swallowed into a 400; the generic error pipeline gets it.
	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.EqualError(t, err, "database exploded")
}

func TestPasswordMismatchAttachesToConfirmField(t *testing.T) {
	c := newTestContext(t, `{"fullName":"Jane Doe","email":"jane@x.com","password":"Sup3rSecret","confirmPassword":"Sup3rSecre"}`)

	err := BindAndValidate(c, &signupPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Len(t, httpErr.Details, 1)
	assert.Equal(t, "confirmPassword", httpErr.Details[0].Field)
	assert.Equal(t, "does not match", httpErr.Details[0].Message)
}

func TestAlphaspaceRule(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required,alphaspace"`
	}

	require.NoError(t, Struct(&payload{Name: "Jane Doe"}))
	require.Error(t, Struct(&payload{Name: "Jane-Doe"}))
	require.Error(t, Struct(&payload{Name: "Jane 2"}))
}

func TestPasswordRule(t *testing.T) {
	type payload struct {
		Password string `json:"password" validate:"required,password"`
	}

	require.NoError(t, Struct(&payload{Password: "Abcdef1"}))
	require.Error(t, Struct(&payload{Password: "abcdef1"}), "missing uppercase")
	require.Error(t, Struct(&payload{Password: "ABCDEF1"}), "missing lowercase")
	require.Error(t, Struct(&payload{Password: "Abcdefg"}), "missing digit")
}

func TestCustomValidationErrors(t *testing.T) {
	details, ok := extractValidationError(CustomValidationErrors{
		{Field: "status", Message: "cannot go backwards"},
	})
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "status", details[0].Field)
	assert.Equal(t, "cannot go backwards", details[0].Message)
}
