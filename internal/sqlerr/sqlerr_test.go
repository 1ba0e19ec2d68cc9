package sqlerr

import (
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/errs"
)

func emailUniquePgError() *pgconn.PgError {
	return &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        `duplicate key value violates unique constraint "clients_email_key"`,
		TableName:      "clients",
		ConstraintName: "clients_email_key",
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := emailUniquePgError()

	assert.True(t, IsUniqueViolation(err, "email"))
	assert.True(t, IsUniqueViolation(err, ""), "empty column matches any unique violation")
	assert.False(t, IsUniqueViolation(err, "name"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), "email"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "email"))
}

func TestIsUniqueViolationThroughWrapping(t *testing.T) {
	wrapped := errors.Wrap(emailUniquePgError(), "inserting client")
	assert.True(t, IsUniqueViolation(wrapped, "email"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("clients_email_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("clients_email_ukey"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_clients_email"))
	assert.Equal(t, "", extractColumnForUniqueViolation("some_random_index"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(emailUniquePgError())

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "A client with this email already exists", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "clients",
		ColumnName: "name",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Details, 1)
	assert.Equal(t, "name", httpErr.Details[0].Field)
	assert.Equal(t, "is required", httpErr.Details[0].Message)
}

func TestHandleErrorNoRows(t *testing.T) {
	err := HandleError(pgx.ErrNoRows)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknownErrorBecomes500(t *testing.T) {
	err := HandleError(errors.New("some driver detail that must not leak"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "driver detail")
}

func TestHandleErrorKeepsExistingHTTPError(t *testing.T) {
	original := errs.NewConflictError("already exists")
	assert.Same(t, original, HandleError(original))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(emailUniquePgError()))
	assert.Equal(t, ForeignKeyViolation, ErrCode(&pgconn.PgError{Code: "23503"}))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}
