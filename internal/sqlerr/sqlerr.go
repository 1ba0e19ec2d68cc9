// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into user-friendly messages (e.g., converting
// a "unique violation" into a Conflict error).
package sqlerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code classifies a database error into an application-level category.
type Code int

const (
	// Other covers every error we don't classify explicitly.
	Other Code = iota

	// UniqueViolation: a UNIQUE constraint was violated (SQLSTATE 23505).
	UniqueViolation

	// ForeignKeyViolation: a referenced row does not exist (SQLSTATE 23503).
	ForeignKeyViolation

	// NotNullViolation: a NOT NULL column received NULL (SQLSTATE 23502).
	NotNullViolation

	// CheckViolation: a CHECK constraint failed (SQLSTATE 23514).
	CheckViolation
)

// Severity mirrors the server-reported severity of a Postgres error.
type Severity int

const (
	SeverityOther Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// Error is the normalized database error used across the application.
//
// It keeps the original SQLSTATE and constraint metadata so callers
// can make decisions (e.g. "was this a uniqueness conflict on the
// email column?") without depending on driver error strings.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string // original SQLSTATE
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sqlerr: %s (SQLSTATE %s)", e.Message, e.DatabaseCode)
}

// Unwrap exposes the original driver error for errors.As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a Postgres SQLSTATE onto our Code enum.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity maps the server severity string onto our Severity enum.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityOther
	}
}

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error or *pgconn.PgError, its
// category is returned; otherwise Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}

	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into
// our normalized sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsUniqueViolation reports whether err represents a uniqueness
// conflict, optionally scoped to a named column.
//
// The column is inferred from the constraint name (conventions
// "unique_<table>_<column>" and "<table>_<column>_key"), so callers
// never hardcode a driver error code or constraint string. An empty
// column matches any unique violation.
func IsUniqueViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if MapCode(pgErr.Code) != UniqueViolation {
		return false
	}
	if column == "" {
		return true
	}
	return extractColumnForUniqueViolation(pgErr.ConstraintName) == column
}
