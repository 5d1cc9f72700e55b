package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error carries a stable code the CLI and report can match on.
type Error struct {
	Code   string
	Detail string
}

func (e Error) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

func ErrCode(code string) error {
	return Error{Code: code}
}

func Errorf(code, format string, args ...any) error {
	return Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func Is(err error, code string) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

const (
	CodeMissingCredentials = "missing_credentials"
	CodeUnknownTable       = "unknown_table"
	CodeInvalidCorrection  = "invalid_correction"
	CodeInvalidCSV         = "invalid_csv"
)

// Reason renders a per-record failure for the report. Postgres errors keep
// their SQLSTATE so a reviewer can tell a constraint violation from a
// connection problem.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("SQLSTATE %s: %s", pgErr.Code, pgErr.Message)
	}
	return err.Error()
}
