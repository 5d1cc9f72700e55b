package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := fmt.Errorf("load config: %w", Errorf(CodeMissingCredentials, "DATABASE_URL is required"))

	assert.True(t, Is(err, CodeMissingCredentials))
	assert.False(t, Is(err, CodeUnknownTable))
	assert.False(t, Is(errors.New("missing_credentials"), CodeMissingCredentials))
	assert.Equal(t, "load config: missing_credentials: DATABASE_URL is required", err.Error())
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "boom", Reason(errors.New("boom")))

	pg := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	wrapped := fmt.Errorf("delete bookings/42: %w", pg)
	assert.Equal(t, "SQLSTATE 23503: violates foreign key constraint", Reason(wrapped))
}
