package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("db error: %w", &pgconn.PgError{Code: CodeUniqueViolation})

	assert.True(t, HasCode(err, CodeUniqueViolation))
	assert.False(t, HasCode(err, CodeForeignKeyViolation))
	assert.False(t, HasCode(errors.New("plain"), CodeUniqueViolation))
	assert.False(t, HasCode(nil, CodeUniqueViolation))
}
