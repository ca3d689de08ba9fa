package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("already exists", map[string]any{"id": "x"})
	converted := ToDomainError(original)
	assert.Equal(t, 409, converted.HTTPStatus)
	assert.Equal(t, "CONFLICT", converted.Code)
	assert.Equal(t, map[string]any{"id": "x"}, converted.Details)
}

func TestToDomainErrorKeepsFiberStatus(t *testing.T) {
	// a role guard rejecting a non-manager must stay a 403, not collapse
	// into a 500
	converted := ToDomainError(fiber.NewError(fiber.StatusForbidden, "insufficient role"))
	require.NotNil(t, converted)
	assert.Equal(t, 403, converted.HTTPStatus)
	assert.Equal(t, "FORBIDDEN", converted.Code)
	assert.Equal(t, "insufficient role", converted.Message)

	converted = ToDomainError(fiber.NewError(fiber.StatusUnauthorized, "Unauthorized"))
	assert.Equal(t, 401, converted.HTTPStatus)
	assert.Equal(t, "UNAUTHORIZED", converted.Code)

	converted = ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, 405, converted.HTTPStatus)
	assert.Equal(t, "REQUEST_FAILED", converted.Code)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(fmt.Errorf("loading account: %w", pgx.ErrNoRows))
	assert.Equal(t, 404, converted.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	converted := ToDomainError(errors.New("boom"))
	assert.Equal(t, 500, converted.HTTPStatus)
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)

	assert.Nil(t, ToDomainError(nil))
}
