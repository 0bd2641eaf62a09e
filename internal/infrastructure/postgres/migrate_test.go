package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vouchers-api/internal/domain"
)

func TestMigrations_AnotacionesGoose(t *testing.T) {
	files, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		raw, err := fs.ReadFile(migrationsFS, f)
		require.NoError(t, err)
		body := string(raw)
		up := strings.Index(body, "-- +goose Up")
		down := strings.Index(body, "-- +goose Down")
		assert.GreaterOrEqual(t, up, 0, f)
		assert.Greater(t, down, up, f)
	}
}

func TestUniqueUserError_PorConstraint(t *testing.T) {
	email := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	login := &pgconn.PgError{Code: "23505", ConstraintName: "users_login_key"}
	other := &pgconn.PgError{Code: "23505", ConstraintName: "users_referral_code_key"}

	assert.True(t, isUniqueViolation(email))
	assert.ErrorIs(t, uniqueUserError(email), domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, uniqueUserError(login), domain.ErrLoginAlreadyExists)
	assert.ErrorIs(t, uniqueUserError(other), domain.ErrDuplicate)
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}
