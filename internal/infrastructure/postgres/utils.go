package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/vouchers-api/internal/domain"
)

const codeUniqueViolation = "23505"

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return false
}

// uniqueUserError traduce la constraint de users violada al error de dominio.
// Los nombres vienen de 00001_users.sql.
func uniqueUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return domain.ErrEmailAlreadyExists
		case strings.Contains(pgErr.ConstraintName, "login"):
			return domain.ErrLoginAlreadyExists
		}
	}
	return domain.ErrDuplicate
}
