package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// UniqueViolationCode indicates a unique constraint violation.
	UniqueViolationCode = "23505"
	// ForeignKeyViolationCode indicates a foreign key violation.
	ForeignKeyViolationCode = "23503"
)

func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// isViolation reports whether err is a constraint violation with the given
// SQLSTATE code on the named constraint.
func isViolation(err error, code, constraint string) bool {
	pe, ok := AsPgError(err)
	return ok && pe.Code == code && pe.ConstraintName == constraint
}
