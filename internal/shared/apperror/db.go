package apperror

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// FromDB translates repository errors: missing rows become notFound and
// unique violations become conflict. Anything else is returned unchanged.
func FromDB(err error, notFound, conflict *AppError) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	if IsUniqueViolation(err, "") {
		if conflict != nil {
			return conflict
		}
		return ErrConflict
	}

	return err
}

// IsUniqueViolation reports whether err is a postgres unique violation,
// optionally restricted to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation &&
			(constraint == "" || pgErr.ConstraintName == constraint)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == ""
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") &&
		(constraint == "" || strings.Contains(msg, strings.ToLower(constraint)))
}
