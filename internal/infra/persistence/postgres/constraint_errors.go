package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// constraint names the integrity rule a failed write broke.
type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
	constraintNotNull
)

// SQLSTATE codes reported by PostgreSQL.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// violatedConstraint classifies err. GORM translates driver errors into
// sentinels when TranslateError is on; the message checks cover what is left,
// e.g. SQLite "NOT NULL constraint failed" and untranslated pgx errors.
func violatedConstraint(err error) constraint {
	if err == nil {
		return constraintNone
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return constraintUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return constraintForeignKey
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, pgUniqueViolation):
		return constraintUnique
	case strings.Contains(msg, "foreign key"),
		strings.Contains(msg, pgForeignKeyViolation):
		return constraintForeignKey
	case strings.Contains(msg, "null value"),
		strings.Contains(msg, "not null"),
		strings.Contains(msg, pgNotNullViolation):
		return constraintNotNull
	default:
		return constraintNone
	}
}
