package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailTaken is returned when a consultation user with the same
	// email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTokenCollision is returned when a freshly generated token hits
	// the unique constraint. With 256-bit tokens this is effectively a
	// retryable internal error, never an expected case.
	ErrTokenCollision = errors.New("link token collision")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
