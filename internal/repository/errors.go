package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist or is owned by
	// another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert or update violates a
	// uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
