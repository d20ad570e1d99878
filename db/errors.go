package db

import (
	"strings"
)

// IsConstraintViolation checks if an error came from a SQLite constraint
// (foreign key, unique, not null). Used to surface a clearer message when a
// materialization insert conflicts with the declared relationships.
//
// The string matching is necessary because the sqlite driver returns its own
// error types that cannot be wrapped at the source.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint") ||
		strings.Contains(msg, "NOT NULL constraint")
}
