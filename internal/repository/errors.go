package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
	// ErrPermission is returned when the store refuses the caller.
	ErrPermission = errors.New("permission denied")
)

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
