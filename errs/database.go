package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Storage backends wrap these so handlers can classify failures without
// knowing which driver produced them.
var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// NewDatabaseError classifies an error returned by the storage layer.
// conflictMessage is shown to the client when the error is a uniqueness
// violation; an empty value falls back to "<entity> already exists".
func NewDatabaseError(operation, entity string, cause error, conflictMessage ...string) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch {
	case cause == nil:
	case errors.Is(cause, ErrAlreadyExists):
		msg := fmt.Sprintf("%s already exists", entity)
		if len(conflictMessage) > 0 && conflictMessage[0] != "" {
			msg = conflictMessage[0]
		}
		return NewConflictError(msg, cause)
	case errors.Is(cause, ErrNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        ErrNotFound,
			Details:    fmt.Sprintf("%s not found", capitalize(entity)),
			Cause:      cause,
		}
	case errors.Is(cause, ErrDatabaseConnection), errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to reach the database",
			Cause:      cause,
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
