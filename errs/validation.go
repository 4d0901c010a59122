package errs

import (
	"errors"
	"net/http"
)

var ErrValidation = errors.New("validation error")

// NewValidationError carries an aggregated, human readable message. field is
// set when exactly one field failed.
func NewValidationError(message, field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    message,
		Field:      field,
		Cause:      cause,
	}
}
