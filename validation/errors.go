package validation

import (
	"errors"
	"strings"

	"github.com/rpupo63/buildsite-backend/errs"
)

// Issue is one violated constraint.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Field + " " + i.Message
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

// Field returns the offending field when exactly one field failed.
func (e *ValidationError) Field() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Field
	}
	return ""
}

// AsApiErr converts a *ValidationError into the 400 the API returns. Other
// errors are passed through untouched.
func AsApiErr(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return errs.NewValidationError(verr.Error(), verr.Field(), err)
	}
	return err
}
