package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/validation"
)

// decodeInput reads the request body and validates it as T. Fields in
// overrides replace those sent by the client, so path parameters go through
// the same checks as the body. The returned error is always an *errs.ApiErr.
func decodeInput[T any](r *http.Request, kind validation.Kind, overrides ...field) (T, error) {
	var zero T

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return zero, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return zero, errs.NewMalformedPayloadError("Could not read request body", err)
	}

	if len(overrides) > 0 {
		body = withFields(body, overrides)
	}

	input, err := validation.Decode[T](body)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(string(kind))
			return zero, validation.AsApiErr(verr)
		}
		return zero, errs.NewInternalErrorWithCause("Failed to validate request", err)
	}
	return input, nil
}

type field struct {
	name  string
	value string
}

// withFields sets fields on a JSON object body. Anything that is not an
// object is returned untouched for the validator to reject.
func withFields(body []byte, fields []field) []byte {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		return body
	}
	for _, f := range fields {
		encoded, err := json.Marshal(f.value)
		if err != nil {
			return body
		}
		object[f.name] = encoded
	}
	merged, err := json.Marshal(object)
	if err != nil {
		return body
	}
	return merged
}

func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidFieldError(param, "must be a positive integer")
	}
	return id, nil
}

func wrapDatabaseError(operation, entity string, cause error, conflictMessage ...string) error {
	return errs.NewDatabaseError(operation, entity, cause, conflictMessage...)
}
