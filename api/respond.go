package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/validation"
)

const genericErrorMessage = "An unexpected error occurred"

// Envelope is the shape of every response body.
type Envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
	Errors  []validation.Issue `json:"errors,omitempty"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, body any) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"` + genericErrorMessage + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData writes a successful envelope. message may be empty.
func (r Responder) WriteData(w http.ResponseWriter, status int, data any, message string) {
	r.WriteJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// WriteError maps err onto a failure envelope. Anything that is not an
// *errs.ApiErr is logged and reported as a generic 500, so driver messages
// never reach the client.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, Envelope{Message: genericErrorMessage})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
	}

	body := Envelope{Message: apiErr.Message()}
	var verr *validation.ValidationError
	if errors.As(apiErr.Cause, &verr) {
		body.Errors = verr.Issues
	}
	r.WriteJSON(w, apiErr.StatusCode, body)
}
