package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/validation"
)

type analyticsHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
}

func newAnalyticsHandler(store storage.Storage) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// recordPageView replies with a bare {"success": true}.
func (h analyticsHandler) recordPageView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.PageVisitInput](r, validation.KindPageVisit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.store.RecordPageVisit(r.Context(), input.Page); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to record page visit", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusCreated, Envelope{Success: true})
	}
}

func (h analyticsHandler) getPageVisits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visits, err := h.store.ListPageVisits(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to retrieve page visits", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, visits, "")
	}
}

func (h analyticsHandler) getFormSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissions, err := h.store.ListFormSubmissions(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to retrieve form submissions", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, submissions, "")
	}
}
