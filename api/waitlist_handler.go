package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/notify"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/validation"
)

const duplicateWaitlistMessage = "Email already registered on waitlist"

type waitlistHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
	notifier  *notify.Notifier
}

func newWaitlistHandler(store storage.Storage, notifier *notify.Notifier) waitlistHandler {
	logger := log.With().Str("handlerName", "waitlistHandler").Logger()

	return waitlistHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		notifier:  notifier,
	}
}

type waitlistJoinedResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h waitlistHandler) joinWaitlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.WaitlistEntryInput](r, validation.KindWaitlistEntry)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry, err := h.store.CreateWaitlistEntry(r.Context(), input.ToWaitlistEntry())
		if err != nil {
			if errs.IsAlreadyExists(err) {
				metrics.RecordWaitlistDuplicate()
			}
			h.responder.WriteError(w, wrapDatabaseError("join", "waitlist", err, duplicateWaitlistMessage))
			return
		}

		recordSubmission(r.Context(), h.store, h.logger, models.FormTypeWaitlist)
		h.notifier.WaitlistJoined(*entry)

		h.logger.Info().Int64("entryId", entry.ID).Msg("waitlist entry created")
		h.responder.WriteData(w, http.StatusCreated, waitlistJoinedResponse{
			ID:    entry.ID,
			Name:  entry.Name,
			Email: entry.Email,
		}, "Successfully joined the waitlist")
	}
}

// listWaitlist is admin only.
func (h waitlistHandler) listWaitlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.store.ListWaitlistEntries(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "waitlist entries", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, entries, "")
	}
}
