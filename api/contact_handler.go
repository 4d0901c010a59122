package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/notify"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/validation"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
	notifier  *notify.Notifier
}

func newContactHandler(store storage.Storage, notifier *notify.Notifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		notifier:  notifier,
	}
}

type contactCreatedResponse struct {
	ID int64 `json:"id"`
}

// createContactMessage stores a message from the contact form
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body models.ContactMessageInput true "Contact form"
// @Success 201 {object} Envelope "Message stored"
// @Failure 400 {object} Envelope "Validation error"
// @Router /api/contact [post]
func (h contactHandler) createContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.ContactMessageInput](r, validation.KindContactMessage)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.store.CreateContactMessage(r.Context(), input.ToContactMessage())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("send", "message", err))
			return
		}

		recordSubmission(r.Context(), h.store, h.logger, models.FormTypeContact)
		h.notifier.ContactReceived(*message)

		h.responder.WriteData(w, http.StatusCreated, contactCreatedResponse{ID: message.ID},
			"Your message has been sent successfully!")
	}
}

// recordSubmission logs a form submission for analytics. The primary write
// has already succeeded, so a failure here is logged and swallowed.
func recordSubmission(ctx context.Context, store storage.Storage, logger zerolog.Logger, formType string) {
	metrics.RecordFormSubmission(formType)
	if _, err := store.RecordFormSubmission(ctx, formType); err != nil {
		logger.Warn().Err(err).Str("formType", formType).Msg("failed to record form submission")
	}
}

func (h contactHandler) listContactMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.store.ListContactMessages(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "contact messages", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, messages, "")
	}
}

// updateContactStatus moves a message between new, read, replied and archived.
func (h contactHandler) updateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "messageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input, err := decodeInput[models.ContactStatusInput](r, validation.KindContactStatus)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.store.UpdateContactMessageStatus(r.Context(), id, input.Status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contact message", err))
			return
		}

		user, _ := ctxGetUser(r.Context())
		h.logger.Info().
			Int64("messageId", id).
			Str("status", input.Status).
			Str("updatedBy", user.Username).
			Msg("contact message status updated")
		h.responder.WriteData(w, http.StatusOK, message, "")
	}
}
