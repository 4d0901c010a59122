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

type serviceHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
}

func newServiceHandler(store storage.Storage) serviceHandler {
	logger := log.With().Str("handlerName", "serviceHandler").Logger()

	return serviceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

func (h serviceHandler) getAllServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := h.store.ListServices(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "services", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, services, "")
	}
}

func (h serviceHandler) getFeaturedServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := h.store.ListFeaturedServices(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "featured services", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, services, "")
	}
}

func (h serviceHandler) getService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "serviceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		service, err := h.store.GetService(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("get", "service", err))
			return
		}
		if service == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Service not found"))
			return
		}
		h.responder.WriteData(w, http.StatusOK, service, "")
	}
}

func (h serviceHandler) createService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.ServiceInput](r, validation.KindService)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		service, err := h.store.CreateService(r.Context(), input.ToService())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "service", err))
			return
		}

		h.logger.Info().Int64("serviceId", service.ID).Msg("service created")
		h.responder.WriteData(w, http.StatusCreated, service, "")
	}
}
