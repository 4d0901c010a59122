package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/storage"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	store       storage.Storage
	startupTime time.Time
}

func newHealthHandler(store storage.Storage, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		store:       store,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Uptime  string `json:"uptime"`
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:  "ok",
			Storage: h.store.Name(),
			Uptime:  time.Since(h.startupTime).Round(time.Second).String(),
		}
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Str("storage", h.store.Name()).Msg("storage ping failed")
			resp.Status = "unavailable"
			h.responder.WriteJSON(w, http.StatusServiceUnavailable, Envelope{Success: false, Data: resp})
			return
		}
		h.responder.WriteData(w, http.StatusOK, resp, "")
	}
}
