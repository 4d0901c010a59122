package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/validation"
)

type companyInfoHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
}

func newCompanyInfoHandler(store storage.Storage) companyInfoHandler {
	logger := log.With().Str("handlerName", "companyInfoHandler").Logger()

	return companyInfoHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

func (h companyInfoHandler) getAllCompanyInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := h.store.ListCompanyInfo(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "company information", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, sections, "")
	}
}

func (h companyInfoHandler) getCompanyInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := chi.URLParam(r, "section")

		info, err := h.store.GetCompanyInfo(r.Context(), section)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("get", "company information", err))
			return
		}
		if info == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Company information not found"))
			return
		}
		h.responder.WriteData(w, http.StatusOK, info, "")
	}
}

// upsertCompanyInfo replaces the content of a section, creating it when
// needed. The section in the path wins over any section in the body.
func (h companyInfoHandler) upsertCompanyInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := strings.ToLower(chi.URLParam(r, "section"))
		input, err := decodeInput[models.CompanyInfoInput](r, validation.KindCompanyInfo, field{"section", section})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		info, err := h.store.UpsertCompanyInfo(r.Context(), input.ToCompanyInfo())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "company information", err))
			return
		}

		user, _ := ctxGetUser(r.Context())
		h.logger.Info().Str("section", info.Section).Str("updatedBy", user.Username).Msg("company information saved")
		h.responder.WriteData(w, http.StatusOK, info, "")
	}
}
