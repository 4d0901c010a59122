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

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Storage
}

func newProjectHandler(store storage.Storage) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// getAllProjects lists the portfolio, newest first
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} Envelope "List of projects"
// @Failure 500 {object} Envelope "Failed to list projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.store.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, projects, "")
	}
}

// getFeaturedProjects lists projects flagged for the home page
// @Summary Get featured projects
// @Tags Projects
// @Produce json
// @Success 200 {object} Envelope "List of featured projects"
// @Router /api/projects/featured [get]
func (h projectHandler) getFeaturedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.store.ListFeaturedProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "featured projects", err))
			return
		}
		h.responder.WriteData(w, http.StatusOK, projects, "")
	}
}

// getProject retrieves a single project
// @Summary Get a project by ID
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} Envelope "The project"
// @Failure 400 {object} Envelope "Invalid project ID"
// @Failure 404 {object} Envelope "Project not found"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.store.GetProject(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("get", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}
		h.responder.WriteData(w, http.StatusOK, project, "")
	}
}

// createProject adds a project to the portfolio
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectInput true "Project to create"
// @Success 201 {object} Envelope "The created project"
// @Failure 400 {object} Envelope "Validation error"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.ProjectInput](r, validation.KindProject)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.store.CreateProject(r.Context(), input.ToProject())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Int64("projectId", project.ID).Str("title", project.Title).Msg("project created")
		h.responder.WriteData(w, http.StatusCreated, project, "")
	}
}
