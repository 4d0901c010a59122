package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/buildsite-backend/metrics"
)

// setupRoutes mounts the public site API, the login endpoints and the
// bearer-protected admin group.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limitWrites func(http.Handler) http.Handler) {
	r.Get("/health", handlers.healthHandler.health())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/featured", handlers.projectHandler.getFeaturedProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())

		r.Get("/services", handlers.serviceHandler.getAllServices())
		r.Get("/services/featured", handlers.serviceHandler.getFeaturedServices())
		r.Get("/services/{serviceID}", handlers.serviceHandler.getService())

		r.Get("/company-info", handlers.companyInfoHandler.getAllCompanyInfo())
		r.Get("/company-info/{section}", handlers.companyInfoHandler.getCompanyInfo())

		r.Get("/analytics/pageVisits", handlers.analyticsHandler.getPageVisits())
		r.Get("/analytics/formSubmissions", handlers.analyticsHandler.getFormSubmissions())

		// Public writes are rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(limitWrites)

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Post("/services", handlers.serviceHandler.createService())
			r.Post("/contact", handlers.contactHandler.createContactMessage())
			r.Post("/waitlist", handlers.waitlistHandler.joinWaitlist())
			r.Post("/analytics/pageView", handlers.analyticsHandler.recordPageView())

			r.Post("/auth/register", handlers.authHandler.register())
			r.Post("/auth/login", handlers.authHandler.login())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/me", handlers.authHandler.me())
			r.Get("/waitlist", handlers.waitlistHandler.listWaitlist())
			r.Get("/contact-messages", handlers.contactHandler.listContactMessages())
			r.Patch("/contact-messages/{messageID}/status", handlers.contactHandler.updateContactStatus())
			r.Put("/company-info/{section}", handlers.companyInfoHandler.upsertCompanyInfo())
		})
	})
}
