package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, opts routerOptions) *routeHandlers {
	return &routeHandlers{
		projectHandler:     newProjectHandler(deps.Store),
		serviceHandler:     newServiceHandler(deps.Store),
		companyInfoHandler: newCompanyInfoHandler(deps.Store),
		contactHandler:     newContactHandler(deps.Store, deps.Notifier),
		waitlistHandler:    newWaitlistHandler(deps.Store, deps.Notifier),
		analyticsHandler:   newAnalyticsHandler(deps.Store),
		authHandler:        newAuthHandler(deps.Store, deps.Tokens, opts.allowRegistration),
		healthHandler:      newHealthHandler(deps.Store, opts.startupTime),
	}
}
