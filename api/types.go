package api

import (
	"time"

	"github.com/rpupo63/buildsite-backend/auth"
	"github.com/rpupo63/buildsite-backend/notify"
	"github.com/rpupo63/buildsite-backend/storage"
)

// Dependencies is everything the router needs from main.
type Dependencies struct {
	Store    storage.Storage
	Tokens   *auth.Tokens
	Notifier *notify.Notifier
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler     projectHandler
	serviceHandler     serviceHandler
	companyInfoHandler companyInfoHandler
	contactHandler     contactHandler
	waitlistHandler    waitlistHandler
	analyticsHandler   analyticsHandler
	authHandler        authHandler
	healthHandler      healthHandler
}

type routerOptions struct {
	allowRegistration bool
	startupTime       time.Time
	rateLimit         string
	trustProxy        bool
	maxBodyBytes      int64
	acceptedOrigins   []string
	logFormat         string
}
