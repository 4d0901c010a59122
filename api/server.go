package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/config"
	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/metrics"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies, settings config.Settings) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)

	startupTime := time.Now()

	router, err := newRouter(deps, withSettings(settings), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

func withSettings(s config.Settings) func(*routerOptions) {
	return func(o *routerOptions) {
		o.allowRegistration = s.AllowRegistration
		o.rateLimit = s.RateLimit
		o.trustProxy = s.TrustProxy
		o.maxBodyBytes = s.MaxBodyBytes
		o.acceptedOrigins = s.AcceptedOrigins
		o.logFormat = s.LogFormat
	}
}

func withStartupTime(startupTime time.Time) func(*routerOptions) {
	return func(o *routerOptions) {
		o.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*routerOptions)) (*chi.Mux, error) {
	options := routerOptions{
		startupTime:  time.Now(),
		rateLimit:    "30-M",
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(&options)
	}

	limitWrites, err := RateLimit(options.rateLimit, options.trustProxy)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", options.rateLimit, err)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metrics.Middleware)
	chiRouter.Use(HTTPLoggingMiddleware(options.logFormat))
	chiRouter.Use(corsMiddleware(options.acceptedOrigins))
	chiRouter.Use(LimitBody(options.maxBodyBytes))

	responder := NewResponder(log.With().Str("handlerName", "router").Logger())
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("Route not found"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	handlers := initializeHandlers(deps, options)
	authMiddleware := newAuthMiddleware(deps.Tokens)

	setupRoutes(chiRouter, handlers, authMiddleware, limitWrites)

	return chiRouter, nil
}

// corsMiddleware allows the listed origins. With none configured every
// origin is allowed, which suits local development.
func corsMiddleware(acceptedOrigins []string) func(http.Handler) http.Handler {
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
