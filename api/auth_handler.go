package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/auth"
	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/validation"
)

const invalidCredentialsMessage = "Invalid username or password"

type authHandler struct {
	responder         Responder
	logger            zerolog.Logger
	store             storage.Storage
	tokens            *auth.Tokens
	allowRegistration bool
}

func newAuthHandler(store storage.Storage, tokens *auth.Tokens, allowRegistration bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:         NewResponder(logger),
		logger:            logger,
		store:             store,
		tokens:            tokens,
		allowRegistration: allowRegistration,
	}
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// register creates an admin account. It is closed unless
// ALLOW_REGISTRATION is set; create-admin covers the normal bootstrap.
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allowRegistration {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusForbidden, "Registration is disabled"))
			return
		}

		input, err := decodeInput[models.UserInput](r, validation.KindUser)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to create user", err))
			return
		}

		user, err := h.store.CreateUser(r.Context(), models.NewUser{Username: input.Username, PasswordHash: hash})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err, "Username already taken"))
			return
		}

		h.logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("user registered")
		h.responder.WriteData(w, http.StatusCreated, user, "")
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeInput[models.LoginInput](r, validation.KindLogin)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.store.GetUserByUsername(r.Context(), input.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("get", "user", err))
			return
		}
		if user == nil {
			// Spend the same bcrypt time as a real check.
			_ = auth.CheckPassword(dummyHash, input.Password)
			metrics.RecordAuthAttempt(false)
			h.responder.WriteError(w, errs.NewUnauthorizedError(invalidCredentialsMessage))
			return
		}
		if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
			metrics.RecordAuthAttempt(false)
			h.logger.Warn().Str("username", input.Username).Msg("failed login")
			h.responder.WriteError(w, errs.NewUnauthorizedError(invalidCredentialsMessage))
			return
		}

		token, expiresAt, err := h.tokens.Issue(*user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to issue token", err))
			return
		}

		metrics.RecordAuthAttempt(true)
		h.responder.WriteData(w, http.StatusOK, loginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      *user,
		}, "")
	}
}

// me echoes the authenticated admin; the front end uses it to check a
// stored token.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Authentication required"))
			return
		}

		user, err := h.store.GetUser(r.Context(), current.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("get", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid token"))
			return
		}
		h.responder.WriteData(w, http.StatusOK, user, "")
	}
}

// bcrypt hash of a random string, used when the username does not exist.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1Fq4L3q9yHq7PZ0a8p3Gk6W"
