// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/charted-dev/charted/internal/authn"
	requestutil "github.com/charted-dev/charted/internal/platform/request"
	"github.com/charted-dev/charted/internal/platform/respond"
	"github.com/charted-dev/charted/internal/platform/validate"
)

// # Definitions & Constructors

// Authenticator builds the authentication middleware for a route's requirements.
type Authenticator func(options authn.Options) func(http.Handler) http.Handler

// Handler implements the /users/@me endpoints.
type Handler struct {
	authService  *Service
	authenticate Authenticator
	loginGuard   func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler]. loginGuard wraps the login route
// only, typically with a strict per-IP rate limiter.
func NewHandler(service *Service, authenticate Authenticator, loginGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{authService: service, authenticate: authenticate, loginGuard: loginGuard}
}

// Routes returns a [chi.Router] for the current user.
//
// # Endpoints
//   - GET  /                  : The caller's account.
//   - GET  /sessions          : IDs of the caller's live sessions.
//   - POST /sessions/login    : Opens a session from a username or email and password.
//   - POST /sessions/logout   : Deletes the session used for the request.
//   - POST /sessions/refresh  : Rotates the session. Requires the refresh token.
//   - DELETE /sessions        : Deletes every session except the current one.
//   - DELETE /sessions/{id}   : Deletes one of the caller's sessions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.With(handler.loginGuard).Post("/sessions/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate(authn.Options{}))
		r.Get("/", handler.me)
		r.Get("/sessions", handler.sessions)
		r.Post("/sessions/logout", handler.logout)
		r.Delete("/sessions", handler.revokeOthers)
		r.Delete("/sessions/{"+FieldSessionID+"}", handler.revoke)
	})

	router.With(handler.authenticate(authn.Options{RequireRefreshToken: true})).
		Post("/sessions/refresh", handler.refresh)

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Login opens a new session.

POST /api/v1/users/@me/sessions/login

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: SessionTokens
  - 401: INVALID_PASSWORD
  - 503: BACKEND_UNAVAILABLE
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

/*
Logout deletes the session used to authenticate this request.

POST /api/v1/users/@me/sessions/logout

Response:
  - 204: Session deleted
  - 401: Not authenticated with a session token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), identity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Refresh rotates the session.

POST /api/v1/users/@me/sessions/refresh

Request:
  - Header: Authorization: Bearer <refresh token>

Response:
  - 200: SessionTokens for the new session
  - 406: REFRESH_TOKEN_REQUIRED
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.Refresh(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

// GET /api/v1/users/@me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Account(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// GET /api/v1/users/@me/sessions
func (handler *Handler) sessions(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := handler.authService.Sessions(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ids)
}

// DELETE /api/v1/users/@me/sessions/{sessionID}
func (handler *Handler) revoke(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID := requestutil.Param(request, FieldSessionID)
	validator := &validate.Validator{}
	if err := validator.UUID(FieldSessionID, sessionID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Revoke(request.Context(), identity, sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// DELETE /api/v1/users/@me/sessions
func (handler *Handler) revokeOthers(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	revoked, err := handler.authService.RevokeOthers(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"revoked": revoked})
}
