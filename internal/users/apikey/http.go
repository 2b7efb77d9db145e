// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/charted-dev/charted/internal/authn"
	requestutil "github.com/charted-dev/charted/internal/platform/request"
	"github.com/charted-dev/charted/internal/platform/respond"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/platform/validate"
	"github.com/charted-dev/charted/pkg/pagination"
)

// Authenticator builds the authentication middleware for a route's requirements.
type Authenticator func(options authn.Options) func(http.Handler) http.Handler

// Handler implements the /apikeys endpoints.
type Handler struct {
	service      *Service
	authenticate Authenticator
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, authenticate Authenticator) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] for the caller's API keys.
//
// API key callers need the matching apikeys:* scope on every route.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(sec.ScopeAPIKeyList)})).
		Get("/", handler.list)
	router.With(handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(sec.ScopeAPIKeyCreate)})).
		Post("/", handler.create)
	router.With(handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(sec.ScopeAPIKeyDelete)})).
		Delete("/{id}", handler.delete)

	return router
}

type createRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Scopes      []string `json:"scopes"`
	// ExpiresIn is a Go duration string such as "720h".
	ExpiresIn string `json:"expires_in"`
}

/*
Create generates a new API key.

POST /api/v1/apikeys

Response:
  - 201: The key, including the raw token
  - 400: VALIDATION_ERROR
  - 409: CONFLICT
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	var expiresIn time.Duration
	if input.ExpiresIn != "" {
		expiresIn, err = time.ParseDuration(input.ExpiresIn)
		if err != nil {
			validator := &validate.Validator{}
			validator.Custom(FieldExpiresIn, true, "Must be a duration such as 720h")
			respond.Error(writer, request, validator.Err())
			return
		}
	}

	created, err := handler.service.Create(request.Context(), userID, CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Scopes:      input.Scopes,
		ExpiresIn:   expiresIn,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// GET /api/v1/apikeys
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	keys, meta, err := handler.service.List(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, keys, meta)
}

// DELETE /api/v1/apikeys/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
