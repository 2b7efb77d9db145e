// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/middleware"
	requestutil "github.com/charted-dev/charted/internal/platform/request"
	"github.com/charted-dev/charted/internal/platform/respond"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/platform/validate"
	"github.com/charted-dev/charted/pkg/pagination"
)

// EntityParam is the route parameter holding the organization or repository ID.
const EntityParam = "entityID"

// Authenticator builds the authentication middleware for a route's requirements.
type Authenticator func(options authn.Options) func(http.Handler) http.Handler

// Handler implements the member endpoints of one entity [Kind].
type Handler struct {
	service      *Service
	lookup       middleware.MemberLookup
	authenticate Authenticator
	kind         Kind
}

// NewHandler constructs a new [Handler] for kind.
func NewHandler(service *Service, lookup middleware.MemberLookup, authenticate Authenticator, kind Kind) *Handler {
	return &Handler{service: service, lookup: lookup, authenticate: authenticate, kind: kind}
}

// Routes returns a [chi.Router] meant to be mounted under a path that
// declares {entityID}, e.g. /organizations/{entityID}/members.
//
// # Endpoints
//   - GET    /            : Any member. Lists members.
//   - PATCH  /{accountID} : Requires member:update. Replaces a member's permissions.
//   - DELETE /{accountID} : Requires member:kick. Removes a member.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(
		handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(handler.kind.ListScope)}),
		middleware.RequireMember(handler.lookup, handler.kind.Table, EntityParam),
	).Get("/", handler.list)

	router.With(
		handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(handler.kind.UpdateScope)}),
		middleware.RequireMember(handler.lookup, handler.kind.Table, EntityParam, sec.MemberUpdate),
	).Patch("/{accountID}", handler.update)

	router.With(
		handler.authenticate(authn.Options{Scopes: sec.NewAPIKeyScopes(handler.kind.KickScope)}),
		middleware.RequireMember(handler.lookup, handler.kind.Table, EntityParam, sec.MemberKick),
	).Delete("/{accountID}", handler.kick)

	return router
}

type updateRequest struct {
	Permissions []string `json:"permissions"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	members, meta, err := handler.service.List(
		request.Context(),
		handler.kind,
		requestutil.Param(request, EntityParam),
		pagination.FromRequest(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, members, meta)
}

/*
Update replaces a member's permission set.

PATCH /api/v1/{organizations|repositories}/{entityID}/members/{accountID}

Request:
  - Body: {"permissions": ["member:invite", ...]}

Response:
  - 200: Member
  - 400: VALIDATION_ERROR
  - 403: ACCESS_NOT_PERMITTED or escalation attempt
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	member, err := handler.service.UpdatePermissions(
		request.Context(),
		handler.kind,
		requestutil.Param(request, EntityParam),
		identity,
		requestutil.Param(request, "accountID"),
		input.Permissions,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, member)
}

// DELETE /api/v1/{organizations|repositories}/{entityID}/members/{accountID}
func (handler *Handler) kick(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Kick(
		request.Context(),
		handler.kind,
		requestutil.Param(request, EntityParam),
		requestutil.Param(request, "accountID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
