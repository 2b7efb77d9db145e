// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/charted-dev/charted/internal/platform/request"
	"github.com/charted-dev/charted/internal/platform/respond"
	"github.com/charted-dev/charted/internal/platform/validate"
)

// Handler implements the /users endpoints.
type Handler struct {
	accountService *Service
	guard          func(http.Handler) http.Handler
}

// NewHandler constructs a new account [Handler]. guard wraps the sign-up
// route, typically with a per-IP rate limiter.
func NewHandler(service *Service, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{accountService: service, guard: guard}
}

// Routes returns a [chi.Router] for public account endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(handler.guard).Post("/", handler.register)
	return router
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register creates an account.

POST /api/v1/users

Response:
  - 201: User
  - 400: VALIDATION_ERROR
  - 403: REGISTRATIONS_DISABLED
  - 406: MISSING_PASSWORD
  - 409: CONFLICT
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.accountService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}
