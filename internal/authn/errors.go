// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charted-dev/charted/internal/platform/apperr"
)

// # Rejections

// Reason is the stable, client-visible cause of a rejected request.
type Reason string

const (
	ReasonMissingAuthorizationHeader Reason = "MISSING_AUTHORIZATION_HEADER"
	ReasonInvalidCredentialFormat    Reason = "INVALID_CREDENTIAL_FORMAT"
	ReasonBasicAuthDisabled          Reason = "BASIC_AUTH_DISABLED"
	ReasonRefreshTokenRequired       Reason = "REFRESH_TOKEN_REQUIRED"
	ReasonInvalidPassword            Reason = "INVALID_PASSWORD"
	ReasonInvalidCredential          Reason = "INVALID_CREDENTIAL"
	ReasonExpiredCredential          Reason = "EXPIRED_CREDENTIAL"
	ReasonUnknownAccount             Reason = "UNKNOWN_ACCOUNT"
	ReasonBackendUnavailable         Reason = "BACKEND_UNAVAILABLE"
	ReasonInsufficientPermissions    Reason = "ACCESS_NOT_PERMITTED"
)

type reasonInfo struct {
	status  int
	message string
}

var reasons = map[Reason]reasonInfo{
	ReasonMissingAuthorizationHeader: {http.StatusUnauthorized, "Missing 'Authorization' header"},
	ReasonInvalidCredentialFormat:    {http.StatusNotAcceptable, "Authorization header is not in an accepted format"},
	ReasonBasicAuthDisabled:          {http.StatusBadRequest, "Basic authentication is disabled on this server"},
	ReasonRefreshTokenRequired:       {http.StatusNotAcceptable, "This route requires a refresh token"},
	ReasonInvalidPassword:            {http.StatusUnauthorized, "Invalid username or password"},
	ReasonInvalidCredential:          {http.StatusUnauthorized, "Invalid credentials"},
	ReasonExpiredCredential:          {http.StatusUnauthorized, "Credentials have expired"},
	ReasonUnknownAccount:             {http.StatusNotFound, "Account for these credentials no longer exists"},
	ReasonBackendUnavailable:         {http.StatusServiceUnavailable, "Authentication is temporarily unavailable"},
	ReasonInsufficientPermissions:    {http.StatusForbidden, "You do not have permission to perform this action"},
}

// Rejection is the outcome of a failed authentication or authorization step.
//
// Cause and Detail are for server-side logs only.
type Rejection struct {
	Reason Reason
	Detail string
	Cause  error
}

// Reject builds a [*Rejection].
func Reject(reason Reason, detail string, cause error) *Rejection {
	return &Rejection{Reason: reason, Detail: detail, Cause: cause}
}

func (r *Rejection) Error() string {
	message := fmt.Sprintf("authn: %s", r.Reason)
	if r.Detail != "" {
		message += ": " + r.Detail
	}
	if r.Cause != nil {
		message += ": " + r.Cause.Error()
	}
	return message
}

func (r *Rejection) Unwrap() error { return r.Cause }

// HTTPStatus is the status code the rejection maps to.
func (r *Rejection) HTTPStatus() int {
	if info, ok := reasons[r.Reason]; ok {
		return info.status
	}
	return http.StatusUnauthorized
}

// AppError converts the rejection for [respond.Error].
func (r *Rejection) AppError() *apperr.AppError {
	info, ok := reasons[r.Reason]
	if !ok {
		info = reasonInfo{http.StatusUnauthorized, "Unauthorized"}
	}

	appError := apperr.New(info.status, string(r.Reason), info.message)
	appError.Cause = r
	return appError
}

// ReasonOf extracts the [Reason] of a rejection anywhere in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection.Reason, true
	}
	return "", false
}
