// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes every API response in the registry envelope.

	{"success": true,  "data": {...}}
	{"success": false, "errors": [{"code": "...", "message": "...", "details": [...]}]}

Clients branch on 'success' and, on failure, on the stable error codes.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/ctxutil"
	"github.com/charted-dev/charted/pkg/pagination"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
	Errors  []ErrorBody      `json:"errors,omitempty"`
}

// ErrorBody is one entry of [Envelope.Errors].
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload as-is with statusCode.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 success envelope carrying page metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Meta: &metadata})
}

// NoContent writes a bare 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as a failure envelope.

Description: Errors that are not an [apperr.AppError], and do not convert to
one, become INTERNAL_ERROR; their text only reaches the log. Every 5xx is
logged with its hidden cause.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.From(err)

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope{
		Errors: []ErrorBody{{
			Code:    appError.Code,
			Message: appError.Message,
			Details: appError.Details,
		}},
	})
}
