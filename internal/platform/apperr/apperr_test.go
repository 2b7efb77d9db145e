// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charted-dev/charted/internal/platform/apperr"
)

type teapot struct{}

func (teapot) Error() string { return "teapot" }

func (teapot) AppError() *apperr.AppError {
	return apperr.New(http.StatusTeapot, "TEAPOT", "short and stout")
}

func TestFrom(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app error", err: apperr.NotFound("Session"), wantStatus: http.StatusNotFound, wantCode: apperr.CodeNotFound},
		{name: "wrapped app error", err: fmt.Errorf("store: %w", apperr.Conflict("taken")), wantStatus: http.StatusConflict, wantCode: apperr.CodeConflict},
		{name: "converter", err: fmt.Errorf("resolve: %w", teapot{}), wantStatus: http.StatusTeapot, wantCode: "TEAPOT"},
		{name: "plain error", err: errors.New("pgx: connection reset"), wantStatus: http.StatusInternalServerError, wantCode: apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.From(tt.err)
			assert.Equal(t, tt.wantStatus, appError.HTTPStatus)
			assert.Equal(t, tt.wantCode, appError.Code)
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("relation \"users\" does not exist")
	appError := apperr.Internal(cause)

	assert.NotContains(t, appError.Error(), "relation")
	assert.ErrorIs(t, appError, cause)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(fmt.Errorf("lookup: %w", apperr.NotFound("User"))))
	assert.False(t, apperr.IsNotFound(apperr.Forbidden("no")))
	assert.False(t, apperr.IsNotFound(errors.New("boom")))
}
