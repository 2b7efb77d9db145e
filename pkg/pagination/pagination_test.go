// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charted-dev/charted/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{query: "", want: pagination.Params{Page: 1, Limit: pagination.DefaultPerPage}},
		{query: "page=3&per_page=25", want: pagination.Params{Page: 3, Limit: 25}},
		{query: "limit=5", want: pagination.Params{Page: 1, Limit: 5}},
		{query: "per_page=7&limit=5", want: pagination.Params{Page: 1, Limit: 7}},
		{query: "per_page=1000", want: pagination.Params{Page: 1, Limit: pagination.MaxPerPage}},
		{query: "page=-2&per_page=zero", want: pagination.Params{Page: 1, Limit: pagination.DefaultPerPage}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/?"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	meta = pagination.NewMeta(3, 10, 25)
	assert.False(t, meta.HasMore)

	assert.Equal(t, 0, pagination.NewMeta(1, 10, 0).TotalPages)
	assert.Equal(t, 20, pagination.Params{Page: 3, Limit: 10}.Offset())
}
