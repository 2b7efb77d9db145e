// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page requests for list endpoints and builds the
// metadata returned next to the page.
//
// # Query Parameters
//
//   - page:     1-indexed page number.
//   - per_page: page size, clamped to [MaxPerPage]. 'limit' is accepted as an alias.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the page size used when the request names none.
	DefaultPerPage = 10

	// MaxPerPage caps the page size.
	MaxPerPage = 100
)

// Params is a parsed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip before this page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes a returned page.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewMeta builds the metadata for page out of total items.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasMore = page < meta.TotalPages
	return meta
}

// FromRequest reads the page request from the query string. Missing or
// unusable values fall back to the first page of [DefaultPerPage] items.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	page := positiveInt(query.Get("page"), 1)

	raw := query.Get("per_page")
	if raw == "" {
		raw = query.Get("limit")
	}
	limit := positiveInt(raw, DefaultPerPage)
	if limit > MaxPerPage {
		limit = MaxPerPage
	}

	return Params{Page: page, Limit: limit}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
