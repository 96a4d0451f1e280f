package repository

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Pagination defaults.
const (
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultSortBy = "createdAt"
)

var sortFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// PageQuery holds page-based pagination and sort parameters.
type PageQuery struct {
	Limit     int
	Page      int
	SortBy    string
	SortOrder string
}

// Normalize applies defaults and clamps out-of-range values.
func (pq PageQuery) Normalize() PageQuery {
	if pq.Limit <= 0 {
		pq.Limit = DefaultLimit
	}
	if pq.Limit > MaxLimit {
		pq.Limit = MaxLimit
	}
	if pq.Page <= 0 {
		pq.Page = 1
	}
	if pq.Page > math.MaxInt/pq.Limit {
		pq.Page = math.MaxInt / pq.Limit
	}
	if pq.SortBy == "" {
		pq.SortBy = DefaultSortBy
	}
	pq.SortOrder = strings.ToLower(pq.SortOrder)
	if pq.SortOrder != "asc" {
		pq.SortOrder = "desc"
	}
	return pq
}

// Validate rejects sort fields that are not plain (optionally dotted) field names.
func (pq PageQuery) Validate() error {
	if pq.SortBy != "" && !sortFieldPattern.MatchString(pq.SortBy) {
		return fmt.Errorf("invalid sort field %q", pq.SortBy)
	}
	return nil
}

// Skip is the number of records before the requested page.
func (pq PageQuery) Skip() int64 {
	if pq.Page <= 1 || pq.Limit <= 0 {
		return 0
	}
	if int64(pq.Page-1) > math.MaxInt64/int64(pq.Limit) {
		return math.MaxInt64
	}
	return int64(pq.Page-1) * int64(pq.Limit)
}

// Direction is the Mongo sort direction for SortOrder.
func (pq PageQuery) Direction() int {
	if pq.SortOrder == "asc" {
		return 1
	}
	return -1
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Results      []T `json:"results"`
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// NewPageResult computes TotalPages from the total and page size.
func NewPageResult[T any](items []T, pq PageQuery, total int) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pq.Limit > 0 {
		pages = (total + pq.Limit - 1) / pq.Limit
	}
	return &PageResult[T]{
		Results:      items,
		Page:         pq.Page,
		Limit:        pq.Limit,
		TotalPages:   pages,
		TotalResults: total,
	}
}
