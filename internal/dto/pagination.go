package dto

import "math"

// PagedResponse is the envelope of every list endpoint.
type PagedResponse[T any] struct {
	Items           []T   `json:"items"`
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalCount      int64 `json:"totalCount"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// NewPagedResponse derives the page counters from total.
func NewPagedResponse[T any](items []T, page, pageSize int, total int64) PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return PagedResponse[T]{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}
}
