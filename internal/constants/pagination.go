package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination Query Parameters
const (
	QueryParamPage     = "page"
	QueryParamLimit    = "limit"
	QueryParamPageSize = "pageSize"
	QueryParamUserID   = "userId"
)

// Pagination Limits
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MinPage      = 1
	MinLimit     = 1
	MaxLimit     = 100
)

// PaginationParams is the parsed page window of a list request.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePaginationParams reads page and limit, accepting pageSize as an
// alias for limit. Out-of-range values are clamped.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page := queryInt(c, QueryParamPage, DefaultPage)

	limitRaw := c.Query(QueryParamLimit)
	if limitRaw == "" {
		limitRaw = c.Query(QueryParamPageSize)
	}
	limit, err := strconv.Atoi(limitRaw)
	if err != nil {
		limit = DefaultLimit
	}

	return NewPaginationParams(page, limit)
}

func NewPaginationParams(page, limit int) PaginationParams {
	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
