package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Paginator caps page/limit style pagination for list endpoints.
type Paginator struct {
	PageSize    int
	MaxPageSize int
}

// Parse reads page and limit query params. Pages start at 1; limit defaults
// to the configured page size and is capped at the maximum.
func (p Paginator) Parse(c *gin.Context) (limit, offset int) {
	limit = p.PageSize
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > p.MaxPageSize {
		limit = p.MaxPageSize
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	return limit, (page - 1) * limit
}
