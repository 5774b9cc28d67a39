package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Pagination is the page window passed from handlers down to repositories.
type Pagination struct {
	Page  int
	Limit int
}

func (p *Pagination) Offset() int {
	if p == nil || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// GetPagination extracts ?page and ?limit with defaults (page 1, 20 items, at most 100).
func GetPagination(c echo.Context) *Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if page <= 0 {
		page = 1
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return &Pagination{
		Page:  page,
		Limit: limit,
	}
}
