package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationMeta describes which slice of a collection a list endpoint
// returned.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

func newPaginationMeta(totalItems int64, page, limit int) PaginationMeta {
	if limit < 1 {
		limit = 1
	}
	return PaginationMeta{
		TotalItems:  totalItems,
		TotalPages:  int((totalItems + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		PageSize:    limit,
	}
}

// pageParams reads the page/limit query parameters shared by all list
// endpoints. Out-of-range values fall back to the endpoint's default.
func pageParams(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	return page, limit, (page - 1) * limit
}
