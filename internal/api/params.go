package api

import (
	"strconv"

	"drops_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// pagination reads page and page_size with the usual defaults and limits
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

// pageBody builds the paginated response body under key
func pageBody(key string, items any, page, pageSize int, total int64) gin.H {
	return gin.H{
		key:           items,
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (int(total) + pageSize - 1) / pageSize,
	}
}

// optionalUint parses a query parameter; absent yields nil
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return nil, false
	}
	u := uint(v)
	return &u, true
}

// optionalFloat parses a query parameter; absent yields nil
func optionalFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// principalID returns the authenticated user's ID
func principalID(c *gin.Context) uint {
	return c.GetUint(middleware.UserIDKey)
}
