package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/threads-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page   int  `json:"page"`
	Limit  int  `json:"limit"`
	IsNext bool `json:"is_next"`
}

// GetPaginationParams extracts page and limit from the query string.
// Missing or out-of-range values fall back to page 1 and defaultLimit.
// Pages past MaxPageNumber are clamped to it.
func GetPaginationParams(c *gin.Context, defaultLimit int) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > constants.MaxPageNumber {
		page = constants.MaxPageNumber
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = defaultLimit
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}
