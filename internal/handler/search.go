package handler

import (
	"net/http"
	"strconv"

	"geosearch-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles autocomplete requests against the reference store.
type SearchHandler struct {
	matcher LocationMatcher
}

// LocationMatcher interface for dependency injection
type LocationMatcher interface {
	Match(query string, limit int) []models.LocationSearchResult
}

const defaultSearchLimit = 10

// NewSearchHandler creates a new search handler
func NewSearchHandler(matcher LocationMatcher) *SearchHandler {
	return &SearchHandler{matcher: matcher}
}

// Search handles GET /locations/search requests
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	limit := defaultSearchLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	results := h.matcher.Match(query, limit)
	if results == nil {
		results = []models.LocationSearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
