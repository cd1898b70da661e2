package handler

import (
	"context"
	"net/http"

	"geosearch-api/internal/models"
	"geosearch-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler handles free-text resolution requests.
type GeocodeHandler struct {
	resolver Resolver
}

// Resolver interface for dependency injection
type Resolver interface {
	Geocode(ctx context.Context, name string, opts service.GeocodeOptions) *models.GeocodingResult
}

// NewGeocodeHandler creates a new geocode handler
func NewGeocodeHandler(resolver Resolver) *GeocodeHandler {
	return &GeocodeHandler{resolver: resolver}
}

// Geocode handles GET /geocode requests
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	opts := service.GeocodeOptions{
		PreferredCountry: c.Query("country"),
		SkipCache:        c.Query("nocache") == "1",
	}

	result := h.resolver.Geocode(c.Request.Context(), query, opts)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location unknown"})
		return
	}

	c.JSON(http.StatusOK, result)
}
