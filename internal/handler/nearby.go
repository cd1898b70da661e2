package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"geosearch-api/internal/models"
	"geosearch-api/internal/service"

	"github.com/gin-gonic/gin"
)

// NearbyHandler handles radius search requests.
type NearbyHandler struct {
	search NearbySearcher
}

// NearbySearcher interface for dependency injection
type NearbySearcher interface {
	SearchNearby(ctx context.Context, p service.NearbyParams) *models.NearbySearchResponse
}

// NewNearbyHandler creates a new nearby handler
func NewNearbyHandler(search NearbySearcher) *NearbyHandler {
	return &NearbyHandler{search: search}
}

const defaultRadiusKm = 25.0

// Nearby handles GET /locations/nearby requests
func (h *NearbyHandler) Nearby(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lng'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	center := models.Coordinates{Lat: lat, Lng: lng}
	if !center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	radius := defaultRadiusKm
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
	}

	var countries []string
	if countriesStr := c.Query("countries"); countriesStr != "" {
		for _, country := range strings.Split(countriesStr, ",") {
			if country = strings.TrimSpace(country); country != "" {
				countries = append(countries, country)
			}
		}
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	response := h.search.SearchNearby(c.Request.Context(), service.NearbyParams{
		Center:          center,
		RadiusKm:        radius,
		Countries:       countries,
		MaxResults:      limit,
		IncludeDistance: c.Query("distance") == "1",
	})

	c.JSON(http.StatusOK, response)
}
