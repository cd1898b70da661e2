package handler

import (
	"context"
	"net/http"

	"geosearch-api/internal/models"
	"geosearch-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PostalHandler handles postal-code, city and region lookups.
type PostalHandler struct {
	lookup PostalLookup
}

// PostalLookup interface for dependency injection
type PostalLookup interface {
	LookupByPostalCode(ctx context.Context, code, country string) []models.PostalCodeLookupResult
	LookupByCity(ctx context.Context, city, country string) []models.CityLookupResult
	LookupByRegion(ctx context.Context, region, country string) []models.RegionLookupResult
}

// NewPostalHandler creates a new postal handler
func NewPostalHandler(lookup PostalLookup) *PostalHandler {
	return &PostalHandler{lookup: lookup}
}

// LookupByPostalCode handles GET /postal-codes/lookup requests
func (h *PostalHandler) LookupByPostalCode(c *gin.Context) {
	code := c.Query("postal_code")
	country := c.Query("country")
	if code == "" || country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'postal_code' and 'country'"})
		return
	}

	results := h.lookup.LookupByPostalCode(c.Request.Context(), code, country)
	if results == nil {
		results = []models.PostalCodeLookupResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// LookupByCity handles GET /postal-codes/city requests
func (h *PostalHandler) LookupByCity(c *gin.Context) {
	city := c.Query("city")
	country := c.Query("country")
	if city == "" || country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'city' and 'country'"})
		return
	}

	results := h.lookup.LookupByCity(c.Request.Context(), city, country)
	if results == nil {
		results = []models.CityLookupResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// LookupByRegion handles GET /postal-codes/region requests
func (h *PostalHandler) LookupByRegion(c *gin.Context) {
	region := c.Query("region")
	country := c.Query("country")
	if region == "" || country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'region' and 'country'"})
		return
	}

	results := h.lookup.LookupByRegion(c.Request.Context(), region, country)
	if results == nil {
		results = []models.RegionLookupResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ValidatePostalCode handles GET /postal-codes/validate requests
func (h *PostalHandler) ValidatePostalCode(c *gin.Context) {
	code := c.Query("postal_code")
	country := c.Query("country")
	if code == "" || country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'postal_code' and 'country'"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"postalCode": code,
		"country":    country,
		"valid":      service.ValidatePostalCode(code, country),
	})
}
