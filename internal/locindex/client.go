// Package locindex is the HTTP client for the externally hosted postal/city/
// region index, the large dataset behind nearby search and postal lookups
// (as opposed to the small in-memory store).
package locindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"geosearch-api/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrUpstream tags network failures and non-2xx index responses. Services log
// it and degrade to empty results; it never crosses the public boundary.
var ErrUpstream = errors.New("locindex: upstream unavailable")

// Client talks to one location-index deployment.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// indexRow tolerates both field-name dialects the index emits
// (city/name, region/admin_name1, district/admin_name2, countryCode/country,
// confidence/relevanceScore).
type indexRow struct {
	Name           string             `json:"name"`
	City           string             `json:"city"`
	PostalCode     string             `json:"postalCode"`
	Region         string             `json:"region"`
	AdminName1     string             `json:"admin_name1"`
	District       string             `json:"district"`
	AdminName2     string             `json:"admin_name2"`
	Country        string             `json:"country"`
	CountryCode    string             `json:"countryCode"`
	Coordinates    models.Coordinates `json:"coordinates"`
	Confidence     float64            `json:"confidence"`
	RelevanceScore float64            `json:"relevanceScore"`
}

type indexResponse struct {
	Results []indexRow `json:"results"`
}

// Nearby returns up to limit candidates within radiusKm of the given point,
// optionally filtered to one country.
func (c *Client) Nearby(ctx context.Context, center models.Coordinates, radiusKm float64, country string, limit int) ([]models.MapLocation, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
	params.Add("lng", strconv.FormatFloat(center.Lng, 'f', -1, 64))
	params.Add("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	if country != "" {
		params.Add("country", country)
	}
	params.Add("limit", strconv.Itoa(limit))

	rows, err := c.get(ctx, "/locations/nearby", params)
	if err != nil {
		return nil, err
	}

	locations := make([]models.MapLocation, 0, len(rows))
	for i, row := range rows {
		locations = append(locations, models.MapLocation{
			ID:             fmt.Sprintf("%s-%s-%d", strings.ToLower(firstNonEmpty(row.CountryCode, row.Country, "xx")), row.PostalCode, i),
			Name:           firstNonEmpty(row.Name, row.City),
			Coordinates:    row.Coordinates,
			PostalCode:     row.PostalCode,
			Country:        firstNonEmpty(row.Country, models.CountryName(row.CountryCode)),
			Region:         firstNonEmpty(row.Region, row.AdminName1),
			District:       firstNonEmpty(row.District, row.AdminName2),
			Type:           models.MapLocationNearby,
			RelevanceScore: row.RelevanceScore,
		})
	}
	return locations, nil
}

// ByPostalCode returns index rows for one postal code.
func (c *Client) ByPostalCode(ctx context.Context, code, country string, limit int) ([]models.PostalCodeLookupResult, error) {
	params := url.Values{}
	params.Add("postal_code", code)
	params.Add("country", country)
	params.Add("limit", strconv.Itoa(limit))
	return c.lookup(ctx, "/locations/postal-lookup", params)
}

// ByCity returns one index row per postal code sharing the given city.
func (c *Client) ByCity(ctx context.Context, city, country string, limit int) ([]models.PostalCodeLookupResult, error) {
	params := url.Values{}
	params.Add("city", city)
	params.Add("country", country)
	params.Add("limit", strconv.Itoa(limit))
	return c.lookup(ctx, "/locations/city-lookup", params)
}

// ByRegion returns one index row per city/postal-code pair in the region.
func (c *Client) ByRegion(ctx context.Context, region, country string, limit int) ([]models.PostalCodeLookupResult, error) {
	params := url.Values{}
	params.Add("region", region)
	params.Add("country", country)
	params.Add("limit", strconv.Itoa(limit))
	return c.lookup(ctx, "/locations/region-lookup", params)
}

func (c *Client) lookup(ctx context.Context, path string, params url.Values) ([]models.PostalCodeLookupResult, error) {
	rows, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	results := make([]models.PostalCodeLookupResult, 0, len(rows))
	for _, row := range rows {
		countryCode := row.CountryCode
		if countryCode == "" {
			countryCode = models.CountryCode(row.Country)
		}
		results = append(results, models.PostalCodeLookupResult{
			PostalCode:  row.PostalCode,
			City:        firstNonEmpty(row.City, row.Name),
			Region:      firstNonEmpty(row.Region, row.AdminName1),
			District:    firstNonEmpty(row.District, row.AdminName2),
			CountryCode: strings.ToUpper(countryCode),
			Coordinates: row.Coordinates,
			Confidence:  firstPositive(row.Confidence, row.RelevanceScore),
		})
	}
	return results, nil
}

// get performs the request and filters out rows with unusable coordinates.
// Bad rows are skipped, never fail the batch.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]indexRow, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("location index request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("location index upstream error")
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("location index payload malformed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	rows := payload.Results[:0]
	for _, row := range payload.Results {
		if !finiteCoordinates(row.Coordinates) || !row.Coordinates.Valid() {
			log.Debug().Str("path", path).Str("name", firstNonEmpty(row.Name, row.City)).Msg("skipping row with unusable coordinates")
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func finiteCoordinates(c models.Coordinates) bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
