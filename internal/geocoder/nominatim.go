// Package geocoder is the fallback resolution tier: a client for a
// Nominatim-compatible search API used when the in-memory store has no match.
package geocoder

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

// ErrUpstream tags network failures and non-2xx upstream responses so callers
// can tell them apart from a plain miss. The resolver collapses both to a nil
// result at its public boundary.
var ErrUpstream = errors.New("geocoder: upstream unavailable")

const userAgent = "geosearch-api/1.0"

// Client queries a Nominatim-compatible endpoint.
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

type nominatimAddress struct {
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	County        string `json:"county"`
	District      string `json:"district"`
	State         string `json:"state"`
	Region        string `json:"region"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}

type nominatimExtraTags struct {
	Population string `json:"population"`
}

// nominatimResult mirrors the relevant parts of the search payload.
type nominatimResult struct {
	Lat         string             `json:"lat"`
	Lon         string             `json:"lon"`
	DisplayName string             `json:"display_name"`
	Address     nominatimAddress   `json:"address"`
	ExtraTags   nominatimExtraTags `json:"extratags"`
}

// Resolve geocodes freeText against the upstream API. A miss returns
// (nil, nil); upstream failures return an error wrapping ErrUpstream.
// preferredCountry, when non-empty, is applied as a country filter.
func (c *Client) Resolve(ctx context.Context, freeText, preferredCountry string) (*models.GeocodingResult, error) {
	params := url.Values{}
	params.Add("q", freeText)
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("addressdetails", "1")
	params.Add("extratags", "1")
	if preferredCountry != "" {
		params.Add("countrycodes", strings.ToLower(preferredCountry))
	}

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("query", freeText).Msg("geocoder request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("query", freeText).Msg("geocoder upstream error")
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Warn().Err(err).Str("query", freeText).Msg("geocoder payload malformed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	return buildResult(results[0], freeText), nil
}

// buildResult normalizes the first upstream row, or returns nil when its
// coordinates are unusable.
func buildResult(raw nominatimResult, query string) *models.GeocodingResult {
	lat, errLat := strconv.ParseFloat(raw.Lat, 64)
	lng, errLng := strconv.ParseFloat(raw.Lon, 64)
	if errLat != nil || errLng != nil || !isFinite(lat) || !isFinite(lng) {
		return nil
	}

	coords := models.Coordinates{Lat: lat, Lng: lng}
	if !coords.Valid() {
		return nil
	}

	city := pickCity(raw)
	countryCode := strings.ToUpper(raw.Address.CountryCode)
	country := raw.Address.Country
	if country == "" {
		country = models.CountryName(countryCode)
	}

	hierarchy := models.LocationHierarchy{
		Country:     country,
		CountryCode: countryCode,
		Region:      firstNonEmpty(raw.Address.State, raw.Address.Region),
		District:    firstNonEmpty(raw.Address.County, raw.Address.District),
		City:        city,
		Coordinates: coords,
		Population:  parsePopulation(raw.ExtraTags.Population),
		Type:        inferType(raw.Address),
	}

	return &models.GeocodingResult{
		Coordinates: coords,
		Hierarchy:   hierarchy,
		Source:      models.SourceExternal,
		Confidence:  scoreConfidence(raw, query),
	}
}

func pickCity(raw nominatimResult) string {
	for _, candidate := range []string{
		raw.Address.City,
		raw.Address.Town,
		raw.Address.Village,
		raw.Address.Municipality,
	} {
		if candidate != "" {
			return candidate
		}
	}
	// Fall back to the head of the display name.
	head, _, _ := strings.Cut(raw.DisplayName, ",")
	return strings.TrimSpace(head)
}

// typeRules infers the location type from which address fields are present,
// in priority order. First hit wins.
var typeRules = []struct {
	present func(a nominatimAddress) bool
	typ     models.LocationType
}{
	{func(a nominatimAddress) bool { return a.City != "" }, models.LocationTypeCity},
	{func(a nominatimAddress) bool { return a.Town != "" }, models.LocationTypeTown},
	{func(a nominatimAddress) bool { return a.Village != "" }, models.LocationTypeVillage},
	{func(a nominatimAddress) bool { return a.Suburb != "" || a.Neighbourhood != "" }, models.LocationTypeSuburb},
	{func(a nominatimAddress) bool { return a.County != "" || a.District != "" }, models.LocationTypeDistrict},
	{func(a nominatimAddress) bool { return a.State != "" || a.Region != "" }, models.LocationTypeRegion},
	{func(a nominatimAddress) bool { return a.Country != "" }, models.LocationTypeCountry},
}

func inferType(a nominatimAddress) models.LocationType {
	for _, rule := range typeRules {
		if rule.present(a) {
			return rule.typ
		}
	}
	return models.LocationTypeCity
}

// scoreConfidence evaluates the match-quality ladder: display name contains
// the query 0.9, an address component equals it 0.8, a component contains it
// 0.7, floor 0.6.
func scoreConfidence(raw nominatimResult, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	components := []string{
		raw.Address.City, raw.Address.Town, raw.Address.Village,
		raw.Address.Municipality, raw.Address.Suburb, raw.Address.County,
		raw.Address.District, raw.Address.State, raw.Address.Region,
		raw.Address.Country,
	}

	rules := []struct {
		match func() bool
		score float64
	}{
		{func() bool { return strings.Contains(strings.ToLower(raw.DisplayName), q) }, 0.9},
		{func() bool { return anyComponent(components, func(c string) bool { return c == q }) }, 0.8},
		{func() bool { return anyComponent(components, func(c string) bool { return strings.Contains(c, q) }) }, 0.7},
	}
	for _, rule := range rules {
		if rule.match() {
			return rule.score
		}
	}
	return 0.6
}

func anyComponent(components []string, match func(string) bool) bool {
	for _, c := range components {
		if c == "" {
			continue
		}
		if match(strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func parsePopulation(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
