package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"geosearch-api/internal/cache"
	"geosearch-api/internal/models"

	"github.com/rs/zerolog/log"
)

// PostalIndex is the external postal/city/region index consumed by the
// lookup service.
type PostalIndex interface {
	ByPostalCode(ctx context.Context, code, country string, limit int) ([]models.PostalCodeLookupResult, error)
	ByCity(ctx context.Context, city, country string, limit int) ([]models.PostalCodeLookupResult, error)
	ByRegion(ctx context.Context, region, country string, limit int) ([]models.PostalCodeLookupResult, error)
}

// LookupCaches bundles the three per-operation caches. They share one TTL but
// hold different value types, and are separate from the nearby cache.
type LookupCaches struct {
	Postal *cache.Cache[[]models.PostalCodeLookupResult]
	City   *cache.Cache[[]models.CityLookupResult]
	Region *cache.Cache[[]models.RegionLookupResult]
}

// LookupService resolves postal codes, cities and regions bidirectionally
// against the external index.
type LookupService struct {
	index  PostalIndex
	caches LookupCaches
}

// NewLookupService creates a lookup service over the given index.
func NewLookupService(index PostalIndex, caches LookupCaches) *LookupService {
	return &LookupService{index: index, caches: caches}
}

const (
	lookupRowLimit = 100

	// City groups without a provider confidence get this default.
	defaultGroupConfidence = 0.8
)

// LookupByPostalCode returns all index rows for one postal code. Unknown
// codes and upstream failures both return an empty slice.
func (s *LookupService) LookupByPostalCode(ctx context.Context, code, country string) []models.PostalCodeLookupResult {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return nil
	}

	key := lookupKey(code, country)
	if cached, ok := s.caches.Postal.Get(key); ok {
		return cached
	}

	rows, err := s.index.ByPostalCode(ctx, code, country, lookupRowLimit)
	if err != nil {
		log.Warn().Err(err).Str("postalCode", code).Msg("postal lookup unavailable")
		return nil
	}

	for i := range rows {
		if rows[i].Confidence == 0 {
			rows[i].Confidence = defaultGroupConfidence
		}
	}

	s.caches.Postal.Set(key, rows)
	return rows
}

// LookupByCity groups the city's index rows by (city, region), collecting all
// distinct postal codes per group.
func (s *LookupService) LookupByCity(ctx context.Context, city, country string) []models.CityLookupResult {
	city = strings.TrimSpace(city)
	if len([]rune(city)) < 2 {
		return nil
	}

	key := lookupKey(city, country)
	if cached, ok := s.caches.City.Get(key); ok {
		return cached
	}

	rows, err := s.index.ByCity(ctx, city, country, lookupRowLimit)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("city lookup unavailable")
		return nil
	}

	results := groupByCity(rows)
	s.caches.City.Set(key, results)
	return results
}

// LookupByRegion summarizes the region's cities and postal codes. When the
// region index itself has no rows, the city index is re-queried and filtered
// by region substring; sparse region indexing makes the direct query miss
// regions that are present on city rows.
func (s *LookupService) LookupByRegion(ctx context.Context, region, country string) []models.RegionLookupResult {
	region = strings.TrimSpace(region)
	if len([]rune(region)) < 2 {
		return nil
	}

	key := lookupKey(region, country)
	if cached, ok := s.caches.Region.Get(key); ok {
		return cached
	}

	rows, err := s.index.ByRegion(ctx, region, country, lookupRowLimit)
	if err != nil {
		log.Warn().Err(err).Str("region", region).Msg("region lookup unavailable")
		return nil
	}
	if len(rows) == 0 {
		rows = s.lookupRegionViaCities(ctx, region, country)
	}

	results := groupByRegion(rows)
	s.caches.Region.Set(key, results)
	return results
}

// lookupRegionViaCities is the sparse-index fallback: query the city index
// with the region string and keep rows whose region field contains it.
func (s *LookupService) lookupRegionViaCities(ctx context.Context, region, country string) []models.PostalCodeLookupResult {
	rows, err := s.index.ByCity(ctx, region, country, lookupRowLimit)
	if err != nil {
		log.Warn().Err(err).Str("region", region).Msg("region fallback via city index unavailable")
		return nil
	}

	q := strings.ToLower(region)
	var filtered []models.PostalCodeLookupResult
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Region), q) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func groupByCity(rows []models.PostalCodeLookupResult) []models.CityLookupResult {
	type groupKey struct{ city, region string }

	groups := make(map[groupKey]*models.CityLookupResult)
	var order []groupKey
	seen := make(map[groupKey]map[string]bool)

	for _, row := range rows {
		k := groupKey{city: row.City, region: row.Region}
		g, ok := groups[k]
		if !ok {
			g = &models.CityLookupResult{
				City:        row.City,
				Region:      row.Region,
				CountryCode: row.CountryCode,
				Coordinates: row.Coordinates,
				Confidence:  defaultGroupConfidence,
			}
			groups[k] = g
			seen[k] = make(map[string]bool)
			order = append(order, k)
		}
		if row.PostalCode != "" && !seen[k][row.PostalCode] {
			seen[k][row.PostalCode] = true
			g.PostalCodes = append(g.PostalCodes, row.PostalCode)
		}
	}

	results := make([]models.CityLookupResult, 0, len(order))
	for _, k := range order {
		sort.Strings(groups[k].PostalCodes)
		results = append(results, *groups[k])
	}
	return results
}

func groupByRegion(rows []models.PostalCodeLookupResult) []models.RegionLookupResult {
	groups := make(map[string]*regionGroup)
	var order []string

	for _, row := range rows {
		g, ok := groups[row.Region]
		if !ok {
			g = &regionGroup{
				countryCode: row.CountryCode,
				cities:      make(map[string]bool),
				codes:       make(map[string]bool),
			}
			groups[row.Region] = g
			order = append(order, row.Region)
		}
		if row.City != "" {
			g.cities[row.City] = true
		}
		if row.PostalCode != "" {
			g.codes[row.PostalCode] = true
		}
		g.latSum += row.Coordinates.Lat
		g.lngSum += row.Coordinates.Lng
		g.count++
	}

	results := make([]models.RegionLookupResult, 0, len(order))
	for _, region := range order {
		g := groups[region]
		results = append(results, models.RegionLookupResult{
			Region:            region,
			CountryCode:       g.countryCode,
			Cities:            sortedKeys(g.cities),
			PostalCodeSummary: summarizePostalCodes(sortedKeys(g.codes)),
			Centroid: models.Coordinates{
				Lat: g.latSum / float64(g.count),
				Lng: g.lngSum / float64(g.count),
			},
			Confidence: defaultGroupConfidence,
		})
	}
	return results
}

type regionGroup struct {
	countryCode    string
	cities, codes  map[string]bool
	latSum, lngSum float64
	count          int
}

// summarizePostalCodes compresses a sorted code list: small lists stay whole,
// lists over ten codes show the first five plus a "+N more" marker.
func summarizePostalCodes(codes []string) []string {
	if len(codes) <= 3 {
		return codes
	}
	if len(codes) > 10 {
		summary := append([]string{}, codes[:5]...)
		return append(summary, fmt.Sprintf("+%d more", len(codes)-5))
	}
	return codes
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupKey(query, country string) string {
	return strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToUpper(strings.TrimSpace(country))
}

// postalCodePatterns holds the country-specific postal code formats.
var postalCodePatterns = map[string]*regexp.Regexp{
	"DE": regexp.MustCompile(`^\d{5}$`),
	"IT": regexp.MustCompile(`^\d{5}$`),
	"ES": regexp.MustCompile(`^\d{5}$`),
	"FR": regexp.MustCompile(`^\d{5}$`),
	"FI": regexp.MustCompile(`^\d{5}$`),
	"AT": regexp.MustCompile(`^\d{4}$`),
	"CH": regexp.MustCompile(`^\d{4}$`),
	"BE": regexp.MustCompile(`^\d{4}$`),
	"DK": regexp.MustCompile(`^\d{4}$`),
	"NO": regexp.MustCompile(`^\d{4}$`),
	"NL": regexp.MustCompile(`^\d{4}\s?[A-Za-z]{2}$`),
	"GB": regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]?\s?\d[A-Za-z]{2}$`),
	"PL": regexp.MustCompile(`^\d{2}-\d{3}$`),
	"SE": regexp.MustCompile(`^\d{3}\s?\d{2}$`),
}

// ValidatePostalCode checks code against the country's known format. Unknown
// countries validate as true so unsupported markets are never blocked.
func ValidatePostalCode(code, country string) bool {
	pattern, ok := postalCodePatterns[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return true
	}
	return pattern.MatchString(strings.TrimSpace(code))
}
