package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"geosearch-api/internal/cache"
	"geosearch-api/internal/geo"
	"geosearch-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LocationIndex is the external nearby lookup behind the radius search.
type LocationIndex interface {
	Nearby(ctx context.Context, center models.Coordinates, radiusKm float64, country string, limit int) ([]models.MapLocation, error)
}

// NearbyService answers "what is near this point" across one or more country
// partitions of the external index.
type NearbyService struct {
	index LocationIndex
	cache *cache.Cache[models.NearbySearchResponse]
}

// NewNearbyService creates a nearby search engine over the given index.
func NewNearbyService(index LocationIndex, c *cache.Cache[models.NearbySearchResponse]) *NearbyService {
	return &NearbyService{index: index, cache: c}
}

// NearbyParams describes one radius query.
type NearbyParams struct {
	Center          models.Coordinates
	RadiusKm        float64
	Countries       []string
	MaxResults      int
	IncludeDistance bool
}

const defaultMaxResults = 20

// SearchNearby fans out one index request per country, merges the candidates,
// ranks them by distance and truncates to MaxResults. A country whose request
// fails contributes nothing; the call itself never fails. The response is
// never nil.
func (s *NearbyService) SearchNearby(ctx context.Context, p NearbyParams) *models.NearbySearchResponse {
	if p.MaxResults <= 0 {
		p.MaxResults = defaultMaxResults
	}
	countries := p.Countries
	if len(countries) == 0 {
		// No partition filter: a single unfiltered request.
		countries = []string{""}
	}

	key := cacheKey(p, countries)
	if cached, ok := s.cache.Get(key); ok {
		return &cached
	}

	perCountry := (p.MaxResults + len(countries) - 1) / len(countries)

	var (
		mu     sync.Mutex
		merged []models.MapLocation
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, country := range countries {
		g.Go(func() error {
			locations, err := s.index.Nearby(gctx, p.Center, p.RadiusKm, country, perCountry)
			if err != nil {
				// Partial-failure tolerant: log and keep the other countries.
				log.Warn().Err(err).Str("country", country).Msg("nearby partition failed")
				return nil
			}
			mu.Lock()
			merged = append(merged, locations...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	totalFound := len(merged)

	// Distance drives the ranking even when the caller does not want it in
	// the payload.
	if p.IncludeDistance {
		for i := range merged {
			d := geo.Distance(p.Center, merged[i].Coordinates)
			merged[i].DistanceKm = &d
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return geo.Distance(p.Center, merged[i].Coordinates) < geo.Distance(p.Center, merged[j].Coordinates)
	})

	if len(merged) > p.MaxResults {
		merged = merged[:p.MaxResults]
	}

	points := make([]models.Coordinates, 0, len(merged)+1)
	points = append(points, p.Center)
	for _, loc := range merged {
		points = append(points, loc.Coordinates)
	}

	response := models.NearbySearchResponse{
		Locations:  merged,
		Center:     p.Center,
		Bounds:     geo.Bounds(points),
		TotalFound: totalFound,
	}
	s.cache.Set(key, response)
	return &response
}

func cacheKey(p NearbyParams, countries []string) string {
	return fmt.Sprintf("%.5f,%.5f|%.2f|%s|%d",
		p.Center.Lat, p.Center.Lng, p.RadiusKm, strings.Join(countries, ","), p.MaxResults)
}
