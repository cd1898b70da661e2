package service

import (
	"context"
	"strings"

	"geosearch-api/internal/cache"
	"geosearch-api/internal/models"

	"github.com/rs/zerolog/log"
)

// StaticMatcher is the fast-path tier: the in-memory store.
type StaticMatcher interface {
	BestMatch(query string) (models.LocationRecord, float64, bool)
}

// ExternalGeocoder is the fallback tier. A nil result with nil error means
// the upstream found nothing.
type ExternalGeocoder interface {
	Resolve(ctx context.Context, freeText, preferredCountry string) (*models.GeocodingResult, error)
}

// ResolverService turns free-text place input into coordinates and hierarchy
// using a two-tier strategy: local store first, external geocoder on miss.
// Results are cached by normalized query.
type ResolverService struct {
	matcher  StaticMatcher
	external ExternalGeocoder
	cache    *cache.Cache[models.GeocodingResult]
}

// NewResolverService creates a resolver over the given tiers and cache.
func NewResolverService(matcher StaticMatcher, external ExternalGeocoder, c *cache.Cache[models.GeocodingResult]) *ResolverService {
	return &ResolverService{matcher: matcher, external: external, cache: c}
}

// GeocodeOptions tunes one resolution call.
type GeocodeOptions struct {
	// PreferredCountry is an ISO alpha-2 filter passed to the external tier.
	PreferredCountry string
	// SkipCache bypasses both the cache read and the cache write.
	SkipCache bool
}

// Confidence assigned to static matches: exact name hits are certain, any
// weaker match is still strongly trusted over external resolution.
const (
	staticExactConfidence   = 1.0
	staticPartialConfidence = 0.8
)

// Geocode resolves name to a single result, or nil when the location is
// unknown. A nil result is not an error condition; upstream failures are
// logged and collapse to nil as well.
func (s *ResolverService) Geocode(ctx context.Context, name string, opts GeocodeOptions) *models.GeocodingResult {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if len([]rune(normalized)) < 2 {
		return nil
	}

	key := normalized
	if opts.PreferredCountry != "" {
		key += "|" + strings.ToLower(opts.PreferredCountry)
	}

	if !opts.SkipCache {
		if cached, ok := s.cache.Get(key); ok {
			return &cached
		}
	}

	result := s.resolve(ctx, name, opts.PreferredCountry)
	if result == nil {
		return nil
	}

	if !opts.SkipCache {
		s.cache.Set(key, *result)
	}
	return result
}

func (s *ResolverService) resolve(ctx context.Context, name, preferredCountry string) *models.GeocodingResult {
	if rec, score, ok := s.matcher.BestMatch(name); ok {
		confidence := staticPartialConfidence
		if score == 1.0 {
			confidence = staticExactConfidence
		}
		return &models.GeocodingResult{
			Coordinates: rec.Coordinates,
			Hierarchy:   rec.Hierarchy(),
			Source:      models.SourceStatic,
			Confidence:  confidence,
		}
	}

	result, err := s.external.Resolve(ctx, name, preferredCountry)
	if err != nil {
		log.Warn().Err(err).Str("query", name).Msg("external geocoder unavailable, treating as unknown location")
		return nil
	}
	return result
}

// ClearCache drops all cached resolutions.
func (s *ResolverService) ClearCache() {
	s.cache.Clear()
}
