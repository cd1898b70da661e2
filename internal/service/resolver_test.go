package service

import (
	"context"
	"testing"
	"time"

	"geosearch-api/internal/cache"
	"geosearch-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStaticMatcher is a mock implementation of the StaticMatcher interface
type MockStaticMatcher struct {
	mock.Mock
}

func (m *MockStaticMatcher) BestMatch(query string) (models.LocationRecord, float64, bool) {
	args := m.Called(query)
	return args.Get(0).(models.LocationRecord), args.Get(1).(float64), args.Bool(2)
}

// MockExternalGeocoder is a mock implementation of the ExternalGeocoder interface
type MockExternalGeocoder struct {
	mock.Mock
}

func (m *MockExternalGeocoder) Resolve(ctx context.Context, freeText, preferredCountry string) (*models.GeocodingResult, error) {
	args := m.Called(ctx, freeText, preferredCountry)
	result, _ := args.Get(0).(*models.GeocodingResult)
	return result, args.Error(1)
}

func berlinRecord() models.LocationRecord {
	return models.LocationRecord{
		Name:        "Berlin",
		Coordinates: models.Coordinates{Lat: 52.52, Lng: 13.405},
		Country:     "Germany",
		CountryCode: "DE",
		Region:      "Berlin",
		Population:  3769000,
		Type:        models.LocationTypeCity,
	}
}

func newResolver(matcher StaticMatcher, external ExternalGeocoder) *ResolverService {
	return NewResolverService(matcher, external, cache.New[models.GeocodingResult](15*time.Minute))
}

func TestResolverService_Geocode_StaticTiers(t *testing.T) {
	tests := []struct {
		name               string
		matchScore         float64
		expectedConfidence float64
	}{
		{name: "exact static match", matchScore: 1.0, expectedConfidence: 1.0},
		{name: "partial static match", matchScore: 0.9, expectedConfidence: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := new(MockStaticMatcher)
			external := new(MockExternalGeocoder)
			matcher.On("BestMatch", "Berlin").Return(berlinRecord(), tt.matchScore, true)

			result := newResolver(matcher, external).Geocode(context.Background(), "Berlin", GeocodeOptions{})

			require.NotNil(t, result)
			assert.Equal(t, models.SourceStatic, result.Source)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
			assert.Equal(t, "Berlin", result.Hierarchy.City)
			external.AssertNotCalled(t, "Resolve")
		})
	}
}

func TestResolverService_Geocode_ExternalFallback(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)
	matcher.On("BestMatch", "Kleinstadt").Return(models.LocationRecord{}, 0.0, false)
	external.On("Resolve", mock.Anything, "Kleinstadt", "DE").Return(&models.GeocodingResult{
		Coordinates: models.Coordinates{Lat: 50.0, Lng: 10.0},
		Source:      models.SourceExternal,
		Confidence:  0.7,
	}, nil)

	result := newResolver(matcher, external).Geocode(context.Background(), "Kleinstadt", GeocodeOptions{PreferredCountry: "DE"})

	require.NotNil(t, result)
	assert.Equal(t, models.SourceExternal, result.Source)
	external.AssertExpectations(t)
}

func TestResolverService_Geocode_BothTiersMiss(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)
	matcher.On("BestMatch", "Nirgendwo").Return(models.LocationRecord{}, 0.0, false)
	external.On("Resolve", mock.Anything, "Nirgendwo", "").Return(nil, nil)

	result := newResolver(matcher, external).Geocode(context.Background(), "Nirgendwo", GeocodeOptions{})

	assert.Nil(t, result)
}

func TestResolverService_Geocode_ExternalFailureCollapsesToNil(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)
	matcher.On("BestMatch", "Berlin").Return(models.LocationRecord{}, 0.0, false)
	external.On("Resolve", mock.Anything, "Berlin", "").Return(nil, assert.AnError)

	result := newResolver(matcher, external).Geocode(context.Background(), "Berlin", GeocodeOptions{})

	assert.Nil(t, result)
}

func TestResolverService_Geocode_ShortQuery(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)

	result := newResolver(matcher, external).Geocode(context.Background(), " b ", GeocodeOptions{})

	assert.Nil(t, result)
	matcher.AssertNotCalled(t, "BestMatch")
	external.AssertNotCalled(t, "Resolve")
}

func TestResolverService_Geocode_CacheHit(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)
	matcher.On("BestMatch", mock.Anything).Return(berlinRecord(), 1.0, true).Once()

	svc := newResolver(matcher, external)

	first := svc.Geocode(context.Background(), "Berlin", GeocodeOptions{})
	// Key normalization: different casing and padding hit the same entry.
	second := svc.Geocode(context.Background(), "  BERLIN ", GeocodeOptions{})

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	matcher.AssertNumberOfCalls(t, "BestMatch", 1)
}

func TestResolverService_Geocode_SkipCache(t *testing.T) {
	matcher := new(MockStaticMatcher)
	external := new(MockExternalGeocoder)
	matcher.On("BestMatch", mock.Anything).Return(berlinRecord(), 1.0, true)

	svc := newResolver(matcher, external)

	svc.Geocode(context.Background(), "Berlin", GeocodeOptions{SkipCache: true})
	svc.Geocode(context.Background(), "Berlin", GeocodeOptions{SkipCache: true})

	matcher.AssertNumberOfCalls(t, "BestMatch", 2)
}
