package main

import (
	"context"
	"net/http"

	"geosearch-api/internal/cache"
	"geosearch-api/internal/config"
	"geosearch-api/internal/geocoder"
	"geosearch-api/internal/handler"
	"geosearch-api/internal/locindex"
	"geosearch-api/internal/models"
	"geosearch-api/internal/repository"
	"geosearch-api/internal/service"
	"geosearch-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx := context.Background()

	// Reference data. An empty DB_SOURCE starts the API with an empty store;
	// the external geocoder still serves resolutions.
	var records []models.LocationRecord
	if config.DBSource != "" {
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		records, err = repo.LoadLocations(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load reference locations")
		}
	}
	locationStore := store.New(records)
	log.Info().Int("records", locationStore.Len()).Msg("reference store loaded")

	// Caches. Each service owns its instance; one shared sweep interval.
	geocodeCache := cache.New[models.GeocodingResult](config.GeocodeCacheTTL)
	nearbyCache := cache.New[models.NearbySearchResponse](config.NearbyCacheTTL)
	lookupCaches := service.LookupCaches{
		Postal: cache.New[[]models.PostalCodeLookupResult](config.LookupCacheTTL),
		City:   cache.New[[]models.CityLookupResult](config.LookupCacheTTL),
		Region: cache.New[[]models.RegionLookupResult](config.LookupCacheTTL),
	}
	geocodeCache.StartSweeper(ctx, config.CacheSweepInterval)
	nearbyCache.StartSweeper(ctx, config.CacheSweepInterval)
	lookupCaches.Postal.StartSweeper(ctx, config.CacheSweepInterval)
	lookupCaches.City.StartSweeper(ctx, config.CacheSweepInterval)
	lookupCaches.Region.StartSweeper(ctx, config.CacheSweepInterval)

	// Initialize layers
	externalGeocoder := geocoder.NewClient(config.GeocoderBaseURL)
	indexClient := locindex.NewClient(config.LocationIndexBaseURL)

	resolver := service.NewResolverService(locationStore, externalGeocoder, geocodeCache)
	nearbyService := service.NewNearbyService(indexClient, nearbyCache)
	lookupService := service.NewLookupService(indexClient, lookupCaches)

	searchHandler := handler.NewSearchHandler(locationStore)
	geocodeHandler := handler.NewGeocodeHandler(resolver)
	nearbyHandler := handler.NewNearbyHandler(nearbyService)
	postalHandler := handler.NewPostalHandler(lookupService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode", geocodeHandler.Geocode)
	r.GET("/locations/search", searchHandler.Search)
	r.GET("/locations/nearby", nearbyHandler.Nearby)
	r.GET("/postal-codes/lookup", postalHandler.LookupByPostalCode)
	r.GET("/postal-codes/city", postalHandler.LookupByCity)
	r.GET("/postal-codes/region", postalHandler.LookupByRegion)
	r.GET("/postal-codes/validate", postalHandler.ValidatePostalCode)

	r.Run(config.ServerAddress)
}
