package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the service. Values come from
// configs/app.env and can be overridden through the environment.
type Config struct {
	DBSource             string        `mapstructure:"DB_SOURCE"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	GeocoderBaseURL      string        `mapstructure:"GEOCODER_BASE_URL"`
	LocationIndexBaseURL string        `mapstructure:"LOCATION_INDEX_BASE_URL"`
	GeocodeCacheTTL      time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`
	NearbyCacheTTL       time.Duration `mapstructure:"NEARBY_CACHE_TTL"`
	LookupCacheTTL       time.Duration `mapstructure:"LOOKUP_CACHE_TTL"`
	CacheSweepInterval   time.Duration `mapstructure:"CACHE_SWEEP_INTERVAL"`
}

// LoadConfig reads configuration from app.env in the given directory,
// letting environment variables override file values.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
