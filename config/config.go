package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port               int     `env:"PORT" envDefault:"8080"`
	Dsn                string  `env:"DSN" envDefault:"postgres://localhost:5432/bathroomcodes"`
	LogLevel           string  `env:"LOG_LEVEL" envDefault:"info"`
	PlacesProvider     string  `env:"PLACES_PROVIDER" envDefault:"google"`
	GooglePlacesAPIKey string  `env:"GOOGLE_PLACES_API_KEY"`
	NominatimBaseURL   string  `env:"NOMINATIM_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string  `env:"NOMINATIM_USER_AGENT" envDefault:"bathroomcodes/1.0"`
	SearchBiasRadiusM  float64 `env:"SEARCH_BIAS_RADIUS_M" envDefault:"50000"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Debug().Err(loadErr).Msg("[Env]: unable to load .env file")
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Error().Err(parseErr).Msg("[Env]: failed to parse environment variables")
	}

	return &cfg
}
