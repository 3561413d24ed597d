package deps

import (
	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/config"
	"github.com/bathroomcodes/bathroomcodes_api/internal/db"
	"github.com/bathroomcodes/bathroomcodes_api/internal/http/googleplaces"
	"github.com/bathroomcodes/bathroomcodes_api/internal/http/nominatim"
	"github.com/bathroomcodes/bathroomcodes_api/internal/search"
	"github.com/bathroomcodes/bathroomcodes_api/internal/service"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
)

type Dependencies struct {
	DB        *db.DB
	Store     *storage.Postgres
	Search    *search.Service
	Locations *service.LocationService
}

func New(cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		return nil, err
	}

	store := storage.NewPostgres(database.Pool())

	deps := Dependencies{
		DB:        database,
		Store:     store,
		Search:    search.NewService(newProvider(cfg, log), log),
		Locations: service.NewLocationService(store, log),
	}
	return &deps, nil
}

// newProvider selects the active place-search adapter. Returning nil is a
// supported configuration: search then degrades to empty results instead of
// failing the app.
func newProvider(cfg *config.Config, log zerolog.Logger) search.Provider {
	switch cfg.PlacesProvider {
	case "google":
		if cfg.GooglePlacesAPIKey == "" {
			log.Warn().Msg("GOOGLE_PLACES_API_KEY is not set; search disabled")
			return nil
		}
		client := googleplaces.NewClient(cfg.GooglePlacesAPIKey)
		client.BiasRadiusMeters = cfg.SearchBiasRadiusM
		return client
	case "nominatim":
		client := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent)
		client.BiasRadiusMeters = cfg.SearchBiasRadiusM
		return client
	default:
		log.Warn().Str("provider", cfg.PlacesProvider).Msg("unknown places provider; search disabled")
		return nil
	}
}
