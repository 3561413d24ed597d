// Command seed resets the locations tables and loads a handful of known
// Boston-area entries, useful for local development.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/config"
	"github.com/bathroomcodes/bathroomcodes_api/internal/db"
	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
	"github.com/bathroomcodes/bathroomcodes_api/internal/service"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
)

type seedEntry struct {
	name    string
	address string
	code    string
	lat     float64
	lng     float64
}

var seedData = []seedEntry{
	{"Best Buy", "14 Allstate Rd, Dorchester, MA 02125", "13579#", 42.3468, -71.0545},
	{"Tatte Bakery & Cafe", "60 Old Colony Ave, Boston, MA 02127", "12345", 42.3375, -71.0503},
	{"Panera Bread", "8 Allstate Rd Suite 3, Dorchester, MA 02125", "4589", 42.3465, -71.0540},
	{"Raising Cane's", "782 S Willow St, Manchester, NH 03103", "2060", 42.9634, -71.4618},
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.New()

	database, err := db.New(cfg.Dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	ctx := context.Background()
	if err := storage.Migrate(ctx, database.Pool()); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	logger.Info().Msg("truncating locations tables")
	if _, err := database.Pool().Exec(ctx, `TRUNCATE codes, locations`); err != nil {
		logger.Fatal().Err(err).Msg("truncate failed")
	}

	locations := service.NewLocationService(storage.NewPostgres(database.Pool()), logger)

	logger.Info().Msg("inserting seed data")
	for _, e := range seedData {
		lat, lng := e.lat, e.lng
		req := model.SubmitLocationRequest{
			Name:    e.name,
			Address: e.address,
			Code:    e.code,
			Lat:     &lat,
			Lng:     &lng,
		}
		if _, err := locations.Submit(ctx, req); err != nil {
			logger.Fatal().Err(err).Str("name", e.name).Msg("seed insert failed")
		}
	}

	logger.Info().Msg("seed complete")
}
