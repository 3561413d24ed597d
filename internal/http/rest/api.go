package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/config"
	"github.com/bathroomcodes/bathroomcodes_api/internal/search"
	"github.com/bathroomcodes/bathroomcodes_api/internal/service"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type API struct {
	Server    *http.Server
	Config    *config.Config
	Store     storage.LocationRepository
	Locations *service.LocationService
	Search    *search.Service
	Log       zerolog.Logger
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)
	mux.Use(api.RequestLogging)

	mux.Get("/healthz",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		},
	)

	mux.Mount("/search", api.SearchRoutes())
	mux.Mount("/locations", api.LocationRoutes())

	return mux
}

func (api *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	return api.Server.Shutdown(ctx)
}
