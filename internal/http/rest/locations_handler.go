package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bathroomcodes/bathroomcodes_api/internal/geo"
	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
	"github.com/bathroomcodes/bathroomcodes_api/internal/service"
	"github.com/bathroomcodes/bathroomcodes_api/util"
	"github.com/bathroomcodes/bathroomcodes_api/util/values"
)

func (api *API) LocationRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Get("/", api.ListLocationsHandler)
	mux.Post("/", api.CreateLocationHandler)
	mux.Get("/viewport", api.ViewportHandler)

	return mux
}

// ListLocationsHandler returns every stored location as a JSON array, codes
// embedded newest-first unless ?codes=false.
func (api *API) ListLocationsHandler(w http.ResponseWriter, r *http.Request) {
	tc := tracingFromContext(r.Context())

	includeCodes := r.URL.Query().Get("codes") != "false"

	locations, err := api.Store.ListLocations(r.Context(), includeCodes)
	if err != nil {
		api.Log.Error().Err(err).Str("request_id", tc.RequestID).Msg("failed to list locations")
		writeErrorResponse(w, values.Error, "could not load locations", &tc)
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}

	writeJSONResponse(w, locations, http.StatusOK)
}

// CreateLocationHandler runs the submission resolver: validation, location
// find-or-create, code append. Responds 201 with the created code record.
func (api *API) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	tc := tracingFromContext(r.Context())

	var req model.SubmitLocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		writeErrorResponse(w, values.BadRequestBody, "unable to decode request", &tc)
		return
	}

	if err := util.ValidateStruct(req); err != nil {
		writeErrorResponse(w, values.BadRequestBody, "validation failed: "+err.Error(), &tc)
		return
	}

	code, err := api.Locations.Submit(r.Context(), req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			writeErrorResponse(w, values.BadRequestBody, vErr.Error(), &tc)
			return
		}
		api.Log.Error().Err(err).Str("request_id", tc.RequestID).Msg("failed to save submission")
		writeErrorResponse(w, values.Error, "could not save", &tc)
		return
	}

	writeJSONResponse(w, code, http.StatusCreated)
}

// ViewportResponse sizes an initial map view. With an origin the bounds
// cover exactly the origin and the nearest stored location; without one
// they cover all locations. Empty is set when nothing is stored yet.
type ViewportResponse struct {
	Empty  bool        `json:"empty,omitempty"`
	Bounds *geo.Bounds `json:"bounds,omitempty"`
}

func (api *API) ViewportHandler(w http.ResponseWriter, r *http.Request) {
	tc := tracingFromContext(r.Context())

	origin := parseOrigin(r.URL.Query())

	locations, err := api.Store.ListLocations(r.Context(), false)
	if err != nil {
		api.Log.Error().Err(err).Str("request_id", tc.RequestID).Msg("failed to list locations")
		writeErrorResponse(w, values.Error, "could not load locations", &tc)
		return
	}

	coords := make([]model.Coordinate, len(locations))
	for i, loc := range locations {
		coords[i] = loc.Coordinate()
	}

	var (
		bounds geo.Bounds
		ok     bool
	)
	if origin != nil {
		bounds, ok = geo.FitNearest(*origin, coords)
	} else {
		bounds, ok = geo.BoundsOf(coords)
	}
	if !ok {
		writeJSONResponse(w, ViewportResponse{Empty: true}, http.StatusOK)
		return
	}

	writeJSONResponse(w, ViewportResponse{Bounds: &bounds}, http.StatusOK)
}
