package rest

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bathroomcodes/bathroomcodes_api/internal/geo"
	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

func (api *API) SearchRoutes() chi.Router {
	mux := chi.NewRouter()

	// Query Params: ?q=...&lat=...&lng=... (lat/lng optional pair)
	mux.Get("/", api.SearchPlacesHandler)

	return mux
}

// SearchPlacesHandler resolves a free-text query against the configured
// place-search provider and returns distance-ranked candidates. It always
// answers with a JSON array: blank queries, a missing provider, and
// provider failures all degrade to [].
func (api *API) SearchPlacesHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	q := queryParams.Get("q")
	origin := parseOrigin(queryParams)

	results := api.Search.Search(r.Context(), q, origin)
	results = geo.Rank(results, origin)

	writeJSONResponse(w, results, http.StatusOK)
}

// parseOrigin reads the optional lat/lng pair. The origin only biases and
// ranks results, so a half-present or malformed pair is treated as absent
// rather than rejected.
func parseOrigin(queryParams url.Values) *model.Coordinate {
	latStr, lngStr := queryParams.Get("lat"), queryParams.Get("lng")
	if latStr == "" || lngStr == "" {
		return nil
	}

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}

	return &model.Coordinate{Lat: lat, Lng: lng}
}
