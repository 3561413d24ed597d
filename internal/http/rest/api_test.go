package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bathroomcodes/bathroomcodes_api/config"
	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
	"github.com/bathroomcodes/bathroomcodes_api/internal/search"
	"github.com/bathroomcodes/bathroomcodes_api/internal/service"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
)

type stubProvider struct {
	results []model.SearchResult
	err     error
}

func (p *stubProvider) Search(context.Context, string, *model.Coordinate) ([]model.SearchResult, error) {
	return p.results, p.err
}

type memRepo struct {
	locations []model.Location
	codes     []model.Code
	listErr   error
}

func (m *memRepo) FindByProviderPlaceID(_ context.Context, pid string) (model.Location, error) {
	for _, loc := range m.locations {
		if loc.ProviderPlaceID != nil && *loc.ProviderPlaceID == pid {
			return loc, nil
		}
	}
	return model.Location{}, storage.ErrNotFound
}

func (m *memRepo) InsertLocation(_ context.Context, loc model.Location) (model.Location, error) {
	loc.CreatedAt = time.Now()
	m.locations = append(m.locations, loc)
	return loc, nil
}

func (m *memRepo) InsertCode(_ context.Context, code model.Code) (model.Code, error) {
	code.CreatedAt = time.Now()
	m.codes = append(m.codes, code)
	return code, nil
}

func (m *memRepo) ListLocations(context.Context, bool) ([]model.Location, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.locations, nil
}

func testAPI(provider search.Provider, repo storage.LocationRepository) *API {
	log := zerolog.Nop()
	return &API{
		Config:    &config.Config{},
		Store:     repo,
		Locations: service.NewLocationService(repo, log),
		Search:    search.NewService(provider, log),
		Log:       log,
	}
}

func TestSearchHandlerBlankQueryReturnsEmptyArray(t *testing.T) {
	api := testAPI(&stubProvider{err: errors.New("must not be called")}, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=%20%20", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchHandlerRanksByDistance(t *testing.T) {
	provider := &stubProvider{results: []model.SearchResult{
		{ProviderPlaceID: "far", Name: "Far", Lat: 44.0, Lng: -71.0},
		{ProviderPlaceID: "near", Name: "Near", Lat: 42.01, Lng: -71.0},
	}}
	api := testAPI(provider, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=cafe&lat=42.0&lng=-71.0", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ProviderPlaceID)
	assert.Equal(t, "far", got[1].ProviderPlaceID)
	require.NotNil(t, got[0].DistanceMiles)
	require.NotNil(t, got[1].DistanceMiles)
	assert.Less(t, *got[0].DistanceMiles, *got[1].DistanceMiles)
	assert.NotEmpty(t, got[0].Distance)
}

func TestSearchHandlerAbsorbsProviderFailure(t *testing.T) {
	api := testAPI(&stubProvider{err: errors.New("quota exceeded")}, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=cafe", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchHandlerIgnoresMalformedOrigin(t *testing.T) {
	provider := &stubProvider{results: []model.SearchResult{
		{Name: "Somewhere", Lat: 42.0, Lng: -71.0},
	}}
	api := testAPI(provider, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=cafe&lat=abc&lng=-71.0", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Nil(t, got[0].DistanceMiles, "no valid origin, no distances")
}

func TestCreateLocationHandler(t *testing.T) {
	repo := &memRepo{}
	api := testAPI(&stubProvider{}, repo)
	handler := api.setUpServerHandler()

	body := `{
		"name": "Tatte Bakery",
		"address": "70 Causeway St, Boston, MA",
		"lat": 42.366,
		"lng": -71.061,
		"code": "12345",
		"providerPlaceId": "place-1"
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/locations", bytes.NewBufferString(body))
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var code model.Code
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &code))
	assert.Equal(t, "12345", code.Code)
	assert.NotEqual(t, uuid.Nil, code.LocationID)
	require.Len(t, repo.locations, 1)
	require.Len(t, repo.codes, 1)
}

func TestCreateLocationHandlerRejectsInvalidBody(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name": `},
		{"missing code", `{"name": "X", "address": "Y", "lat": 42.0, "lng": -71.0}`},
		{"empty name", `{"name": " ", "address": "Y", "lat": 42.0, "lng": -71.0, "code": "1"}`},
		{"lat out of range", `{"name": "X", "address": "Y", "lat": 99.0, "lng": -71.0, "code": "1"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memRepo{}
			api := testAPI(&stubProvider{}, repo)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/locations", bytes.NewBufferString(tc.body))
			api.setUpServerHandler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, repo.locations, "rejected submissions must not persist")
			assert.Empty(t, repo.codes)
		})
	}
}

func TestListLocationsHandler(t *testing.T) {
	pid := "place-1"
	repo := &memRepo{locations: []model.Location{{
		ID:              uuid.New(),
		ProviderPlaceID: &pid,
		Name:            "Tatte Bakery",
		Address:         "70 Causeway St, Boston, MA",
		Lat:             42.366,
		Lng:             -71.061,
	}}}
	api := testAPI(&stubProvider{}, repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/locations", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Tatte Bakery", got[0].Name)
}

func TestListLocationsHandlerEmptyStoreReturnsEmptyArray(t *testing.T) {
	api := testAPI(&stubProvider{}, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/locations", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListLocationsHandlerStoreFailure(t *testing.T) {
	api := testAPI(&stubProvider{}, &memRepo{listErr: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/locations", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not load locations")
}

func TestViewportHandler(t *testing.T) {
	repo := &memRepo{locations: []model.Location{
		{ID: uuid.New(), Name: "A", Lat: 42.0, Lng: -71.0},
		{ID: uuid.New(), Name: "B", Lat: 43.0, Lng: -70.0},
	}}
	api := testAPI(&stubProvider{}, repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/locations/viewport", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got ViewportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Bounds)
	assert.Equal(t, 42.0, got.Bounds.MinLat)
	assert.Equal(t, 43.0, got.Bounds.MaxLat)
	assert.Equal(t, -71.0, got.Bounds.MinLng)
	assert.Equal(t, -70.0, got.Bounds.MaxLng)
}

func TestViewportHandlerEmptyStore(t *testing.T) {
	api := testAPI(&stubProvider{}, &memRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/locations/viewport", nil)
	api.setUpServerHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"empty": true}`, rec.Body.String())
}
