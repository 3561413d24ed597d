// Package nominatim is the place-search adapter for the OSM Nominatim
// geocoder. It exists so deployments without a Google billing account still
// get search; both adapters produce the same canonical result shape.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

const (
	defaultBaseURL    = "https://nominatim.openstreetmap.org"
	defaultMaxResults = 8
	defaultBiasRadius = 50000 // meters

	metersPerDegreeLat = 111320
)

// Client handles communication with a Nominatim instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// UserAgent identifies this service; the public Nominatim instance
	// rejects anonymous clients.
	UserAgent string

	// BiasRadiusMeters sizes the non-bounding viewbox placed around the
	// caller's origin to prefer nearby matches.
	BiasRadiusMeters float64
}

// NewClient creates a new Nominatim client with default timeout.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:          baseURL,
		UserAgent:        userAgent,
		BiasRadiusMeters: defaultBiasRadius,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// searchQuery represents parameters for the /search endpoint.
type searchQuery struct {
	Q              string `url:"q"`
	Format         string `url:"format"`
	AddressDetails int    `url:"addressdetails"`
	Limit          int    `url:"limit"`
	AcceptLanguage string `url:"accept-language"`
	// ViewBox is "minLng,minLat,maxLng,maxLat". Without bounded=1 it is a
	// ranking preference, not a filter, matching how the origin is used as
	// a bias rather than a fence.
	ViewBox string `url:"viewbox,omitempty"`
}

// address holds the structured components Nominatim returns with
// addressdetails=1. Only one of city/town/village is set for any entry.
type address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
}

type searchResult struct {
	OSMType string  `json:"osm_type"`
	OSMID   int64   `json:"osm_id"`
	Lat     string  `json:"lat"`
	Lon     string  `json:"lon"`
	Name    string  `json:"name"`
	Address address `json:"address"`
}

// Search queries /search and normalizes the response into canonical search
// results. Entries without a usable display name or parseable coordinates
// are dropped.
func (c *Client) Search(ctx context.Context, q string, origin *model.Coordinate) ([]model.SearchResult, error) {
	params := searchQuery{
		Q:              q,
		Format:         "json",
		AddressDetails: 1,
		Limit:          defaultMaxResults,
		AcceptLanguage: "en",
	}
	if origin != nil {
		params.ViewBox = c.viewBox(*origin)
	}

	v, err := query.Values(params)
	if err != nil {
		return nil, errors.Wrap(err, "encode query parameters")
	}

	reqURL := c.BaseURL + "/search?" + v.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}
	req.Header.Set("User-Agent", c.UserAgent)

	var raw []searchResult
	if err := c.do(req, &raw); err != nil {
		return nil, errors.Wrap(err, "execute search request")
	}

	results := make([]model.SearchResult, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}

		results = append(results, model.SearchResult{
			ProviderPlaceID: osmID(r),
			Name:            r.Name,
			Address:         joinAddress(r.Address),
			Lat:             lat,
			Lng:             lng,
		})
	}

	return results, nil
}

// osmID derives a stable identifier from the underlying OSM object. Entries
// without one stay identifier-less and are treated as manual submissions
// downstream.
func osmID(r searchResult) string {
	if r.OSMType == "" || r.OSMID == 0 {
		return ""
	}
	return fmt.Sprintf("osm:%s:%d", r.OSMType, r.OSMID)
}

// joinAddress builds a display address from the structured components:
// house number + street, then city/town/village, then region, then postal
// code, joined with ", " and skipping whatever is missing.
func joinAddress(a address) string {
	var parts []string

	street := strings.TrimSpace(strings.TrimSpace(a.HouseNumber) + " " + strings.TrimSpace(a.Road))
	if street != "" {
		parts = append(parts, street)
	}

	for _, p := range []string{firstNonEmpty(a.City, a.Town, a.Village), a.State, a.Postcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// viewBox returns a box of roughly BiasRadiusMeters around origin.
func (c *Client) viewBox(origin model.Coordinate) string {
	dLat := c.BiasRadiusMeters / metersPerDegreeLat
	// Longitude degrees shrink with latitude.
	scale := math.Cos(origin.Lat * math.Pi / 180)
	if scale < 0.01 {
		scale = 0.01
	}
	dLng := c.BiasRadiusMeters / (metersPerDegreeLat * scale)

	return fmt.Sprintf("%f,%f,%f,%f",
		origin.Lng-dLng, origin.Lat-dLat, origin.Lng+dLng, origin.Lat+dLat)
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
