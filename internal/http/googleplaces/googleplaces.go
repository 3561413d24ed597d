// Package googleplaces is the place-search adapter for the Google Places
// API (New) text-search endpoint.
package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

const (
	defaultBaseURL = "https://places.googleapis.com"

	// fieldMask limits the response to the fields the canonical SearchResult
	// needs; everything else is billed weight for nothing.
	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location"

	defaultMaxResults = 8
	defaultBiasRadius = 50000 // meters
)

// Client handles communication with the Google Places API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// BiasRadiusMeters sizes the locationBias circle around the caller's
	// origin. The bias nudges provider ranking; it does not filter results.
	BiasRadiusMeters float64
}

// NewClient creates a new Places API client with default timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:          defaultBaseURL,
		APIKey:           apiKey,
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

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type searchTextRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount"`
	LanguageCode   string        `json:"languageCode"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type place struct {
	ID          string `json:"id"`
	DisplayName *struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         *latLng `json:"location"`
}

type searchTextResponse struct {
	Places []place `json:"places"`
}

// Search runs a text query against places:searchText and normalizes the
// response into canonical search results. Entries without a display name or
// a location are dropped.
func (c *Client) Search(ctx context.Context, query string, origin *model.Coordinate) ([]model.SearchResult, error) {
	body := searchTextRequest{
		TextQuery:      query,
		MaxResultCount: defaultMaxResults,
		LanguageCode:   "en",
	}
	if origin != nil {
		body.LocationBias = &locationBias{
			Circle: circle{
				Center: latLng{Latitude: origin.Lat, Longitude: origin.Lng},
				Radius: c.BiasRadiusMeters,
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal search request")
	}

	reqURL := c.BaseURL + "/v1/places:searchText"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	var result searchTextResponse
	if err := c.do(req, &result); err != nil {
		return nil, errors.Wrap(err, "execute search request")
	}

	results := make([]model.SearchResult, 0, len(result.Places))
	for _, p := range result.Places {
		if p.DisplayName == nil || strings.TrimSpace(p.DisplayName.Text) == "" {
			continue
		}
		if p.Location == nil {
			continue
		}
		results = append(results, model.SearchResult{
			ProviderPlaceID: p.ID,
			Name:            p.DisplayName.Text,
			Address:         p.FormattedAddress,
			Lat:             p.Location.Latitude,
			Lng:             p.Location.Longitude,
		})
	}

	return results, nil
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
