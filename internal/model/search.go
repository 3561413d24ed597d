package model

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchResult is the canonical place candidate shape produced by every
// search provider adapter. DistanceMiles is attached by the ranking step
// when an origin coordinate was supplied and is omitted otherwise.
type SearchResult struct {
	ProviderPlaceID string   `json:"placeId,omitempty"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	DistanceMiles   *float64 `json:"distanceMiles,omitempty"`
	Distance        string   `json:"distance,omitempty"`
}

func (r SearchResult) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lng: r.Lng}
}
