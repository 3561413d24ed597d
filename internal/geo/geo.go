package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3958.8

// MilesBetween returns the haversine distance between two coordinates in miles.
func MilesBetween(a, b model.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Rank attaches the distance from origin to every result, both as miles
// and as a display string, and returns the batch sorted ascending by that
// distance. The sort is stable, so results at equal distance keep their
// provider order. When origin is nil the input is returned as-is: no
// distances attached, no reordering.
func Rank(results []model.SearchResult, origin *model.Coordinate) []model.SearchResult {
	if origin == nil {
		return results
	}

	ranked := make([]model.SearchResult, len(results))
	copy(ranked, results)
	for i := range ranked {
		d := MilesBetween(*origin, ranked[i].Coordinate())
		ranked[i].DistanceMiles = &d
		ranked[i].Distance = FormatMiles(d)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].DistanceMiles < *ranked[j].DistanceMiles
	})
	return ranked
}

// FormatMiles renders a distance for display: two decimals under a tenth of
// a mile, one decimal under ten miles, whole miles beyond that.
func FormatMiles(mi float64) string {
	switch {
	case mi < 0.1:
		return fmt.Sprintf("%.2f mi", mi)
	case mi < 10:
		return fmt.Sprintf("%.1f mi", mi)
	default:
		return fmt.Sprintf("%.0f mi", mi)
	}
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// BoundsOf returns the min/max box covering every coordinate, each axis
// taken independently. ok is false for an empty input.
func BoundsOf(coords []model.Coordinate) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinLat: coords[0].Lat, MaxLat: coords[0].Lat,
		MinLng: coords[0].Lng, MaxLng: coords[0].Lng,
	}
	for _, c := range coords[1:] {
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
		b.MinLng = math.Min(b.MinLng, c.Lng)
		b.MaxLng = math.Max(b.MaxLng, c.Lng)
	}
	return b, true
}

// Nearest returns the index of the coordinate closest to origin.
// ok is false for an empty input.
func Nearest(origin model.Coordinate, coords []model.Coordinate) (int, bool) {
	if len(coords) == 0 {
		return 0, false
	}

	best := 0
	bestDist := MilesBetween(origin, coords[0])
	for i, c := range coords[1:] {
		if d := MilesBetween(origin, c); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best, true
}

// FitNearest returns the box covering exactly the origin and the coordinate
// nearest to it, used to size an initial map view. ok is false for an empty
// input.
func FitNearest(origin model.Coordinate, coords []model.Coordinate) (Bounds, bool) {
	idx, ok := Nearest(origin, coords)
	if !ok {
		return Bounds{}, false
	}
	return BoundsOf([]model.Coordinate{origin, coords[idx]})
}
