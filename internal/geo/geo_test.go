package geo

import (
	"math"
	"testing"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

func TestMilesBetween(t *testing.T) {
	testCases := []struct {
		name      string
		a, b      model.Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         model.Coordinate{Lat: 42.34, Lng: -71.06},
			b:         model.Coordinate{Lat: 42.34, Lng: -71.06},
			want:      0,
			tolerance: 1e-9,
		},
		{
			name:      "one degree of longitude at the equator",
			a:         model.Coordinate{Lat: 0, Lng: 0},
			b:         model.Coordinate{Lat: 0, Lng: 1},
			want:      69.09,
			tolerance: 0.05,
		},
		{
			name:      "Boston to Manchester NH",
			a:         model.Coordinate{Lat: 42.3468, Lng: -71.0545},
			b:         model.Coordinate{Lat: 42.9634, Lng: -71.4618},
			want:      47.5,
			tolerance: 1.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MilesBetween(tc.a, tc.b)
			if math.Abs(got-tc.want) > tc.tolerance {
				t.Errorf("MilesBetween(%v, %v) = %f; want %f +/- %f",
					tc.a, tc.b, got, tc.want, tc.tolerance)
			}

			back := MilesBetween(tc.b, tc.a)
			if math.Abs(got-back) > 1e-9 {
				t.Errorf("distance is not symmetric: %f vs %f", got, back)
			}
		})
	}
}

func TestRankSortsAscendingByDistance(t *testing.T) {
	origin := &model.Coordinate{Lat: 42.34, Lng: -71.06}
	results := []model.SearchResult{
		{Name: "far", Lat: 42.9634, Lng: -71.4618},
		{Name: "near", Lat: 42.3468, Lng: -71.0545},
		{Name: "mid", Lat: 42.40, Lng: -71.10},
	}

	ranked := Rank(results, origin)

	wantOrder := []string{"near", "mid", "far"}
	for i, want := range wantOrder {
		if ranked[i].Name != want {
			t.Fatalf("ranked[%d].Name = %q; want %q", i, ranked[i].Name, want)
		}
	}

	var prev float64
	for i, r := range ranked {
		if r.DistanceMiles == nil {
			t.Fatalf("ranked[%d] has no distance attached", i)
		}
		if r.Distance != FormatMiles(*r.DistanceMiles) {
			t.Errorf("ranked[%d].Distance = %q; want %q",
				i, r.Distance, FormatMiles(*r.DistanceMiles))
		}
		if *r.DistanceMiles < prev {
			t.Fatalf("ranked output not ascending at index %d: %f < %f",
				i, *r.DistanceMiles, prev)
		}
		prev = *r.DistanceMiles
	}

	// Input order must be untouched.
	if results[0].Name != "far" || results[0].DistanceMiles != nil {
		t.Error("Rank mutated its input slice")
	}
}

func TestRankWithoutOrigin(t *testing.T) {
	results := []model.SearchResult{
		{Name: "b", Lat: 42.9634, Lng: -71.4618},
		{Name: "a", Lat: 42.3468, Lng: -71.0545},
	}

	ranked := Rank(results, nil)

	if len(ranked) != 2 || ranked[0].Name != "b" || ranked[1].Name != "a" {
		t.Fatalf("order changed without an origin: %+v", ranked)
	}
	for i, r := range ranked {
		if r.DistanceMiles != nil {
			t.Errorf("ranked[%d] carries a distance with no origin", i)
		}
	}
}

func TestRankIsStableForTies(t *testing.T) {
	origin := &model.Coordinate{Lat: 42.34, Lng: -71.06}
	results := []model.SearchResult{
		{Name: "first", Lat: 42.35, Lng: -71.05},
		{Name: "second", Lat: 42.35, Lng: -71.05},
	}

	ranked := Rank(results, origin)

	if ranked[0].Name != "first" || ranked[1].Name != "second" {
		t.Errorf("equal-distance results were reordered: %+v", ranked)
	}
}

func TestFormatMiles(t *testing.T) {
	testCases := []struct {
		miles float64
		want  string
	}{
		{0.05, "0.05 mi"},
		{0.3, "0.3 mi"},
		{4.1, "4.1 mi"},
		{9.96, "10.0 mi"},
		{10, "10 mi"},
		{12.6, "13 mi"},
	}

	for _, tc := range testCases {
		if got := FormatMiles(tc.miles); got != tc.want {
			t.Errorf("FormatMiles(%v) = %q; want %q", tc.miles, got, tc.want)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Error("BoundsOf(nil) reported ok")
	}

	coords := []model.Coordinate{
		{Lat: 42.3468, Lng: -71.0545},
		{Lat: 42.9634, Lng: -71.4618},
		{Lat: 42.3375, Lng: -71.0503},
	}

	b, ok := BoundsOf(coords)
	if !ok {
		t.Fatal("BoundsOf returned not ok for a non-empty input")
	}

	want := Bounds{MinLat: 42.3375, MinLng: -71.4618, MaxLat: 42.9634, MaxLng: -71.0503}
	if b != want {
		t.Errorf("BoundsOf = %+v; want %+v", b, want)
	}
}

func TestFitNearest(t *testing.T) {
	origin := model.Coordinate{Lat: 42.34, Lng: -71.06}
	coords := []model.Coordinate{
		{Lat: 42.9634, Lng: -71.4618}, // Manchester, ~47mi away
		{Lat: 42.3468, Lng: -71.0545}, // Dorchester, under a mile
	}

	b, ok := FitNearest(origin, coords)
	if !ok {
		t.Fatal("FitNearest returned not ok for a non-empty input")
	}

	// The box must cover origin and the Dorchester point only.
	want := Bounds{MinLat: 42.34, MinLng: -71.06, MaxLat: 42.3468, MaxLng: -71.0545}
	if b != want {
		t.Errorf("FitNearest = %+v; want %+v", b, want)
	}

	if _, ok := FitNearest(origin, nil); ok {
		t.Error("FitNearest with no coordinates reported ok")
	}
}
