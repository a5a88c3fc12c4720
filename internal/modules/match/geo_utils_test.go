package match

import (
	"math"
	"testing"

	"vecturo/internal/types"
)

func TestHaversineMiles_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantMiles float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 39.9526, Lng: -75.1652},
			b:         types.Point{Lat: 39.9526, Lng: -75.1652},
			wantMiles: 0,
			tolerance: 0.0001,
		},
		{
			name:      "Philadelphia City Hall to 30th Street Station (~0.9mi)",
			a:         types.Point{Lat: 39.9526, Lng: -75.1652},
			b:         types.Point{Lat: 39.9557, Lng: -75.1820},
			wantMiles: 0.92,
			tolerance: 0.3,
		},
		{
			name:      "New York to Los Angeles (~2450mi)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantMiles: 2450,
			tolerance: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineMiles(tt.a, tt.b)
			if math.Abs(got-tt.wantMiles) > tt.tolerance {
				t.Errorf("haversineMiles() = %f, want %f (±%f)", got, tt.wantMiles, tt.tolerance)
			}
		})
	}
}

func TestHaversineMiles_Symmetry(t *testing.T) {
	a := types.Point{Lat: 40.0, Lng: -75.0}
	b := types.Point{Lat: 40.1, Lng: -75.1}
	d1 := haversineMiles(a, b)
	d2 := haversineMiles(b, a)
	if math.Abs(d1-d2) > 0.000001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}
