// README: Walking directions between two place ids, for meeting-point coordination.
package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"vecturo/internal/types"
)

type DirectionsService struct {
	client *maps.Client
}

func NewDirectionsService(client *maps.Client) *DirectionsService {
	return &DirectionsService{client: client}
}

type Step struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

// WalkingRoute is the trimmed route shape the UI consumes when guiding a
// rider to the shared starting point.
type WalkingRoute struct {
	Distance      string      `json:"distance"`
	Duration      string      `json:"duration"`
	Steps         []Step      `json:"steps"`
	StartLocation types.Point `json:"startLocation"`
	EndLocation   types.Point `json:"endLocation"`
	Polyline      string      `json:"polyline"`
}

// Walking returns walking directions from one place id to another.
func (s *DirectionsService) Walking(ctx context.Context, originPlaceID, destPlaceID string) (*WalkingRoute, error) {
	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      "place_id:" + originPlaceID,
		Destination: "place_id:" + destPlaceID,
		Mode:        maps.TravelModeWalking,
	})
	if err != nil {
		return nil, fmt.Errorf("directions api: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, errors.New("no route found")
	}

	leg := routes[0].Legs[0]
	steps := make([]Step, 0, len(leg.Steps))
	for _, st := range leg.Steps {
		steps = append(steps, Step{
			Instruction: st.HTMLInstructions,
			Distance:    st.Distance.HumanReadable,
			Duration:    st.Duration.String(),
		})
	}
	return &WalkingRoute{
		Distance:      leg.Distance.HumanReadable,
		Duration:      leg.Duration.String(),
		Steps:         steps,
		StartLocation: types.Point{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
		EndLocation:   types.Point{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
		Polyline:      routes[0].OverviewPolyline.Points,
	}, nil
}
