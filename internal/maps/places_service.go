// README: Places provider: autocomplete suggestions and place-id resolution.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"vecturo/internal/types"
)

// Suggestion is one autocomplete prediction offered to the client.
type Suggestion struct {
	Description string `json:"description"`
	MainText    string `json:"mainText"`
	PlaceID     string `json:"placeId"`
}

// PlacesService handles interactions with the Google Places API. The client
// is constructed once at startup and passed by reference; no process-wide
// singletons.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// NewPlacesServiceWithClient wires an existing maps client, shared with the
// directions service.
func NewPlacesServiceWithClient(client *maps.Client) *PlacesService {
	return &PlacesService{client: client}
}

// Autocomplete returns ranked place suggestions for a free-text query.
func (s *PlacesService) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("places autocomplete: %w", err)
	}

	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{
			Description: p.Description,
			MainText:    p.StructuredFormatting.MainText,
			PlaceID:     p.PlaceID,
		})
	}
	return out, nil
}

// ResolvePlace returns the canonical name, address, and coordinate for a
// stable place identifier.
func (s *PlacesService) ResolvePlace(ctx context.Context, placeID string) (types.Place, error) {
	resp, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
		},
	})
	if err != nil {
		return types.Place{}, fmt.Errorf("place details for %s: %w", placeID, err)
	}
	return types.Place{
		Name:    resp.Name,
		Address: resp.FormattedAddress,
		PlaceID: placeID,
		Location: types.Point{
			Lat: resp.Geometry.Location.Lat,
			Lng: resp.Geometry.Location.Lng,
		},
	}, nil
}
