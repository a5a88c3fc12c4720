// README: Common value objects shared across modules.
package types

// ID is an opaque record identifier.
type ID string

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a resolved location from the places provider: a display name,
// a formatted address, the provider's stable place identifier, and the
// coordinate. Storage keeps coordinates in (longitude, latitude) order for
// geo-index compatibility; Point stays (lat, lng) for all distance math.
type Place struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	PlaceID  string `json:"placeId"`
	Location Point  `json:"location"`
}
