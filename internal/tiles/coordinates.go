package tiles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates a latitude/longitude pair.
//
// Latitude must lie in [-90, 90] and longitude in [-180, 180]; NaN and
// infinities are rejected. Errors are *imaging.ValidationError.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	c := Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// ParseCoordinates parses decimal-degree strings, as received in query
// parameters, and validates them.
func ParseCoordinates(lat, lon string) (Coordinates, error) {
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinates{}, imaging.Invalid("latitude", "%q is not a number", lat)
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coordinates{}, imaging.Invalid("longitude", "%q is not a number", lon)
	}
	return NewCoordinates(latF, lonF)
}

// Validate checks that the coordinates denote a point on the sphere.
func (c Coordinates) Validate() error {
	if !c.LatLng().IsValid() {
		return imaging.Invalid("coordinates", "(%v, %v) outside latitude [-90, 90] / longitude [-180, 180]",
			c.Latitude, c.Longitude)
	}
	return nil
}

// LatLng returns the coordinates as an s2 point.
func (c Coordinates) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
