package tiles

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the Earth's mean radius.
const EarthRadiusMeters = 6371000.0

// tileSize is the Web Mercator tile size, in pixels, used by the static API.
const tileSize = 512

// Footprint describes the ground area covered by a fetched image.
//
// The rectangle is an approximation: Web Mercator scale varies with latitude
// across the image, and the service does not reproject. It is accurate enough
// to turn a coverage percentage into an area estimate.
type Footprint struct {
	South          float64 `json:"south"`
	West           float64 `json:"west"`
	North          float64 `json:"north"`
	East           float64 `json:"east"`
	MetersPerPixel float64 `json:"meters_per_pixel"`
	AreaM2         float64 `json:"area_m2"`

	rect s2.Rect
}

// FootprintOf computes the footprint of a width×height image centered on c at
// the given zoom level.
func FootprintOf(c Coordinates, zoom, width, height int) Footprint {
	scale := float64(tileSize) * math.Exp2(float64(zoom))
	lonSpan := float64(width) * 360 / scale
	latSpan := float64(height) * 360 / scale * math.Cos(c.LatLng().Lat.Radians())

	rect := s2.RectFromCenterSize(c.LatLng(), s2.LatLngFromDegrees(latSpan, lonSpan))
	lo, hi := rect.Lo(), rect.Hi()

	return Footprint{
		South:          lo.Lat.Degrees(),
		West:           lo.Lng.Degrees(),
		North:          hi.Lat.Degrees(),
		East:           hi.Lng.Degrees(),
		MetersPerPixel: GroundResolution(c.Latitude, zoom),
		AreaM2:         rect.Area() * EarthRadiusMeters * EarthRadiusMeters,
		rect:           rect,
	}
}

// Rect returns the footprint as an s2 rectangle.
func (f Footprint) Rect() s2.Rect {
	return f.rect
}

// Contains reports whether c lies within the footprint.
func (f Footprint) Contains(c Coordinates) bool {
	return f.rect.ContainsLatLng(c.LatLng())
}

// GroundResolution returns the ground distance covered by one pixel, in
// meters, at the given latitude and zoom level.
func GroundResolution(lat float64, zoom int) float64 {
	circumference := 2 * math.Pi * EarthRadiusMeters
	return circumference * math.Cos(lat*math.Pi/180) / (float64(tileSize) * math.Exp2(float64(zoom)))
}
