package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// errMissingCoordinates is returned by parseCoordinates when a parameter is
// absent or empty. Its text is the response body clients match on.
var errMissingCoordinates = errors.New("Latitude and longitude parameters are required.")

// parseCoordinates reads the latitude and longitude query parameters.
func parseCoordinates(c *gin.Context) (tiles.Coordinates, error) {
	lat := strings.TrimSpace(c.Query("latitude"))
	lon := strings.TrimSpace(c.Query("longitude"))
	if lat == "" || lon == "" {
		return tiles.Coordinates{}, errMissingCoordinates
	}
	return tiles.ParseCoordinates(lat, lon)
}

// parseOverrides reads optional tuning parameters from the query string.
// Unparseable values are reported as *imaging.ConfigError.
func parseOverrides(c *gin.Context) (analysis.Overrides, error) {
	var ov analysis.Overrides

	ints := []struct {
		name string
		dst  **int
	}{
		{"hue_min", &ov.HueMin},
		{"hue_max", &ov.HueMax},
		{"sat_min", &ov.SatMin},
		{"sat_max", &ov.SatMax},
		{"val_min", &ov.ValMin},
		{"val_max", &ov.ValMax},
		{"kernel_size", &ov.KernelSize},
	}
	for _, p := range ints {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return analysis.Overrides{}, imaging.BadConfig(p.name, "%q is not an integer", raw)
		}
		*p.dst = &v
	}

	floats := []struct {
		name string
		dst  **float64
	}{
		{"alpha", &ov.Alpha},
		{"beta", &ov.Beta},
	}
	for _, p := range floats {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return analysis.Overrides{}, imaging.BadConfig(p.name, "%q is not a number", raw)
		}
		*p.dst = &v
	}

	return ov, nil
}
