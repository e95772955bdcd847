package detection

import (
	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Default detection settings.
//
// The green band and cutoffs are empirical defaults, not calibrated constants:
// they work for typical mid-latitude satellite imagery but are exposed as
// configuration because other climates, seasons and sensors shift them.
const (
	DefaultHueMin = 25  // Yellow-green edge of the band (50°)
	DefaultHueMax = 90  // Cyan edge of the band (180°)
	DefaultSatMin = 40  // Excludes near-gray pixels
	DefaultSatMax = 255 // No upper limit
	DefaultValMin = 40  // Excludes near-black pixels (shadows, water)
	DefaultValMax = 255 // No upper limit

	// DefaultKernelSize is the side of the square structuring element used to
	// close the raw threshold mask.
	DefaultKernelSize = 5

	// MaxKernelSize bounds the structuring element.
	MaxKernelSize = 99
)

// Thresholds is a closed HSV range. A pixel is classified as vegetation when
// each of its channels lies within [Min, Max] (bounds inclusive).
//
// Hue uses the 0-179 scale; saturation and value use 0-255.
type Thresholds struct {
	HueMin int `mapstructure:"hue_min" json:"hue_min"`
	HueMax int `mapstructure:"hue_max" json:"hue_max"`
	SatMin int `mapstructure:"sat_min" json:"sat_min"`
	SatMax int `mapstructure:"sat_max" json:"sat_max"`
	ValMin int `mapstructure:"val_min" json:"val_min"`
	ValMax int `mapstructure:"val_max" json:"val_max"`
}

// DefaultThresholds is the documented default green band.
var DefaultThresholds = Thresholds{
	HueMin: DefaultHueMin,
	HueMax: DefaultHueMax,
	SatMin: DefaultSatMin,
	SatMax: DefaultSatMax,
	ValMin: DefaultValMin,
	ValMax: DefaultValMax,
}

// Contains reports whether p lies inside the range on all three channels.
func (t Thresholds) Contains(p imaging.HSV) bool {
	h, s, v := int(p.H), int(p.S), int(p.V)
	return h >= t.HueMin && h <= t.HueMax &&
		s >= t.SatMin && s <= t.SatMax &&
		v >= t.ValMin && v <= t.ValMax
}

// Validate checks each bound against its channel range and that no range is
// inverted.
func (t Thresholds) Validate() error {
	checks := []struct {
		name     string
		min, max int
		limit    int
	}{
		{"hue", t.HueMin, t.HueMax, imaging.MaxHue},
		{"sat", t.SatMin, t.SatMax, 255},
		{"val", t.ValMin, t.ValMax, 255},
	}

	for _, c := range checks {
		if c.min < 0 || c.min > c.limit {
			return imaging.BadConfig("detection."+c.name+"_min", "%d outside [0, %d]", c.min, c.limit)
		}
		if c.max < 0 || c.max > c.limit {
			return imaging.BadConfig("detection."+c.name+"_max", "%d outside [0, %d]", c.max, c.limit)
		}
		if c.min > c.max {
			return imaging.BadConfig("detection."+c.name+"_min", "%d greater than %s_max %d", c.min, c.name, c.max)
		}
	}
	return nil
}

// Config holds every tunable of the greenery detector.
type Config struct {
	Thresholds `mapstructure:",squash"`

	// KernelSize is the side of the square closing element.
	// 0 and 1 disable refinement.
	KernelSize int `mapstructure:"kernel_size" json:"kernel_size"`
}

// DefaultConfig returns the documented default detector configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds: DefaultThresholds,
		KernelSize: DefaultKernelSize,
	}
}

// Validate rejects out-of-range thresholds and kernel sizes.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.KernelSize < 0 || c.KernelSize > MaxKernelSize {
		return imaging.BadConfig("detection.kernel_size", "%d outside [0, %d]", c.KernelSize, MaxKernelSize)
	}
	return nil
}
