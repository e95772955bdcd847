package analysis

import (
	"github.com/ironsheep/greenery-detector/internal/detection"
	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Options are the tunables of one analysis.
type Options struct {
	Detection detection.Config
	Overlay   imaging.OverlayConfig
}

// DefaultOptions returns the documented defaults of every stage.
func DefaultOptions() Options {
	return Options{
		Detection: detection.DefaultConfig(),
		Overlay:   imaging.DefaultOverlayConfig(),
	}
}

// Validate checks every stage's configuration.
func (o Options) Validate() error {
	if err := o.Detection.Validate(); err != nil {
		return err
	}
	return o.Overlay.Validate()
}

// Overrides holds per-request replacements for individual options.
// Nil fields keep the base value.
type Overrides struct {
	HueMin     *int     `json:"hue_min,omitempty"`
	HueMax     *int     `json:"hue_max,omitempty"`
	SatMin     *int     `json:"sat_min,omitempty"`
	SatMax     *int     `json:"sat_max,omitempty"`
	ValMin     *int     `json:"val_min,omitempty"`
	ValMax     *int     `json:"val_max,omitempty"`
	KernelSize *int     `json:"kernel_size,omitempty"`
	Alpha      *float64 `json:"alpha,omitempty"`
	Beta       *float64 `json:"beta,omitempty"`
}

// IsZero reports whether no override is set.
func (ov Overrides) IsZero() bool {
	return ov == Overrides{}
}

// Apply returns a copy of o with the overrides applied, validated.
// Out-of-range values are rejected with a *imaging.ConfigError.
func (o Options) Apply(ov Overrides) (Options, error) {
	out := o
	setInt(&out.Detection.HueMin, ov.HueMin)
	setInt(&out.Detection.HueMax, ov.HueMax)
	setInt(&out.Detection.SatMin, ov.SatMin)
	setInt(&out.Detection.SatMax, ov.SatMax)
	setInt(&out.Detection.ValMin, ov.ValMin)
	setInt(&out.Detection.ValMax, ov.ValMax)
	setInt(&out.Detection.KernelSize, ov.KernelSize)
	if ov.Alpha != nil {
		out.Overlay.Alpha = *ov.Alpha
	}
	if ov.Beta != nil {
		out.Overlay.Beta = *ov.Beta
	}

	if err := out.Validate(); err != nil {
		return Options{}, err
	}
	return out, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
