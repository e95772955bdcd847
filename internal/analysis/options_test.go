package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/greenery-detector/internal/detection"
	"github.com/ironsheep/greenery-detector/internal/imaging"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	assert.Equal(t, detection.DefaultThresholds, opts.Detection.Thresholds)
	assert.Equal(t, detection.DefaultKernelSize, opts.Detection.KernelSize)
	assert.Equal(t, imaging.DefaultAlpha, opts.Overlay.Alpha)
	assert.Equal(t, imaging.DefaultBeta, opts.Overlay.Beta)
	assert.Equal(t, imaging.DefaultHighlight, opts.Overlay.Highlight)
}

func TestOptions_Apply(t *testing.T) {
	base := DefaultOptions()

	got, err := base.Apply(Overrides{
		HueMin:     intPtr(30),
		ValMax:     intPtr(200),
		KernelSize: intPtr(0),
		Beta:       floatPtr(0.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 30, got.Detection.HueMin)
	assert.Equal(t, detection.DefaultHueMax, got.Detection.HueMax)
	assert.Equal(t, 200, got.Detection.ValMax)
	assert.Equal(t, 0, got.Detection.KernelSize)
	assert.Equal(t, imaging.DefaultAlpha, got.Overlay.Alpha)
	assert.Equal(t, 0.5, got.Overlay.Beta)

	assert.Equal(t, DefaultOptions(), base, "Apply must not modify the receiver")
}

func TestOptions_Apply_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		ov        Overrides
		wantParam string
	}{
		{"hue out of range", Overrides{HueMax: intPtr(180)}, "detection.hue_max"},
		{"inverted saturation", Overrides{SatMin: intPtr(100), SatMax: intPtr(50)}, "detection.sat_min"},
		{"negative kernel", Overrides{KernelSize: intPtr(-3)}, "detection.kernel_size"},
		{"alpha above one", Overrides{Alpha: floatPtr(1.2)}, "overlay.alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultOptions().Apply(tt.ov)
			var ce *imaging.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantParam, ce.Param)
		})
	}
}

func TestOverrides_IsZero(t *testing.T) {
	assert.True(t, Overrides{}.IsZero())
	assert.False(t, Overrides{Alpha: floatPtr(0)}.IsZero())
}
