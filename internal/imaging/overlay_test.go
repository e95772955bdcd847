package imaging

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(width, height int, r, g, b uint8) *Image {
	img := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, r, g, b)
		}
	}
	return img
}

func TestOverlayConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		alpha     float64
		beta      float64
		wantParam string
	}{
		{"defaults", DefaultAlpha, DefaultBeta, ""},
		{"bounds", 0, 1, ""},
		{"negative alpha", -0.1, 0.2, "overlay.alpha"},
		{"alpha above one", 1.5, 0.2, "overlay.alpha"},
		{"nan beta", 0.8, math.NaN(), "overlay.beta"},
		{"beta above one", 0.8, 2, "overlay.beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := OverlayConfig{Alpha: tt.alpha, Beta: tt.beta, Highlight: DefaultHighlight}
			err := cfg.Validate()
			if tt.wantParam == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantParam, ce.Param)
			assert.True(t, errors.Is(err, ErrConfig))
		})
	}
}

func TestNewCompositor_RejectsInvalidConfig(t *testing.T) {
	_, err := NewCompositor(OverlayConfig{Alpha: 2, Beta: 0})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestOverlay_DefaultBlend(t *testing.T) {
	img := uniformImage(2, 1, 100, 150, 200)
	mask := NewMask(2, 1)
	mask.Set(0, 0, true)

	comp, err := NewCompositor(DefaultOverlayConfig())
	require.NoError(t, err)

	out, err := comp.Overlay(img, mask)
	require.NoError(t, err)

	// set: 0.8*src + 0.2*(0,255,0)
	assert.Equal(t, color.NRGBA{R: 80, G: 171, B: 160, A: 255}, out.NRGBAAt(0, 0))
	// clear: 0.8*src + 0.2*black
	assert.Equal(t, color.NRGBA{R: 80, G: 120, B: 160, A: 255}, out.NRGBAAt(1, 0))
}

func TestOverlay_Saturates(t *testing.T) {
	img := uniformImage(3, 3, 255, 255, 255)
	mask := NewMask(3, 3)
	mask.Fill(true)

	comp, err := NewCompositor(OverlayConfig{Alpha: 1, Beta: 1, Highlight: DefaultHighlight})
	require.NoError(t, err)

	out, err := comp.Overlay(img, mask)
	require.NoError(t, err)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(x, y),
				"channel sums above 255 must clamp, not wrap")
		}
	}
}

func TestOverlay_EmptyMaskDarkensOnly(t *testing.T) {
	img := uniformImage(4, 4, 50, 60, 70)
	comp, err := NewCompositor(DefaultOverlayConfig())
	require.NoError(t, err)

	out, err := comp.Overlay(img, NewMask(4, 4))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 40, G: 48, B: 56, A: 255}, out.NRGBAAt(3, 3))
}

func TestOverlay_CustomHighlight(t *testing.T) {
	img := uniformImage(1, 1, 0, 0, 0)
	mask := NewMask(1, 1)
	mask.Fill(true)

	comp, err := NewCompositor(OverlayConfig{Alpha: 0.5, Beta: 0.5, Highlight: color.RGBA{R: 200, G: 100, B: 50, A: 255}})
	require.NoError(t, err)

	out, err := comp.Overlay(img, mask)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, out.NRGBAAt(0, 0))
}

func TestOverlay_DimensionMismatch(t *testing.T) {
	comp, err := NewCompositor(DefaultOverlayConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		mask *Mask
	}{
		{"nil mask", nil},
		{"transposed", NewMask(3, 4)},
		{"smaller", NewMask(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := comp.Overlay(NewImage(4, 3), tt.mask)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrContract)

			var ce *ContractError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "overlay", ce.Op)
		})
	}
}

func TestOverlay_InvalidImage(t *testing.T) {
	comp, err := NewCompositor(DefaultOverlayConfig())
	require.NoError(t, err)

	_, err = comp.Overlay(NewImage(0, 0), NewMask(0, 0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOverlay_DoesNotMutateSource(t *testing.T) {
	img := uniformImage(2, 2, 10, 20, 30)
	before := append([]uint8(nil), img.Pix...)
	mask := NewMask(2, 2)
	mask.Fill(true)

	comp, err := NewCompositor(DefaultOverlayConfig())
	require.NoError(t, err)
	_, err = comp.Overlay(img, mask)
	require.NoError(t, err)

	assert.Equal(t, before, img.Pix)
}

func TestBlendChannel(t *testing.T) {
	tests := []struct {
		src, layer  uint8
		alpha, beta float64
		want        uint8
	}{
		{100, 0, 0.8, 0.2, 80},
		{150, 255, 0.8, 0.2, 171},
		{255, 255, 1, 1, 255},
		{0, 0, 0, 0, 0},
		{1, 1, 0.25, 0.25, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, blendChannel(tt.src, tt.layer, tt.alpha, tt.beta),
			"blend(%d, %d, %v, %v)", tt.src, tt.layer, tt.alpha, tt.beta)
	}
}
