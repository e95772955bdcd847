package imaging

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"black", 0, 0, 0, HSV{0, 0, 0}},
		{"white", 255, 255, 255, HSV{0, 0, 255}},
		{"gray", 128, 128, 128, HSV{0, 0, 128}},
		{"red", 255, 0, 0, HSV{0, 255, 255}},
		{"yellow", 255, 255, 0, HSV{30, 255, 255}},
		{"green", 0, 255, 0, HSV{60, 255, 255}},
		{"cyan", 0, 255, 255, HSV{90, 255, 255}},
		{"blue", 0, 0, 255, HSV{120, 255, 255}},
		{"magenta", 255, 0, 255, HSV{150, 255, 255}},
		{"dark green", 0, 100, 0, HSV{60, 255, 100}},
		{"half saturated green", 128, 255, 128, HSV{60, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBToHSV(tt.r, tt.g, tt.b))
		})
	}
}

func TestRGBToHSV_HueWraps(t *testing.T) {
	// Hue 359.x degrees rounds to 180, which is the same color as 0.
	hsv := RGBToHSV(255, 0, 1)
	assert.Equal(t, uint8(0), hsv.H)
}

func TestRGBToHSV_HueRange(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				hsv := RGBToHSV(uint8(r), uint8(g), uint8(b))
				require.LessOrEqual(t, int(hsv.H), MaxHue, "rgb(%d,%d,%d)", r, g, b)
			}
		}
	}
}

func TestImage_HSVAt(t *testing.T) {
	img := NewImage(2, 1)
	img.SetRGB(1, 0, 0, 255, 0)
	assert.Equal(t, HSV{60, 255, 255}, img.HSVAt(1, 0))
	assert.Equal(t, HSV{0, 0, 0}, img.HSVAt(0, 0))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		want    color.RGBA
		wantErr bool
	}{
		{"with hash", "#00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"without hash", "FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"lowercase", "#0000ff", color.RGBA{0, 0, 255, 255}, false},
		{"short form", "#0F0", color.RGBA{0, 255, 0, 255}, false},
		{"surrounding space", "  #112233 ", color.RGBA{0x11, 0x22, 0x33, 255}, false},
		{"empty", "", color.RGBA{}, true},
		{"invalid chars", "#GGGGGG", color.RGBA{}, true},
		{"color name", "green", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexString(t *testing.T) {
	assert.Equal(t, "#00FF00", HexString(DefaultHighlight))
	assert.Equal(t, "#0A0B0C", HexString(color.RGBA{10, 11, 12, 0}))

	c, err := ParseHexColor(HexString(color.RGBA{1, 2, 3, 255}))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, c)
}
