package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSV is a color in hue/saturation/value space using the 8-bit convention
// common to computer-vision tooling.
//
// The ranges are:
//   - H: 0-179 (degrees on the color wheel halved, so 60 is pure green)
//   - S: 0-255 (0 = gray, 255 = fully saturated)
//   - V: 0-255 (0 = black, 255 = full brightness)
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// MaxHue is the largest hue value in the 8-bit HSV convention.
const MaxHue = 179

// RGBToHSV converts 8-bit RGB components to 8-bit HSV.
//
// The conversion is the standard reversible device-RGB to HSV transform:
//
//	V = max(R, G, B)
//	S = (V - min(R, G, B)) / V          (0 when V is 0)
//	H = 60° * sector offset of the dominant channel
//
// computed in floating point and then rescaled: H is halved to fit in a byte
// (a hue that rounds to 180 wraps to 0, the same color), S and V are scaled
// to 0-255. Each step is monotonic, so hue ordering is preserved. Gray pixels
// (R = G = B) get hue 0.
func RGBToHSV(r, g, b uint8) HSV {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()

	hue := int(math.Round(h / 2))
	if hue > MaxHue {
		hue -= MaxHue + 1
	}

	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// HSVAt returns the HSV representation of the pixel at (x, y).
func (img *Image) HSVAt(x, y int) HSV {
	return RGBToHSV(img.RGBAt(x, y))
}

// ParseHexColor parses a color written as "#RRGGBB", "RRGGBB" or "#RGB".
// The returned color is always opaque.
func ParseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexString formats a color as "#RRGGBB", ignoring alpha.
func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
