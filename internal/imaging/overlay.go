package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Default overlay blend settings.
const (
	// DefaultAlpha is the weight of the original image in the blend.
	DefaultAlpha = 0.8

	// DefaultBeta is the weight of the highlight layer in the blend.
	DefaultBeta = 0.2
)

// DefaultHighlight is the highlight color painted where the mask is set.
var DefaultHighlight = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// OverlayConfig controls how a mask is composited over its source image.
//
// Each output channel is computed as
//
//	out = clamp(round(Alpha*src + Beta*layer), 0, 255)
//
// where layer is Highlight on set cells and black elsewhere. With the
// defaults (0.8 / 0.2) vegetation is tinted green rather than painted over and
// the rest of the image is slightly darkened. Weights need not sum to 1; sums
// above 1 saturate at 255 instead of wrapping.
type OverlayConfig struct {
	Alpha     float64    // Weight of the original image, 0-1
	Beta      float64    // Weight of the highlight layer, 0-1
	Highlight color.RGBA // Highlight color; alpha is ignored
}

// DefaultOverlayConfig returns the documented default blend settings.
func DefaultOverlayConfig() OverlayConfig {
	return OverlayConfig{
		Alpha:     DefaultAlpha,
		Beta:      DefaultBeta,
		Highlight: DefaultHighlight,
	}
}

// Validate rejects blend weights outside [0, 1].
func (c OverlayConfig) Validate() error {
	if err := validateWeight("overlay.alpha", c.Alpha); err != nil {
		return err
	}
	return validateWeight("overlay.beta", c.Beta)
}

func validateWeight(param string, w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return BadConfig(param, "weight %v outside [0, 1]", w)
	}
	return nil
}

// Compositor blends binary masks over their source images for visualization.
//
// A Compositor holds only its immutable configuration and is safe for
// concurrent use.
type Compositor struct {
	cfg OverlayConfig
}

// NewCompositor validates cfg and returns a compositor using it.
func NewCompositor(cfg OverlayConfig) (*Compositor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Compositor{cfg: cfg}, nil
}

// Config returns the compositor's settings.
func (c *Compositor) Config() OverlayConfig {
	return c.cfg
}

// Overlay returns a new image in which pixels under set mask cells are tinted
// with the highlight color.
//
// The output has the dimensions of img and is fully opaque. A mask whose
// dimensions differ from img is a *ContractError: masks are derived from the
// image they are composited over, so a mismatch means the pipeline was wired
// incorrectly.
func (c *Compositor) Overlay(img *Image, mask *Mask) (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if mask == nil || !mask.Matches(img) {
		return nil, &ContractError{
			Op:     "overlay",
			Reason: fmt.Sprintf("mask %s does not match image %dx%d", maskSize(mask), img.Width, img.Height),
		}
	}

	alpha, beta := c.cfg.Alpha, c.cfg.Beta
	hl := [3]uint8{c.cfg.Highlight.R, c.cfg.Highlight.G, c.cfg.Highlight.B}

	out := image.NewNRGBA(img.Bounds())
	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.Width; x++ {
				si := (y*img.Width + x) * 3
				di := y*out.Stride + x*4
				set := mask.Pix[y*mask.Width+x] != MaskClear
				for ch := 0; ch < 3; ch++ {
					var layer uint8
					if set {
						layer = hl[ch]
					}
					out.Pix[di+ch] = blendChannel(img.Pix[si+ch], layer, alpha, beta)
				}
				out.Pix[di+3] = 0xff
			}
		}
	})

	return out, nil
}

// blendChannel computes a weighted sum of two channel values, rounded and
// saturated to 0-255.
func blendChannel(src, layer uint8, alpha, beta float64) uint8 {
	v := math.Round(alpha*float64(src) + beta*float64(layer))
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func maskSize(m *Mask) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
