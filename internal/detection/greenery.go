package detection

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Detector classifies image pixels as vegetation by color.
//
// A Detector holds only its validated configuration; it is safe for
// concurrent use and produces bit-identical masks for identical input.
type Detector struct {
	cfg Config
}

// NewDetector validates cfg and returns a detector using it.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector's settings.
func (d *Detector) Config() Config {
	return d.cfg
}

// Threshold returns the raw classification mask, before refinement.
//
// Each pixel is converted to 8-bit HSV and tested against the configured
// closed ranges. The mask has the dimensions of img. A zero-area or
// malformed image is rejected with a *imaging.ValidationError.
func (d *Detector) Threshold(img *imaging.Image) (*imaging.Mask, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	t := d.cfg.Thresholds
	mask := imaging.NewMask(img.Width, img.Height)

	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * img.Width
			for x := 0; x < img.Width; x++ {
				i := (row + x) * 3
				if t.Contains(imaging.RGBToHSV(img.Pix[i], img.Pix[i+1], img.Pix[i+2])) {
					mask.Pix[row+x] = imaging.MaskSet
				}
			}
		}
	})

	return mask, nil
}

// Detect returns the vegetation mask of img.
//
// The raw threshold mask is refined with a morphological closing using a
// KernelSize×KernelSize square element, which merges small gaps inside
// vegetated areas (paths, single dark pixels) without noticeably growing
// their outline. The mask has the dimensions of img.
func (d *Detector) Detect(img *imaging.Image) (*imaging.Mask, error) {
	raw, err := d.Threshold(img)
	if err != nil {
		return nil, err
	}
	if d.cfg.KernelSize <= 1 {
		return raw, nil
	}
	return imaging.Close(raw, d.cfg.KernelSize), nil
}
