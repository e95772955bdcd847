package detection

import (
	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Percentage returns the share of set cells in mask, from 0 to 100.
//
// The result is exactly 0 for an all-clear mask and exactly 100 for an
// all-set mask. An empty mask has no meaningful coverage and is rejected
// with a *imaging.ValidationError.
func Percentage(mask *imaging.Mask) (float64, error) {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 || len(mask.Pix) != mask.Len() {
		return 0, imaging.Invalid("mask", "empty mask")
	}

	total := mask.Len()
	set := mask.Count()

	return 100 * float64(set) / float64(total), nil
}
