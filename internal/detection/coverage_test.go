package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/greenery-detector/internal/imaging"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		set    int
		want   float64
	}{
		{"empty", 10, 10, 0, 0},
		{"full", 10, 10, 100, 100},
		{"half", 10, 4, 20, 50},
		{"quarter", 2, 2, 1, 25},
		{"single cell", 1, 1, 1, 100},
		{"one third", 3, 1, 1, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := imaging.NewMask(tt.width, tt.height)
			for i := 0; i < tt.set; i++ {
				mask.Pix[i] = imaging.MaskSet
			}

			got, err := Percentage(mask)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentage_Bounds(t *testing.T) {
	mask := imaging.NewMask(7, 13)
	for i := range mask.Pix {
		if i%3 == 0 {
			mask.Pix[i] = imaging.MaskSet
		}
		pct, err := Percentage(mask)
		require.NoError(t, err)
		require.GreaterOrEqual(t, pct, 0.0)
		require.LessOrEqual(t, pct, 100.0)
	}
}

func TestPercentage_EmptyMask(t *testing.T) {
	for _, m := range []*imaging.Mask{nil, imaging.NewMask(0, 0), imaging.NewMask(5, 0), {Width: 2, Height: 2}} {
		_, err := Percentage(m)
		assert.ErrorIs(t, err, imaging.ErrValidation)
	}
}
