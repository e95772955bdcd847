package imaging

import (
	"github.com/anthonynsimon/bild/parallel"
)

// Dilate grows set regions of a mask with a size×size square structuring
// element anchored at its center (size/2).
//
// A cell is set in the output if any cell under the element is set. Cells
// outside the mask are ignored, so borders neither grow nor shrink regions
// artificially. A size of 0 or 1 returns an unchanged copy.
func Dilate(m *Mask, size int) *Mask {
	return rankFilter(m, size, true)
}

// Erode shrinks set regions of a mask with a size×size square structuring
// element anchored at its center (size/2).
//
// A cell stays set only if every cell under the element is set. Cells outside
// the mask are ignored. A size of 0 or 1 returns an unchanged copy.
func Erode(m *Mask, size int) *Mask {
	return rankFilter(m, size, false)
}

// Close applies a morphological closing: dilation followed by erosion with the
// same size×size square element.
//
// Closing fills holes and gaps narrower than the element inside set regions
// while leaving region outlines broadly unchanged. The output always has the
// dimensions of the input. A size of 0 or 1 is the identity.
//
// # Algorithm
//
// A square element is separable: the extremum over a size×size window equals
// the extremum over rows of the per-row extremum. Each pass therefore runs as
// two 1-D passes (along rows, then along columns). Each 1-D pass counts set
// cells in the window with a prefix sum, making the cost independent of the
// element size:
//
//   - dilation: set if the window count is > 0
//   - erosion: set if the window count equals the window length
//
// Windows are clipped at the mask borders. Rows and columns are processed in
// parallel.
func Close(m *Mask, size int) *Mask {
	if size <= 1 {
		return m.Clone()
	}
	return Erode(Dilate(m, size), size)
}

// rankFilter runs a binary max (dilate) or min (erode) filter with a square
// element as a row pass followed by a column pass.
func rankFilter(m *Mask, size int, dilate bool) *Mask {
	if size <= 1 || m.Len() == 0 {
		return m.Clone()
	}

	before := size / 2
	after := size - 1 - before

	rows := NewMask(m.Width, m.Height)
	parallel.Line(m.Height, func(start, end int) {
		prefix := make([]int, m.Width+1)
		for y := start; y < end; y++ {
			filterLine(rows.Pix, m.Pix, y*m.Width, 1, m.Width, before, after, dilate, prefix)
		}
	})

	out := NewMask(m.Width, m.Height)
	parallel.Line(m.Width, func(start, end int) {
		prefix := make([]int, m.Height+1)
		for x := start; x < end; x++ {
			filterLine(out.Pix, rows.Pix, x, m.Width, m.Height, before, after, dilate, prefix)
		}
	})

	return out
}

// filterLine applies a 1-D binary rank filter to n cells of src starting at
// base and spaced stride apart, writing the result to the same cells of dst.
// The window covers offsets [-before, +after] around each cell.
// prefix must hold at least n+1 entries.
func filterLine(dst, src []uint8, base, stride, n, before, after int, dilate bool, prefix []int) {
	prefix[0] = 0
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i]
		if src[base+i*stride] != MaskClear {
			prefix[i+1]++
		}
	}

	for i := 0; i < n; i++ {
		lo := clamp(i-before, 0, n)
		hi := clamp(i+after+1, 0, n)
		count := prefix[hi] - prefix[lo]

		on := count == hi-lo
		if dilate {
			on = count > 0
		}

		if on {
			dst[base+i*stride] = MaskSet
		} else {
			dst[base+i*stride] = MaskClear
		}
	}
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
