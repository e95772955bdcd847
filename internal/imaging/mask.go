package imaging

import (
	"image"
)

// Mask cell values. A cell holds exactly one of the two.
const (
	MaskClear uint8 = 0
	MaskSet   uint8 = 255
)

// Mask is a binary classification grid with the same dimensions as the Image
// it was derived from.
//
// Cells are stored row-major in Pix, one byte per cell, holding either
// MaskClear or MaskSet. Using 255 for set cells lets the buffer be rendered
// directly as an 8-bit grayscale image (see Gray).
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an all-clear mask.
func NewMask(width, height int) *Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// Len returns the total number of cells.
func (m *Mask) Len() int {
	return m.Width * m.Height
}

// At reports whether the cell at (x, y) is set.
func (m *Mask) At(x, y int) bool {
	return m.Pix[y*m.Width+x] != MaskClear
}

// Set marks the cell at (x, y) as set or clear.
func (m *Mask) Set(x, y int, on bool) {
	if on {
		m.Pix[y*m.Width+x] = MaskSet
	} else {
		m.Pix[y*m.Width+x] = MaskClear
	}
}

// Fill sets every cell to the same value.
func (m *Mask) Fill(on bool) {
	v := MaskClear
	if on {
		v = MaskSet
	}
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != MaskClear {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Equal reports whether both masks have the same dimensions and cells.
func (m *Mask) Equal(other *Mask) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Width != other.Width || m.Height != other.Height || len(m.Pix) != len(other.Pix) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// Matches reports whether the mask has exactly the dimensions of img.
func (m *Mask) Matches(img *Image) bool {
	return img != nil && m.Width == img.Width && m.Height == img.Height && len(m.Pix) == m.Len()
}

// Gray renders the mask as a grayscale image: set cells white, clear cells black.
// The returned image shares no memory with the mask.
func (m *Mask) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(out.Pix, m.Pix)
	return out
}
