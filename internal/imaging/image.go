package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Image is a decoded raster with three 8-bit channels per pixel.
//
// Pixels are stored row-major in Pix as packed R, G, B triplets, so the pixel
// at (x, y) starts at Pix[(y*Width+x)*3]. The channel order is fixed to RGB when
// the image is ingested through FromImage, Decode or Open, whatever the color
// model of the source. Alpha is discarded.
//
// The origin is always (0, 0). An Image is owned by a single analysis and is
// never mutated by the pipeline stages that read it.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a black image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// FromImage ingests any image.Image into the pipeline's RGB representation.
//
// The source is normalized through an NRGBA copy so palette, YCbCr, gray and
// 16-bit images all produce the same channel layout. Zero-area input is
// rejected with a *ValidationError rather than producing an empty result.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, Invalid("image", "no image data")
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, Invalid("image", "zero-area image (%dx%d)", bounds.Dx(), bounds.Dy())
	}

	nrgba := imaging.Clone(src)
	width, height := bounds.Dx(), bounds.Dy()
	out := NewImage(width, height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			srcRow := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
			dstRow := out.Pix[y*width*3 : (y+1)*width*3]
			for x := 0; x < width; x++ {
				dstRow[x*3] = srcRow[x*4]
				dstRow[x*3+1] = srcRow[x*4+1]
				dstRow[x*3+2] = srcRow[x*4+2]
			}
		}
	})

	return out, nil
}

// Decode reads an encoded image (JPEG, PNG or GIF) and ingests it.
//
// Undecodable data is reported as a *ValidationError: the bytes are malformed
// input, not a processing failure. EXIF orientation is applied for JPEGs.
func Decode(r io.Reader) (*Image, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, Invalid("image", "failed to decode image: %v", err)
	}
	return FromImage(src)
}

// Open loads and ingests an image file from disk.
//
// Errors opening the file are returned wrapped; errors decoding it are
// reported as a *ValidationError.
func Open(path string) (*Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("failed to open image: %w", statErr)
		}
		return nil, Invalid("image", "failed to decode %s: %v", path, err)
	}
	return FromImage(src)
}

// Validate checks the structural invariants of the image: non-zero area and
// a pixel buffer matching the declared dimensions.
func (img *Image) Validate() error {
	if img == nil {
		return Invalid("image", "no image data")
	}
	if img.Width <= 0 || img.Height <= 0 {
		return Invalid("image", "zero-area image (%dx%d)", img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return Invalid("image", "pixel buffer holds %d bytes, want %d for %dx%d",
			len(img.Pix), img.Width*img.Height*3, img.Width, img.Height)
	}
	return nil
}

// Bounds returns the image rectangle, always anchored at (0, 0).
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// RGBAt returns the channels of the pixel at (x, y).
// Coordinates must be inside the image.
func (img *Image) RGBAt(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// SetRGB sets the pixel at (x, y). Coordinates must be inside the image.
func (img *Image) SetRGB(x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// ToNRGBA converts the image back to a standard library image for encoding.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.Width; x++ {
				si := (y*img.Width + x) * 3
				di := y*out.Stride + x*4
				out.Pix[di] = img.Pix[si]
				out.Pix[di+1] = img.Pix[si+1]
				out.Pix[di+2] = img.Pix[si+2]
				out.Pix[di+3] = 0xff
			}
		}
	})
	return out
}
