package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createInMemoryImage creates a uniform RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a uniform PNG to a temporary file and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, createInMemoryImage(width, height, c)))
	return path
}

func TestFromImage(t *testing.T) {
	src := createInMemoryImage(4, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	img, err := FromImage(src)
	require.NoError(t, err)
	require.NoError(t, img.Validate())

	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Len(t, img.Pix, 4*3*3)

	r, g, b := img.RGBAt(0, 0)
	assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})

	r, g, b = img.RGBAt(2, 1)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b}, "channels must come out in RGB order")
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	img, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	r, g, b := img.RGBAt(0, 0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestFromImage_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 77})

	img, err := FromImage(src)
	require.NoError(t, err)

	r, g, b := img.RGBAt(1, 1)
	assert.Equal(t, [3]uint8{77, 77, 77}, [3]uint8{r, g, b})
}

func TestFromImage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
	}{
		{"nil", nil},
		{"zero width", image.NewRGBA(image.Rect(0, 0, 0, 10))},
		{"zero height", image.NewRGBA(image.Rect(0, 0, 10, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromImage(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "image", ve.Field)
		})
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, createInMemoryImage(6, 5, color.RGBA{G: 200, A: 255})))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Width)
	assert.Equal(t, 5, img.Height)

	r, g, b := img.RGBAt(3, 3)
	assert.Equal(t, [3]uint8{0, 200, 0}, [3]uint8{r, g, b})
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOpen(t *testing.T) {
	path := createTestImage(t, 8, 4, color.RGBA{R: 255, A: 255})

	img, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 4, img.Height)
}

func TestOpen_NonExistent(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation), "a missing file is not malformed input")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		img     *Image
		wantErr bool
	}{
		{"valid", NewImage(2, 2), false},
		{"nil", nil, true},
		{"zero area", NewImage(0, 5), true},
		{"short buffer", &Image{Width: 2, Height: 2, Pix: make([]uint8, 5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImage_SetRGBAndToNRGBA(t *testing.T) {
	img := NewImage(3, 2)
	img.SetRGB(2, 1, 9, 8, 7)

	out := img.ToNRGBA()
	assert.Equal(t, image.Rect(0, 0, 3, 2), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 255}, out.NRGBAAt(2, 1))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(0, 0))
}
