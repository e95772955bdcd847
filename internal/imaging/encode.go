package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
)

// DefaultJPEGQuality is the JPEG quality used for overlay responses.
const DefaultJPEGQuality = 90

// Encoded MIME types.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// EncodeJPEG writes img as a JPEG. Quality is clamped to 1-100.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	if err := imgio.JPEGEncoder(quality)(w, img); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imgio.PNGEncoder()(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// EncodedImage holds an encoded image ready to be returned to a client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img as JPEG (when mimeType is MimeJPEG) or PNG and
// returns it base64-encoded.
func EncodeBase64(img image.Image, mimeType string, quality int) (*EncodedImage, error) {
	var buf bytes.Buffer
	var err error
	switch mimeType {
	case MimeJPEG:
		err = EncodeJPEG(&buf, img, quality)
	case MimePNG:
		err = EncodePNG(&buf, img)
	default:
		return nil, fmt.Errorf("unsupported output type %q", mimeType)
	}
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mimeType,
	}, nil
}
