// Package imaging provides the raster types and pixel operations used by the
// vegetation analysis pipeline.
//
// This package implements image ingestion and encoding, the binary Mask type,
// HSV color conversion, morphological filtering of masks, and overlay
// compositing. Detection itself (thresholding and coverage) lives in the
// detection package and builds on these primitives.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Images and masks are always anchored at (0,0), whatever the bounds of the
// image.Image they were ingested from.
//
// # Channel Order
//
// An Image stores packed 8-bit R, G, B triplets. The order is fixed once, at
// ingestion (FromImage, Decode, Open); every later stage reads that layout.
// Alpha is discarded, matching how color photographs and satellite tiles are
// analyzed.
//
// # Color Representation
//
// HSV values use the 8-bit convention:
//   - H: Hue 0-179 (degrees halved; 60 = green, 90 = cyan)
//   - S: Saturation 0-255
//   - V: Value 0-255
//
// # Thread Safety
//
// Every operation is stateless and allocates its own output. Operations may
// run concurrently on different images. Large loops are split across
// goroutines by rows with bild's parallel package, so a single call already
// uses all CPUs.
//
// # Error Handling
//
// Functions return typed errors that callers classify with errors.Is:
//   - ErrValidation: zero-area or undecodable input
//   - ErrContract: a mask whose dimensions differ from its image
//   - ErrConfig: blend weights or other parameters out of range
package imaging
