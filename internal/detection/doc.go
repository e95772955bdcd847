// Package detection classifies vegetation in satellite and aerial images by
// color segmentation and measures its coverage.
//
// # Algorithm Overview
//
// Detection follows a fixed pipeline:
//
//  1. Color conversion: each RGB pixel is converted to 8-bit HSV
//     (H 0-179, S 0-255, V 0-255).
//  2. Thresholding: a pixel is vegetation when its hue lies in the green band
//     and its saturation and value are above low cutoffs that exclude gray
//     and near-black pixels (see DefaultThresholds).
//  3. Refinement: the raw mask is closed (dilated, then eroded) with a small
//     square element to merge gaps inside vegetated regions.
//  4. Coverage: Percentage reduces the mask to the share of set cells.
//
// Hue is used because vegetation clusters tightly on the hue axis under
// varying illumination, while brightness varies strongly with shadows.
//
// # Configuration
//
// All thresholds and the element size are exposed through Config, with
// documented defaults. They are empirical: they are not derived from a
// calibration dataset and should be tuned for unusual imagery (arid regions,
// autumn foliage, snow).
//
// # Limitations
//
// Color segmentation cannot separate vegetation from other green surfaces
// such as painted roofs, sports pitches or algae-covered water. It is not a
// semantic classifier.
package detection
