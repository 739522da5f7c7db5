package imgops

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Crop returns the sub-image covered by r, which must have positive area
// and lie inside src.
func Crop(src *image.NRGBA, r image.Rectangle) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %v has no area", ErrInvalidRegion, r)
	}
	if !r.In(src.Bounds()) {
		return nil, fmt.Errorf("%w: %v exceeds %v", ErrInvalidRegion, r, src.Bounds())
	}
	return imaging.Crop(src, r), nil
}

// Resize resamples src to exactly w x h using a Lanczos filter.
func Resize(src *image.NRGBA, w, h int) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return imaging.Resize(src, w, h, imaging.Lanczos), nil
}

// Rotate turns src clockwise by degrees. Multiples of 90 are exact; other
// angles expand the canvas to hold the whole rotated image and fill the
// uncovered corners with transparent pixels.
func Rotate(src *image.NRGBA, degrees float64) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAngle, degrees)
	}
	// imaging rotates counter-clockwise for positive angles.
	return imaging.Rotate(src, -degrees, color.Transparent), nil
}

// FlipHorizontal mirrors src left to right.
func FlipHorizontal(src *image.NRGBA) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	return imaging.FlipH(src), nil
}

// FlipVertical mirrors src top to bottom.
func FlipVertical(src *image.NRGBA) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	return imaging.FlipV(src), nil
}
