package imgops

import (
	"fmt"
	"image"
	"math"
	"sync"
)

// luminance is the ITU-R 601-2 luma transform in 16.16 fixed point.
func luminance(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}

// blend interpolates from degenerate toward the original channel value:
// factor 0 yields degenerate, 1 yields v, values above 1 extrapolate.
func blend(degenerate, v uint8, factor float64) uint8 {
	f := float64(degenerate) + factor*(float64(v)-float64(degenerate))
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

func checkFactor(name string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidFactor, name, f)
	}
	return nil
}

// AdjustColor applies brightness, then contrast, then saturation
// enhancement. A factor of 1 leaves the corresponding property unchanged.
// Alpha is preserved.
func AdjustColor(src *image.NRGBA, brightness, contrast, saturation float64) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if err := checkFactor("brightness", brightness); err != nil {
		return nil, err
	}
	if err := checkFactor("contrast", contrast); err != nil {
		return nil, err
	}
	if err := checkFactor("saturation", saturation); err != nil {
		return nil, err
	}

	out := Brightness(src, brightness)
	out = Contrast(out, contrast)
	return Saturation(out, saturation), nil
}

// Brightness blends src toward black.
func Brightness(src *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return Clone(src)
	}
	return mapPixels(src, func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		return blend(0, r, factor), blend(0, g, factor), blend(0, b, factor), a
	})
}

// Contrast blends src toward a flat gray at the image's mean luminance.
func Contrast(src *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return Clone(src)
	}
	mean := meanLuminance(src)
	return mapPixels(src, func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		return blend(mean, r, factor), blend(mean, g, factor), blend(mean, b, factor), a
	})
}

// Saturation blends each pixel toward its own luminance.
func Saturation(src *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return Clone(src)
	}
	return mapPixels(src, func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		l := luminance(r, g, b)
		return blend(l, r, factor), blend(l, g, factor), blend(l, b, factor), a
	})
}

func meanLuminance(src *image.NRGBA) uint8 {
	b := src.Bounds()
	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			sum += uint64(luminance(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))
			i += 4
		}
	}
	n := uint64(b.Dx()) * uint64(b.Dy())
	return uint8(int(float64(sum)/float64(n) + 0.5))
}

// Grayscale replaces every pixel with its luminance. Alpha is preserved.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	return mapPixels(src, func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		l := luminance(r, g, b)
		return l, l, l, a
	})
}

var (
	sepiaOnce sync.Once
	sepiaLUT  [256][3]uint8
)

// sepiaTable maps a luminance value to its warm tone. White maps to
// (240, 200, 145) and black stays black.
func sepiaTable() *[256][3]uint8 {
	sepiaOnce.Do(func() {
		for i := 0; i < 256; i++ {
			sepiaLUT[i] = [3]uint8{
				uint8(i * 240 / 255),
				uint8(i * 200 / 255),
				uint8(i * 145 / 255),
			}
		}
	})
	return &sepiaLUT
}

// Sepia converts src to luminance and maps it through the sepia palette.
// Alpha is preserved.
func Sepia(src *image.NRGBA) *image.NRGBA {
	lut := sepiaTable()
	return mapPixels(src, func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		t := lut[luminance(r, g, b)]
		return t[0], t[1], t[2], a
	})
}
