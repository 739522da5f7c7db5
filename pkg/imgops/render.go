package imgops

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/Fepozopo/imged/pkg/viewport"
)

// MaxRenderPixels bounds the area of a Render result.
const MaxRenderPixels = 1 << 26

// Render scales src by zoom for display. The result measures
// viewport.Scaled(size, zoom). Zooms whose result would exceed
// MaxRenderPixels return ErrInvalidZoom.
func Render(src *image.NRGBA, zoom float64) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}
	size := viewport.Scaled(viewport.SizeOf(src.Bounds()), zoom)
	if float64(size.W)*float64(size.H) > MaxRenderPixels {
		return nil, fmt.Errorf("%w: %v renders at %v", ErrInvalidZoom, zoom, size)
	}
	if size == viewport.SizeOf(src.Bounds()) {
		return Clone(src), nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.W, size.H))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Thumbnail scales src to fit inside maxW x maxH, never enlarging it.
func Thumbnail(src *image.NRGBA, maxW, maxH int) *image.NRGBA {
	if src == nil || maxW <= 0 || maxH <= 0 {
		return Clone(src)
	}
	z := viewport.FitZoom(viewport.SizeOf(src.Bounds()), viewport.Size{W: maxW, H: maxH})
	if z >= 1 {
		return Clone(src)
	}
	out, err := Render(src, z)
	if err != nil {
		return Clone(src)
	}
	return out
}
