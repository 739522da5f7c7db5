// Package imgops implements the pure pixel operations of the editor. Every
// function takes an *image.NRGBA anchored at (0,0) and returns a new buffer;
// inputs are never modified.
package imgops

import (
	"errors"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrInvalidRegion     = errors.New("invalid region")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidAngle      = errors.New("invalid angle")
	ErrInvalidFactor     = errors.New("invalid enhancement factor")
	ErrUnknownFilter     = errors.New("unknown filter")
	ErrInvalidWidth      = errors.New("invalid stroke width")
	ErrInvalidZoom       = errors.New("invalid zoom")
)

// ToNRGBA converts any image to an *image.NRGBA whose bounds start at (0,0).
// The result never shares pixels with src.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	return imaging.Clone(src)
}

// Clone returns a deep copy of src.
func Clone(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	dst := &image.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// Equal reports whether a and b have the same bounds and pixels.
func Equal(a, b *image.NRGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Bounds() != b.Bounds() {
		return false
	}
	w := a.Bounds().Dx() * 4
	for y := 0; y < a.Bounds().Dy(); y++ {
		ai := y * a.Stride
		bi := y * b.Stride
		if string(a.Pix[ai:ai+w]) != string(b.Pix[bi:bi+w]) {
			return false
		}
	}
	return true
}

func checkSource(src *image.NRGBA) error {
	if src == nil || src.Bounds().Empty() {
		return ErrEmptyImage
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parallelRows splits [0, h) into contiguous bands and runs fn on each.
// Small images run on the calling goroutine.
func parallelRows(h int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if h < 64 || workers <= 1 {
		fn(0, h)
		return
	}
	if workers > h {
		workers = h
	}
	band := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// mapPixels applies fn to every pixel of src and returns the result.
// fn receives and returns non-premultiplied RGBA.
func mapPixels(src *image.NRGBA, fn func(r, g, b, a uint8) (uint8, uint8, uint8, uint8)) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	w := b.Dx()
	parallelRows(b.Dy(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * out.Stride
			for x := 0; x < w; x++ {
				s := src.Pix[si+x*4 : si+x*4+4 : si+x*4+4]
				d := out.Pix[di+x*4 : di+x*4+4 : di+x*4+4]
				d[0], d[1], d[2], d[3] = fn(s[0], s[1], s[2], s[3])
			}
		}
	})
	return out
}
