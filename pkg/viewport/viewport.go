// Package viewport maps between viewport-space points, where the scaled
// image is drawn centered in a fixed container, and image-pixel space.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrOutOfBounds is returned when a viewport point or rectangle falls
// outside the displayed image.
var ErrOutOfBounds = errors.New("point outside displayed image")

// Size is a width/height pair in whole pixels.
type Size struct {
	W, H int
}

// SizeOf returns the dimensions of r.
func SizeOf(r image.Rectangle) Size {
	return Size{W: r.Dx(), H: r.Dy()}
}

// Empty reports whether s has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// MaxSide bounds each side returned by Scaled.
const MaxSide = math.MaxInt32

// Scaled returns the displayed size of s at the given zoom factor.
// Each side is truncated and kept within [1, MaxSide].
func Scaled(s Size, zoom float64) Size {
	return Size{W: scaleSide(s.W, zoom), H: scaleSide(s.H, zoom)}
}

func scaleSide(n int, zoom float64) int {
	v := math.Trunc(float64(n) * zoom)
	switch {
	case math.IsNaN(v) || v < 1:
		return 1
	case v > MaxSide:
		return MaxSide
	}
	return int(v)
}

// FitZoom returns the largest zoom at which source fits inside container.
func FitZoom(source, container Size) float64 {
	if source.Empty() || container.Empty() {
		return 1
	}
	return math.Min(float64(container.W)/float64(source.W), float64(container.H)/float64(source.H))
}

// Layout describes how a source image of size Source is displayed at size
// Displayed, centered inside a container of size Container.
type Layout struct {
	Container Size
	Displayed Size
	Source    Size
}

// Offset returns the top-left corner of the displayed image inside the
// container. It is negative on an axis where the image overflows.
func (l Layout) Offset() (float64, float64) {
	return float64(l.Container.W-l.Displayed.W) / 2, float64(l.Container.H-l.Displayed.H) / 2
}

func (l Layout) scale() (float64, float64) {
	return float64(l.Source.W) / float64(l.Displayed.W), float64(l.Source.H) / float64(l.Displayed.H)
}

func (l Layout) usable() bool {
	return !l.Displayed.Empty() && !l.Source.Empty()
}

// inside translates p into displayed-image space and reports whether it
// lies within [0, W] x [0, H].
func (l Layout) inside(p image.Point) (float64, float64, bool) {
	ox, oy := l.Offset()
	x := float64(p.X) - ox
	y := float64(p.Y) - oy
	ok := x >= 0 && y >= 0 && x <= float64(l.Displayed.W) && y <= float64(l.Displayed.H)
	return x, y, ok
}

// ToImage maps a viewport point to image-pixel space. Coordinates are
// truncated toward zero.
func (l Layout) ToImage(p image.Point) (image.Point, error) {
	if !l.usable() {
		return image.Point{}, fmt.Errorf("%w: nothing displayed", ErrOutOfBounds)
	}
	x, y, ok := l.inside(p)
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %v not within %v", ErrOutOfBounds, p, l.Displayed)
	}
	sx, sy := l.scale()
	return image.Pt(int(x*sx), int(y*sy)), nil
}

// RectToImage maps a viewport rectangle to image-pixel space. Both corners
// must lie on the displayed image.
func (l Layout) RectToImage(r image.Rectangle) (image.Rectangle, error) {
	r = r.Canon()
	if !l.usable() {
		return image.Rectangle{}, fmt.Errorf("%w: nothing displayed", ErrOutOfBounds)
	}
	x0, y0, ok0 := l.inside(r.Min)
	x1, y1, ok1 := l.inside(r.Max)
	if !ok0 || !ok1 {
		return image.Rectangle{}, fmt.Errorf("%w: %v not within %v", ErrOutOfBounds, r, l.Displayed)
	}
	sx, sy := l.scale()
	return image.Rect(int(x0*sx), int(y0*sy), int(x1*sx), int(y1*sy)), nil
}

// Project maps p to image-pixel space without a bounds check. Points off
// the image map outside the image rectangle and are clipped by callers.
func (l Layout) Project(p image.Point) image.Point {
	if !l.usable() {
		return image.Point{}
	}
	ox, oy := l.Offset()
	sx, sy := l.scale()
	return image.Pt(int((float64(p.X)-ox)*sx), int((float64(p.Y)-oy)*sy))
}

// ProjectPath maps every point of path with Project.
func (l Layout) ProjectPath(path []image.Point) []image.Point {
	out := make([]image.Point, len(path))
	for i, p := range path {
		out[i] = l.Project(p)
	}
	return out
}

// ToViewport maps an image pixel back to its viewport position.
func (l Layout) ToViewport(p image.Point) (float64, float64) {
	if !l.usable() {
		return 0, 0
	}
	ox, oy := l.Offset()
	sx, sy := l.scale()
	return float64(p.X)/sx + ox, float64(p.Y)/sy + oy
}
