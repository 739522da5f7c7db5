package imgops

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// RasterizeStroke draws path as connected segments of the given width and
// color onto a copy of src. Points may lie outside the image; the result
// is clipped. Paths with fewer than two points draw nothing.
func RasterizeStroke(src *image.NRGBA, path []image.Point, c color.NRGBA, width int) (*image.NRGBA, error) {
	return RasterizeStrokes(src, [][]image.Point{path}, c, width)
}

// RasterizeStrokes draws every path onto a single copy of src.
func RasterizeStrokes(src *image.NRGBA, paths [][]image.Point, c color.NRGBA, width int) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	out := Clone(src)
	for _, path := range paths {
		drawPolyline(out, path, c, width)
	}
	return out, nil
}

func drawPolyline(img *image.NRGBA, path []image.Point, c color.NRGBA, width int) {
	if len(path) < 2 {
		return
	}
	for i := 1; i < len(path); i++ {
		drawThickLine(img, path[i-1], path[i], c, width)
	}
}

// drawThickLine fills every pixel whose center lies within width/2 of the
// segment p-q, giving round caps and joins.
func drawThickLine(img *image.NRGBA, p, q image.Point, c color.NRGBA, width int) {
	halfW := float64(width) / 2
	if halfW < 0.5 {
		halfW = 0.5
	}
	margin := int(math.Ceil(halfW))
	bb := image.Rect(p.X, p.Y, q.X, q.Y).Canon()
	bb.Max = bb.Max.Add(image.Pt(1, 1))
	bb = bb.Inset(-margin).Intersect(img.Bounds())
	if bb.Empty() {
		return
	}

	x1, y1 := float64(p.X), float64(p.Y)
	dx := float64(q.X) - x1
	dy := float64(q.Y) - y1
	length := math.Hypot(dx, dy)

	for py := bb.Min.Y; py < bb.Max.Y; py++ {
		for px := bb.Min.X; px < bb.Max.X; px++ {
			vx := float64(px) - x1
			vy := float64(py) - y1
			var dist float64
			if length == 0 {
				dist = math.Hypot(vx, vy)
			} else {
				along := (vx*dx + vy*dy) / length
				switch {
				case along <= 0:
					dist = math.Hypot(vx, vy)
				case along >= length:
					dist = math.Hypot(vx-dx, vy-dy)
				default:
					dist = math.Abs(vx*dy-vy*dx) / length
				}
			}
			if dist <= halfW {
				setPixelBlend(img, px, py, c)
			}
		}
	}
}

func setPixelBlend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(img.Bounds())) || c.A == 0 {
		return
	}
	i := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
		return
	}
	// source-over on non-premultiplied values
	sa := float64(c.A) / 255
	da := float64(img.Pix[i+3]) / 255
	oa := sa + da*(1-sa)
	mix := func(s, d uint8) uint8 {
		return uint8((float64(s)*sa+float64(d)*da*(1-sa))/oa + 0.5)
	}
	img.Pix[i+0] = mix(c.R, img.Pix[i+0])
	img.Pix[i+1] = mix(c.G, img.Pix[i+1])
	img.Pix[i+2] = mix(c.B, img.Pix[i+2])
	img.Pix[i+3] = uint8(oa*255 + 0.5)
}
