package imgops

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Histogram holds 256-bin per-channel counts.
type Histogram struct {
	R, G, B [256]int
}

// ComputeHistogram counts the R, G and B values of every pixel in src.
// Each channel sums to the pixel count.
func ComputeHistogram(src *image.NRGBA) (Histogram, error) {
	var h Histogram
	if err := checkSource(src); err != nil {
		return h, err
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			h.R[src.Pix[i+0]]++
			h.G[src.Pix[i+1]]++
			h.B[src.Pix[i+2]]++
			i += 4
		}
	}
	return h, nil
}

// Max returns the largest single bin count across the three channels.
func (h Histogram) Max() int {
	m := 0
	for i := 0; i < 256; i++ {
		m = max(m, h.R[i], h.G[i], h.B[i])
	}
	return m
}

const histCaptionHeight = 16

// RenderHistogramImage draws h as overlaid red, green and blue bars on a
// white background, with a caption strip above the plot. Non-positive
// dimensions fall back to 512x160.
func RenderHistogramImage(h Histogram, width, height int) *image.NRGBA {
	if width <= 0 {
		width = 512
	}
	if height <= histCaptionHeight {
		height = 160
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(out.Pix); i++ {
		out.Pix[i] = 255
	}

	plotH := height - histCaptionHeight
	maxv := max(h.Max(), 1)
	for x := 0; x < width; x++ {
		bin := clampInt(x*256/width, 0, 255)
		rh := int(math.Round(float64(h.R[bin]) / float64(maxv) * float64(plotH-1)))
		gh := int(math.Round(float64(h.G[bin]) / float64(maxv) * float64(plotH-1)))
		bh := int(math.Round(float64(h.B[bin]) / float64(maxv) * float64(plotH-1)))
		// each channel knocks out the other two, so overlaps mix toward black
		for y := 0; y < rh; y++ {
			i := out.PixOffset(x, height-1-y)
			out.Pix[i+1] = out.Pix[i+1] / 2
			out.Pix[i+2] = out.Pix[i+2] / 2
		}
		for y := 0; y < gh; y++ {
			i := out.PixOffset(x, height-1-y)
			out.Pix[i+0] = out.Pix[i+0] / 2
			out.Pix[i+2] = out.Pix[i+2] / 2
		}
		for y := 0; y < bh; y++ {
			i := out.PixOffset(x, height-1-y)
			out.Pix[i+0] = out.Pix[i+0] / 2
			out.Pix[i+1] = out.Pix[i+1] / 2
		}
	}

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.NRGBA{0x33, 0x33, 0x33, 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 12),
	}
	d.DrawString(fmt.Sprintf("RGB histogram  peak %d", maxv))
	return out
}
