package imgops

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Kind names one of the built-in filters.
type Kind int

const (
	FilterGrayscale Kind = iota
	FilterSepia
	FilterBlur
	FilterSharpen
	FilterEdgeDetect
)

var kindNames = map[Kind]string{
	FilterGrayscale:  "grayscale",
	FilterSepia:      "sepia",
	FilterBlur:       "blur",
	FilterSharpen:    "sharpen",
	FilterEdgeDetect: "edge",
}

// kindAliases maps accepted spellings to a Kind.
var kindAliases = map[string]Kind{
	"grayscale":      FilterGrayscale,
	"greyscale":      FilterGrayscale,
	"gray":           FilterGrayscale,
	"sepia":          FilterSepia,
	"blur":           FilterBlur,
	"sharpen":        FilterSharpen,
	"edge":           FilterEdgeDetect,
	"edges":          FilterEdgeDetect,
	"edge_detection": FilterEdgeDetect,
	"find_edges":     FilterEdgeDetect,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists the filters in display order.
func Kinds() []Kind {
	return []Kind{FilterGrayscale, FilterSepia, FilterBlur, FilterSharpen, FilterEdgeDetect}
}

// ParseKind resolves a filter name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return k, nil
}

// Kernels are pre-divided by their scale. Edge pixels are replicated.
var (
	blurKernel = [25]float64{
		1.0 / 16, 1.0 / 16, 1.0 / 16, 1.0 / 16, 1.0 / 16,
		1.0 / 16, 0, 0, 0, 1.0 / 16,
		1.0 / 16, 0, 0, 0, 1.0 / 16,
		1.0 / 16, 0, 0, 0, 1.0 / 16,
		1.0 / 16, 1.0 / 16, 1.0 / 16, 1.0 / 16, 1.0 / 16,
	}
	sharpenKernel = [9]float64{
		-2.0 / 16, -2.0 / 16, -2.0 / 16,
		-2.0 / 16, 32.0 / 16, -2.0 / 16,
		-2.0 / 16, -2.0 / 16, -2.0 / 16,
	}
	edgeKernel = [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
)

// Blur applies a 5x5 box-ring blur.
func Blur(src *image.NRGBA) *image.NRGBA {
	return imaging.Convolve5x5(src, blurKernel, nil)
}

// Sharpen applies a 3x3 sharpening kernel.
func Sharpen(src *image.NRGBA) *image.NRGBA {
	return imaging.Convolve3x3(src, sharpenKernel, nil)
}

// EdgeDetect applies a 3x3 Laplacian edge kernel. Flat regions become black.
func EdgeDetect(src *image.NRGBA) *image.NRGBA {
	return imaging.Convolve3x3(src, edgeKernel, nil)
}

// Filter applies the named filter to src.
func Filter(src *image.NRGBA, kind Kind) (*image.NRGBA, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	switch kind {
	case FilterGrayscale:
		return Grayscale(src), nil
	case FilterSepia:
		return Sepia(src), nil
	case FilterBlur:
		return Blur(src), nil
	case FilterSharpen:
		return Sharpen(src), nil
	case FilterEdgeDetect:
		return EdgeDetect(src), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFilter, kind)
	}
}
