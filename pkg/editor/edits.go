package editor

import (
	"fmt"
	"image"
	"math"

	"github.com/Fepozopo/imged/pkg/imgops"
	"github.com/Fepozopo/imged/pkg/viewport"
)

// apply runs fn on the current image and, on success, installs the result
// and records it in history. On failure nothing changes.
func (s *Session) apply(op string, fn func(*image.NRGBA) (*image.NRGBA, error)) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	next, err := fn(s.current)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.hist.Snapshot(next)
	s.current = next
	s.logger.Printf("%s -> %dx%d (history %d)", op, next.Bounds().Dx(), next.Bounds().Dy(), s.hist.Len())
	return nil
}

// Crop keeps only r, given in image-pixel coordinates.
func (s *Session) Crop(r image.Rectangle) error {
	return s.apply("crop", func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.Crop(src, r)
	})
}

// Resize resamples the image to w x h.
func (s *Session) Resize(w, h int) error {
	return s.apply("resize", func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.Resize(src, w, h)
	})
}

// Rotate turns the image clockwise by degrees.
func (s *Session) Rotate(degrees float64) error {
	return s.apply("rotate", func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.Rotate(src, degrees)
	})
}

// FlipHorizontal mirrors the image left to right.
func (s *Session) FlipHorizontal() error {
	return s.apply("flip horizontal", imgops.FlipHorizontal)
}

// FlipVertical mirrors the image top to bottom.
func (s *Session) FlipVertical() error {
	return s.apply("flip vertical", imgops.FlipVertical)
}

// AdjustColor applies brightness, contrast and saturation factors.
func (s *Session) AdjustColor(brightness, contrast, saturation float64) error {
	return s.apply("adjust color", func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.AdjustColor(src, brightness, contrast, saturation)
	})
}

// ApplyFilter runs one of the built-in filters.
func (s *Session) ApplyFilter(kind imgops.Kind) error {
	return s.apply("filter "+kind.String(), func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.Filter(src, kind)
	})
}

// Undo restores the previous state. It reports false, with no error, when
// there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	if s.current == nil {
		return false, ErrNoImageLoaded
	}
	img, ok := s.hist.Undo()
	if !ok {
		return false, nil
	}
	s.current = img
	return true, nil
}

// Redo re-applies the last undone state. It reports false, with no error,
// when there is nothing to redo.
func (s *Session) Redo() (bool, error) {
	if s.current == nil {
		return false, ErrNoImageLoaded
	}
	img, ok := s.hist.Redo()
	if !ok {
		return false, nil
	}
	s.current = img
	return true, nil
}

// Zoom returns the display scale factor.
func (s *Session) Zoom() float64 { return s.zoom }

// SetZoom sets the display scale factor.
func (s *Session) SetZoom(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, z)
	}
	s.zoom = z
	return nil
}

// ZoomIn multiplies the zoom by the zoom step.
func (s *Session) ZoomIn() { s.stepZoom(s.zoom * s.zoomStep) }

// ZoomOut divides the zoom by the zoom step.
func (s *Session) ZoomOut() { s.stepZoom(s.zoom / s.zoomStep) }

// stepZoom keeps the zoom finite and positive; a step that would leave
// that range is skipped.
func (s *Session) stepZoom(z float64) {
	if z > 0 && !math.IsInf(z, 0) {
		s.zoom = z
	}
}

// ResetZoom returns to 1:1 display.
func (s *Session) ResetZoom() { s.zoom = 1 }

// FitToViewport picks the zoom at which the whole image fits the viewport.
func (s *Session) FitToViewport() error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	s.zoom = viewport.FitZoom(viewport.SizeOf(s.current.Bounds()), s.view)
	return nil
}

// Viewport returns the container size.
func (s *Session) Viewport() viewport.Size { return s.view }

// SetViewport changes the container size used to map pointer input.
func (s *Session) SetViewport(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidDimensions, w, h)
	}
	s.view = viewport.Size{W: w, H: h}
	return nil
}
