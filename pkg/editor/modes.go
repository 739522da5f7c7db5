package editor

import (
	"fmt"
	"image"

	"github.com/Fepozopo/imged/pkg/imgops"
)

// Mode selects how pointer gestures are interpreted.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCropping
	ModeDrawing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCropping:
		return "cropping"
	case ModeDrawing:
		return "drawing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Mode returns the active interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// PendingStrokes returns the number of committed strokes not yet applied.
func (s *Session) PendingStrokes() int { return s.strokes.Completed() }

func (s *Session) enter(m Mode) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	if s.mode == m {
		return nil
	}
	if s.mode != ModeIdle {
		return fmt.Errorf("%w: cannot enter %s while %s", ErrWrongMode, m, s.mode)
	}
	s.mode = m
	s.dragging = false
	s.strokes.Reset()
	s.logger.Printf("entered %s mode", m)
	return nil
}

// EnterCropMode arms a single crop drag. Release ends the mode.
func (s *Session) EnterCropMode() error { return s.enter(ModeCropping) }

// EnterDrawMode starts collecting freehand strokes.
func (s *Session) EnterDrawMode() error { return s.enter(ModeDrawing) }

// ToggleDrawMode enters drawing mode, or leaves it and applies the
// collected strokes.
func (s *Session) ToggleDrawMode() error {
	if s.mode == ModeDrawing {
		return s.ExitMode()
	}
	return s.EnterDrawMode()
}

// ExitMode returns to idle. Leaving drawing mode rasterizes every
// collected stroke in one edit; leaving crop mode cancels the drag.
func (s *Session) ExitMode() error {
	switch s.mode {
	case ModeDrawing:
		if s.strokes.Capturing() {
			s.strokes.Commit()
		}
		// strokes and mode survive a failed rasterization
		if err := s.applyStrokes(s.strokes.Pending()); err != nil {
			return err
		}
		s.strokes.Drain()
		s.mode = ModeIdle
	case ModeCropping:
		s.dragging = false
		s.mode = ModeIdle
	}
	return nil
}

func (s *Session) applyStrokes(paths [][]image.Point) error {
	if len(paths) == 0 {
		return nil
	}
	layout := s.Layout()
	mapped := make([][]image.Point, 0, len(paths))
	for _, p := range paths {
		mapped = append(mapped, layout.ProjectPath(p))
	}
	b := s.brush
	return s.apply("draw", func(src *image.NRGBA) (*image.NRGBA, error) {
		return imgops.RasterizeStrokes(src, mapped, b.Color, b.Width)
	})
}

// PointerDown starts a crop drag or a stroke at viewport point p.
func (s *Session) PointerDown(p image.Point) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	switch s.mode {
	case ModeCropping:
		s.dragging = true
		s.cropFrom, s.cropTo = p, p
	case ModeDrawing:
		s.strokes.Begin(p)
	default:
		return fmt.Errorf("%w: pointer down while %s", ErrWrongMode, s.mode)
	}
	return nil
}

// PointerMove tracks the drag or extends the stroke. Moves without a
// preceding PointerDown are ignored.
func (s *Session) PointerMove(p image.Point) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	switch s.mode {
	case ModeCropping:
		if s.dragging {
			s.cropTo = p
		}
	case ModeDrawing:
		s.strokes.Extend(p)
	default:
		return fmt.Errorf("%w: pointer move while %s", ErrWrongMode, s.mode)
	}
	return nil
}

// PointerUp finishes the gesture. In crop mode the dragged rectangle is
// mapped to image space and cropped, and the mode returns to idle whether
// or not the crop succeeds.
func (s *Session) PointerUp(p image.Point) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	switch s.mode {
	case ModeCropping:
		if !s.dragging {
			return nil
		}
		s.cropTo = p
		return s.finishCrop()
	case ModeDrawing:
		if s.strokes.Extend(p) {
			s.strokes.Commit()
		}
	default:
		return fmt.Errorf("%w: pointer up while %s", ErrWrongMode, s.mode)
	}
	return nil
}

// CropSelection returns the in-progress crop rectangle in viewport space.
func (s *Session) CropSelection() (image.Rectangle, bool) {
	if s.mode != ModeCropping || !s.dragging {
		return image.Rectangle{}, false
	}
	return image.Rectangle{Min: s.cropFrom, Max: s.cropTo}.Canon(), true
}

func (s *Session) finishCrop() error {
	sel := image.Rectangle{Min: s.cropFrom, Max: s.cropTo}.Canon()
	s.dragging = false
	s.mode = ModeIdle
	r, err := s.Layout().RectToImage(sel)
	if err != nil {
		return fmt.Errorf("crop: %w", err)
	}
	return s.Crop(r)
}
