// Package editor holds a single image-editing session: the current image,
// its undo history, the zoom and viewport used to map pointer input, the
// active interaction mode and the drawing brush.
//
// A Session is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see package workspace).
package editor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/Fepozopo/imged/pkg/history"
	"github.com/Fepozopo/imged/pkg/imageio"
	"github.com/Fepozopo/imged/pkg/imgops"
	"github.com/Fepozopo/imged/pkg/stroke"
	"github.com/Fepozopo/imged/pkg/viewport"
)

var (
	ErrNoImageLoaded     = errors.New("no image loaded")
	ErrWrongMode         = errors.New("not allowed in the current mode")
	ErrInvalidBrush      = errors.New("invalid brush")
	ErrLayersUnsupported = errors.New("layers are not supported")
)

// Errors surfaced unchanged from lower layers, re-exported for callers
// that only import editor.
var (
	ErrOutOfBounds       = viewport.ErrOutOfBounds
	ErrInvalidRegion     = imgops.ErrInvalidRegion
	ErrInvalidDimensions = imgops.ErrInvalidDimensions
	ErrInvalidZoom       = imgops.ErrInvalidZoom
)

const (
	DefaultZoomStep  = 1.25
	DefaultViewportW = 1000
	DefaultViewportH = 700
)

// Brush is the stroke style used when drawing mode commits.
type Brush struct {
	Color color.NRGBA
	Width int
}

// DefaultBrush is opaque blue, three pixels wide.
var DefaultBrush = Brush{Color: color.NRGBA{0, 0, 255, 255}, Width: 3}

// Session is one open image and everything needed to edit it.
type Session struct {
	current  *image.NRGBA
	hist     *history.History
	zoom     float64
	zoomStep float64
	view     viewport.Size
	mode     Mode
	brush    Brush

	strokes  stroke.Capture
	dragging bool
	cropFrom image.Point
	cropTo   image.Point

	logger *log.Logger
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithBrush sets the initial drawing brush.
func WithBrush(b Brush) Option { return func(s *Session) { s.brush = b } }

// WithZoomStep sets the factor applied by ZoomIn and ZoomOut.
func WithZoomStep(step float64) Option { return func(s *Session) { s.zoomStep = step } }

// WithViewport sets the container size the image is centered in.
func WithViewport(w, h int) Option {
	return func(s *Session) { s.view = viewport.Size{W: w, H: h} }
}

// WithLogger routes session diagnostics to l.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// New creates an empty Session with the provided options.
func New(opts ...Option) *Session {
	s := &Session{
		zoom:     1,
		zoomStep: DefaultZoomStep,
		view:     viewport.Size{W: DefaultViewportW, H: DefaultViewportH},
		brush:    DefaultBrush,
	}
	for _, o := range opts {
		o(s)
	}
	if math.IsNaN(s.zoomStep) || s.zoomStep <= 1 {
		s.zoomStep = DefaultZoomStep
	}
	if s.view.Empty() {
		s.view = viewport.Size{W: DefaultViewportW, H: DefaultViewportH}
	}
	if s.brush.Width < 1 {
		s.brush.Width = DefaultBrush.Width
	}
	s.brush.Color.A = 255
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Load replaces the session image with img and starts a fresh history.
// Zoom resets to 1 and the mode returns to idle.
func (s *Session) Load(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return imgops.ErrEmptyImage
	}
	s.current = imgops.ToNRGBA(img)
	if s.hist == nil {
		s.hist = history.New(s.current)
	} else {
		s.hist.Reset(s.current)
	}
	s.zoom = 1
	s.mode = ModeIdle
	s.dragging = false
	s.strokes.Reset()
	s.logger.Printf("loaded %dx%d image", s.current.Bounds().Dx(), s.current.Bounds().Dy())
	return nil
}

// LoadFile decodes path and loads it. On failure the session is unchanged.
func (s *Session) LoadFile(path string) error {
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}
	return s.Load(img)
}

// SaveFile writes the current image to path, choosing the format from the
// extension.
func (s *Session) SaveFile(path string) error {
	if s.current == nil {
		return ErrNoImageLoaded
	}
	if err := imageio.Save(path, s.current); err != nil {
		return err
	}
	s.logger.Printf("saved %s", path)
	return nil
}

// Loaded reports whether an image is open.
func (s *Session) Loaded() bool { return s.current != nil }

// Current returns a copy of the current image, or nil when none is loaded.
func (s *Session) Current() *image.NRGBA { return imgops.Clone(s.current) }

// Size returns the current image dimensions.
func (s *Session) Size() (int, int) {
	if s.current == nil {
		return 0, 0
	}
	return s.current.Bounds().Dx(), s.current.Bounds().Dy()
}

// HistoryDepth returns the undo and redo stack depths.
func (s *Session) HistoryDepth() (undo, redo int) {
	if s.hist == nil {
		return 0, 0
	}
	return s.hist.Len(), s.hist.RedoLen()
}

// Layout describes where the image is drawn in the viewport at the
// current zoom.
func (s *Session) Layout() viewport.Layout {
	w, h := s.Size()
	src := viewport.Size{W: w, H: h}
	if src.Empty() {
		return viewport.Layout{Container: s.view}
	}
	return viewport.Layout{
		Container: s.view,
		Displayed: viewport.Scaled(src, s.zoom),
		Source:    src,
	}
}

// Render returns the current image scaled by the zoom factor.
func (s *Session) Render() (*image.NRGBA, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	return imgops.Render(s.current, s.zoom)
}

// Histogram returns per-channel counts for the current image.
func (s *Session) Histogram() (imgops.Histogram, error) {
	if s.current == nil {
		return imgops.Histogram{}, ErrNoImageLoaded
	}
	return imgops.ComputeHistogram(s.current)
}

// Layers is reserved for multi-layer editing.
func (s *Session) Layers() error { return ErrLayersUnsupported }

// Brush returns the drawing brush.
func (s *Session) Brush() Brush { return s.brush }

// SetBrushColor sets the brush color. Alpha is forced opaque.
func (s *Session) SetBrushColor(c color.Color) error {
	if c == nil {
		return fmt.Errorf("%w: nil color", ErrInvalidBrush)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	s.brush.Color = n
	return nil
}

// SetBrushWidth sets the stroke width in image pixels.
func (s *Session) SetBrushWidth(w int) error {
	if w < 1 {
		return fmt.Errorf("%w: width %d", ErrInvalidBrush, w)
	}
	s.brush.Width = w
	return nil
}
