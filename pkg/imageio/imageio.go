// Package imageio reads and writes image files. The format is chosen from
// the file extension.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/Fepozopo/imged/pkg/imgops"
)

// ErrUnsupportedFormat is returned for extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a file that could not be encoded or written.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Path, e.Err) }

func (e *SaveError) Unwrap() error { return e.Err }

// Extensions lists the file extensions Save accepts.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".pdf"}

// Load decodes the image at path, applying any EXIF orientation, and
// returns it as NRGBA anchored at (0,0).
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	out := imgops.ToNRGBA(img)
	if out.Bounds().Empty() {
		return nil, &LoadError{Path: path, Err: imgops.ErrEmptyImage}
	}
	return out, nil
}

// Save encodes img to path. ".pdf" writes a single page sized to the image.
func Save(path string, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return &SaveError{Path: path, Err: imgops.ErrEmptyImage}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		if err := savePDF(path, img); err != nil {
			return &SaveError{Path: path, Err: err}
		}
		return nil
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return &SaveError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(92)); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

// savePDF embeds img as a PNG on one page measured in points, one point
// per pixel.
func savePDF(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("frame", opts, &buf)
	p.ImageOptions("frame", 0, 0, w, h, false, opts, 0, "")
	return p.OutputFileAndClose(path)
}
