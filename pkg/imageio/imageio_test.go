package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/imged/pkg/imgops"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 30), uint8(y * 50), 77, 255})
		}
	}
	return img
}

func TestSaveLoadPNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := sample()
	if err := Save(path, src); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !imgops.Equal(got, src) {
		t.Fatal("PNG round trip changed pixels")
	}
}

func TestSaveJPEGByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.JPG")
	if err := Save(path, sample()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 8, 5) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
}

func TestSavePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := Save(path, sample()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 8)])
	}
}

func TestSaveUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	err := Save(path, sample())
	var se *SaveError
	if !errors.As(err, &se) || !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want SaveError wrapping ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("unsupported save should not create a file")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage); !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}
