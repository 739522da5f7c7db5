package config

import (
	"bytes"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Fepozopo/imged/pkg/editor"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseDefaults(t *testing.T) {
	got := Parse(mapLookup(nil), nil)
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if got.BrushColor != (color.NRGBA{0, 0, 255, 255}) || got.BrushSize != 3 || got.ZoomStep != 1.25 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestParseOverrides(t *testing.T) {
	got := Parse(mapLookup(map[string]string{
		EnvBrushColor: "#ff000080",
		EnvBrushSize:  "7",
		EnvZoomStep:   "1.5",
		EnvViewport:   "640x480",
		EnvDebug:      "true",
		EnvUpdateRepo: "someone/fork",
	}), nil)
	want := Config{
		BrushColor: color.NRGBA{255, 0, 0, 255},
		BrushSize:  7,
		ZoomStep:   1.5,
		ViewportW:  640,
		ViewportH:  480,
		Debug:      true,
		UpdateRepo: "someone/fork",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidValuesKeepDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	got := Parse(mapLookup(map[string]string{
		EnvBrushColor: "chartreuse-ish",
		EnvBrushSize:  "0",
		EnvZoomStep:   "0.5",
		EnvViewport:   "wide",
	}), logger)
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("invalid values leaked into config (-want +got):\n%s", diff)
	}
	if n := strings.Count(buf.String(), "ignoring"); n != 4 {
		t.Fatalf("expected 4 warnings, got %d:\n%s", n, buf.String())
	}
}

func TestLoadReadsDotEnvWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# editor settings\n" + EnvBrushSize + "=9\nexport " + EnvViewport + "=\"800x600\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvViewport, "320x200")

	cfg := Load(nil, filepath.Join(dir, "missing.env"), path)
	if cfg.BrushSize != 9 {
		t.Fatalf("BrushSize = %d, want 9 from .env", cfg.BrushSize)
	}
	if cfg.ViewportW != 320 || cfg.ViewportH != 200 {
		t.Fatalf("viewport = %dx%d, environment should win", cfg.ViewportW, cfg.ViewportH)
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := Default()
	cfg.BrushSize = 5
	cfg.ViewportW, cfg.ViewportH = 300, 200
	s := editor.New(cfg.SessionOptions(nil)...)
	if s.Brush().Width != 5 {
		t.Fatalf("brush width = %d", s.Brush().Width)
	}
	if v := s.Viewport(); v.W != 300 || v.H != 200 {
		t.Fatalf("viewport = %v", v)
	}
}
