package cli

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/imged/pkg/config"
	"github.com/Fepozopo/imged/pkg/editor"
	"github.com/Fepozopo/imged/pkg/imageio"
)

// writeGradient saves a w x h opaque gradient PNG and returns its path.
func writeGradient(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 2), uint8(y * 4), 128, 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := imageio.Save(path, img); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	return NewREPL(config.Default(), strings.NewReader(input), &out, &errOut), &out, &errOut
}

func run(t *testing.T, r *REPL, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if _, err := r.Execute(l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
}

func activeSize(t *testing.T, r *REPL) (int, int) {
	t.Helper()
	var w, h int
	if err := r.Workspace().DoActive(func(s *editor.Session) error {
		w, h = s.Size()
		return nil
	}); err != nil {
		t.Fatalf("DoActive: %v", err)
	}
	return w, h
}

func TestOpenResizeUndoRedoSave(t *testing.T) {
	dir := t.TempDir()
	src := writeGradient(t, dir, "in.png", 20, 10)
	r, out, _ := newTestREPL(t, "")

	run(t, r, "open "+src, "resize 10 5")
	if !strings.Contains(out.String(), "Image: 10x5 | zoom 100% | mode idle | history 2/0") {
		t.Fatalf("unexpected status output:\n%s", out.String())
	}
	run(t, r, "undo")
	if w, h := activeSize(t, r); w != 20 || h != 10 {
		t.Fatalf("after undo size = %dx%d, want 20x10", w, h)
	}
	run(t, r, "redo")
	if w, h := activeSize(t, r); w != 10 || h != 5 {
		t.Fatalf("after redo size = %dx%d, want 10x5", w, h)
	}

	dst := filepath.Join(dir, "out file.png")
	run(t, r, "save "+dst)
	img, err := imageio.Load(dst)
	if err != nil {
		t.Fatalf("reload saved file: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Fatalf("saved size = %v, want 10x5", b)
	}
}

func TestCommandsNeedImage(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	for _, line := range []string{"resize 10 10", "filter blur", "undo", "save x.png", "draw"} {
		if _, err := r.Execute(line); !errors.Is(err, editor.ErrNoImageLoaded) {
			t.Errorf("%q: expected ErrNoImageLoaded, got %v", line, err)
		}
	}
}

func TestUnknownAndInvalidCommands(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	if _, err := r.Execute("frobnicate"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := r.Execute("c"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Fatalf("expected ambiguous prefix error, got %v", err)
	}
	if _, err := r.Execute("resize ten 10"); err == nil || !strings.Contains(err.Error(), "expected integer") {
		t.Fatalf("expected integer validation error, got %v", err)
	}
	if _, err := r.Execute("rotate 1 2"); err == nil {
		t.Fatal("expected too many arguments error")
	}
}

func TestQuit(t *testing.T) {
	r, _, _ := newTestREPL(t, "")
	for _, line := range []string{"q", "quit", "QUIT"} {
		quit, err := r.Execute(line)
		if err != nil || !quit {
			t.Fatalf("%q: quit=%v err=%v", line, quit, err)
		}
	}
}

func TestDragCrop(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 100, 50)
	r, _, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "viewport 100 50", "cropmode", "drag 30 40 10 10")
	if w, h := activeSize(t, r); w != 20 || h != 30 {
		t.Fatalf("cropped size = %dx%d, want 20x30", w, h)
	}
	run(t, r, "crop 5 5 0 0")
	if w, h := activeSize(t, r); w != 5 || h != 5 {
		t.Fatalf("numeric crop size = %dx%d, want 5x5", w, h)
	}
}

func TestDrawModeThroughCommands(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 100, 50)
	r, out, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "viewport 100 50", "draw", "drag 5 5 50 5", "down 5 20", "move 50 20", "up 60 20")
	if !strings.Contains(out.String(), "mode drawing | history 1/0 | strokes 2") {
		t.Fatalf("expected two pending strokes:\n%s", out.String())
	}
	run(t, r, "draw")
	err := r.Workspace().DoActive(func(s *editor.Session) error {
		if u, _ := s.HistoryDepth(); u != 2 {
			t.Errorf("history depth = %d, want 2", u)
		}
		if got := s.Current().NRGBAAt(20, 5); got != (color.NRGBA{0, 0, 255, 255}) {
			t.Errorf("pixel on stroke = %v, want blue", got)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestFilterAdjustRotateFlip(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 30, 20)
	r, _, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "filter Greyscale", "filter edge", "adjust 1.2 0.8 1", "rotate 90", "fliph", "flop", "flipv")
	if w, h := activeSize(t, r); w != 20 || h != 30 {
		t.Fatalf("size after rotate = %dx%d, want 20x30", w, h)
	}
	if _, err := r.Execute("filter emboss"); err == nil {
		t.Fatal("expected unknown filter error")
	}
}

func TestZoomCommand(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 200, 100)
	r, out, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "zoom in", "zoom 50%", "viewport 100 100", "zoom fit")
	if !strings.Contains(out.String(), "zoom 125%") || !strings.Contains(out.String(), "zoom 50%") {
		t.Fatalf("unexpected zoom output:\n%s", out.String())
	}
	if _, err := r.Execute("zoom sideways"); err == nil {
		t.Fatal("expected invalid zoom error")
	}
	if _, err := r.Execute("zoom 0"); !errors.Is(err, editor.ErrInvalidZoom) {
		t.Fatalf("expected ErrInvalidZoom, got %v", err)
	}
}

func TestUndoNothing(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 4, 4)
	r, out, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "undo", "redo")
	if !strings.Contains(out.String(), "Nothing to undo") || !strings.Contains(out.String(), "Nothing to redo") {
		t.Fatalf("expected no-op messages:\n%s", out.String())
	}
}

func TestTabs(t *testing.T) {
	dir := t.TempDir()
	a := writeGradient(t, dir, "a.png", 8, 8)
	b := writeGradient(t, dir, "b.png", 16, 4)
	r, out, _ := newTestREPL(t, "")
	run(t, r, "open "+a, "new "+b)
	if got := r.Workspace().Len(); got != 2 {
		t.Fatalf("tabs = %d, want 2", got)
	}
	if w, h := activeSize(t, r); w != 16 || h != 4 {
		t.Fatalf("active tab size = %dx%d, want 16x4", w, h)
	}

	out.Reset()
	run(t, r, "tabs")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "*") || !strings.HasSuffix(lines[0], "a.png") {
		t.Fatalf("unexpected tab listing: %q", lines)
	}

	first := r.Workspace().List()[0].ID
	run(t, r, "tab "+first[:6])
	if w, _ := activeSize(t, r); w != 8 {
		t.Fatalf("switching tabs failed, width %d", w)
	}
	run(t, r, "close", "close")
	if got := r.Workspace().Len(); got != 1 {
		t.Fatalf("closing every tab should leave a fresh one, got %d", got)
	}
	if _, err := r.Execute("new " + filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected load error")
	}
	if got := r.Workspace().Len(); got != 1 {
		t.Fatalf("failed new should not leave a tab behind, got %d", got)
	}
}

func TestBrushCarriesToNewTabs(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	run(t, r, "brush red 5")
	if !strings.Contains(out.String(), "Brush: #ff0000, 5px") {
		t.Fatalf("unexpected brush output: %q", out.String())
	}
	run(t, r, "new")
	err := r.Workspace().DoActive(func(s *editor.Session) error {
		if b := s.Brush(); b.Width != 5 || b.Color != (color.NRGBA{255, 0, 0, 255}) {
			t.Errorf("new tab brush = %+v", b)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute("brush notacolor"); err == nil {
		t.Fatal("expected color parse error")
	}
}

func TestHistogramCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeGradient(t, dir, "in.png", 10, 10)
	r, out, _ := newTestREPL(t, "")
	chart := filepath.Join(dir, "hist.png")
	run(t, r, "open "+src, "histogram "+chart)
	if !strings.Contains(out.String(), "B mean 128.0 peak 128") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
	img, err := imageio.Load(chart)
	if err != nil {
		t.Fatalf("load chart: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 160 {
		t.Fatalf("chart size = %v", b)
	}
}

func TestLayersAndHelp(t *testing.T) {
	r, out, _ := newTestREPL(t, "")
	if _, err := r.Execute("layers"); !errors.Is(err, editor.ErrLayersUnsupported) {
		t.Fatalf("expected ErrLayersUnsupported, got %v", err)
	}
	run(t, r, "help filter")
	if !strings.Contains(out.String(), "filter <name>") {
		t.Fatalf("unexpected help: %q", out.String())
	}
	out.Reset()
	run(t, r, "?")
	if !strings.Contains(out.String(), "Commands available:") {
		t.Fatalf("unexpected usage: %q", out.String())
	}
}

func TestRunScript(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 12, 12)
	r, out, errOut := newTestREPL(t, "open "+src+"\nbogus\nresize 4 4\nq\nresize 2 2\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Image: 4x4") {
		t.Fatalf("expected resize output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Image: 2x2") {
		t.Fatal("commands after quit must not run")
	}
	if !strings.Contains(errOut.String(), "error: unknown command: bogus") {
		t.Fatalf("expected error report, got %q", errOut.String())
	}
}

func TestRunStopsAtEOF(t *testing.T) {
	r, _, _ := newTestREPL(t, "tabs")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestJoinTrailing(t *testing.T) {
	spec, _ := NewMetaStore(Commands).Lookup("save")
	got := joinTrailing(spec, []string{"my", "pic.png"})
	if len(got) != 1 || got[0] != "my pic.png" {
		t.Fatalf("joinTrailing = %q", got)
	}
	spec, _ = NewMetaStore(Commands).Lookup("resize")
	if got := joinTrailing(spec, []string{"1", "2", "3"}); len(got) != 3 {
		t.Fatalf("numeric args must not be joined: %q", got)
	}
}

func TestParseFzfSelection(t *testing.T) {
	if got, err := parseFzfSelection("filter: Apply a built-in filter.\n"); err != nil || got != "filter" {
		t.Fatalf("parseFzfSelection = %q, %v", got, err)
	}
	if _, err := parseFzfSelection("  \n"); err == nil {
		t.Fatal("expected error for empty selection")
	}
	if !strings.HasPrefix(fzfCommandList(Commands), "open: ") {
		t.Fatal("command list should start with open")
	}
}

func TestPreviewAtHugeZoomReportsError(t *testing.T) {
	src := writeGradient(t, t.TempDir(), "in.png", 100, 100)
	r, _, _ := newTestREPL(t, "")
	run(t, r, "open "+src, "zoom 1e9")
	if _, err := r.Execute("preview"); !errors.Is(err, editor.ErrInvalidZoom) {
		t.Fatalf("preview err = %v, want ErrInvalidZoom", err)
	}
	run(t, r, "zoom reset", "info")
}
