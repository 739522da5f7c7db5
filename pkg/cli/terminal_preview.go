package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/imged/pkg/imgops"
)

// Terminal preview for the kitty and iTerm2 inline-image protocols.
//
// Backend order:
//   - PREVIEW_BACKEND (kitty, inline, sixel, chafa) is tried first when set.
//   - Terminals advertising OSC 1337 inline images (iTerm2, WezTerm, Warp,
//     VSCode, Tabby) get the inline sequence.
//   - kitty-compatible terminals (kitty, ghostty, Konsole) get the chunked
//     kitty graphics sequence.
//   - Otherwise img2sixel or chafa are run if present on PATH.

// Previewer writes terminal image sequences to Out.
type Previewer struct {
	Out   io.Writer
	Debug bool
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// NewPreviewer returns a Previewer writing to out.
func NewPreviewer(out io.Writer, debug bool) *Previewer {
	return &Previewer{Out: out, Debug: debug, Getenv: os.Getenv}
}

func (p *Previewer) env(key string) string {
	if p.Getenv == nil {
		return os.Getenv(key)
	}
	return p.Getenv(key)
}

func (p *Previewer) debugf(format string, args ...interface{}) {
	if p.Debug {
		fmt.Fprintf(os.Stderr, "imged-preview: "+format+"\n", args...)
	}
}

func (p *Previewer) isKitty() bool {
	if p.env("KITTY_WINDOW_ID") != "" || p.env("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(p.env("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghost")
}

func (p *Previewer) isInlineImageCapable() bool {
	switch p.env("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	if p.env("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(p.env("TERM"))
	return strings.Contains(term, "wez") || strings.Contains(term, "warp") ||
		strings.Contains(term, "tabby") || strings.Contains(term, "vscode")
}

func (p *Previewer) isSixelCapable() bool {
	if p.env("SIXEL_PREVIEW") == "1" || p.env("WT_SESSION") != "" {
		return true
	}
	term := strings.ToLower(p.env("TERM"))
	return strings.Contains(term, "foot") || strings.Contains(term, "mlterm")
}

func hasTool(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Supported reports whether some preview backend is likely to work.
func (p *Previewer) Supported() bool {
	ok := p.isInlineImageCapable() || p.isKitty() || p.isSixelCapable() || hasTool("chafa")
	p.debugf("supported=%v (inline=%v kitty=%v sixel=%v)", ok, p.isInlineImageCapable(), p.isKitty(), p.isSixelCapable())
	return ok
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // Cols * cell width
	PixelHeight int // Rows * cell height
}

// computePreviewSize fits an image into at most 80x40 cells of 8x16 pixels,
// preserving aspect ratio and never scaling up.
func computePreviewSize(w, h int) PreviewSize {
	const (
		charW   = 8
		charH   = 16
		minCols = 6
		minRows = 3
		maxCols = 80
		maxRows = 40
	)
	if w <= 0 || h <= 0 {
		return PreviewSize{Cols: minCols, Rows: minRows, PixelWidth: minCols * charW, PixelHeight: minRows * charH}
	}
	scale := math.Min(1, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := clamp(int(math.Round(float64(w)*scale/charW)), minCols, maxCols)
	rows := clamp(int(math.Round(float64(h)*scale/charH)), minRows, maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Show downsizes img to the preview area, encodes it as PNG (or JPEG when
// format is "jpeg"/"jpg") and sends it to the terminal.
func (p *Previewer) Show(img image.Image, format string) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("nil image")
	}
	size := computePreviewSize(img.Bounds().Dx(), img.Bounds().Dy())
	thumb := imgops.Thumbnail(imgops.ToNRGBA(img), size.PixelWidth, size.PixelHeight)

	f := strings.ToLower(format)
	if p.isKitty() || strings.EqualFold(p.env("PREVIEW_BACKEND"), "kitty") {
		f = "png"
	}
	var buf bytes.Buffer
	if f == "jpeg" || f == "jpg" {
		if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("jpeg encode failed: %w", err)
		}
		f = "jpeg"
	} else {
		if err := png.Encode(&buf, thumb); err != nil {
			return fmt.Errorf("png encode failed: %w", err)
		}
		f = "png"
	}
	return p.send(buf.Bytes(), f, size)
}

type backend func(data []byte, format string, size PreviewSize) error

func (p *Previewer) send(data []byte, format string, size PreviewSize) error {
	byName := map[string]backend{
		"kitty":  p.sendKittyImage,
		"inline": p.sendInlineImage,
		"iterm":  p.sendInlineImage,
		"sixel":  p.sendSixelImage,
		"chafa":  p.sendChafaImage,
	}
	var order []backend
	if v := strings.ToLower(p.env("PREVIEW_BACKEND")); v != "" {
		if b, ok := byName[v]; ok {
			order = append(order, b)
		} else {
			p.debugf("unknown PREVIEW_BACKEND value: %s", v)
		}
	}
	if p.isInlineImageCapable() {
		order = append(order, p.sendInlineImage)
	}
	if p.isKitty() {
		order = append(order, p.sendKittyImage)
	}
	if p.isSixelCapable() {
		order = append(order, p.sendSixelImage)
	}
	order = append(order, p.sendChafaImage)

	var lastErr error
	for _, b := range order {
		if err := b(data, format, size); err != nil {
			p.debugf("backend failed: %v", err)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no preview backend succeeded: %w", lastErr)
}

// trailingNewlines moves the cursor below the image so the prompt is not
// drawn over it.
func (p *Previewer) trailingNewlines(rows int) {
	n := 1
	switch {
	case rows > 20:
		n = 4
	case rows > 6:
		n = 3
	case rows > 2:
		n = 2
	}
	fmt.Fprint(p.Out, strings.Repeat("\n", n))
}

// sendKittyImage sends the payload with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. The first chunk carries the
// placement (c=cols, r=rows); q=2 suppresses terminal replies.
func (p *Previewer) sendKittyImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(p.Out, seq); err != nil {
			return err
		}
	}
	p.trailingNewlines(size.Rows)
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func (p *Previewer) sendInlineImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	name := "preview.png"
	if strings.HasPrefix(format, "j") {
		name = "preview.jpg"
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=" + name + ";inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	if _, err := io.WriteString(p.Out, seq); err != nil {
		return err
	}
	p.trailingNewlines(0)
	return nil
}

// sendSixelImage pipes the payload through img2sixel.
func (p *Previewer) sendSixelImage(data []byte, format string, size PreviewSize) error {
	return p.runRenderer(data, size, "img2sixel", "-")
}

// sendChafaImage renders block symbols with chafa. NO_CHAFA=1 disables it.
func (p *Previewer) sendChafaImage(data []byte, format string, size PreviewSize) error {
	if p.env("NO_CHAFA") == "1" {
		return fmt.Errorf("chafa usage disabled via NO_CHAFA=1")
	}
	return p.runRenderer(data, size, "chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
}

func (p *Previewer) runRenderer(data []byte, size PreviewSize, name string, args ...string) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if !hasTool(name) {
		return fmt.Errorf("%s not found in PATH", name)
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.Out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	p.trailingNewlines(size.Rows)
	return nil
}
