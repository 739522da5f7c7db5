package cli

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fepozopo/imged/pkg/config"
	"github.com/Fepozopo/imged/pkg/editor"
	"github.com/Fepozopo/imged/pkg/imageio"
	"github.com/Fepozopo/imged/pkg/imgops"
	"github.com/Fepozopo/imged/pkg/workspace"
)

const untitled = "untitled"

// REPL reads commands line by line and applies them to the active tab.
type REPL struct {
	ws      *workspace.Manager
	cfg     config.Config
	store   *MetaStore
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
	preview *Previewer
	updater *Updater

	// AutoPreview shows the image in the terminal after every change.
	AutoPreview bool
}

type handler func(r *REPL, args []string) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"open":      (*REPL).cmdOpen,
		"new":       (*REPL).cmdNew,
		"save":      (*REPL).cmdSave,
		"info":      (*REPL).cmdInfo,
		"tabs":      (*REPL).cmdTabs,
		"tab":       (*REPL).cmdTab,
		"close":     (*REPL).cmdClose,
		"viewport":  (*REPL).cmdViewport,
		"zoom":      (*REPL).cmdZoom,
		"crop":      (*REPL).cmdCrop,
		"cropmode":  (*REPL).cmdCropMode,
		"draw":      (*REPL).cmdDraw,
		"exit":      (*REPL).cmdExit,
		"down":      (*REPL).cmdDown,
		"move":      (*REPL).cmdMove,
		"up":        (*REPL).cmdUp,
		"drag":      (*REPL).cmdDrag,
		"resize":    (*REPL).cmdResize,
		"rotate":    (*REPL).cmdRotate,
		"fliph":     (*REPL).cmdFlipH,
		"flipv":     (*REPL).cmdFlipV,
		"adjust":    (*REPL).cmdAdjust,
		"filter":    (*REPL).cmdFilter,
		"brush":     (*REPL).cmdBrush,
		"undo":      (*REPL).cmdUndo,
		"redo":      (*REPL).cmdRedo,
		"histogram": (*REPL).cmdHistogram,
		"layers":    (*REPL).cmdLayers,
		"preview":   (*REPL).cmdPreview,
		"update":    (*REPL).cmdUpdate,
		"help":      (*REPL).cmdHelp,
	}
}

// NewREPL builds a REPL with one empty tab. Terminal preview is off until
// AutoPreview is set.
func NewREPL(cfg config.Config, in io.Reader, out, errOut io.Writer) *REPL {
	r := &REPL{
		cfg:     cfg,
		store:   NewMetaStore(Commands),
		in:      bufio.NewReader(in),
		out:     out,
		errOut:  errOut,
		logger:  log.New(errOut, "imged: ", 0),
		preview: NewPreviewer(out, cfg.Debug),
	}
	// new tabs pick up brush changes made during the session
	r.ws = workspace.New(func() *editor.Session {
		return editor.New(r.cfg.SessionOptions(r.logger)...)
	})
	r.ws.Open(untitled)
	r.updater = &Updater{Repo: cfg.UpdateRepo, Current: Version, Out: out, Confirm: r.Confirm}
	return r
}

// Workspace exposes the open tabs.
func (r *REPL) Workspace() *workspace.Manager { return r.ws }

func (r *REPL) usage() {
	fmt.Fprintln(r.out, "Commands available:")
	fmt.Fprintln(r.out, "  /  - select a command with fzf")
	for _, c := range r.store.Commands {
		fmt.Fprintf(r.out, "  %-40s %s\n", c.Usage, c.Description)
	}
}

// Execute runs one input line. quit reports that the user asked to leave.
func (r *REPL) Execute(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if line == "/" {
		return r.pick()
	}
	fields := strings.Fields(line)
	spec, err := r.store.Lookup(fields[0])
	if err != nil {
		return false, err
	}
	args := joinTrailing(spec, fields[1:])
	if spec.Name == "open" && len(args) == 0 {
		path, err := r.preview.SelectFileWithFzf(".")
		if err != nil {
			return false, fmt.Errorf("open needs a path: %w", err)
		}
		args = []string{path}
	}
	return r.dispatch(spec, args)
}

// joinTrailing folds surplus tokens into a final path or string argument so
// file names may contain spaces.
func joinTrailing(spec CommandSpec, args []string) []string {
	n := len(spec.Args)
	if n == 0 || len(args) <= n {
		return args
	}
	if t := spec.Args[n-1].Type; t != "path" && t != "string" {
		return args
	}
	out := append([]string{}, args[:n-1]...)
	return append(out, strings.Join(args[n-1:], " "))
}

func (r *REPL) dispatch(spec CommandSpec, args []string) (bool, error) {
	if spec.Name == "quit" {
		return true, nil
	}
	norm, err := NormalizeArgs(r.store, spec.Name, args)
	if err != nil {
		return false, err
	}
	if spec.NeedsImage {
		if err := r.ws.DoActive(func(s *editor.Session) error {
			if !s.Loaded() {
				return editor.ErrNoImageLoaded
			}
			return nil
		}); err != nil {
			return false, err
		}
	}
	h, ok := handlers[spec.Name]
	if !ok {
		return false, fmt.Errorf("command %s has no handler", spec.Name)
	}
	return false, h(r, norm)
}

// pick selects a command with fzf (or a numbered list) and prompts for
// each argument.
func (r *REPL) pick() (bool, error) {
	name, err := SelectCommandWithFzf(r.store.Commands)
	if err != nil || name == "" {
		fmt.Fprintln(r.out, "Command selection (fallback):")
		for i, c := range r.store.Commands {
			fmt.Fprintf(r.out, "  %d) %s - %s\n", i+1, c.Name, c.Description)
		}
		sel, perr := r.PromptLine("Enter number or command name (leave empty to cancel): ")
		if perr != nil {
			return false, perr
		}
		if sel == "" {
			fmt.Fprintln(r.out, "selection cancelled")
			return false, nil
		}
		name = sel
		if idx, aerr := strconv.Atoi(sel); aerr == nil {
			if idx < 1 || idx > len(r.store.Commands) {
				return false, fmt.Errorf("invalid selection %d", idx)
			}
			name = r.store.Commands[idx-1].Name
		}
	}
	spec, err := r.store.Lookup(name)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(r.out, "\n"+GenerateTooltip(spec)+"\n")
	args := make([]string, len(spec.Args))
	for i, a := range spec.Args {
		label := a.Type
		if a.Type == "enum" {
			label = "enum(" + strings.Join(a.Options, "|") + ")"
		}
		prompt := fmt.Sprintf("%s (%s): ", a.Name, label)
		if a.Default != "" {
			prompt = fmt.Sprintf("%s (%s, default %s): ", a.Name, label, a.Default)
		}
		var v string
		if a.Type == "path" {
			v, err = r.PromptLineOrFzf(prompt)
		} else {
			v, err = r.PromptLine(prompt)
		}
		if err != nil {
			return false, err
		}
		if v == "" {
			v = a.Default
		}
		args[i] = v
	}
	return r.dispatch(spec, args)
}

// Run reads commands until quit or end of input.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, "Terminal Image Editor")
	r.usage()
	for {
		fmt.Fprint(r.out, "> ")
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		eof := err != nil
		quit, xerr := r.Execute(line)
		if xerr != nil {
			fmt.Fprintf(r.errOut, "error: %v\n", xerr)
		}
		if quit || eof {
			return nil
		}
	}
}

// RunCLI starts the interactive editor on the terminal, opening args[0]
// first when given.
func RunCLI(cfg config.Config, args []string) error {
	r := NewREPL(cfg, os.Stdin, os.Stdout, os.Stderr)
	r.AutoPreview = r.preview.Supported()
	if len(args) > 0 {
		if err := r.cmdOpen([]string{strings.Join(args, " ")}); err != nil {
			return fmt.Errorf("failed to read image %s: %w", args[0], err)
		}
	}
	return r.Run()
}

// changed prints the status line and refreshes the terminal preview.
func (r *REPL) changed() error {
	if err := r.cmdInfo(nil); err != nil {
		return err
	}
	if r.AutoPreview {
		if err := r.cmdPreview(nil); err != nil {
			r.logger.Printf("preview: %v", err)
		}
	}
	return nil
}

// edit runs fn on the active session and reports the new state.
func (r *REPL) edit(fn func(*editor.Session) error) error {
	if err := r.ws.DoActive(fn); err != nil {
		return err
	}
	return r.changed()
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func point(x, y string) image.Point { return image.Pt(atoi(x), atoi(y)) }

func (r *REPL) cmdOpen(args []string) error {
	path := args[0]
	if err := r.ws.DoActive(func(s *editor.Session) error { return s.LoadFile(path) }); err != nil {
		return err
	}
	if err := r.ws.Rename(r.ws.Active(), filepath.Base(path)); err != nil {
		return err
	}
	return r.changed()
}

func (r *REPL) cmdNew(args []string) error {
	name := untitled
	if args[0] != "" {
		name = filepath.Base(args[0])
	}
	prev := r.ws.Active()
	id := r.ws.Open(name)
	if args[0] != "" {
		if err := r.ws.Do(id, func(s *editor.Session) error { return s.LoadFile(args[0]) }); err != nil {
			_ = r.ws.Close(id)
			if prev != "" {
				_ = r.ws.SetActive(prev)
			}
			return err
		}
		return r.changed()
	}
	fmt.Fprintf(r.out, "Opened tab %s\n", shortID(id))
	return nil
}

func (r *REPL) cmdSave(args []string) error {
	path := args[0]
	if err := r.ws.DoActive(func(s *editor.Session) error { return s.SaveFile(path) }); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved %s\n", path)
	return nil
}

func (r *REPL) cmdInfo([]string) error {
	return r.ws.DoActive(func(s *editor.Session) error {
		fmt.Fprintln(r.out, statusLine(s))
		return nil
	})
}

func statusLine(s *editor.Session) string {
	if !s.Loaded() {
		return "No image loaded"
	}
	w, h := s.Size()
	u, rd := s.HistoryDepth()
	line := fmt.Sprintf("Image: %dx%d | zoom %.0f%% | mode %s | history %d/%d", w, h, s.Zoom()*100, s.Mode(), u, rd)
	if n := s.PendingStrokes(); n > 0 {
		line += fmt.Sprintf(" | strokes %d", n)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (r *REPL) cmdTabs([]string) error {
	for _, t := range r.ws.List() {
		marker := " "
		if t.Active {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %s  %s\n", marker, shortID(t.ID), t.Name)
	}
	return nil
}

func (r *REPL) cmdTab(args []string) error {
	if err := r.ws.SetActive(args[0]); err != nil {
		return err
	}
	return r.cmdInfo(nil)
}

func (r *REPL) cmdClose(args []string) error {
	id := args[0]
	if id == "" {
		id = r.ws.Active()
	}
	if err := r.ws.Close(id); err != nil {
		return err
	}
	if r.ws.Len() == 0 {
		r.ws.Open(untitled)
	}
	return r.cmdTabs(nil)
}

func (r *REPL) cmdViewport(args []string) error {
	w, h := atoi(args[0]), atoi(args[1])
	return r.ws.DoActive(func(s *editor.Session) error { return s.SetViewport(w, h) })
}

func (r *REPL) cmdZoom(args []string) error {
	level := strings.ToLower(args[0])
	return r.edit(func(s *editor.Session) error {
		switch level {
		case "in", "+":
			s.ZoomIn()
		case "out", "-":
			s.ZoomOut()
		case "reset", "1":
			s.ResetZoom()
		case "fit":
			return s.FitToViewport()
		default:
			z, err := strconv.ParseFloat(strings.TrimSuffix(level, "%"), 64)
			if err != nil {
				return fmt.Errorf("zoom: expected in, out, reset, fit or a factor, got %q", level)
			}
			if strings.HasSuffix(level, "%") {
				z /= 100
			}
			return s.SetZoom(z)
		}
		return nil
	})
}

func (r *REPL) cmdCrop(args []string) error {
	w, h, x, y := atoi(args[0]), atoi(args[1]), atoi(args[2]), atoi(args[3])
	return r.edit(func(s *editor.Session) error { return s.Crop(image.Rect(x, y, x+w, y+h)) })
}

func (r *REPL) cmdCropMode([]string) error {
	return r.edit(func(s *editor.Session) error { return s.EnterCropMode() })
}

func (r *REPL) cmdDraw([]string) error {
	return r.edit(func(s *editor.Session) error { return s.ToggleDrawMode() })
}

func (r *REPL) cmdExit([]string) error {
	return r.edit(func(s *editor.Session) error { return s.ExitMode() })
}

func (r *REPL) cmdDown(args []string) error {
	return r.pointer("down", point(args[0], args[1]))
}

func (r *REPL) cmdMove(args []string) error {
	return r.pointer("move", point(args[0], args[1]))
}

// cmdUp reports the new state since releasing may finish a crop.
func (r *REPL) cmdUp(args []string) error {
	if err := r.pointer("up", point(args[0], args[1])); err != nil {
		return err
	}
	return r.changed()
}

func (r *REPL) pointer(verb string, p image.Point) error {
	return r.ws.DoActive(func(s *editor.Session) error {
		switch verb {
		case "down":
			return s.PointerDown(p)
		case "move":
			return s.PointerMove(p)
		default:
			return s.PointerUp(p)
		}
	})
}

func (r *REPL) cmdDrag(args []string) error {
	from, to := point(args[0], args[1]), point(args[2], args[3])
	if err := r.pointer("down", from); err != nil {
		return err
	}
	if err := r.pointer("move", to); err != nil {
		return err
	}
	if err := r.pointer("up", to); err != nil {
		return err
	}
	return r.changed()
}

func (r *REPL) cmdResize(args []string) error {
	w, h := atoi(args[0]), atoi(args[1])
	return r.edit(func(s *editor.Session) error { return s.Resize(w, h) })
}

func (r *REPL) cmdRotate(args []string) error {
	deg := atof(args[0])
	return r.edit(func(s *editor.Session) error { return s.Rotate(deg) })
}

func (r *REPL) cmdFlipH([]string) error {
	return r.edit(func(s *editor.Session) error { return s.FlipHorizontal() })
}

func (r *REPL) cmdFlipV([]string) error {
	return r.edit(func(s *editor.Session) error { return s.FlipVertical() })
}

func (r *REPL) cmdAdjust(args []string) error {
	b, c, sat := atof(args[0]), atof(args[1]), atof(args[2])
	return r.edit(func(s *editor.Session) error { return s.AdjustColor(b, c, sat) })
}

func (r *REPL) cmdFilter(args []string) error {
	kind, err := imgops.ParseKind(args[0])
	if err != nil {
		return err
	}
	return r.edit(func(s *editor.Session) error { return s.ApplyFilter(kind) })
}

func (r *REPL) cmdBrush(args []string) error {
	return r.ws.DoActive(func(s *editor.Session) error {
		if args[0] != "" {
			c, err := imgops.ParseColor(args[0])
			if err != nil {
				return err
			}
			if err := s.SetBrushColor(c); err != nil {
				return err
			}
		}
		if args[1] != "" {
			if err := s.SetBrushWidth(atoi(args[1])); err != nil {
				return err
			}
		}
		b := s.Brush()
		r.cfg.BrushColor, r.cfg.BrushSize = b.Color, b.Width
		fmt.Fprintf(r.out, "Brush: %s, %dpx\n", imgops.FormatColor(b.Color), b.Width)
		return nil
	})
}

func (r *REPL) cmdUndo([]string) error {
	var did bool
	if err := r.ws.DoActive(func(s *editor.Session) (err error) {
		did, err = s.Undo()
		return err
	}); err != nil {
		return err
	}
	if !did {
		fmt.Fprintln(r.out, "Nothing to undo")
		return nil
	}
	return r.changed()
}

func (r *REPL) cmdRedo([]string) error {
	var did bool
	if err := r.ws.DoActive(func(s *editor.Session) (err error) {
		did, err = s.Redo()
		return err
	}); err != nil {
		return err
	}
	if !did {
		fmt.Fprintln(r.out, "Nothing to redo")
		return nil
	}
	return r.changed()
}

func (r *REPL) cmdHistogram(args []string) error {
	var hist imgops.Histogram
	if err := r.ws.DoActive(func(s *editor.Session) (err error) {
		hist, err = s.Histogram()
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintln(r.out, histogramSummary(hist))
	chart := imgops.RenderHistogramImage(hist, 0, 0)
	if args[0] != "" {
		if err := imageio.Save(args[0], chart); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Saved histogram to %s\n", args[0])
	}
	if r.AutoPreview {
		return r.preview.Show(chart, "png")
	}
	return nil
}

// histogramSummary reports the mean and peak bin of each channel.
func histogramSummary(h imgops.Histogram) string {
	describe := func(name string, bins [256]int) string {
		var total, sum, peak int
		for i, n := range bins {
			total += n
			sum += i * n
			if n > bins[peak] {
				peak = i
			}
		}
		mean := 0.0
		if total > 0 {
			mean = float64(sum) / float64(total)
		}
		return fmt.Sprintf("%s mean %.1f peak %d", name, mean, peak)
	}
	return strings.Join([]string{describe("R", h.R), describe("G", h.G), describe("B", h.B)}, " | ")
}

func (r *REPL) cmdLayers([]string) error {
	return r.ws.DoActive(func(s *editor.Session) error { return s.Layers() })
}

func (r *REPL) cmdPreview([]string) error {
	var img *image.NRGBA
	if err := r.ws.DoActive(func(s *editor.Session) (err error) {
		img, err = s.Render()
		return err
	}); err != nil {
		return err
	}
	return r.preview.Show(img, "png")
}

func (r *REPL) cmdUpdate([]string) error {
	return r.updater.CheckForUpdates()
}

func (r *REPL) cmdHelp(args []string) error {
	if args[0] == "" {
		r.usage()
		return nil
	}
	tip, _, err := r.store.GetCommandHelp(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, tip)
	return nil
}
