// Package config resolves editor settings from the environment and from
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/imged/pkg/editor"
	"github.com/Fepozopo/imged/pkg/imgops"
)

// Environment variable names.
const (
	EnvBrushColor = "IMGED_BRUSH_COLOR"
	EnvBrushSize  = "IMGED_BRUSH_SIZE"
	EnvZoomStep   = "IMGED_ZOOM_STEP"
	EnvViewport   = "IMGED_VIEWPORT"
	EnvDebug      = "IMGED_DEBUG"
	EnvUpdateRepo = "IMGED_UPDATE_REPO"
)

// DefaultUpdateRepo is the GitHub slug checked by the update command.
const DefaultUpdateRepo = "Fepozopo/imged"

// Config holds the resolved settings.
type Config struct {
	BrushColor color.NRGBA
	BrushSize  int
	ZoomStep   float64
	ViewportW  int
	ViewportH  int
	Debug      bool
	UpdateRepo string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BrushColor: editor.DefaultBrush.Color,
		BrushSize:  editor.DefaultBrush.Width,
		ZoomStep:   editor.DefaultZoomStep,
		ViewportW:  editor.DefaultViewportW,
		ViewportH:  editor.DefaultViewportH,
		UpdateRepo: DefaultUpdateRepo,
	}
}

// Load reads the given .env files (missing files are skipped) and then the
// process environment, which takes precedence. Invalid values are logged
// to logger and the default is kept.
func Load(logger *log.Logger, files ...string) Config {
	fileVals := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) && logger != nil {
				logger.Printf("config: reading %s: %v", f, err)
			}
			continue
		}
		for k, v := range vals {
			if _, seen := fileVals[k]; !seen {
				fileVals[k] = v
			}
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}
	return Parse(lookup, logger)
}

// Parse builds a Config from lookup, starting from Default.
func Parse(lookup func(string) (string, bool), logger *log.Logger) Config {
	cfg := Default()
	warn := func(key, val string, err error) {
		if logger != nil {
			logger.Printf("config: ignoring %s=%q: %v", key, val, err)
		}
	}

	if v, ok := lookup(EnvBrushColor); ok && v != "" {
		c, err := imgops.ParseColor(v)
		if err != nil {
			warn(EnvBrushColor, v, err)
		} else {
			c.A = 255
			cfg.BrushColor = c
		}
	}
	if v, ok := lookup(EnvBrushSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n < 1 {
			err = fmt.Errorf("must be at least 1")
		}
		if err != nil {
			warn(EnvBrushSize, v, err)
		} else {
			cfg.BrushSize = n
		}
	}
	if v, ok := lookup(EnvZoomStep); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !(f > 1) {
			err = fmt.Errorf("must be greater than 1")
		}
		if err != nil {
			warn(EnvZoomStep, v, err)
		} else {
			cfg.ZoomStep = f
		}
	}
	if v, ok := lookup(EnvViewport); ok && v != "" {
		w, h, err := ParseSize(v)
		if err != nil {
			warn(EnvViewport, v, err)
		} else {
			cfg.ViewportW, cfg.ViewportH = w, h
		}
	}
	if v, ok := lookup(EnvDebug); ok {
		cfg.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v, ok := lookup(EnvUpdateRepo); ok && v != "" {
		cfg.UpdateRepo = v
	}
	return cfg
}

// ParseSize parses "WxH" with positive integer sides.
func ParseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("want WIDTHxHEIGHT, got %q", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("size %dx%d must be positive", w, h)
	}
	return w, h, nil
}

// SessionOptions converts the settings into editor options.
func (c Config) SessionOptions(logger *log.Logger) []editor.Option {
	opts := []editor.Option{
		editor.WithBrush(editor.Brush{Color: c.BrushColor, Width: c.BrushSize}),
		editor.WithZoomStep(c.ZoomStep),
		editor.WithViewport(c.ViewportW, c.ViewportH),
	}
	if c.Debug && logger != nil {
		opts = append(opts, editor.WithLogger(logger))
	}
	return opts
}
