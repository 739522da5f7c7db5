// Package stroke collects freehand pointer paths in viewport space while
// drawing mode is active.
package stroke

import (
	"image"
	"slices"
)

// Capture accumulates the in-progress path and the completed paths. The
// zero value is idle and empty.
type Capture struct {
	capturing bool
	current   []image.Point
	completed [][]image.Point
}

// Begin starts a new path at p, discarding any unfinished one.
func (c *Capture) Begin(p image.Point) {
	c.capturing = true
	c.current = append(c.current[:0:0], p)
}

// Extend appends p to the in-progress path. It reports false and does
// nothing when no path is being captured.
func (c *Capture) Extend(p image.Point) bool {
	if !c.capturing {
		return false
	}
	c.current = append(c.current, p)
	return true
}

// Commit closes the in-progress path, moves it to the completed list and
// returns a copy of it. It returns nil when idle.
func (c *Capture) Commit() []image.Point {
	if !c.capturing {
		return nil
	}
	path := c.current
	c.current = nil
	c.capturing = false
	c.completed = append(c.completed, path)
	return slices.Clone(path)
}

// Capturing reports whether a path is in progress.
func (c *Capture) Capturing() bool { return c.capturing }

// Current returns a copy of the in-progress path.
func (c *Capture) Current() []image.Point { return slices.Clone(c.current) }

// Completed returns the number of committed paths awaiting rasterization.
func (c *Capture) Completed() int { return len(c.completed) }

// Pending returns a copy of the committed paths without removing them.
func (c *Capture) Pending() [][]image.Point {
	out := make([][]image.Point, len(c.completed))
	for i, p := range c.completed {
		out[i] = slices.Clone(p)
	}
	return out
}

// Drain returns the committed paths and empties the list. An unfinished
// path is left alone.
func (c *Capture) Drain() [][]image.Point {
	out := c.completed
	c.completed = nil
	return out
}

// Reset discards everything and returns to idle.
func (c *Capture) Reset() {
	c.capturing = false
	c.current = nil
	c.completed = nil
}
