// Package history keeps bounded-by-memory undo and redo stacks of image
// snapshots. The top of the undo stack always mirrors the current image.
package history

import (
	"image"

	"github.com/Fepozopo/imged/pkg/imgops"
)

// History stores deep copies; nothing it returns aliases its stacks.
type History struct {
	undo []*image.NRGBA
	redo []*image.NRGBA
}

// New returns a History seeded with a copy of initial.
func New(initial *image.NRGBA) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset drops every snapshot and seeds the undo stack with initial.
func (h *History) Reset(initial *image.NRGBA) {
	clear(h.undo)
	clear(h.redo)
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	if initial != nil {
		h.undo = append(h.undo, imgops.Clone(initial))
	}
}

// Snapshot records img as the newest state and discards the redo stack.
func (h *History) Snapshot(img *image.NRGBA) {
	if img == nil {
		return
	}
	h.undo = append(h.undo, imgops.Clone(img))
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo steps back one state and returns a copy of it. It reports false
// when only the initial state remains.
func (h *History) Undo() (*image.NRGBA, bool) {
	if len(h.undo) <= 1 {
		return nil, false
	}
	n := len(h.undo) - 1
	top := h.undo[n]
	h.undo[n] = nil
	h.undo = h.undo[:n]
	h.redo = append(h.redo, top)
	return imgops.Clone(h.undo[n-1]), true
}

// Redo re-applies the most recently undone state and returns it.
func (h *History) Redo() (*image.NRGBA, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	n := len(h.redo) - 1
	top := h.redo[n]
	h.redo[n] = nil
	h.redo = h.redo[:n]
	h.undo = append(h.undo, imgops.Clone(top))
	return top, true
}

// Len returns the depth of the undo stack, including the initial state.
func (h *History) Len() int { return len(h.undo) }

// RedoLen returns the depth of the redo stack.
func (h *History) RedoLen() int { return len(h.redo) }

func (h *History) CanUndo() bool { return len(h.undo) > 1 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }
