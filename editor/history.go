package editor

import "github.com/solardaw/pianoroll"

type (
	// History is a two-stack undo/redo timeline of clip snapshots. Entries
	// from all editors in a session share one timeline, so undo always
	// reverts the most recent edit regardless of which clip it touched.
	// Depth is unbounded.
	History struct {
		undo []historyEntry
		redo []historyEntry
	}

	historyEntry struct {
		editor      *Model
		before      pianoroll.Clip
		after       pianoroll.Clip
		description string
	}
)

// push records a committed edit and invalidates the redo branch.
func (h *History) push(e historyEntry) {
	h.undo = append(h.undo, e)
	h.redo = h.redo[:0]
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDescription names the edit Undo would revert, for menus and alerts.
func (h *History) UndoDescription() string {
	if n := len(h.undo); n > 0 {
		return h.undo[n-1].description
	}
	return ""
}

func (h *History) RedoDescription() string {
	if n := len(h.redo); n > 0 {
		return h.redo[n-1].description
	}
	return ""
}

// Undo reverts the latest edit, restoring the full before-snapshot including
// the selection it carried. No-op on an empty stack.
func (h *History) Undo() {
	n := len(h.undo)
	if n == 0 {
		return
	}
	e := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, e)
	e.editor.restoreClip(e.before)
}

// Redo reapplies the latest undone edit. No-op on an empty stack.
func (h *History) Redo() {
	n := len(h.redo)
	if n == 0 {
		return
	}
	e := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, e)
	e.editor.restoreClip(e.after)
}
