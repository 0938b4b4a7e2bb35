package editor

import "github.com/solardaw/pianoroll"

type (
	// KeyEvent is a front-end-agnostic key press. Name follows the common
	// convention of single uppercase letters for letter keys and spelled-out
	// names ("Delete", "Left", "Escape") for the rest; the front end does
	// the translation from its own event type.
	KeyEvent struct {
		Name string
		Mod  ModKeys
	}

	// ModKeys are the modifiers of a key press. Command means ctrl on linux
	// and windows, cmd on mac.
	ModKeys struct {
		Command, Shift, Alt bool
	}
)

// KeyEvent dispatches a key press and reports whether it was handled.
func (m *Model) KeyEvent(e KeyEvent) bool {
	if e.Mod.Command {
		switch e.Name {
		case "Z":
			if e.Mod.Shift {
				m.Redo().Do()
			} else {
				m.Undo().Do()
			}
			return true
		case "Y":
			m.Redo().Do()
			return true
		case "C":
			m.CopySelection()
			return true
		case "X":
			m.CutSelection()
			return true
		case "V":
			m.Paste()
			return true
		case "A":
			if e.Mod.Shift {
				m.InvertSelection()
			} else {
				m.SelectAll()
			}
			return true
		}
		return false
	}
	switch e.Name {
	case "Delete", "Backspace":
		m.DeleteSelection()
		return true
	case "Escape":
		if m.gesture != nil {
			m.CancelGesture()
		} else {
			m.Deselect()
		}
		return true
	case "Left", "Right":
		step := 1
		if e.Mod.Shift {
			// a whole bar, in divisions
			step = int(pianoroll.BeatsPerBar / m.d.Grid.Division.Beats())
		}
		if e.Name == "Left" {
			step = -step
		}
		m.NudgeSelection(step, 0)
		return true
	case "Up", "Down":
		step := 1
		if e.Mod.Shift {
			step = 12 // an octave
		}
		if e.Name == "Down" {
			step = -step
		}
		m.NudgeSelection(0, step)
		return true
	case "G":
		m.SnapToGrid().Toggle()
		return true
	case "D":
		m.CycleDivision()
		return true
	case "Q":
		m.QuantizeNotes().Do()
		return true
	case "+", "=":
		m.ZoomIn().Do()
		return true
	case "-":
		m.ZoomOut().Do()
		return true
	case "1", "2", "3", "4", "5":
		m.Tool().SetValue(int(e.Name[0] - '1'))
		return true
	}
	return false
}
