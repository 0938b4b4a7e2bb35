package editor_test

import (
	"testing"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/editor"
)

// drainNoteBalance consumes all queued engine messages and returns the
// number of note ons minus note offs. Zero means no voice is left hanging.
func drainNoteBalance(b *editor.Broker) int {
	balance := 0
	for {
		select {
		case msg := <-b.ToEngine:
			switch msg.Data.(type) {
			case editor.NoteOnMsg:
				balance++
			case editor.NoteOffMsg:
				balance--
			}
		default:
			return balance
		}
	}
}

func TestMoveComputesFromOriginalPosition(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1})
	// many tiny moves that would each round to nothing must still add up
	m.PointerDown(at(1.5, 60), editor.Modifiers{})
	for i := 0; i < 20; i++ {
		m.PointerMove(editor.Point{X: at(1.5, 60).X + float64(i+1)*5, Y: at(1.5, 60).Y}, editor.Modifiers{})
	}
	m.PointerUp(editor.Point{X: at(1.5, 60).X + 100, Y: at(1.5, 60).Y}, editor.Modifiers{})
	if got := m.Clip().Notes[0].Start; got != 2 {
		t.Errorf("start = %g after 100px of 5px moves, want 2", got)
	}
}

func TestAltBypassesSnappingDuringDrag(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1})
	from := at(1.5, 60)
	m.PointerDown(from, editor.Modifiers{})
	to := editor.Point{X: from.X + 12.5, Y: from.Y} // 0.125 beats, off the 1/16 grid
	m.PointerMove(to, editor.Modifiers{Alt: true})
	m.PointerUp(to, editor.Modifiers{Alt: true})
	if got := m.Clip().Notes[0].Start; got != 1.125 {
		t.Errorf("start = %g, want unsnapped 1.125", got)
	}
}

func TestBackwardsSelectionRect(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 2, Duration: 1},
		pianoroll.Note{Pitch: 72, Velocity: 100, Start: 8, Duration: 1},
	)
	// drag from bottom right to top left over the first two notes
	drag(m, at(4, 55), at(0.5, 70), editor.Modifiers{Shift: true})
	ids := m.Clip().SelectedIDs()
	if len(ids) != 2 {
		t.Fatalf("selected %d notes, want 2", len(ids))
	}
	for _, n := range m.Clip().Notes {
		if n.Pitch == 72 && n.Selected {
			t.Error("note outside the rectangle was selected")
		}
	}
}

func TestSelectionRequiresFullContainment(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 2})
	// rectangle covers only the first half of the note
	drag(m, at(0.5, 62), at(2, 58), editor.Modifiers{Shift: true})
	if len(m.Clip().SelectedIDs()) != 0 {
		t.Error("partially covered note must not be selected")
	}
	drag(m, at(0.5, 62), at(3.5, 58), editor.Modifiers{Shift: true})
	if len(m.Clip().SelectedIDs()) != 1 {
		t.Error("fully covered note must be selected")
	}
}

func TestSelectionGestureLeavesNoHistory(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1})
	drag(m, at(0, 70), at(4, 50), editor.Modifiers{Shift: true})
	if m.Session().History.CanUndo() {
		t.Error("rubber-band selection must not be undoable")
	}
}

func TestSliceWithAltClick(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 80, Start: 1, Duration: 2})
	click(m, at(1.6, 60), editor.Modifiers{Alt: true})
	clip := m.Clip()
	if len(clip.Notes) != 2 {
		t.Fatalf("got %d notes, want 2 after slice", len(clip.Notes))
	}
	// alt also bypasses the grid: the cut lands exactly under the pointer
	if clip.Notes[1].Start != 1.6 {
		t.Errorf("slice point = %g, want unsnapped 1.6", clip.Notes[1].Start)
	}
	m.Session().History.Undo()
	if len(m.Clip().Notes) != 1 {
		t.Error("slice must be one undoable entry")
	}
}

func TestEraseDrag(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 0, Duration: 1},
	)
	m.PointerDown(at(0.5, 60), editor.Modifiers{Secondary: true})
	m.PointerMove(at(1.5, 60), editor.Modifiers{Secondary: true})
	m.PointerUp(at(1.5, 60), editor.Modifiers{Secondary: true})
	clip := m.Clip()
	if len(clip.Notes) != 1 || clip.Notes[0].Pitch != 64 {
		t.Fatalf("erase drag left %+v", clip.Notes)
	}
	m.Session().History.Undo()
	if len(m.Clip().Notes) != 3 {
		t.Error("whole erase drag must undo as one entry")
	}
}

func TestPaintDrag(t *testing.T) {
	m := newTestModel()
	m.Tool().SetValue(int(editor.ToolPaint))
	m.PointerDown(at(0.1, 60), editor.Modifiers{})
	m.PointerMove(at(0.6, 60), editor.Modifiers{})
	m.PointerMove(at(0.6, 60), editor.Modifiers{}) // same cell twice
	m.PointerMove(at(1.1, 60), editor.Modifiers{})
	m.PointerUp(at(1.1, 60), editor.Modifiers{})
	clip := m.Clip()
	if len(clip.Notes) != 3 {
		t.Fatalf("painted %d notes, want 3", len(clip.Notes))
	}
	for _, n := range clip.Notes {
		if n.Duration != 0.25 {
			t.Errorf("painted note duration = %g, want one division", n.Duration)
		}
	}
	m.Session().History.Undo()
	if len(m.Clip().Notes) != 0 {
		t.Error("paint stroke must undo as one entry")
	}
}

func TestGroupDragIsOneEntry(t *testing.T) {
	notes := make([]pianoroll.Note, 5)
	for i := range notes {
		notes[i] = pianoroll.Note{Pitch: 60 + i, Velocity: 100, Start: float64(i), Duration: 1}
	}
	m := newTestModel(notes...)
	m.SelectAll()
	drag(m, at(0.5, 60), at(1.5, 60), editor.Modifiers{})
	clip := m.Clip()
	for i, n := range clip.Notes {
		if n.Start != float64(i)+1 {
			t.Errorf("note %d start = %g, want %g", i, n.Start, float64(i)+1)
		}
	}
	h := &m.Session().History
	h.Undo()
	if h.CanUndo() {
		t.Error("dragging five notes must be exactly one entry")
	}
	for i, n := range m.Clip().Notes {
		if n.Start != float64(i) {
			t.Errorf("after undo: note %d start = %g, want %g", i, n.Start, float64(i))
		}
	}
}

func TestResizeLeftKeepsEnd(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 2})
	m.PointerDown(at(1, 60), editor.Modifiers{})
	m.PointerMove(at(2, 60), editor.Modifiers{})
	m.PointerUp(at(2, 60), editor.Modifiers{})
	n := m.Clip().Notes[0]
	if n.Start != 2 || n.End() != 3 {
		t.Errorf("left resize: [%g, %g), want [2, 3)", n.Start, n.End())
	}
}

func TestAuditionReleasedOnEveryExit(t *testing.T) {
	t.Run("normal release", func(t *testing.T) {
		m := newTestModel()
		drag(m, at(0, 60), at(1, 65), editor.Modifiers{})
		if bal := drainNoteBalance(m.Broker()); bal != 0 {
			t.Errorf("note on/off balance = %d, want 0", bal)
		}
	})
	t.Run("cancel mid-drag", func(t *testing.T) {
		m := newTestModel()
		m.PointerDown(at(0, 60), editor.Modifiers{})
		m.PointerMove(at(1, 64), editor.Modifiers{})
		m.CancelGesture()
		if bal := drainNoteBalance(m.Broker()); bal != 0 {
			t.Errorf("note on/off balance = %d, want 0", bal)
		}
		if len(m.Clip().Notes) != 0 {
			t.Error("cancel must revert the created note")
		}
		if m.Session().History.CanUndo() {
			t.Error("cancelled gesture must not reach history")
		}
	})
	t.Run("close mid-drag", func(t *testing.T) {
		m := newTestModel()
		m.PointerDown(at(0, 60), editor.Modifiers{})
		m.Close()
		if bal := drainNoteBalance(m.Broker()); bal != 0 {
			t.Errorf("note on/off balance = %d, want 0", bal)
		}
	})
	t.Run("pitch slide retriggers", func(t *testing.T) {
		m := newTestModel()
		m.PointerDown(at(0, 60), editor.Modifiers{})
		m.PointerMove(at(0, 64), editor.Modifiers{})
		m.PointerMove(at(0, 67), editor.Modifiers{})
		m.PointerUp(at(0, 67), editor.Modifiers{})
		if bal := drainNoteBalance(m.Broker()); bal != 0 {
			t.Errorf("note on/off balance = %d after slides, want 0", bal)
		}
	})
}

func TestVelocityLaneDrag(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 2, Duration: 1},
	)
	const lane = 127.0
	// top of the lane is full velocity
	m.VelocityPointerDown(editor.Point{X: 50, Y: 0}, lane)
	m.VelocityPointerUp(editor.Point{X: 50, Y: 0})
	if got := m.Clip().Notes[0].Velocity; got != 127 {
		t.Errorf("velocity at lane top = %d, want 127", got)
	}
	// below the lane clamps to the minimum, never errors
	m.VelocityPointerDown(editor.Point{X: 250, Y: lane * 2}, lane)
	m.VelocityPointerUp(editor.Point{X: 250, Y: lane * 2})
	if got := m.Clip().Notes[1].Velocity; got != 1 {
		t.Errorf("velocity below lane = %d, want 1", got)
	}
	// both edits are separate entries; each undoes independently
	m.Session().History.Undo()
	if got := m.Clip().Notes[1].Velocity; got != 100 {
		t.Errorf("after undo: velocity = %d, want 100", got)
	}
}

func TestVelocityAppliesToSelection(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 90, Start: 0.5, Duration: 1},
	)
	m.SelectAll()
	m.VelocityPointerDown(editor.Point{X: 10, Y: 0}, 127)
	m.VelocityPointerUp(editor.Point{X: 10, Y: 0})
	for _, n := range m.Clip().Notes {
		if n.Velocity != 127 {
			t.Errorf("selected note velocity = %d, want 127", n.Velocity)
		}
	}
}

func TestShiftClickExtendsSelection(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 2, Duration: 1},
		pianoroll.Note{Pitch: 70, Velocity: 100, Start: 4, Duration: 1},
	)
	click(m, at(0.5, 60), editor.Modifiers{})
	click(m, at(2.5, 64), editor.Modifiers{Shift: true})
	if got := len(m.Clip().SelectedIDs()); got != 2 {
		t.Errorf("selected %d notes, want 2", got)
	}
	// a plain click on an unselected note replaces the selection
	click(m, at(4.5, 70), editor.Modifiers{})
	if got := len(m.Clip().SelectedIDs()); got != 1 {
		t.Errorf("selected %d notes after plain click, want 1", got)
	}
}
