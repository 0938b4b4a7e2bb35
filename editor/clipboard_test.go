package editor_test

import (
	"testing"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/editor"
)

func TestPasteAnchorsToClipStart(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 2, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 90, Start: 3, Duration: 0.5},
		pianoroll.Note{Pitch: 67, Velocity: 80, Start: 5, Duration: 1},
	)
	m.SelectAll()
	m.CopySelection()
	m.Paste()
	clip := m.Clip()
	if len(clip.Notes) != 6 {
		t.Fatalf("got %d notes, want 6", len(clip.Notes))
	}
	pasted := clip.Notes[3:]
	wantStarts := []float64{0, 1, 3} // earliest note lands on beat 0
	for i, n := range pasted {
		if n.Start != wantStarts[i] {
			t.Errorf("pasted note %d start = %g, want %g", i, n.Start, wantStarts[i])
		}
	}
	// pasted notes keep their relative pitches and velocities
	if pasted[1].Pitch != 64 || pasted[1].Velocity != 90 {
		t.Errorf("pasted note 1 = pitch %d vel %d, want 64, 90", pasted[1].Pitch, pasted[1].Velocity)
	}
}

func TestPasteAssignsFreshIDs(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1})
	m.SelectAll()
	m.CopySelection()
	m.Paste()
	m.Paste()
	seen := make(map[pianoroll.NoteID]bool)
	for _, n := range m.Clip().Notes {
		if seen[n.ID] {
			t.Fatalf("duplicate note id %d", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestPasteSwapsSelection(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 2, Duration: 1},
	)
	m.SelectAll()
	m.CopySelection()
	m.Paste()
	clip := m.Clip()
	if clip.Notes[0].Selected {
		t.Error("original note must be deselected after paste")
	}
	if !clip.Notes[1].Selected {
		t.Error("pasted note must be selected")
	}
}

func TestPasteIsOneEntryAndUndoable(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 1, Duration: 1},
	)
	m.SelectAll()
	m.CopySelection()
	if m.Session().History.CanUndo() {
		t.Fatal("copy must not modify the clip")
	}
	m.Paste()
	m.Session().History.Undo()
	if len(m.Clip().Notes) != 2 {
		t.Error("undoing a paste must remove all pasted notes at once")
	}
}

func TestCutRemovesAndCopies(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 2, Duration: 1},
	)
	m.SelectAll()
	m.CutSelection()
	if len(m.Clip().Notes) != 0 {
		t.Fatal("cut left notes behind")
	}
	m.Paste()
	clip := m.Clip()
	if len(clip.Notes) != 2 {
		t.Fatalf("paste after cut restored %d notes, want 2", len(clip.Notes))
	}
	if clip.Notes[0].Start != 0 {
		t.Errorf("pasted start = %g, want anchored to 0", clip.Notes[0].Start)
	}
}

func TestClipboardSharedAcrossEditors(t *testing.T) {
	session := editor.NewSession()
	a := editor.NewModel(session, editor.NewBroker(), func() pianoroll.Clip {
		c := pianoroll.NewClip(1, "a")
		c.AddNote(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 1, Duration: 1})
		return c
	}())
	b := editor.NewModel(session, editor.NewBroker(), pianoroll.NewClip(2, "b"))

	a.SelectAll()
	a.CopySelection()
	b.Paste()
	if len(b.Clip().Notes) != 1 {
		t.Fatal("paste in another editor must insert the copied notes")
	}
	if b.Clip().Notes[0].Pitch != 60 {
		t.Error("pasted note lost its pitch")
	}
}

func TestEmptyClipboardOperationsAlert(t *testing.T) {
	m := newTestModel()
	m.CopySelection()
	m.Paste()
	if m.Session().History.CanUndo() {
		t.Error("empty copy and paste must be no-ops")
	}
	count := 0
	m.Alerts().Iterate(func(a editor.Alert) bool {
		count++
		return true
	})
	if count == 0 {
		t.Error("empty clipboard operations should alert the user")
	}
}

func TestClipboardTextRoundTrip(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 70, Start: 1.5, Duration: 0.75})
	m.SelectAll()
	m.CopySelection()
	text, err := m.Session().Clipboard.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var other editor.Clipboard
	if err := other.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if other.Len() != 1 {
		t.Fatalf("round trip produced %d notes, want 1", other.Len())
	}
}
