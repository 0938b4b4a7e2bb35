package editor_test

import (
	"testing"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/editor"
)

func TestUndoRedoEnabledStates(t *testing.T) {
	m := newTestModel()
	if m.Undo().Enabled() || m.Redo().Enabled() {
		t.Fatal("fresh editor must have neither undo nor redo")
	}
	click(m, at(0, 60), editor.Modifiers{})
	if !m.Undo().Enabled() {
		t.Error("undo must be enabled after an edit")
	}
	m.Undo().Do()
	if m.Undo().Enabled() {
		t.Error("undo must be disabled after undoing the only edit")
	}
	if !m.Redo().Enabled() {
		t.Error("redo must be enabled after an undo")
	}
}

func TestClipboardActionsEnabledStates(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1})
	if m.Copy().Enabled() || m.Cut().Enabled() {
		t.Error("copy and cut must be disabled without a selection")
	}
	if m.PasteNotes().Enabled() {
		t.Error("paste must be disabled with an empty clipboard")
	}
	m.SelectAll()
	if !m.Copy().Enabled() || !m.Cut().Enabled() || !m.DeleteSelected().Enabled() {
		t.Error("selection actions must be enabled with a selection")
	}
	m.CopySelection()
	if !m.PasteNotes().Enabled() {
		t.Error("paste must be enabled once the clipboard holds notes")
	}
}

func TestQuantizeDisabledForUnsavedClip(t *testing.T) {
	m := newTestModel(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0.3, Duration: 1})
	if m.QuantizeNotes().Enabled() {
		t.Error("quantize needs an engine-side clip; unsaved clips have none")
	}
}

func TestZoomIntClampsWithoutError(t *testing.T) {
	m := newTestModel()
	m.Zoom().SetValue(100000)
	if got := m.Grid().PixelsPerBeat; got != pianoroll.MaxPixelsPerBeat {
		t.Errorf("zoom = %g, want clamp at %g", got, pianoroll.MaxPixelsPerBeat)
	}
	m.Zoom().SetValue(-5)
	if got := m.Grid().PixelsPerBeat; got != pianoroll.MinPixelsPerBeat {
		t.Errorf("zoom = %g, want clamp at %g", got, pianoroll.MinPixelsPerBeat)
	}
	if !m.Zoom().Add(30) {
		t.Error("nudging zoom inside the range must succeed")
	}
	if got := m.Zoom().Value(); got != int(pianoroll.MinPixelsPerBeat)+30 {
		t.Errorf("zoom value = %d, want %d", got, int(pianoroll.MinPixelsPerBeat)+30)
	}
}

func TestRulerDragZooms(t *testing.T) {
	m := newTestModel()
	start := m.Grid().PixelsPerBeat
	m.RulerPointerDown(editor.Point{X: 0, Y: 0})
	m.RulerPointerMove(editor.Point{X: 0, Y: 100}) // one doubling down
	m.RulerPointerUp(editor.Point{X: 0, Y: 100})
	if got := m.Grid().PixelsPerBeat; got != start*2 {
		t.Errorf("zoom after 100px ruler drag = %g, want %g", got, start*2)
	}
	if m.Session().History.CanUndo() {
		t.Error("zooming must not be undoable")
	}
}

func TestInvertSelection(t *testing.T) {
	m := newTestModel(
		pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		pianoroll.Note{Pitch: 64, Velocity: 100, Start: 1, Duration: 1},
	)
	click(m, at(0.5, 60), editor.Modifiers{})
	m.KeyEvent(editor.KeyEvent{Name: "A", Mod: editor.ModKeys{Command: true, Shift: true}})
	clip := m.Clip()
	if clip.Notes[0].Selected || !clip.Notes[1].Selected {
		t.Errorf("inverted selection = %v, %v, want false, true",
			clip.Notes[0].Selected, clip.Notes[1].Selected)
	}
}

func TestDivisionAndToolViews(t *testing.T) {
	m := newTestModel()
	m.Division().SetValue(int(pianoroll.DivisionThirtySecond))
	if m.Grid().Division != pianoroll.DivisionThirtySecond {
		t.Error("division view did not update the grid")
	}
	if r := m.Division().Range(); r.Max != pianoroll.NumDivisions-1 {
		t.Errorf("division range max = %d, want %d", r.Max, pianoroll.NumDivisions-1)
	}
	m.Tool().SetValue(int(editor.ToolErase))
	if editor.Tool(m.Tool().Value()) != editor.ToolErase {
		t.Error("tool view did not update")
	}
	// out of range values clamp through the Int wrapper
	m.Tool().SetValue(99)
	if got := m.Tool().Value(); got != editor.NumTools-1 {
		t.Errorf("tool = %d after out-of-range set, want %d", got, editor.NumTools-1)
	}
}

func TestHistoryDescriptions(t *testing.T) {
	m := newTestModel()
	click(m, at(0, 60), editor.Modifiers{})
	h := &m.Session().History
	if got := h.UndoDescription(); got != "Create note" {
		t.Errorf("undo description = %q, want %q", got, "Create note")
	}
	if got := h.RedoDescription(); got != "" {
		t.Errorf("redo description = %q, want empty", got)
	}
	h.Undo()
	if got := h.RedoDescription(); got != "Create note" {
		t.Errorf("redo description = %q, want %q", got, "Create note")
	}
}

func TestPlayPitchPairsWithStop(t *testing.T) {
	m := newTestModel()
	m.PlayPitch(200) // clamps to 127
	if got := m.AuditionPitch(); got != 127 {
		t.Errorf("audition pitch = %d, want 127", got)
	}
	m.StopPlaying()
	if got := m.AuditionPitch(); got != -1 {
		t.Errorf("audition pitch after stop = %d, want -1", got)
	}
	if bal := drainNoteBalance(m.Broker()); bal != 0 {
		t.Errorf("note on/off balance = %d, want 0", bal)
	}
}

func TestClipDumpRoundTrip(t *testing.T) {
	clip := pianoroll.NewClip(3, "dumped")
	clip.AddNote(pianoroll.Note{Pitch: 61, Velocity: 88, Start: 0.5, Duration: 1.25})
	data, err := editor.DumpClip(clip)
	if err != nil {
		t.Fatal(err)
	}
	got, err := editor.ParseClip(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(clip) {
		t.Errorf("round trip changed the clip:\n got %+v\nwant %+v", got, clip)
	}
}
