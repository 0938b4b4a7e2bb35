package editor

import (
	"math"

	"github.com/solardaw/pianoroll"
)

type (
	// Modifiers carries the modifier state of a pointer event. Secondary is
	// the right/secondary button; Alt bypasses grid snapping during drags
	// and slices with the draw tool.
	Modifiers struct {
		Shift, Alt, Secondary bool
	}

	// gesture is the state of the pointer interaction in flight. Exactly one
	// gesture is active between PointerDown and PointerUp; every exit path
	// goes through finishGesture or CancelGesture, which silence the
	// audition voice.
	gesture interface {
		move(m *Model, p Point, mods Modifiers)
		finish(m *Model, p Point, mods Modifiers)
	}

	// moveGesture drags notes by their pre-drag anchors, so the target is
	// recomputed from the original position plus the total delta on every
	// event instead of accumulating per-event rounding.
	moveGesture struct {
		anchors   []pianoroll.NoteAnchor
		origin    Point
		primaryID pianoroll.NoteID
		created   bool
	}

	resizeGesture struct {
		id   pianoroll.NoteID
		edge pianoroll.Edge
	}

	// selectGesture is a rubber-band selection. It only replaces the
	// selection on release; until then SelectionRect exposes the live
	// rectangle for rendering.
	selectGesture struct {
		origin Point
		corner Point
		add    bool
	}

	paintGesture struct {
		lastBeat  float64
		lastPitch int
	}

	eraseGesture struct{}
)

// edgeGrabPixels is the hit width of a note edge for resizing, independent
// of zoom so edges stay grabbable at any scale.
const edgeGrabPixels = 6.0

// PointerDown starts a gesture on the note canvas. Coordinates are pixels
// with the origin at the canvas top left (beat 0, highest pitch).
func (m *Model) PointerDown(p Point, mods Modifiers) {
	if m.gesture != nil {
		return
	}
	beat := m.d.Grid.BeatAtX(p.X)
	pitch := m.d.Grid.PitchAtY(p.Y)

	if m.d.Tool == ToolSlice || (m.d.Tool == ToolDraw && mods.Alt && !mods.Secondary) {
		if id, _, ok, _ := m.noteAt(p); ok {
			defer m.change("Slice note")()
			m.d.Clip.SliceNote(id, beat)
			return
		}
		if m.d.Tool == ToolSlice {
			return
		}
	}

	if mods.Secondary || m.d.Tool == ToolErase {
		m.beginGesture(eraseGesture{}, "Erase notes")
		if id, _, ok, _ := m.noteAt(p); ok {
			m.d.Clip.DeleteNotes(id)
		}
		return
	}

	if id, edge, ok, onEdge := m.noteAt(p); ok && onEdge && m.d.Tool == ToolDraw {
		m.beginGesture(resizeGesture{id: id, edge: edge}, "Resize note")
		return
	} else if ok && m.d.Tool != ToolSelect && m.d.Tool != ToolPaint {
		i, _ := m.d.Clip.FindNote(id)
		if !m.d.Clip.Notes[i].Selected {
			if !mods.Shift {
				m.Deselect()
			}
			m.d.Clip.Notes[i].Selected = true
		}
		m.beginGesture(moveGesture{
			anchors:   m.d.Clip.SelectedAnchors(),
			origin:    p,
			primaryID: id,
		}, "Move notes")
		m.startAudition(m.d.Clip.Notes[i].Pitch, m.d.Clip.Notes[i].Velocity)
		return
	}

	if m.d.Tool == ToolSelect || mods.Shift {
		m.gesture = &selectGesture{origin: p, corner: p, add: mods.Shift}
		return
	}

	if m.d.Tool == ToolPaint {
		m.beginGesture(&paintGesture{lastBeat: -1, lastPitch: -1}, "Paint notes")
		m.gesture.(*paintGesture).paint(m, beat, pitch)
		return
	}

	// Draw tool on empty canvas: create a note at the cell under the
	// pointer and immediately arm a move gesture, so create-and-drag is a
	// single edit.
	m.Deselect()
	start := m.d.Grid.SnapBeatDown(beat)
	if start < 0 {
		start = 0
	}
	note := pianoroll.Note{
		Pitch:    pitch,
		Velocity: pianoroll.DefaultVelocity,
		Start:    start,
		Duration: m.d.LastDuration,
		Selected: true,
	}
	m.beginGesture(nil, "Create note")
	id := m.d.Clip.AddNote(note)
	m.gesture = moveGesture{
		anchors:   []pianoroll.NoteAnchor{{ID: id, Start: start, Pitch: pitch}},
		origin:    p,
		primaryID: id,
		created:   true,
	}
	m.startAudition(pitch, pianoroll.DefaultVelocity)
}

// PointerMove updates the gesture in flight; without one it is a no-op.
func (m *Model) PointerMove(p Point, mods Modifiers) {
	if m.gesture != nil {
		m.gesture.move(m, p, mods)
	}
}

// PointerUp finishes the gesture, committing at most one history entry and
// releasing the audition voice.
func (m *Model) PointerUp(p Point, mods Modifiers) {
	if m.gesture == nil {
		return
	}
	m.gesture.finish(m, p, mods)
	m.finishGesture()
}

// CancelGesture aborts the gesture in flight, reverting the clip to its
// state before the gesture started. Nothing is pushed to history.
func (m *Model) CancelGesture() {
	if m.pending != nil {
		m.d.Clip = m.pending.before.Copy()
		m.pending = nil
	}
	m.gesture = nil
	m.stopAudition()
}

// SelectionRect returns the live rubber-band rectangle in canvas pixels, if
// a selection gesture is in progress.
func (m *Model) SelectionRect() (Rect, bool) {
	if g, ok := m.gesture.(*selectGesture); ok {
		return Rect{TopLeft: g.origin, BottomRight: g.corner}.Normalized(), true
	}
	return Rect{}, false
}

func (m *Model) beginGesture(g gesture, description string) {
	m.gesture = g
	m.change(description)
}

func (m *Model) finishGesture() {
	m.gesture = nil
	m.stopAudition()
	m.commitPending()
}

// noteAt hit-tests the canvas position against the clip's notes, last drawn
// (latest in slice order) first. onEdge reports a grab within edgeGrabPixels
// of either end; edge tells which one.
func (m *Model) noteAt(p Point) (id pianoroll.NoteID, edge pianoroll.Edge, ok, onEdge bool) {
	beat := m.d.Grid.BeatAtX(p.X)
	pitch := m.d.Grid.PitchAtY(p.Y)
	grab := edgeGrabPixels / m.d.Grid.PixelsPerBeat
	for i := len(m.d.Clip.Notes) - 1; i >= 0; i-- {
		n := m.d.Clip.Notes[i]
		if n.Pitch != pitch {
			continue
		}
		switch {
		case math.Abs(beat-n.End()) <= grab && beat >= n.Start:
			return n.ID, pianoroll.EdgeRight, true, true
		case math.Abs(beat-n.Start) <= grab && beat <= n.End():
			return n.ID, pianoroll.EdgeLeft, true, true
		case beat >= n.Start && beat < n.End():
			return n.ID, 0, true, false
		}
	}
	return 0, 0, false, false
}

// pitchRow is the unclamped row index of a y position, used for drag deltas
// so that moving against the canvas edge does not warp the relative layout.
func (m *Model) pitchRow(y float64) int {
	return int(math.Floor(y / m.d.Grid.PixelsPerNote))
}

func (g moveGesture) move(m *Model, p Point, mods Modifiers) {
	deltaBeat := (p.X - g.origin.X) / m.d.Grid.PixelsPerBeat
	deltaPitch := m.pitchRow(g.origin.Y) - m.pitchRow(p.Y)
	grid := m.d.Grid
	if mods.Alt {
		grid = grid.Unsnapped()
	}
	m.d.Clip.MoveNotes(g.anchors, deltaBeat, deltaPitch, grid)
	if i, ok := m.d.Clip.FindNote(g.primaryID); ok {
		m.slideAudition(m.d.Clip.Notes[i].Pitch, m.d.Clip.Notes[i].Velocity)
	}
}

func (g moveGesture) finish(m *Model, p Point, mods Modifiers) {
	g.move(m, p, mods)
	if i, ok := m.d.Clip.FindNote(g.primaryID); ok && g.created {
		m.d.LastDuration = m.d.Clip.Notes[i].Duration
	}
}

func (g resizeGesture) move(m *Model, p Point, mods Modifiers) {
	grid := m.d.Grid
	if mods.Alt {
		grid = grid.Unsnapped()
	}
	m.d.Clip.ResizeNote(g.id, g.edge, grid.BeatAtX(p.X), grid)
}

func (g resizeGesture) finish(m *Model, p Point, mods Modifiers) {
	g.move(m, p, mods)
	if i, ok := m.d.Clip.FindNote(g.id); ok {
		m.d.LastDuration = m.d.Clip.Notes[i].Duration
	}
}

func (g *selectGesture) move(m *Model, p Point, mods Modifiers) {
	g.corner = p
}

// finish replaces (or with shift, extends) the selection with the notes
// fully contained in the rectangle, in beat and pitch space.
func (g *selectGesture) finish(m *Model, p Point, mods Modifiers) {
	g.corner = p
	r := Rect{TopLeft: g.origin, BottomRight: g.corner}.Normalized()
	minBeat := m.d.Grid.BeatAtX(r.TopLeft.X)
	maxBeat := m.d.Grid.BeatAtX(r.BottomRight.X)
	highPitch := m.d.Grid.PitchAtY(r.TopLeft.Y)
	lowPitch := m.d.Grid.PitchAtY(r.BottomRight.Y)
	for i := range m.d.Clip.Notes {
		n := &m.d.Clip.Notes[i]
		inside := n.Start >= minBeat && n.End() <= maxBeat &&
			n.Pitch >= lowPitch && n.Pitch <= highPitch
		if g.add {
			n.Selected = n.Selected || inside
		} else {
			n.Selected = inside
		}
	}
}

func (g *paintGesture) move(m *Model, p Point, mods Modifiers) {
	g.paint(m, m.d.Grid.BeatAtX(p.X), m.d.Grid.PitchAtY(p.Y))
}

func (g *paintGesture) finish(m *Model, p Point, mods Modifiers) {}

// paint drops one division-long note per grid cell the pointer passes over,
// skipping cells that already hold a note at that pitch.
func (g *paintGesture) paint(m *Model, beat float64, pitch int) {
	start := m.d.Grid.SnapBeatDown(beat)
	if start < 0 {
		start = 0
	}
	if start == g.lastBeat && pitch == g.lastPitch {
		return
	}
	g.lastBeat, g.lastPitch = start, pitch
	for _, n := range m.d.Clip.Notes {
		if n.Pitch == pitch && start >= n.Start && start < n.End() {
			return
		}
	}
	m.d.Clip.AddNote(pianoroll.Note{
		Pitch:    pitch,
		Velocity: pianoroll.DefaultVelocity,
		Start:    start,
		Duration: m.d.Grid.Division.Beats(),
	})
}

func (g eraseGesture) move(m *Model, p Point, mods Modifiers) {
	if id, _, ok, _ := m.noteAt(p); ok {
		m.d.Clip.DeleteNotes(id)
	}
}

func (g eraseGesture) finish(m *Model, p Point, mods Modifiers) {
	g.move(m, p, mods)
}
