// Package editor implements the interactive behaviour of a piano-roll clip
// editor on top of the pianoroll data model: pointer gestures, selection,
// undo history, clipboard and note audition. It is deliberately free of any
// rendering; a front end feeds it pointer and key events and reads the
// resulting state back.
package editor

import (
	"github.com/solardaw/pianoroll"
)

type (
	// modelData is the part of the editor state that behaves as a value and
	// can be snapshotted with Clip.Copy. Undo captures the Clip field only;
	// grid settings and tool choice are not undoable edits.
	modelData struct {
		Clip         pianoroll.Clip
		Grid         pianoroll.Grid
		Tool         Tool
		LastDuration float64 // duration given to the next created note
	}

	// Model is the editing state of one open clip. All methods must be
	// called from a single goroutine (the UI loop); the engine is reached
	// only through broker messages.
	Model struct {
		d modelData

		session *Session
		broker  *Broker
		alerts  Alerts
		track   pianoroll.TrackInfo

		gesture         gesture
		pending         *pendingChange
		pendingQuantize *pendingChange

		// auditionPitch is the pitch currently sounding for gesture
		// feedback, or -1 when silent. At most one pitch is ever held.
		auditionPitch int
	}

	// Session holds the state shared by every editor in the process: one
	// undo history and one clipboard, so edits in different clips interleave
	// in a single timeline and notes copy across clips.
	Session struct {
		History   History
		Clipboard Clipboard
	}

	// Tool selects what a plain primary-button press does on the canvas.
	Tool int

	pendingChange struct {
		before      pianoroll.Clip
		description string
	}
)

const (
	ToolDraw Tool = iota // create on empty, move/resize on notes
	ToolSelect
	ToolPaint
	ToolErase
	ToolSlice

	NumTools = int(ToolSlice) + 1
)

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolSelect:
		return "select"
	case ToolPaint:
		return "paint"
	case ToolErase:
		return "erase"
	case ToolSlice:
		return "slice"
	}
	return "???"
}

func NewSession() *Session { return &Session{} }

// NewModel opens an editor for the given clip. The broker may be shared with
// an engine loop; without one, engine-bound messages pile up harmlessly in
// the buffered channel.
func NewModel(session *Session, broker *Broker, clip pianoroll.Clip) *Model {
	m := &Model{
		session:       session,
		broker:        broker,
		auditionPitch: -1,
	}
	m.d.Clip = clip.Copy()
	m.d.Grid = pianoroll.DefaultGrid()
	m.d.LastDuration = m.d.Grid.Division.Beats()
	if clip.ID != pianoroll.UnsavedClipID {
		TrySend(broker.ToEngine, MsgToEngine{Data: LoadClipMsg{ClipID: clip.ID}})
	}
	return m
}

// Clip returns a copy of the clip being edited.
func (m *Model) Clip() pianoroll.Clip { return m.d.Clip.Copy() }

// Grid returns the current grid settings.
func (m *Model) Grid() pianoroll.Grid { return m.d.Grid }

// SetGrid replaces the grid settings, for applying configuration. Not an
// undoable edit.
func (m *Model) SetGrid(g pianoroll.Grid) { m.d.Grid = g }

// Track returns the engine-side metadata of the clip's track, if loaded.
func (m *Model) Track() pianoroll.TrackInfo { return m.track }

func (m *Model) Alerts() *Alerts { return &m.alerts }

func (m *Model) Broker() *Broker { return m.broker }

func (m *Model) Session() *Session { return m.session }

// change starts recording an edit. The returned function commits it: if the
// clip differs structurally from the snapshot taken here, one history entry
// is pushed and the host is notified. Typical use:
//
//	defer m.change("Move notes")()
//
// Nested calls are collapsed into the outermost one, so composite operations
// (for example, a slice performed inside a gesture) still yield exactly one
// entry.
func (m *Model) change(description string) func() {
	if m.pending != nil {
		return func() {}
	}
	m.pending = &pendingChange{before: m.d.Clip.Copy(), description: description}
	return m.commitPending
}

func (m *Model) commitPending() {
	p := m.pending
	m.pending = nil
	if p == nil {
		return
	}
	if m.d.Clip.Equal(p.before) {
		return
	}
	m.session.History.push(historyEntry{
		editor:      m,
		before:      p.before,
		after:       m.d.Clip.Copy(),
		description: p.description,
	})
	m.notifyHost()
}

// restoreClip replaces the clip contents wholesale, bypassing the change
// machinery. Used by undo/redo and engine reloads.
func (m *Model) restoreClip(c pianoroll.Clip) {
	m.d.Clip = c.Copy()
	m.notifyHost()
}

func (m *Model) notifyHost() {
	TrySend(m.broker.ToHost, MsgToHost{Data: ClipChangedMsg{Clip: m.d.Clip.Copy()}})
}

// ProcessMsg handles one message from the engine loop. The front end drains
// broker.ToModel on its UI goroutine and feeds each message here.
func (m *Model) ProcessMsg(msg MsgToModel) {
	switch data := msg.Data.(type) {
	case ClipLoadedMsg:
		m.clipLoaded(data)
	case TrackInfoMsg:
		m.track = data.Track
	case EngineErrorMsg:
		m.pendingQuantize = nil
		m.alerts.AddNamed("EngineError", data.Err.Error(), Error)
	}
}

func (m *Model) clipLoaded(msg ClipLoadedMsg) {
	clip := msg.Clip
	if p := m.pendingQuantize; p != nil && msg.Quantized && clip.ID == m.d.Clip.ID {
		m.pendingQuantize = nil
		// carry the selection over so quantizing does not deselect
		selected := make(map[pianoroll.NoteID]bool)
		for _, n := range m.d.Clip.Notes {
			if n.Selected {
				selected[n.ID] = true
			}
		}
		for i := range clip.Notes {
			clip.Notes[i].Selected = selected[clip.Notes[i].ID]
		}
		m.d.Clip = clip.Copy()
		if !m.d.Clip.Equal(p.before) {
			m.session.History.push(historyEntry{
				editor:      m,
				before:      p.before,
				after:       m.d.Clip.Copy(),
				description: p.description,
			})
		}
		m.notifyHost()
		return
	}
	if clip.ID == m.d.Clip.ID || m.d.Clip.ID == pianoroll.UnsavedClipID {
		m.restoreClip(clip)
	}
}

// Close finishes any gesture in flight, silences the audition voice and
// tells the host the editor is gone. The shared session outlives the model.
func (m *Model) Close() {
	m.CancelGesture()
	TrySend(m.broker.ToHost, MsgToHost{Data: EditorClosedMsg{}})
}

// DeleteSelection removes all selected notes as a single undoable edit.
func (m *Model) DeleteSelection() {
	ids := m.d.Clip.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	defer m.change("Delete notes")()
	m.d.Clip.DeleteNotes(ids...)
}

// SelectAll selects every note in the clip.
func (m *Model) SelectAll() {
	m.d.Clip.SetSelected(true)
}

// Deselect clears the selection.
func (m *Model) Deselect() {
	m.d.Clip.SetSelected(false)
}

// InvertSelection selects every unselected note and vice versa.
func (m *Model) InvertSelection() {
	for i := range m.d.Clip.Notes {
		m.d.Clip.Notes[i].Selected = !m.d.Clip.Notes[i].Selected
	}
}

// NudgeSelection moves the selected notes by whole steps from the keyboard:
// deltaBeat in grid divisions (a negative total clamps at zero), deltaPitch
// in semitones. One history entry per call.
func (m *Model) NudgeSelection(deltaDivisions, deltaPitch int) {
	anchors := m.d.Clip.SelectedAnchors()
	if len(anchors) == 0 {
		return
	}
	defer m.change("Nudge notes")()
	deltaBeat := float64(deltaDivisions) * m.d.Grid.Division.Beats()
	m.d.Clip.MoveNotes(anchors, deltaBeat, deltaPitch, m.d.Grid.Unsnapped())
}

// requestQuantize pushes the clip to the engine and asks it to quantize the
// note starts to the current division. The engine's result arrives later as
// a ClipLoadedMsg; the history entry is recorded when it does, capturing
// whatever the engine actually produced rather than a local prediction.
func (m *Model) requestQuantize() {
	if m.pendingQuantize != nil || len(m.d.Clip.Notes) == 0 {
		return
	}
	if m.d.Clip.ID == pianoroll.UnsavedClipID {
		m.alerts.AddNamed("Quantize", "save the clip before quantizing", Warning)
		return
	}
	m.pendingQuantize = &pendingChange{before: m.d.Clip.Copy(), description: "Quantize"}
	TrySend(m.broker.ToEngine, MsgToEngine{Data: SaveClipMsg{Clip: m.d.Clip.Copy()}})
	TrySend(m.broker.ToEngine, MsgToEngine{Data: QuantizeMsg{ClipID: m.d.Clip.ID, Division: m.d.Grid.Division}})
}

// CycleDivision steps the grid to the next subdivision, wrapping around.
func (m *Model) CycleDivision() {
	m.d.Grid.Division = m.d.Grid.Division.Next()
}
