package editor

import (
	"math"

	"github.com/solardaw/pianoroll"
)

// The Action, Int and Bool accessors below are the surface a front end binds
// its menus, buttons and shortcuts to. Each view is the Model under a
// different type, so constructing one allocates nothing.

type (
	undoAction     Model
	redoAction     Model
	copyAction     Model
	cutAction      Model
	pasteAction    Model
	deleteAction   Model
	quantizeAction Model
	zoomInAction   Model
	zoomOutAction  Model

	divisionInt Model
	toolInt     Model
	zoomInt     Model

	snapToGrid Model
)

func (m *Model) Undo() Action     { return MakeAction((*undoAction)(m)) }
func (m *Model) Redo() Action     { return MakeAction((*redoAction)(m)) }
func (m *Model) Copy() Action     { return MakeAction((*copyAction)(m)) }
func (m *Model) Cut() Action      { return MakeAction((*cutAction)(m)) }
func (m *Model) PasteNotes() Action { return MakeAction((*pasteAction)(m)) }
func (m *Model) DeleteSelected() Action {
	return MakeAction((*deleteAction)(m))
}
func (m *Model) QuantizeNotes() Action { return MakeAction((*quantizeAction)(m)) }
func (m *Model) ZoomIn() Action        { return MakeAction((*zoomInAction)(m)) }
func (m *Model) ZoomOut() Action       { return MakeAction((*zoomOutAction)(m)) }

func (m *Model) Division() Int { return MakeInt((*divisionInt)(m)) }
func (m *Model) Tool() Int     { return MakeInt((*toolInt)(m)) }

// Zoom exposes the horizontal zoom in whole pixels per beat, for hosts that
// bind it to a stepped control; ZoomIn/ZoomOut give the multiplicative steps.
func (m *Model) Zoom() Int { return MakeInt((*zoomInt)(m)) }

func (m *Model) SnapToGrid() Bool { return MakeBool((*snapToGrid)(m)) }

func (a *undoAction) Do() { (*Model)(a).session.History.Undo() }
func (a *undoAction) Enabled() bool { return (*Model)(a).session.History.CanUndo() }

func (a *redoAction) Do() { (*Model)(a).session.History.Redo() }
func (a *redoAction) Enabled() bool { return (*Model)(a).session.History.CanRedo() }

func (a *copyAction) Do() { (*Model)(a).CopySelection() }
func (a *copyAction) Enabled() bool { return len((*Model)(a).d.Clip.SelectedIDs()) > 0 }

func (a *cutAction) Do() { (*Model)(a).CutSelection() }
func (a *cutAction) Enabled() bool { return len((*Model)(a).d.Clip.SelectedIDs()) > 0 }

func (a *pasteAction) Do() { (*Model)(a).Paste() }
func (a *pasteAction) Enabled() bool { return !(*Model)(a).session.Clipboard.Empty() }

func (a *deleteAction) Do() { (*Model)(a).DeleteSelection() }
func (a *deleteAction) Enabled() bool { return len((*Model)(a).d.Clip.SelectedIDs()) > 0 }

func (a *quantizeAction) Do() { (*Model)(a).requestQuantize() }
func (a *quantizeAction) Enabled() bool {
	m := (*Model)(a)
	return m.pendingQuantize == nil && len(m.d.Clip.Notes) > 0 &&
		m.d.Clip.ID != pianoroll.UnsavedClipID
}

func (a *zoomInAction) Do() { (*Model)(a).d.Grid.ZoomIn() }
func (a *zoomInAction) Enabled() bool {
	return (*Model)(a).d.Grid.PixelsPerBeat < pianoroll.MaxPixelsPerBeat
}

func (a *zoomOutAction) Do() { (*Model)(a).d.Grid.ZoomOut() }
func (a *zoomOutAction) Enabled() bool {
	return (*Model)(a).d.Grid.PixelsPerBeat > pianoroll.MinPixelsPerBeat
}

func (v *divisionInt) Value() int { return int((*Model)(v).d.Grid.Division) }
func (v *divisionInt) SetValue(val int) bool {
	(*Model)(v).d.Grid.Division = pianoroll.Division(val)
	return true
}
func (v *divisionInt) Range() RangeInclusive {
	return RangeInclusive{Min: 0, Max: pianoroll.NumDivisions - 1}
}

func (v *toolInt) Value() int { return int((*Model)(v).d.Tool) }
func (v *toolInt) SetValue(val int) bool {
	(*Model)(v).d.Tool = Tool(val)
	return true
}
func (v *toolInt) Range() RangeInclusive {
	return RangeInclusive{Min: 0, Max: NumTools - 1}
}

func (v *zoomInt) Value() int { return int(math.Round((*Model)(v).d.Grid.PixelsPerBeat)) }
func (v *zoomInt) SetValue(val int) bool {
	(*Model)(v).d.Grid.SetZoom(float64(val))
	return true
}
func (v *zoomInt) Range() RangeInclusive {
	return RangeInclusive{Min: int(pianoroll.MinPixelsPerBeat), Max: int(pianoroll.MaxPixelsPerBeat)}
}

func (v *snapToGrid) Value() bool       { return (*Model)(v).d.Grid.Snap }
func (v *snapToGrid) SetValue(val bool) { (*Model)(v).d.Grid.Snap = val }
