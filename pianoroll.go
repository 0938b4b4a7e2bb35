// Package pianoroll contains the data model of a piano-roll MIDI clip
// editor: notes, clips, the grid/coordinate model, and the interface of the
// external audio engine the editor talks to. The package is rendering-free;
// the interactive editing logic built on top of it lives in the editor
// package.
//
// All musical positions are expressed in beats, independent of tempo and of
// any pixel zoom. Screen coordinates enter the picture only through Grid,
// which converts between the two spaces.
package pianoroll

import (
	"math"
	"sort"
)

// NoteID identifies a note within a clip. IDs are stable for the lifetime of
// a note; slicing or pasting produces notes with freshly assigned IDs.
type NoteID int

const (
	MinPitch = 0
	MaxPitch = 127

	MinVelocity = 1
	MaxVelocity = 127

	// DefaultVelocity is given to notes created by clicking on empty canvas.
	DefaultVelocity = 100

	// BeatsPerBar assumes 4/4; loop lengths snap up to these boundaries.
	BeatsPerBar = 4

	// MinLoopLength is one bar; a clip is never shorter than this.
	MinLoopLength = float64(BeatsPerBar)
)

type (
	// Note is a single musical event inside a clip. Start and Duration are in
	// beats from the clip start; Duration is always positive and at least the
	// grid division in effect when the note was created or last resized.
	Note struct {
		ID       NoteID  `yaml:"id" json:"id"`
		Pitch    int     `yaml:"pitch" json:"pitch"`
		Velocity int     `yaml:"velocity" json:"velocity"`
		Start    float64 `yaml:"start" json:"start"`
		Duration float64 `yaml:"duration" json:"duration"`

		// Selected is transient editing state; it is never persisted outside
		// the editing session and is ignored by Clip.Equal.
		Selected bool `yaml:"-" json:"-"`
	}

	// Clip is an editable unit of MIDI content. ID is the engine's identifier
	// for the clip; UnsavedClipID marks a clip the engine does not know about
	// yet. TrackID is a foreign reference to the owning track.
	Clip struct {
		ID         int64   `yaml:"id" json:"id"`
		TrackID    int64   `yaml:"trackId" json:"trackId"`
		Name       string  `yaml:"name" json:"name"`
		Start      float64 `yaml:"start" json:"start"`
		LoopLength float64 `yaml:"loopLength" json:"loopLength"`
		Notes      []Note  `yaml:"notes" json:"notes"`
	}

	// NoteAnchor remembers where a note was when a drag gesture started, so
	// every pointer move can recompute the target position from the original
	// values plus the total delta, instead of accumulating rounding errors
	// over many small incremental moves.
	NoteAnchor struct {
		ID    NoteID
		Start float64
		Pitch int
	}

	// Edge names the end of a note grabbed by a resize gesture.
	Edge int
)

const (
	EdgeLeft Edge = iota
	EdgeRight
)

func (e Edge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

// UnsavedClipID marks a clip that has not been persisted by the engine.
const UnsavedClipID int64 = -1

// End returns the end position of the note in beats.
func (n Note) End() float64 { return n.Start + n.Duration }

// ClampPitch clamps a pitch to the valid MIDI range.
func ClampPitch(pitch int) int { return max(min(pitch, MaxPitch), MinPitch) }

// ClampVelocity clamps a velocity to the valid range. A velocity of zero
// would be a note-off on the wire, so the minimum is 1.
func ClampVelocity(velocity int) int { return max(min(velocity, MaxVelocity), MinVelocity) }

// NewClip returns an empty, unsaved clip of the minimum loop length on the
// given track.
func NewClip(trackID int64, name string) Clip {
	return Clip{ID: UnsavedClipID, TrackID: trackID, Name: name, LoopLength: MinLoopLength}
}

// Copy makes a deep copy of the clip, so that modifying the copy does not
// affect the original.
func (c Clip) Copy() Clip {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	c.Notes = notes
	return c
}

// Equal reports whether two clips have the same structural content. The
// transient Selected flags are ignored: changing only the selection is not a
// structural edit and should not produce undo history.
func (c Clip) Equal(other Clip) bool {
	if c.ID != other.ID || c.TrackID != other.TrackID || c.Name != other.Name ||
		c.Start != other.Start || c.LoopLength != other.LoopLength ||
		len(c.Notes) != len(other.Notes) {
		return false
	}
	for i, n := range c.Notes {
		o := other.Notes[i]
		if n.ID != o.ID || n.Pitch != o.Pitch || n.Velocity != o.Velocity ||
			n.Start != o.Start || n.Duration != o.Duration {
			return false
		}
	}
	return true
}

// FindNote returns the index of the note with the given id, or false if the
// clip has no such note.
func (c Clip) FindNote(id NoteID) (int, bool) {
	for i, n := range c.Notes {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

// LastEnd returns the end of the latest-ending note, or 0 for an empty clip.
func (c Clip) LastEnd() (end float64) {
	for _, n := range c.Notes {
		if e := n.End(); e > end {
			end = e
		}
	}
	return end
}

// SelectedIDs returns the ids of all selected notes, in note order.
func (c Clip) SelectedIDs() []NoteID {
	var ids []NoteID
	for _, n := range c.Notes {
		if n.Selected {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SelectedAnchors captures the pre-drag positions of all selected notes.
func (c Clip) SelectedAnchors() []NoteAnchor {
	var anchors []NoteAnchor
	for _, n := range c.Notes {
		if n.Selected {
			anchors = append(anchors, NoteAnchor{ID: n.ID, Start: n.Start, Pitch: n.Pitch})
		}
	}
	return anchors
}

// SetSelected sets the selection state of every note in the clip.
func (c *Clip) SetSelected(selected bool) {
	for i := range c.Notes {
		c.Notes[i].Selected = selected
	}
}

// AddNote appends a note to the clip after clamping its pitch and velocity
// and enforcing a positive duration. A zero ID is replaced with a fresh one.
// The loop auto-extends if the note ends past the current boundary. The id
// of the added note is returned.
func (c *Clip) AddNote(n Note) NoteID {
	if n.ID == 0 {
		n.ID = c.nextNoteID()
	}
	n.Pitch = ClampPitch(n.Pitch)
	n.Velocity = ClampVelocity(n.Velocity)
	if n.Start < 0 {
		n.Start = 0
	}
	if n.Duration <= 0 {
		n.Duration = smallestDivision
	}
	c.Notes = append(c.Notes, n)
	c.extendLoop()
	return n.ID
}

// MoveNotes repositions the anchored notes by the given total deltas. The
// target is always computed from the anchor (the pre-drag position), snapped
// with the given grid, and clamped: pitch to the MIDI range, start to ≥ 0.
// Anchors whose notes no longer exist are skipped.
func (c *Clip) MoveNotes(anchors []NoteAnchor, deltaBeat float64, deltaPitch int, g Grid) {
	for _, a := range anchors {
		i, ok := c.FindNote(a.ID)
		if !ok {
			continue
		}
		start := g.SnapBeat(a.Start + deltaBeat)
		if start < 0 {
			start = 0
		}
		c.Notes[i].Start = start
		c.Notes[i].Pitch = ClampPitch(a.Pitch + deltaPitch)
	}
	c.extendLoop()
}

// ResizeNote drags one edge of a note to the given beat position. A
// right-edge resize changes the duration only; a left-edge resize moves the
// start while keeping the end invariant. The duration never shrinks below
// one grid division. Out-of-range requests clamp; an unknown id is a no-op.
func (c *Clip) ResizeNote(id NoteID, edge Edge, beat float64, g Grid) {
	i, ok := c.FindNote(id)
	if !ok {
		return
	}
	n := &c.Notes[i]
	minDur := g.Division.Beats()
	switch edge {
	case EdgeRight:
		dur := g.SnapBeat(beat) - n.Start
		if dur < minDur {
			dur = minDur
		}
		n.Duration = dur
	case EdgeLeft:
		end := n.End()
		start := g.SnapBeat(beat)
		if start < 0 {
			start = 0
		}
		if start > end-minDur {
			start = end - minDur
		}
		n.Start = start
		n.Duration = end - start
	}
	c.extendLoop()
}

// DeleteNotes removes the notes with the given ids. Ids not present in the
// clip are ignored, so the operation is idempotent.
func (c *Clip) DeleteNotes(ids ...NoteID) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[NoteID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := c.Notes[:0]
	for _, n := range c.Notes {
		if !drop[n.ID] {
			kept = append(kept, n)
		}
	}
	c.Notes = kept
}

// SliceNote splits a note in two at the given beat, which must lie strictly
// inside the note: slicing at or outside the boundaries is a no-op. Both
// halves get fresh ids and keep the original pitch and velocity. Returns
// true if the note was sliced.
func (c *Clip) SliceNote(id NoteID, beat float64) bool {
	i, ok := c.FindNote(id)
	if !ok {
		return false
	}
	n := c.Notes[i]
	if beat <= n.Start || beat >= n.End() {
		return false
	}
	left, right := n, n
	left.ID = c.nextNoteID()
	left.Duration = beat - n.Start
	right.ID = left.ID + 1
	right.Start = beat
	right.Duration = n.End() - beat
	c.Notes[i] = left
	c.Notes = append(c.Notes, right)
	return true
}

// SetVelocity sets a note's velocity, clamped to [1,127].
func (c *Clip) SetVelocity(id NoteID, velocity int) {
	if i, ok := c.FindNote(id); ok {
		c.Notes[i].Velocity = ClampVelocity(velocity)
	}
}

// extendLoop grows the loop length to the next bar boundary whenever a note
// ends past the current boundary, and enforces the one bar minimum. The loop
// never shrinks automatically.
func (c *Clip) extendLoop() {
	if c.LoopLength < MinLoopLength {
		c.LoopLength = MinLoopLength
	}
	if end := c.LastEnd(); end > c.LoopLength {
		c.LoopLength = math.Ceil(end/BeatsPerBar) * BeatsPerBar
	}
}

// nextNoteID returns an id one past the largest in use, so fresh ids never
// collide with live notes.
func (c Clip) nextNoteID() NoteID {
	var maxID NoteID
	for _, n := range c.Notes {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	return maxID + 1
}

// AssignNoteIDs gives every note in the slice a fresh id, continuing from the
// clip's largest id. Used when detached snapshots (paste, duplicate) are
// inserted back into a clip.
func (c Clip) AssignNoteIDs(notes []Note) {
	next := c.nextNoteID()
	for i := range notes {
		notes[i].ID = next
		next++
	}
}

// SortedByStart returns the notes ordered by start time, then pitch. The
// clip itself keeps insertion order (paint strokes stay deterministic); this
// is for consumers that want playback order.
func (c Clip) SortedByStart() []Note {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
	return notes
}
