package editor

import (
	"fmt"

	"github.com/solardaw/pianoroll"
	"gopkg.in/yaml.v3"
)

type (
	// Clipboard holds detached note snapshots, shared by all editors in the
	// session so notes move between clips. The snapshots carry no ids worth
	// preserving; paste always assigns fresh ones.
	Clipboard struct {
		notes []pianoroll.Note
	}

	// clipboardData is the YAML wire format, for interop with the system
	// clipboard. Flow style keeps a handful of notes on readable lines.
	clipboardData struct {
		PianoRollNotes []pianoroll.Note `yaml:"pianoRollNotes,flow"`
	}
)

func (c *Clipboard) Empty() bool { return len(c.notes) == 0 }

func (c *Clipboard) Len() int { return len(c.notes) }

// put stores deselected copies of the notes.
func (c *Clipboard) put(notes []pianoroll.Note) {
	c.notes = make([]pianoroll.Note, len(notes))
	copy(c.notes, notes)
	for i := range c.notes {
		c.notes[i].Selected = false
	}
}

// MarshalText serializes the clipboard for the system clipboard.
func (c *Clipboard) MarshalText() ([]byte, error) {
	return yaml.Marshal(clipboardData{PianoRollNotes: c.notes})
}

// UnmarshalText replaces the clipboard contents from serialized form, so a
// paste can come from another process.
func (c *Clipboard) UnmarshalText(text []byte) error {
	var data clipboardData
	if err := yaml.Unmarshal(text, &data); err != nil {
		return fmt.Errorf("unmarshal clipboard: %w", err)
	}
	c.put(data.PianoRollNotes)
	return nil
}

// DumpClip serializes a whole clip to YAML, for debugging and host
// interchange. This is not persistence: durable clip state belongs to the
// engine.
func DumpClip(c pianoroll.Clip) ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseClip reads a clip back from its YAML form.
func ParseClip(data []byte) (pianoroll.Clip, error) {
	var c pianoroll.Clip
	if err := yaml.Unmarshal(data, &c); err != nil {
		return pianoroll.Clip{}, fmt.Errorf("unmarshal clip: %w", err)
	}
	return c, nil
}

// CopySelection snapshots the selected notes into the session clipboard. The
// clip is untouched.
func (m *Model) CopySelection() {
	selected := m.selectedNotes()
	if len(selected) == 0 {
		m.alerts.AddNamed("Clipboard", "nothing to copy", Warning)
		return
	}
	m.session.Clipboard.put(selected)
}

// CutSelection copies the selected notes and deletes them as one edit.
func (m *Model) CutSelection() {
	selected := m.selectedNotes()
	if len(selected) == 0 {
		m.alerts.AddNamed("Clipboard", "nothing to cut", Warning)
		return
	}
	m.session.Clipboard.put(selected)
	m.DeleteSelection()
}

// Paste inserts the clipboard notes at the clip start: the earliest note
// lands on beat 0 and the rest keep their relative positions. Pasted notes
// get fresh ids and become the selection; everything else is deselected. One
// history entry.
func (m *Model) Paste() {
	if m.session.Clipboard.Empty() {
		m.alerts.AddNamed("Clipboard", "clipboard is empty", Warning)
		return
	}
	defer m.change("Paste notes")()
	earliest := m.session.Clipboard.notes[0].Start
	for _, n := range m.session.Clipboard.notes {
		if n.Start < earliest {
			earliest = n.Start
		}
	}
	incoming := make([]pianoroll.Note, len(m.session.Clipboard.notes))
	copy(incoming, m.session.Clipboard.notes)
	m.d.Clip.AssignNoteIDs(incoming)
	m.Deselect()
	for _, n := range incoming {
		n.Start -= earliest
		n.Selected = true
		m.d.Clip.AddNote(n)
	}
}

func (m *Model) selectedNotes() []pianoroll.Note {
	var notes []pianoroll.Note
	for _, n := range m.d.Clip.Notes {
		if n.Selected {
			notes = append(notes, n)
		}
	}
	return notes
}
