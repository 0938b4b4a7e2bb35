package editor

import (
	"math"

	"github.com/solardaw/pianoroll"
)

// The velocity lane sits under the note canvas and shares its horizontal
// axis. Vertical position maps linearly to velocity, 127 at the top of the
// lane and 1 at the bottom.

type velocityLaneGesture struct {
	laneHeight float64
}

// VelocityPointerDown starts a velocity edit. laneHeight is the pixel height
// of the lane; x shares the canvas coordinate space. The whole drag is one
// history entry.
func (m *Model) VelocityPointerDown(p Point, laneHeight float64) {
	if m.gesture != nil || laneHeight <= 0 {
		return
	}
	g := velocityLaneGesture{laneHeight: laneHeight}
	m.beginGesture(g, "Edit velocity")
	g.move(m, p, Modifiers{})
}

func (m *Model) VelocityPointerMove(p Point) { m.PointerMove(p, Modifiers{}) }

func (m *Model) VelocityPointerUp(p Point) { m.PointerUp(p, Modifiers{}) }

func (g velocityLaneGesture) move(m *Model, p Point, mods Modifiers) {
	beat := m.d.Grid.BeatAtX(p.X)
	i, ok := m.noteAtBeat(beat)
	if !ok {
		return
	}
	v := g.velocityAt(p.Y)
	if m.d.Clip.Notes[i].Selected {
		for j := range m.d.Clip.Notes {
			if m.d.Clip.Notes[j].Selected {
				m.d.Clip.SetVelocity(m.d.Clip.Notes[j].ID, v)
			}
		}
		return
	}
	m.d.Clip.SetVelocity(m.d.Clip.Notes[i].ID, v)
}

func (g velocityLaneGesture) finish(m *Model, p Point, mods Modifiers) {
	g.move(m, p, mods)
}

func (g velocityLaneGesture) velocityAt(y float64) int {
	frac := math.Min(math.Max(y/g.laneHeight, 0), 1)
	span := float64(pianoroll.MaxVelocity - pianoroll.MinVelocity)
	return pianoroll.MaxVelocity - int(math.Round(frac*span))
}

// noteAtBeat finds the latest-added note sounding at the given beat,
// regardless of pitch. The velocity lane has no vertical note axis, so this
// is its hit test.
func (m *Model) noteAtBeat(beat float64) (int, bool) {
	for i := len(m.d.Clip.Notes) - 1; i >= 0; i-- {
		n := m.d.Clip.Notes[i]
		if beat >= n.Start && beat < n.End() {
			return i, true
		}
	}
	return 0, false
}
