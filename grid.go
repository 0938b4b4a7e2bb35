package pianoroll

import (
	"fmt"
	"math"
)

// Division is the grid subdivision selected in the editor, as a power-of-two
// fraction of a whole note. In 4/4 a quarter note is one beat.
type Division int

const (
	DivisionQuarter Division = iota
	DivisionEighth
	DivisionSixteenth
	DivisionThirtySecond

	NumDivisions = int(DivisionThirtySecond) + 1
)

// smallestDivision is the fallback duration for degenerate notes.
const smallestDivision = 0.125

// Beats returns the length of one grid cell in beats: 1, 1/2, 1/4 or 1/8.
func (d Division) Beats() float64 {
	return 1 / float64(int(1)<<d)
}

func (d Division) String() string {
	switch d {
	case DivisionQuarter:
		return "1/4"
	case DivisionEighth:
		return "1/8"
	case DivisionSixteenth:
		return "1/16"
	case DivisionThirtySecond:
		return "1/32"
	}
	return "???"
}

// ParseDivision parses the string form produced by String ("1/16").
func ParseDivision(s string) (Division, error) {
	for d := DivisionQuarter; int(d) < NumDivisions; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown grid division %q", s)
}

// Next cycles to the following division, wrapping back to quarters.
func (d Division) Next() Division {
	return (d + 1) % Division(NumDivisions)
}

// Zoom limits for the horizontal axis, in pixels per beat.
const (
	MinPixelsPerBeat = 20.0
	MaxPixelsPerBeat = 500.0
	zoomStep         = 1.2
)

// Grid converts between screen space and musical space and carries the
// snapping configuration. HighestPitch is the pitch rendered at y=0; pitch
// decreases downwards.
type Grid struct {
	PixelsPerBeat float64
	PixelsPerNote float64
	HighestPitch  int
	Division      Division
	Snap          bool
}

// DefaultGrid returns the grid a fresh editor opens with.
func DefaultGrid() Grid {
	return Grid{
		PixelsPerBeat: 100,
		PixelsPerNote: 16,
		HighestPitch:  MaxPitch,
		Division:      DivisionSixteenth,
		Snap:          true,
	}
}

// BeatAtX converts a horizontal pixel position to beats, unsnapped.
func (g Grid) BeatAtX(x float64) float64 { return x / g.PixelsPerBeat }

// XAtBeat converts a beat position to pixels.
func (g Grid) XAtBeat(beat float64) float64 { return beat * g.PixelsPerBeat }

// PitchAtY converts a vertical pixel position to a pitch, clamped to the
// MIDI range so that dragging past the canvas edges stays valid.
func (g Grid) PitchAtY(y float64) int {
	return ClampPitch(g.HighestPitch - int(math.Floor(y/g.PixelsPerNote)))
}

// YAtPitch returns the top edge of the given pitch's row.
func (g Grid) YAtPitch(pitch int) float64 {
	return float64(g.HighestPitch-pitch) * g.PixelsPerNote
}

// SnapBeat rounds a beat position to the nearest grid line. With snapping
// off the position passes through untouched.
func (g Grid) SnapBeat(beat float64) float64 {
	if !g.Snap {
		return beat
	}
	d := g.Division.Beats()
	return math.Round(beat/d) * d
}

// SnapBeatDown floors a beat position to the previous grid line, so a click
// anywhere inside a cell creates a note at the cell start. With snapping off
// the position passes through untouched.
func (g Grid) SnapBeatDown(beat float64) float64 {
	if !g.Snap {
		return beat
	}
	d := g.Division.Beats()
	return math.Floor(beat/d) * d
}

// Unsnapped returns a copy of the grid with snapping disabled, for gestures
// that bypass the grid while a modifier is held.
func (g Grid) Unsnapped() Grid {
	g.Snap = false
	return g
}

// ZoomIn increases the horizontal zoom by one step, clamped.
func (g *Grid) ZoomIn() { g.SetZoom(g.PixelsPerBeat * zoomStep) }

// ZoomOut decreases the horizontal zoom by one step, clamped.
func (g *Grid) ZoomOut() { g.SetZoom(g.PixelsPerBeat / zoomStep) }

// SetZoom sets the horizontal zoom, clamped to the allowed range. Zooming
// never errors; out of range values saturate.
func (g *Grid) SetZoom(pixelsPerBeat float64) {
	g.PixelsPerBeat = math.Min(math.Max(pixelsPerBeat, MinPixelsPerBeat), MaxPixelsPerBeat)
}

// RequiredBeats returns how many beats the canvas must cover: the loop
// length or the furthest note end, whichever is greater, rounded up to a
// whole bar, plus one empty bar of headroom to drag new content into.
func RequiredBeats(c Clip) float64 {
	beats := c.LoopLength
	if end := c.LastEnd(); end > beats {
		beats = end
	}
	if beats < MinLoopLength {
		beats = MinLoopLength
	}
	return math.Ceil(beats/BeatsPerBar)*BeatsPerBar + BeatsPerBar
}
