package editor

import "math"

// rulerZoomGesture is a continuous zoom drag started on the ruler: pulling
// the pointer down zooms in, up zooms out, always relative to the zoom at
// the start of the drag. Like selection, zooming is not an undoable edit.
type rulerZoomGesture struct {
	originY   float64
	startZoom float64
}

// RulerPointerDown starts a zoom drag from the ruler.
func (m *Model) RulerPointerDown(p Point) {
	if m.gesture != nil {
		return
	}
	m.gesture = rulerZoomGesture{originY: p.Y, startZoom: m.d.Grid.PixelsPerBeat}
}

func (m *Model) RulerPointerMove(p Point) { m.PointerMove(p, Modifiers{}) }

func (m *Model) RulerPointerUp(p Point) { m.PointerUp(p, Modifiers{}) }

func (g rulerZoomGesture) move(m *Model, p Point, mods Modifiers) {
	// 100 px of vertical travel doubles or halves the zoom
	m.d.Grid.SetZoom(g.startZoom * math.Pow(2, (p.Y-g.originY)/100))
}

func (g rulerZoomGesture) finish(m *Model, p Point, mods Modifiers) {
	g.move(m, p, mods)
}
