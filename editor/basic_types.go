package editor

type (
	// Action is a simple monadic structure for actions that can be triggered
	// from the UI: they either execute or are disabled, but have no value.
	Action struct {
		doer Doer
	}

	Doer interface {
		Do()
	}

	// Enabler is optionally implemented by a Doer whose action is sometimes
	// unavailable (for example, Undo with an empty history).
	Enabler interface {
		Enabled() bool
	}

	// Int wraps an integer value exposed to the UI, with a valid range and
	// change tracking behind the setter.
	Int struct {
		value IntValue
	}

	IntValue interface {
		Value() int
		SetValue(int) bool
		Range() RangeInclusive
	}

	// Bool wraps a togglable value exposed to the UI.
	Bool struct {
		value BoolValue
	}

	BoolValue interface {
		Value() bool
		SetValue(bool)
	}

	RangeInclusive struct {
		Min, Max int
	}

	// Point is a position on the editor canvas, in pixels.
	Point struct {
		X, Y float64
	}

	// Rect is an axis-aligned rectangle given by two opposite corners, in
	// whatever space the caller is working in. The corners may be in any
	// order; use Normalized before testing containment.
	Rect struct {
		TopLeft, BottomRight Point
	}
)

func MakeAction(doer Doer) Action { return Action{doer: doer} }

func (a Action) Do() {
	if a.Enabled() {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false
	}
	if e, ok := a.doer.(Enabler); ok {
		return e.Enabled()
	}
	return true
}

func MakeInt(value IntValue) Int { return Int{value} }

func (v Int) Value() int { return v.value.Value() }

func (v Int) SetValue(val int) bool {
	r := v.value.Range()
	return v.value.SetValue(r.Clamp(val))
}

func (v Int) Add(delta int) bool { return v.SetValue(v.Value() + delta) }

func (v Int) Range() RangeInclusive { return v.value.Range() }

func MakeBool(value BoolValue) Bool { return Bool{value} }

func (v Bool) Value() bool { return v.value.Value() }

func (v Bool) SetValue(val bool) { v.value.SetValue(val) }

func (v Bool) Toggle() { v.SetValue(!v.Value()) }

func (r RangeInclusive) Clamp(val int) int {
	return max(min(val, r.Max), r.Min)
}

func (r RangeInclusive) Contains(val int) bool {
	return val >= r.Min && val <= r.Max
}

// Normalized returns the rectangle with TopLeft holding the minimum
// coordinates and BottomRight the maximum, so backwards drags select the
// same region as forward ones.
func (r Rect) Normalized() Rect {
	if r.TopLeft.X > r.BottomRight.X {
		r.TopLeft.X, r.BottomRight.X = r.BottomRight.X, r.TopLeft.X
	}
	if r.TopLeft.Y > r.BottomRight.Y {
		r.TopLeft.Y, r.BottomRight.Y = r.BottomRight.Y, r.TopLeft.Y
	}
	return r
}

// Contains reports whether the point lies inside the normalized rectangle,
// boundaries included.
func (r Rect) Contains(p Point) bool {
	r = r.Normalized()
	return p.X >= r.TopLeft.X && p.X <= r.BottomRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BottomRight.Y
}
