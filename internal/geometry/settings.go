// Package geometry captures a window's inner geometry and restores it onto a
// window configuration, checking stored positions against attached displays.
package geometry

import "math"

// Pos2 is a point in physical pixels.
type Pos2 struct {
	X float32
	Y float32
}

// Vec2 is a size in logical (scale-independent) units.
type Vec2 struct {
	X float32
	Y float32
}

// Settings is a snapshot of a window's inner position and inner size.
//
// InnerPosition is in physical pixels relative to the virtual desktop origin.
// InnerSize is in logical units and must be scaled by the target window's
// scale factor when realized. A Settings value is never mutated after
// construction; use NewSettings or Capture to build one.
type Settings struct {
	innerPos  *Pos2
	innerSize *Vec2
}

// NewSettings builds a Settings value. Either argument may be nil.
func NewSettings(pos *Pos2, size *Vec2) Settings {
	var s Settings
	if pos != nil {
		p := *pos
		s.innerPos = &p
	}
	if size != nil {
		v := *size
		s.innerSize = &v
	}
	return s
}

// InnerPosition returns the stored physical position, if any.
func (s Settings) InnerPosition() (Pos2, bool) {
	if s.innerPos == nil {
		return Pos2{}, false
	}
	return *s.innerPos, true
}

// InnerSize returns the stored logical size, if any.
func (s Settings) InnerSize() (Vec2, bool) {
	if s.innerSize == nil {
		return Vec2{}, false
	}
	return *s.innerSize, true
}

// Equal reports whether both settings hold the same fields, including absence.
func (s Settings) Equal(o Settings) bool {
	if (s.innerPos == nil) != (o.innerPos == nil) {
		return false
	}
	if s.innerPos != nil && *s.innerPos != *o.innerPos {
		return false
	}
	if (s.innerSize == nil) != (o.innerSize == nil) {
		return false
	}
	if s.innerSize != nil && *s.innerSize != *o.innerSize {
		return false
	}
	return true
}

// Capture snapshots the geometry of a live window. The physical inner size is
// converted to logical units with the window's current scale factor. A failed
// position query is recorded as an absent position.
func Capture(w Window) Settings {
	scale := sanitizeScale(w.ScaleFactor())
	physical := w.InnerSize()

	size := Vec2{
		X: float32(float64(physical.Width) / scale),
		Y: float32(float64(physical.Height) / scale),
	}

	var pos *Pos2
	if p, err := w.InnerPosition(); err == nil {
		pos = &Pos2{X: float32(p.X), Y: float32(p.Y)}
	}

	return Settings{innerPos: pos, innerSize: &size}
}

func sanitizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}
