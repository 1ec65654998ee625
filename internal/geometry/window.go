package geometry

import (
	"errors"
	"math"
)

// ErrDisplaysUnavailable is returned by a DisplayEnumerator that has no
// reliable way to list attached displays.
var ErrDisplaysUnavailable = errors.New("display enumeration unavailable")

// PhysicalPosition is a window position in physical pixels.
type PhysicalPosition struct {
	X float64
	Y float64
}

// PhysicalSize is a window size in physical pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// LogicalSize is a window size in logical units.
type LogicalSize struct {
	Width  float64
	Height float64
}

// ToPhysical converts a logical size with the given scale factor, rounding to
// the nearest pixel.
func (l LogicalSize) ToPhysical(scale float64) PhysicalSize {
	scale = sanitizeScale(scale)
	return PhysicalSize{
		Width:  roundPixels(l.Width * scale),
		Height: roundPixels(l.Height * scale),
	}
}

func roundPixels(v float64) uint32 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(v))
}

// Rect describes a display's bounds in physical pixels.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Contains reports whether the point lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= float64(r.X) && x < float64(r.X+r.Width) &&
		y >= float64(r.Y) && y < float64(r.Y+r.Height)
}

// Window is a live, mapped window whose geometry can be captured.
type Window interface {
	// ScaleFactor is the ratio of physical to logical pixels (> 0).
	ScaleFactor() float64
	// InnerSize is the content-area size in physical pixels.
	InnerSize() PhysicalSize
	// InnerPosition is the content-area origin in physical pixels. It fails
	// when the windowing system cannot report it.
	InnerPosition() (PhysicalPosition, error)
}

// DisplayEnumerator lists the bounds of all currently attached displays.
type DisplayEnumerator interface {
	Displays() ([]Rect, error)
}

// DisplayFunc adapts a function to DisplayEnumerator.
type DisplayFunc func() ([]Rect, error)

func (f DisplayFunc) Displays() ([]Rect, error) { return f() }

// StaticDisplays is a fixed set of display rectangles.
type StaticDisplays []Rect

func (d StaticDisplays) Displays() ([]Rect, error) { return d, nil }

// WindowConfig is the pre-creation description of a window. It is a value
// type: the With* methods return a modified copy.
type WindowConfig struct {
	position  *PhysicalPosition
	innerSize *LogicalSize
}

// WithPosition requests an explicit placement of the content-area origin in
// physical pixels.
func (c WindowConfig) WithPosition(p PhysicalPosition) WindowConfig {
	c.position = &p
	return c
}

// WithInnerSize requests a content-area size in logical units.
func (c WindowConfig) WithInnerSize(s LogicalSize) WindowConfig {
	c.innerSize = &s
	return c
}

// Position returns the requested position, if one was set.
func (c WindowConfig) Position() (PhysicalPosition, bool) {
	if c.position == nil {
		return PhysicalPosition{}, false
	}
	return *c.position, true
}

// InnerSize returns the requested logical size, if one was set.
func (c WindowConfig) InnerSize() (LogicalSize, bool) {
	if c.innerSize == nil {
		return LogicalSize{}, false
	}
	return *c.innerSize, true
}

// PhysicalInnerSize resolves the requested logical size against the scale
// factor of the display the window ends up on.
func (c WindowConfig) PhysicalInnerSize(scale float64) (PhysicalSize, bool) {
	if c.innerSize == nil {
		return PhysicalSize{}, false
	}
	return c.innerSize.ToPhysical(scale), true
}
