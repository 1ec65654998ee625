package platform

import (
	"fmt"
	"image"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/kbinani/screenshot"
)

// ScreenLister enumerates displays through the screenshot library. It works
// without a native backend connection and is used as a fallback.
type ScreenLister struct {
	// count and bounds default to the screenshot library.
	count  func() int
	bounds func(int) image.Rectangle
}

var _ DisplayLister = ScreenLister{}

// Displays returns the bounds of every active display. The library reports
// zero displays when it cannot reach the window system, so zero is reported
// as geometry.ErrDisplaysUnavailable.
func (l ScreenLister) Displays() ([]Display, error) {
	count, bounds := l.count, l.bounds
	if count == nil {
		count = screenshot.NumActiveDisplays
	}
	if bounds == nil {
		bounds = screenshot.GetDisplayBounds
	}

	n := count()
	if n <= 0 {
		return nil, geometry.ErrDisplaysUnavailable
	}
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		b := bounds(i)
		displays = append(displays, displayFromBounds(i, fmt.Sprintf("Display%d", i), b.Min.X, b.Min.Y, b.Dx(), b.Dy()))
	}
	return displays, nil
}

func displayFromBounds(id int, name string, x, y, width, height int) Display {
	return Display{
		ID:   id,
		Name: name,
		Bounds: geometry.Rect{
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
		},
	}
}
