package platform

import (
	"errors"

	"github.com/1broseidon/winstate/internal/geometry"
)

// ErrUnsupported is returned by Open on platforms without a native backend.
var ErrUnsupported = errors.New("no window-system backend for this platform")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display in physical pixels.
type Display struct {
	ID     int           `json:"id" yaml:"id"`
	Name   string        `json:"name" yaml:"name"`
	Bounds geometry.Rect `json:"bounds" yaml:"bounds"`
	// Primary is only known to native backends.
	Primary bool `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	// Window returns a live handle whose geometry can be captured.
	Window(windowID WindowID) (geometry.Window, error)
	// Realize applies a window configuration to an existing window.
	Realize(windowID WindowID, cfg geometry.WindowConfig) error
	Close()
}

// DisplayLister is the display half of a Backend.
type DisplayLister interface {
	Displays() ([]Display, error)
}

// DisplayRects exposes a DisplayLister as a geometry.DisplayEnumerator.
// A nil lister reports the capability as unavailable.
func DisplayRects(l DisplayLister) geometry.DisplayEnumerator {
	return geometry.DisplayFunc(func() ([]geometry.Rect, error) {
		if l == nil {
			return nil, geometry.ErrDisplaysUnavailable
		}
		displays, err := l.Displays()
		if err != nil {
			return nil, err
		}
		rects := make([]geometry.Rect, 0, len(displays))
		for _, d := range displays {
			rects = append(rects, d.Bounds)
		}
		return rects, nil
	})
}
