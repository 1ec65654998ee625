package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrNotViewable is returned when a window's position is requested while it
// is unmapped or has an unmapped ancestor.
var ErrNotViewable = errors.New("window is not viewable")

// InnerSize returns the client area size of a window in pixels.
func (c *Connection) InnerSize(windowID xproto.Window) (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get geometry of window %d: %w", windowID, err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// InnerPosition returns the root-relative origin of a window's client area.
// Reparenting window managers put decorations in a parent frame, so the
// translated origin of the client window excludes them.
func (c *Connection) InnerPosition(windowID xproto.Window) (x, y int, err error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get attributes of window %d: %w", windowID, err)
	}
	if attrs.MapState != xproto.MapStateViewable {
		return 0, 0, ErrNotViewable
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to translate coordinates of window %d: %w", windowID, err)
	}
	return int(translate.DstX), int(translate.DstY), nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// MoveWindow moves a window without changing its size.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		xwindow.New(c.XUtil, windowID).Move(x, y)
	}
	return nil
}

// ResizeWindow resizes a window and leaves its placement to the window manager.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	if err := ewmh.ResizeWindow(c.XUtil, windowID, width, height); err != nil {
		xwindow.New(c.XUtil, windowID).Resize(width, height)
	}
	return nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
