//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// Open connects to the X server named by display ($DISPLAY when empty).
func Open(display string) (Backend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		d := displayFromBounds(m.ID, m.Name, m.X, m.Y, m.Width, m.Height)
		d.Primary = m.Primary
		displays = append(displays, d)
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	if wid == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return WindowID(wid), nil
}

// Window returns a capture handle for an existing window. The size is read
// eagerly; a window that cannot be measured does not exist for our purposes.
func (b *LinuxBackend) Window(windowID WindowID) (geometry.Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	width, height, err := conn.InnerSize(xproto.Window(windowID))
	if err != nil {
		return nil, err
	}

	return &x11Window{
		conn:   conn,
		id:     xproto.Window(windowID),
		scale:  conn.ScaleFactor(),
		width:  width,
		height: height,
	}, nil
}

// Realize moves and resizes an existing window according to cfg. The
// requested position is the client-area origin, so the frame is offset by the
// window decorations. X11 exposes one scale factor for the whole screen, which
// is used to resolve the logical size.
func (b *LinuxBackend) Realize(windowID WindowID, cfg geometry.WindowConfig) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	win := xproto.Window(windowID)
	req := planRealize(cfg, conn.ScaleFactor(), func() (int, int) {
		left, _, top, _ := conn.GetFrameExtents(win)
		return left, top
	})

	switch req.op {
	case realizeMoveResize:
		return conn.MoveResizeWindow(win, req.x, req.y, req.width, req.height)
	case realizeMove:
		return conn.MoveWindow(win, req.x, req.y)
	case realizeResize:
		return conn.ResizeWindow(win, req.width, req.height)
	default:
		return nil
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

type x11Window struct {
	conn   *x11.Connection
	id     xproto.Window
	scale  float64
	width  int
	height int
}

func (w *x11Window) ScaleFactor() float64 { return w.scale }

func (w *x11Window) InnerSize() geometry.PhysicalSize {
	return geometry.PhysicalSize{Width: uint32(w.width), Height: uint32(w.height)}
}

func (w *x11Window) InnerPosition() (geometry.PhysicalPosition, error) {
	x, y, err := w.conn.InnerPosition(w.id)
	if err != nil {
		return geometry.PhysicalPosition{}, err
	}
	return geometry.PhysicalPosition{X: float64(x), Y: float64(y)}, nil
}
