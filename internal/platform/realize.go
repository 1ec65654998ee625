package platform

import (
	"math"

	"github.com/1broseidon/winstate/internal/geometry"
)

type realizeOp int

const (
	realizeNone realizeOp = iota
	realizeMove
	realizeResize
	realizeMoveResize
)

// realizeRequest is the frame geometry a backend sends to the window manager.
type realizeRequest struct {
	op            realizeOp
	x, y          int
	width, height int
}

// frameOrigin converts a client-area origin to the frame origin given the
// left and top decoration extents.
func frameOrigin(pos geometry.PhysicalPosition, left, top int) (x, y int) {
	return int(math.Round(pos.X)) - left, int(math.Round(pos.Y)) - top
}

// planRealize resolves cfg against the screen scale factor. extents is only
// called when cfg carries a position.
func planRealize(cfg geometry.WindowConfig, scale float64, extents func() (left, top int)) realizeRequest {
	var req realizeRequest
	pos, hasPos := cfg.Position()
	size, hasSize := cfg.PhysicalInnerSize(scale)

	if hasPos {
		left, top := extents()
		req.x, req.y = frameOrigin(pos, left, top)
	}
	if hasSize {
		req.width, req.height = int(size.Width), int(size.Height)
	}

	switch {
	case hasPos && hasSize:
		req.op = realizeMoveResize
	case hasPos:
		req.op = realizeMove
	case hasSize:
		req.op = realizeResize
	}
	return req
}
