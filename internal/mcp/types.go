package mcp

import (
	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/platform"
)

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []platform.Display `json:"displays"`
	Source   string             `json:"source"`
}

// CaptureWindowInput is the input for the capture_window tool.
type CaptureWindowInput struct {
	Name     string  `json:"name" jsonschema:"Name to save the geometry under (e.g. the application id)"`
	WindowID *uint32 `json:"window_id,omitempty" jsonschema:"X11 window id to capture (default: the active window)"`
}

// GeometryView is the stored snapshot in its persisted shape.
type GeometryView struct {
	InnerPos        *[2]float32 `json:"inner_pos" jsonschema:"Client-area origin in physical pixels, null when unknown"`
	InnerSizePoints *[2]float32 `json:"inner_size_points" jsonschema:"Client-area size in logical units, null when unknown"`
}

func viewOf(s geometry.Settings) GeometryView {
	var v GeometryView
	if p, ok := s.InnerPosition(); ok {
		v.InnerPos = &[2]float32{p.X, p.Y}
	}
	if sz, ok := s.InnerSize(); ok {
		v.InnerSizePoints = &[2]float32{sz.X, sz.Y}
	}
	return v
}

// CaptureWindowOutput is the output for the capture_window tool.
type CaptureWindowOutput struct {
	Name     string       `json:"name"`
	WindowID uint32       `json:"window_id"`
	Geometry GeometryView `json:"geometry"`
}

// ShowGeometryInput is the input for the show_geometry and plan_restore tools.
type ShowGeometryInput struct {
	Name string `json:"name" jsonschema:"Name the geometry was saved under"`
}

// ShowGeometryOutput is the output for the show_geometry tool.
type ShowGeometryOutput struct {
	Name     string       `json:"name"`
	Geometry GeometryView `json:"geometry"`
}

// RestoreWindowInput is the input for the restore_window tool.
type RestoreWindowInput struct {
	Name     string  `json:"name" jsonschema:"Name the geometry was saved under"`
	WindowID *uint32 `json:"window_id,omitempty" jsonschema:"X11 window id to restore onto (default: the active window)"`
}

// PlanOutput is the output for the plan_restore and restore_window tools.
type PlanOutput struct {
	Name     string               `json:"name"`
	Geometry GeometryView         `json:"geometry"`
	Report   geometry.ApplyReport `json:"report"`
	// Position and LogicalSize are the requests placed on the window.
	Position    *[2]float64 `json:"position,omitempty"`
	LogicalSize *[2]float64 `json:"logical_size,omitempty"`
	WindowID    uint32      `json:"window_id,omitempty"`
	Realized    bool        `json:"realized"`
}
