package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/snapshot"
)

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lister, source := s.displaySource()
	displays, err := lister.Displays()
	if err != nil {
		return nil, ListDisplaysOutput{}, err
	}
	if displays == nil {
		displays = []platform.Display{}
	}
	return nil, ListDisplaysOutput{Displays: displays, Source: source}, nil
}

func (s *Server) displaySource() (platform.DisplayLister, string) {
	switch {
	case s.service.Displays != nil:
		return s.service.Displays, "fallback"
	case s.service.Backend != nil:
		return s.service.Backend, "backend"
	default:
		return platform.ScreenLister{}, "screen"
	}
}

func (s *Server) handleCaptureWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CaptureWindowInput) (*mcpsdk.CallToolResult, CaptureWindowOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.service.ResolveWindow(windowIDPtr(args.WindowID))
	if err != nil {
		return nil, CaptureWindowOutput{}, err
	}
	settings, err := s.service.Capture(args.Name, id)
	if err != nil {
		s.logger.Warn("capture_window failed", "name", args.Name, "window", id, "error", err)
		return nil, CaptureWindowOutput{}, err
	}
	return nil, CaptureWindowOutput{
		Name:     args.Name,
		WindowID: uint32(id),
		Geometry: viewOf(settings),
	}, nil
}

func (s *Server) handleShowGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowGeometryInput) (*mcpsdk.CallToolResult, ShowGeometryOutput, error) {
	settings, err := s.service.Store.Load(args.Name)
	if err != nil {
		return nil, ShowGeometryOutput{}, err
	}
	return nil, ShowGeometryOutput{Name: args.Name, Geometry: viewOf(settings)}, nil
}

func (s *Server) handlePlanRestore(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowGeometryInput) (*mcpsdk.CallToolResult, PlanOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.service.Plan(args.Name)
	if err != nil {
		return nil, PlanOutput{}, err
	}
	return nil, planOutput(plan), nil
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args RestoreWindowInput) (*mcpsdk.CallToolResult, PlanOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.service.ResolveWindow(windowIDPtr(args.WindowID))
	if err != nil {
		return nil, PlanOutput{}, err
	}
	plan, err := s.service.Restore(args.Name, id)
	if err != nil {
		s.logger.Warn("restore_window failed", "name", args.Name, "window", id, "error", err)
		return nil, PlanOutput{}, err
	}
	out := planOutput(plan)
	out.WindowID = uint32(id)
	out.Realized = true
	return nil, out, nil
}

func planOutput(plan *snapshot.Plan) PlanOutput {
	out := PlanOutput{
		Name:     plan.Name,
		Geometry: viewOf(plan.Settings),
		Report:   plan.Report,
	}
	if p, ok := plan.Config.Position(); ok {
		out.Position = &[2]float64{p.X, p.Y}
	}
	if sz, ok := plan.Config.InnerSize(); ok {
		out.LogicalSize = &[2]float64{sz.Width, sz.Height}
	}
	return out
}
