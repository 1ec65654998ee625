package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/snapshot"
	"github.com/1broseidon/winstate/internal/store"
)

type stubWindow struct{}

func (stubWindow) ScaleFactor() float64 { return 1.5 }
func (stubWindow) InnerSize() geometry.PhysicalSize {
	return geometry.PhysicalSize{Width: 1200, Height: 900}
}
func (stubWindow) InnerPosition() (geometry.PhysicalPosition, error) {
	return geometry.PhysicalPosition{X: 40, Y: 30}, nil
}

type stubBackend struct {
	displays []platform.Display
	realized []platform.WindowID
}

func (b *stubBackend) Displays() ([]platform.Display, error) { return b.displays, nil }
func (b *stubBackend) ActiveWindow() (platform.WindowID, error) {
	return 11, nil
}
func (b *stubBackend) Window(id platform.WindowID) (geometry.Window, error) {
	if id != 11 && id != 12 {
		return nil, errors.New("BadWindow")
	}
	return stubWindow{}, nil
}
func (b *stubBackend) Realize(id platform.WindowID, _ geometry.WindowConfig) error {
	b.realized = append(b.realized, id)
	return nil
}
func (b *stubBackend) Close() {}

func newTestServer(t *testing.T, displays ...geometry.Rect) (*Server, *stubBackend) {
	t.Helper()
	b := &stubBackend{}
	for i, r := range displays {
		b.displays = append(b.displays, platform.Display{ID: i, Bounds: r})
	}
	svc := &snapshot.Service{
		Store:   store.New(t.TempDir(), store.FormatJSON),
		Backend: b,
	}
	return NewServer(svc, nil), b
}

func TestCaptureAndShow(t *testing.T) {
	s, _ := newTestServer(t, geometry.Rect{Width: 1920, Height: 1080})
	ctx := context.Background()

	_, out, err := s.handleCaptureWindow(ctx, nil, CaptureWindowInput{Name: "notes"})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if out.WindowID != 11 {
		t.Fatalf("window id = %d, want active window 11", out.WindowID)
	}
	if out.Geometry.InnerSizePoints == nil || *out.Geometry.InnerSizePoints != [2]float32{800, 600} {
		t.Fatalf("inner size = %v, want [800 600]", out.Geometry.InnerSizePoints)
	}

	_, shown, err := s.handleShowGeometry(ctx, nil, ShowGeometryInput{Name: "notes"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown.Geometry.InnerPos == nil || *shown.Geometry.InnerPos != [2]float32{40, 30} {
		t.Fatalf("inner pos = %v, want [40 30]", shown.Geometry.InnerPos)
	}
}

func TestPlanRestore_RejectsOffscreenPosition(t *testing.T) {
	s, b := newTestServer(t, geometry.Rect{X: 100, Y: 100, Width: 640, Height: 480})
	ctx := context.Background()

	if _, _, err := s.handleCaptureWindow(ctx, nil, CaptureWindowInput{Name: "notes"}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	_, plan, err := s.handlePlanRestore(ctx, nil, ShowGeometryInput{Name: "notes"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Report.Position != geometry.PositionRejected || plan.Position != nil {
		t.Fatalf("plan = %+v, want rejected position", plan)
	}
	if plan.LogicalSize == nil || *plan.LogicalSize != [2]float64{800, 600} {
		t.Fatalf("logical size = %v", plan.LogicalSize)
	}
	if plan.Realized || len(b.realized) != 0 {
		t.Fatal("plan_restore must not touch windows")
	}
}

func TestRestoreWindow(t *testing.T) {
	s, b := newTestServer(t, geometry.Rect{Width: 1920, Height: 1080})
	ctx := context.Background()

	if _, _, err := s.handleCaptureWindow(ctx, nil, CaptureWindowInput{Name: "notes"}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	target := uint32(12)
	_, out, err := s.handleRestoreWindow(ctx, nil, RestoreWindowInput{Name: "notes", WindowID: &target})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !out.Realized || out.WindowID != 12 {
		t.Fatalf("output = %+v", out)
	}
	if len(b.realized) != 1 || b.realized[0] != 12 {
		t.Fatalf("realized = %v", b.realized)
	}
	if out.Position == nil || *out.Position != [2]float64{40, 30} {
		t.Fatalf("position = %v", out.Position)
	}
}

func TestShowGeometry_Missing(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.handleShowGeometry(context.Background(), nil, ShowGeometryInput{Name: "ghost"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDisplays_UsesBackend(t *testing.T) {
	s, _ := newTestServer(t, geometry.Rect{Width: 1920, Height: 1080}, geometry.Rect{X: 1920, Width: 1280, Height: 1024})
	_, out, err := s.handleListDisplays(context.Background(), nil, ListDisplaysInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Source != "backend" || len(out.Displays) != 2 {
		t.Fatalf("output = %+v", out)
	}
}
