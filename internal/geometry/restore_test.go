package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestApply_PositionInsideDisplay(t *testing.T) {
	s := NewSettings(pos(100, 50), size(800, 600))
	displays := StaticDisplays{{X: 0, Y: 0, Width: 1920, Height: 1080}}

	cfg := s.Apply(WindowConfig{}, displays)

	p, ok := cfg.Position()
	if !ok {
		t.Fatal("expected explicit position")
	}
	if p != (PhysicalPosition{X: 100, Y: 50}) {
		t.Fatalf("position = %+v, want {100 50}", p)
	}
	sz, ok := cfg.InnerSize()
	if !ok {
		t.Fatal("expected inner size")
	}
	if sz != (LogicalSize{Width: 800, Height: 600}) {
		t.Fatalf("inner size = %+v, want {800 600}", sz)
	}
}

func TestApply_PositionOutsideEveryDisplay(t *testing.T) {
	s := NewSettings(pos(100, 50), size(800, 600))
	displays := StaticDisplays{{X: 200, Y: 0, Width: 640, Height: 480}}

	cfg := s.Apply(WindowConfig{}, displays)

	if _, ok := cfg.Position(); ok {
		t.Fatal("expected no explicit position")
	}
	sz, ok := cfg.InnerSize()
	if !ok || sz != (LogicalSize{Width: 800, Height: 600}) {
		t.Fatalf("inner size = %+v (ok=%v), want {800 600}", sz, ok)
	}
}

func TestApply_PointContainment(t *testing.T) {
	displays := StaticDisplays{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1280, Height: 1024},
	}
	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"origin", 0, 0, true},
		{"second display", 2000, 500, true},
		{"last pixel of second display", 3199, 1023, true},
		{"one pixel right of everything", 3200, 10, false},
		{"one pixel left of origin", -1, 10, false},
		{"below first display", 100, 1080, false},
		{"gap under short display", 1920, 1030, false},
		{"fractional edge", 3199.5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewSettings(pos(tt.x, tt.y), nil).Apply(WindowConfig{}, displays)
			_, got := cfg.Position()
			if got != tt.want {
				t.Fatalf("position applied = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_UnavailableEnumerationFailsOpen(t *testing.T) {
	s := NewSettings(pos(-5000, -5000), nil)

	enumerators := map[string]DisplayEnumerator{
		"nil":         nil,
		"unavailable": DisplayFunc(func() ([]Rect, error) { return nil, ErrDisplaysUnavailable }),
		"failing":     DisplayFunc(func() ([]Rect, error) { return nil, errors.New("randr: no extension") }),
	}
	for name, enum := range enumerators {
		t.Run(name, func(t *testing.T) {
			cfg := s.Apply(WindowConfig{}, enum)
			p, ok := cfg.Position()
			if !ok {
				t.Fatal("expected position to be applied optimistically")
			}
			if p != (PhysicalPosition{X: -5000, Y: -5000}) {
				t.Fatalf("position = %+v", p)
			}
		})
	}
}

func TestApply_NoDisplaysAttachedRejectsPosition(t *testing.T) {
	s := NewSettings(pos(100, 50), size(800, 600))

	for name, enum := range map[string]DisplayEnumerator{
		"empty":     StaticDisplays{},
		"nil slice": DisplayFunc(func() ([]Rect, error) { return nil, nil }),
	} {
		t.Run(name, func(t *testing.T) {
			r := Restorer{Displays: enum}
			cfg, report := r.Plan(s, WindowConfig{})
			if _, ok := cfg.Position(); ok {
				t.Fatal("no display contains the point, position must be dropped")
			}
			if report.Position != PositionRejected || report.DisplayError != "" {
				t.Fatalf("report = %+v, want rejected without error", report)
			}
			if _, ok := cfg.InnerSize(); !ok {
				t.Fatal("expected inner size to be kept")
			}
		})
	}
}

func TestRestorer_Policies(t *testing.T) {
	s := NewSettings(pos(5000, 5000), size(400, 300))
	outside := StaticDisplays{{X: 0, Y: 0, Width: 1920, Height: 1080}}

	tests := []struct {
		name     string
		policy   PositionPolicy
		displays DisplayEnumerator
		want     PositionDecision
	}{
		{"validate rejects", PolicyValidate, outside, PositionRejected},
		{"validate unverified", PolicyValidate, nil, PositionUnverified},
		{"always ignores displays", PolicyAlwaysApply, outside, PositionUnverified},
		{"strict rejects unverifiable", PolicyStrict, nil, PositionRejected},
		{"strict rejects outside", PolicyStrict, outside, PositionRejected},
		{"strict accepts inside", PolicyStrict, StaticDisplays{{X: 4000, Y: 4000, Width: 2000, Height: 2000}}, PositionApplied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Restorer{Displays: tt.displays, Policy: tt.policy}
			cfg, report := r.Plan(s, WindowConfig{})
			if report.Position != tt.want {
				t.Fatalf("decision = %q, want %q", report.Position, tt.want)
			}
			_, applied := cfg.Position()
			if applied != tt.want.Applied() {
				t.Fatalf("position applied = %v, decision %q", applied, tt.want)
			}
			if !report.SizeApplied {
				t.Fatal("size must be applied regardless of position decision")
			}
		})
	}
}

func TestRestorer_ReportsDisplayHit(t *testing.T) {
	second := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	r := Restorer{Displays: StaticDisplays{{X: 0, Y: 0, Width: 1920, Height: 1080}, second}}

	_, report := r.Plan(NewSettings(pos(2000, 10), nil), WindowConfig{})

	if report.DisplayHit == nil || *report.DisplayHit != second {
		t.Fatalf("display hit = %+v, want %+v", report.DisplayHit, second)
	}
	if report.SizeApplied {
		t.Fatal("no size stored, size must not be applied")
	}
}

func TestRestorer_ReportsEnumerationError(t *testing.T) {
	r := Restorer{Displays: DisplayFunc(func() ([]Rect, error) { return nil, errors.New("boom") })}
	_, report := r.Plan(NewSettings(pos(1, 1), nil), WindowConfig{})
	if report.Position != PositionUnverified || report.DisplayError != "boom" {
		t.Fatalf("report = %+v", report)
	}
}

func TestApply_SizeWithoutPosition(t *testing.T) {
	cfg := NewSettings(nil, size(1024, 768)).Apply(WindowConfig{}, StaticDisplays{{Width: 100, Height: 100}})
	if _, ok := cfg.Position(); ok {
		t.Fatal("expected no position")
	}
	if sz, ok := cfg.InnerSize(); !ok || sz.Width != 1024 || sz.Height != 768 {
		t.Fatalf("inner size = %+v (ok=%v)", sz, ok)
	}
}

func TestApply_PositionWithoutSize(t *testing.T) {
	cfg := NewSettings(pos(10, 10), nil).Apply(WindowConfig{}, StaticDisplays{{Width: 100, Height: 100}})
	if _, ok := cfg.Position(); !ok {
		t.Fatal("expected position")
	}
	if _, ok := cfg.InnerSize(); ok {
		t.Fatal("expected size to remain unset")
	}
}

func TestApply_DoesNotMutateInputConfig(t *testing.T) {
	base := WindowConfig{}
	_ = NewSettings(pos(10, 10), size(20, 20)).Apply(base, nil)
	if _, ok := base.Position(); ok {
		t.Fatal("input config gained a position")
	}
	if _, ok := base.InnerSize(); ok {
		t.Fatal("input config gained a size")
	}
}

func TestSizeIsScaleFactorPortable(t *testing.T) {
	tests := []struct {
		name         string
		captureScale float64
		physW, physH uint32
		targetScale  float64
		wantW, wantH uint32
	}{
		{"same scale", 1.5, 1200, 900, 1.5, 1200, 900},
		{"hidpi to lodpi", 2, 1600, 1200, 1, 800, 600},
		{"lodpi to hidpi", 1, 800, 600, 2, 1600, 1200},
		{"fractional", 1.25, 1000, 750, 1.75, 1400, 1050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Capture(fakeWindow{scale: tt.captureScale, size: PhysicalSize{Width: tt.physW, Height: tt.physH}})
			cfg := s.Apply(WindowConfig{}, nil)
			got, ok := cfg.PhysicalInnerSize(tt.targetScale)
			if !ok {
				t.Fatal("expected a size request")
			}
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Fatalf("physical size = %dx%d, want %dx%d", got.Width, got.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLogicalSize_ToPhysicalClamps(t *testing.T) {
	if got := (LogicalSize{Width: -10, Height: math.NaN()}).ToPhysical(1); got != (PhysicalSize{}) {
		t.Fatalf("got %+v, want zero size", got)
	}
}

func TestParsePositionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PositionPolicy
		wantErr bool
	}{
		{"", PolicyValidate, false},
		{"validate", PolicyValidate, false},
		{" Always ", PolicyAlwaysApply, false},
		{"strict", PolicyStrict, false},
		{"clamp", PolicyValidate, true},
	}
	for _, tt := range tests {
		got, err := ParsePositionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePositionPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePositionPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := ParsePositionPolicy(got.String()); back != got {
			t.Errorf("String() of %v does not parse back", got)
		}
	}
}
