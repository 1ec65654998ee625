// Package snapshot ties geometry capture and restore to a window-system
// backend and a store.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/store"
)

// ErrNoBackend is returned by operations that need a live window when no
// window-system backend is connected.
var ErrNoBackend = errors.New("no window-system backend connected")

// Service captures and restores named window geometry.
type Service struct {
	Store *store.Store
	// Backend may be nil; only Plan works without it.
	Backend platform.Backend
	// Displays is used for position checks. Defaults to Backend.
	Displays platform.DisplayLister
	Policy   geometry.PositionPolicy
	Logger   *slog.Logger
}

// Plan describes what restoring a saved snapshot would do.
type Plan struct {
	Name     string
	Settings geometry.Settings
	Config   geometry.WindowConfig
	Report   geometry.ApplyReport
}

// ResolveWindow returns id when set, otherwise the active window.
func (s *Service) ResolveWindow(id *platform.WindowID) (platform.WindowID, error) {
	if id != nil && *id != 0 {
		return *id, nil
	}
	if s.Backend == nil {
		return 0, ErrNoBackend
	}
	active, err := s.Backend.ActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve active window: %w", err)
	}
	return active, nil
}

// Capture snapshots a live window and saves it under name, replacing any
// earlier snapshot.
func (s *Service) Capture(name string, id platform.WindowID) (geometry.Settings, error) {
	if err := store.ValidateName(name); err != nil {
		return geometry.Settings{}, err
	}
	if s.Backend == nil {
		return geometry.Settings{}, ErrNoBackend
	}
	win, err := s.Backend.Window(id)
	if err != nil {
		return geometry.Settings{}, fmt.Errorf("window %d: %w", id, err)
	}

	settings := geometry.Capture(win)
	if err := s.Store.Save(name, settings); err != nil {
		return geometry.Settings{}, err
	}

	pos, hasPos := settings.InnerPosition()
	size, _ := settings.InnerSize()
	s.logger().Info("captured window geometry",
		"name", name,
		"window", id,
		"has_position", hasPos,
		"x", pos.X, "y", pos.Y,
		"width", size.X, "height", size.Y,
		"scale", win.ScaleFactor(),
	)
	return settings, nil
}

// Plan loads the snapshot saved under name and applies it to an empty window
// configuration against the current displays.
func (s *Service) Plan(name string) (*Plan, error) {
	settings, err := s.Store.Load(name)
	if err != nil {
		return nil, err
	}

	restorer := geometry.Restorer{
		Displays: platform.DisplayRects(s.displayLister()),
		Policy:   s.Policy,
		Logger:   s.logger().With("name", name),
	}
	cfg, report := restorer.Plan(settings, geometry.WindowConfig{})

	return &Plan{
		Name:     name,
		Settings: settings,
		Config:   cfg,
		Report:   report,
	}, nil
}

// Restore plans the snapshot saved under name and realizes it on a window.
func (s *Service) Restore(name string, id platform.WindowID) (*Plan, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	plan, err := s.Plan(name)
	if err != nil {
		return nil, err
	}
	if err := s.Backend.Realize(id, plan.Config); err != nil {
		return nil, fmt.Errorf("failed to restore %q onto window %d: %w", name, id, err)
	}
	s.logger().Info("restored window geometry",
		"name", name,
		"window", id,
		"position", plan.Report.Position,
		"size_applied", plan.Report.SizeApplied,
	)
	return plan, nil
}

func (s *Service) displayLister() platform.DisplayLister {
	if s.Displays != nil {
		return s.Displays
	}
	if s.Backend != nil {
		return s.Backend
	}
	return nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
