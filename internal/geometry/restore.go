package geometry

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// PositionPolicy decides what happens to a stored position that cannot be
// checked against the attached displays.
type PositionPolicy int

const (
	// PolicyValidate checks the position when displays can be enumerated and
	// applies it unchecked when they cannot.
	PolicyValidate PositionPolicy = iota
	// PolicyAlwaysApply applies the stored position without checking it.
	PolicyAlwaysApply
	// PolicyStrict checks the position and drops it when displays cannot be
	// enumerated.
	PolicyStrict
)

func (p PositionPolicy) String() string {
	switch p {
	case PolicyValidate:
		return "validate"
	case PolicyAlwaysApply:
		return "always"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("PositionPolicy(%d)", int(p))
	}
}

// ParsePositionPolicy parses "validate", "always" or "strict". An empty
// string yields PolicyValidate.
func ParsePositionPolicy(s string) (PositionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "validate":
		return PolicyValidate, nil
	case "always":
		return PolicyAlwaysApply, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyValidate, fmt.Errorf("unknown position policy %q (want validate, always or strict)", s)
	}
}

// PositionDecision records why a stored position was or was not applied.
type PositionDecision string

const (
	PositionAbsent     PositionDecision = "absent"
	PositionApplied    PositionDecision = "applied"
	PositionUnverified PositionDecision = "unverified"
	PositionRejected   PositionDecision = "rejected"
)

// Applied reports whether the decision results in an explicit position.
func (d PositionDecision) Applied() bool {
	return d == PositionApplied || d == PositionUnverified
}

// ApplyReport describes what Restorer.Plan did with a Settings value.
type ApplyReport struct {
	Position    PositionDecision `json:"position" yaml:"position"`
	DisplayHit  *Rect            `json:"display,omitempty" yaml:"display,omitempty"`
	SizeApplied bool             `json:"size_applied" yaml:"size_applied"`
	// DisplayError is set when enumeration failed.
	DisplayError string `json:"display_error,omitempty" yaml:"display_error,omitempty"`
}

// Restorer applies stored settings to a window configuration.
type Restorer struct {
	// Displays may be nil when the platform cannot enumerate displays.
	Displays DisplayEnumerator
	Policy   PositionPolicy
	Logger   *slog.Logger
}

// Apply adds the stored position and size to cfg and returns the result.
func (r *Restorer) Apply(s Settings, cfg WindowConfig) WindowConfig {
	out, _ := r.Plan(s, cfg)
	return out
}

// Plan is Apply plus a report of each decision taken.
func (r *Restorer) Plan(s Settings, cfg WindowConfig) (WindowConfig, ApplyReport) {
	logger := r.logger()
	report := ApplyReport{Position: PositionAbsent}

	if pos, ok := s.InnerPosition(); ok {
		decision, hit, enumErr := r.checkPosition(pos)
		report.Position = decision
		report.DisplayHit = hit
		if enumErr != nil {
			report.DisplayError = enumErr.Error()
		}
		switch decision {
		case PositionApplied, PositionUnverified:
			cfg = cfg.WithPosition(PhysicalPosition{X: float64(pos.X), Y: float64(pos.Y)})
			logger.Debug("restoring window position", "x", pos.X, "y", pos.Y, "decision", decision)
		default:
			logger.Info("stored window position dropped", "x", pos.X, "y", pos.Y, "decision", decision, "policy", r.Policy)
		}
	}

	if size, ok := s.InnerSize(); ok {
		cfg = cfg.WithInnerSize(LogicalSize{Width: float64(size.X), Height: float64(size.Y)})
		report.SizeApplied = true
		logger.Debug("restoring window size", "width", size.X, "height", size.Y)
	}

	return cfg, report
}

func (r *Restorer) checkPosition(pos Pos2) (PositionDecision, *Rect, error) {
	if r.Policy == PolicyAlwaysApply {
		return PositionUnverified, nil, nil
	}

	displays, err := r.enumerate()
	if err != nil {
		if r.Policy == PolicyStrict {
			return PositionRejected, nil, err
		}
		return PositionUnverified, nil, err
	}

	x, y := float64(pos.X), float64(pos.Y)
	for i := range displays {
		if displays[i].Contains(x, y) {
			hit := displays[i]
			return PositionApplied, &hit, nil
		}
	}
	return PositionRejected, nil, nil
}

func (r *Restorer) enumerate() ([]Rect, error) {
	if r.Displays == nil {
		return nil, ErrDisplaysUnavailable
	}
	return r.Displays.Displays()
}

func (r *Restorer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Apply restores s onto cfg with PolicyValidate against the given displays.
// displays may be nil.
func (s Settings) Apply(cfg WindowConfig, displays DisplayEnumerator) WindowConfig {
	r := Restorer{Displays: displays, Policy: PolicyValidate}
	return r.Apply(s, cfg)
}
