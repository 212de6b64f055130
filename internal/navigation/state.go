// Package navigation holds the canvas view navigation (scale, rotation,
// translation, mirroring), the view transforms derived from it, and the
// drag gestures that edit it.
package navigation

import (
	"math"

	"paintfield/internal/signal"
	"paintfield/pkg/geometry"
)

// Zoom limits used by stepped zooming (wheel and toolbar).
// Drag scaling is intentionally not clamped.
const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// Navigation is the user controlled part of the view transform.
type Navigation struct {
	Scale       float64           // 1 = actual pixels
	Rotation    float64           // degrees, clockwise on screen
	Translation geometry.PointInt // pixels, relative to the centered position
	Mirrored    bool              // flip horizontally
}

// Identity returns the navigation that shows the scene centered at 100%.
func Identity() Navigation {
	return Navigation{Scale: 1}
}

// State owns the current navigation and notifies listeners on change.
type State struct {
	nav       Navigation
	memorized Navigation

	ScaleChanged       signal.Signal[float64]
	RotationChanged    signal.Signal[float64]
	TranslationChanged signal.Signal[geometry.PointInt]
	MirroredChanged    signal.Signal[bool]

	// Changed fires after the specific signals above, once per update.
	Changed signal.Signal[Navigation]
}

// NewState creates a state holding the identity navigation.
func NewState() *State {
	return &State{nav: Identity(), memorized: Identity()}
}

// Navigation returns a copy of the current navigation.
func (s *State) Navigation() Navigation { return s.nav }

// Scale returns the current scale.
func (s *State) Scale() float64 { return s.nav.Scale }

// Rotation returns the current rotation in degrees.
func (s *State) Rotation() float64 { return s.nav.Rotation }

// Translation returns the current translation.
func (s *State) Translation() geometry.PointInt { return s.nav.Translation }

// Mirrored reports whether the view is flipped horizontally.
func (s *State) Mirrored() bool { return s.nav.Mirrored }

// SetScale sets the scale. Nothing fires if the value is unchanged.
func (s *State) SetScale(v float64) {
	if s.nav.Scale == v {
		return
	}
	s.nav.Scale = v
	s.ScaleChanged.Emit(v)
	s.Changed.Emit(s.nav)
}

// SetRotation sets the rotation in degrees. Nothing fires if the value is unchanged.
func (s *State) SetRotation(v float64) {
	if s.nav.Rotation == v {
		return
	}
	s.nav.Rotation = v
	s.RotationChanged.Emit(v)
	s.Changed.Emit(s.nav)
}

// SetTranslation sets the translation. Nothing fires if the value is unchanged.
func (s *State) SetTranslation(v geometry.PointInt) {
	if s.nav.Translation == v {
		return
	}
	s.nav.Translation = v
	s.TranslationChanged.Emit(v)
	s.Changed.Emit(s.nav)
}

// SetMirrored sets horizontal mirroring. Nothing fires if the value is unchanged.
func (s *State) SetMirrored(v bool) {
	if s.nav.Mirrored == v {
		return
	}
	s.nav.Mirrored = v
	s.MirroredChanged.Emit(v)
	s.Changed.Emit(s.nav)
}

// Set replaces the whole navigation. The specific signals fire for the
// fields that differ, then Changed fires once.
func (s *State) Set(n Navigation) {
	old := s.nav
	if old == n {
		return
	}
	s.nav = n
	if old.Scale != n.Scale {
		s.ScaleChanged.Emit(n.Scale)
	}
	if old.Rotation != n.Rotation {
		s.RotationChanged.Emit(n.Rotation)
	}
	if old.Translation != n.Translation {
		s.TranslationChanged.Emit(n.Translation)
	}
	if old.Mirrored != n.Mirrored {
		s.MirroredChanged.Emit(n.Mirrored)
	}
	s.Changed.Emit(n)
}

// Memorize stores the current navigation. A later Memorize overwrites it.
func (s *State) Memorize() {
	s.memorized = s.nav
}

// Restore applies the memorized navigation.
func (s *State) Restore() {
	s.Set(s.memorized)
}

// ClampZoom limits v to [MinZoom, MaxZoom].
func ClampZoom(v float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, v))
}
