package navigation

import (
	"math"

	"paintfield/internal/cursor"
	"paintfield/internal/keychord"
	"paintfield/pkg/geometry"
)

// scaleDivisor is the vertical drag distance, in pixels, that doubles or halves the scale.
const scaleDivisor = 100.0

// Mode is the active drag navigation gesture.
type Mode int

const (
	Idle Mode = iota
	Translating
	Scaling
	Rotating
)

func (m Mode) String() string {
	switch m {
	case Translating:
		return "translating"
	case Scaling:
		return "scaling"
	case Rotating:
		return "rotating"
	default:
		return "idle"
	}
}

// gesture is the scratch state of one drag, valid between begin and end.
type gesture struct {
	mode     Mode
	origin   geometry.PointInt
	backup   Navigation
	override *cursor.Override
}

// Controller turns chord-gated pointer drags into navigation changes.
// Every gesture keeps the scene point under the pointer at gesture start fixed.
type Controller struct {
	state      *State
	keys       *keychord.Tracker
	bindings   keychord.Bindings
	cursors    *cursor.Stack
	viewCenter func() geometry.PointInt

	g gesture
}

// NewController creates an idle controller. viewCenter is queried on every
// move so resizes during a gesture are honoured.
func NewController(state *State, keys *keychord.Tracker, bindings keychord.Bindings,
	cursors *cursor.Stack, viewCenter func() geometry.PointInt) *Controller {
	return &Controller{
		state:      state,
		keys:       keys,
		bindings:   bindings,
		cursors:    cursors,
		viewCenter: viewCenter,
	}
}

// Mode returns the active gesture.
func (c *Controller) Mode() Mode {
	return c.g.mode
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.g.mode != Idle
}

// TryBegin starts a gesture if a navigation chord is held. Chords are
// checked in the order scale, rotation, translation; the first match wins.
func (c *Controller) TryBegin(pos geometry.PointInt) bool {
	if c.Active() {
		return true
	}
	switch {
	case c.keys.Match(c.bindings.Scale):
		c.begin(Scaling, pos, cursor.VResize)
	case c.keys.Match(c.bindings.Rotation):
		c.begin(Rotating, pos, cursor.ClosedHand)
	case c.keys.Match(c.bindings.Translation):
		c.begin(Translating, pos, cursor.ClosedHand)
	default:
		return false
	}
	return true
}

func (c *Controller) begin(mode Mode, pos geometry.PointInt, shape cursor.Shape) {
	c.g = gesture{
		mode:   mode,
		origin: pos,
		backup: c.state.Navigation(),
	}
	if c.cursors != nil {
		c.g.override = c.cursors.Push(shape)
	}
}

// Continue updates the navigation for a pointer move. It returns false
// when no gesture is active and the move should go elsewhere.
func (c *Controller) Continue(pos geometry.PointInt) bool {
	switch c.g.mode {
	case Translating:
		c.continueTranslation(pos)
	case Scaling:
		c.continueScaling(pos)
	case Rotating:
		c.continueRotation(pos)
	default:
		return false
	}
	return true
}

// End finishes any gesture. The navigation reached so far is kept.
// It reports whether a gesture was active.
func (c *Controller) End() bool {
	active := c.Active()
	c.g.override.Release()
	c.g = gesture{}
	return active
}

// Cancel ends the gesture and puts back the navigation it started from.
func (c *Controller) Cancel() {
	if !c.Active() {
		return
	}
	backup := c.g.backup
	c.End()
	c.state.Set(backup)
}

func (c *Controller) continueTranslation(pos geometry.PointInt) {
	c.state.SetTranslation(c.g.backup.Translation.Add(pos.Sub(c.g.origin)))
}

func (c *Controller) continueScaling(pos geometry.PointInt) {
	delta := pos.Sub(c.g.origin)

	ratio := math.Exp2(-float64(delta.Y) / scaleDivisor)
	offset := c.g.origin.Sub(c.viewCenter())
	translation := c.g.backup.Translation.Sub(offset).MulF(ratio).Add(offset)

	n := c.state.Navigation()
	n.Scale = c.g.backup.Scale * ratio
	n.Translation = translation
	c.state.Set(n)
}

func (c *Controller) continueRotation(pos geometry.PointInt) {
	center := c.viewCenter()
	originalDelta := c.g.origin.Sub(center)
	delta := pos.Sub(center)
	if delta.IsZero() {
		return
	}

	angleDelta := pointerAngle(delta) - pointerAngle(originalDelta)

	// originalDelta is also the pivot offset of the gesture origin.
	rotated := geometry.RotationDegrees(angleDelta).Apply(c.g.backup.Translation.Sub(originalDelta).ToFloat())
	translation := rotated.Round().Add(originalDelta)

	n := c.state.Navigation()
	n.Rotation = c.g.backup.Rotation + angleDelta
	n.Translation = translation
	c.state.Set(n)
}

// pointerAngle is the screen angle of d in degrees, 0 pointing down and
// growing clockwise.
func pointerAngle(d geometry.PointInt) float64 {
	return -math.Atan2(float64(d.X), float64(d.Y)) * 180.0 / math.Pi
}
