// Package input normalizes mouse and tablet pointer events into one event
// type carrying position, pressure, tilt and rotation.
package input

import (
	"math"

	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Kind is the phase of a pointer event.
type Kind int

const (
	Move Kind = iota
	Press
	Release
	DoubleClick
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case DoubleClick:
		return "double-click"
	default:
		return "move"
	}
}

// Source is the device an event came from.
type Source int

const (
	Mouse Source = iota
	Tablet
)

// TabletData is the stylus state at one sample.
type TabletData struct {
	Pos                geometry.Point2D // global position, or scene position once mapped
	Pressure           float64          // 0.0 - 1.0
	Rotation           float64          // barrel rotation, degrees
	TangentialPressure float64
	Tilt               geometry.Point2D // x and y tilt, degrees
}

// Event is a normalized pointer event.
type Event struct {
	Kind      Kind
	Source    Source
	Button    desktop.MouseButton
	Pos       geometry.PointInt // view (widget) coordinates
	GlobalPos geometry.Point2D  // window coordinates, sub-pixel for tablets
	Data      TabletData
	Modifiers fyne.KeyModifier
}

// Primary reports whether the event involves the primary button. Tablet
// events always count as primary.
func (e Event) Primary() bool {
	return e.Source == Tablet || e.Button&desktop.MouseButtonPrimary != 0
}

// Normalizer turns device events into Events. It remembers the synthetic
// mouse pressure between events.
type Normalizer struct {
	mousePressure float64
}

// Mouse builds an event for a mouse without a pressure sensor. Pressure is
// 1 from press to release and 0 otherwise.
func (n *Normalizer) Mouse(kind Kind, button desktop.MouseButton, pos geometry.PointInt,
	globalPos geometry.Point2D, mods fyne.KeyModifier) Event {
	switch kind {
	case Press:
		n.mousePressure = 1
	case Release:
		n.mousePressure = 0
	}
	return Event{
		Kind:      kind,
		Source:    Mouse,
		Button:    button,
		Pos:       pos,
		GlobalPos: globalPos,
		Data: TabletData{
			Pos:      globalPos,
			Pressure: n.mousePressure,
		},
		Modifiers: mods,
	}
}

// Tablet builds an event from a stylus sample. Pressure is clamped to [0,1].
func (n *Normalizer) Tablet(kind Kind, pos geometry.PointInt, globalPos geometry.Point2D,
	data TabletData, mods fyne.KeyModifier) Event {
	data.Pos = globalPos
	data.Pressure = math.Max(0, math.Min(1, data.Pressure))
	return Event{
		Kind:      kind,
		Source:    Tablet,
		Button:    desktop.MouseButtonPrimary,
		Pos:       pos,
		GlobalPos: globalPos,
		Data:      data,
		Modifiers: mods,
	}
}

// FromDesktop adapts a fyne desktop mouse event.
func (n *Normalizer) FromDesktop(kind Kind, ev *desktop.MouseEvent) Event {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	global := geometry.NewPoint2D(float64(ev.AbsolutePosition.X), float64(ev.AbsolutePosition.Y))
	return n.Mouse(kind, ev.Button, pos.Round(), global, ev.Modifier)
}

// ScenePos maps the event into scene coordinates. Tablet events keep the
// sub-pixel part of the global position.
func (e Event) ScenePos(toScene geometry.AffineTransform) geometry.Point2D {
	p := e.Pos.ToFloat()
	if e.Source == Tablet {
		frac := e.GlobalPos.Sub(e.GlobalPos.Round().ToFloat())
		p = p.Add(frac)
	}
	return toScene.Apply(p)
}

// ToScene returns the tablet data with Pos mapped into scene coordinates.
func (e Event) ToScene(toScene geometry.AffineTransform) TabletData {
	d := e.Data
	d.Pos = e.ScenePos(toScene)
	return d
}
