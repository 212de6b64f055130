package tool

import (
	"paintfield/internal/cursor"
	"paintfield/internal/input"
	"paintfield/internal/layer"
	"paintfield/internal/signal"
	"paintfield/internal/tiles"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
)

// Dispatcher owns the active tool and forwards canvas events to it.
// Navigation gestures are handled before events reach the dispatcher.
type Dispatcher struct {
	tool  Tool
	conns signal.Group

	cursor         cursor.Shape
	prevCursorRect geometry.RectInt
	repaintRect    geometry.RectInt

	// UpdateRequested relays update requests of the active tool.
	UpdateRequested signal.Signal[tiles.Invalidation]
	// CursorChanged fires with the cursor the view should show for the tool.
	CursorChanged signal.Signal[cursor.Shape]
}

// NewDispatcher creates a dispatcher with no tool.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Tool returns the active tool, or nil.
func (d *Dispatcher) Tool() Tool {
	return d.tool
}

// Drawer returns the active tool as a layer drawer, or nil if it does not
// draw any layers itself.
func (d *Dispatcher) Drawer() layer.Drawer {
	if dr, ok := d.tool.(layer.Drawer); ok {
		return dr
	}
	return nil
}

// Cursor returns the cursor for the active tool.
func (d *Dispatcher) Cursor() cursor.Shape {
	return d.cursor
}

// SetTool installs t, closing the previous tool. A nil tool leaves the
// dispatcher empty.
func (d *Dispatcher) SetTool(t Tool) {
	if t == d.tool {
		return
	}

	d.conns.DisconnectAll()
	if d.tool != nil {
		d.tool.Close()
	}
	d.tool = t
	d.addRepaintRect(d.prevCursorRect)
	d.prevCursorRect = geometry.RectInt{}

	if t == nil {
		d.setCursor(cursor.Default)
		return
	}

	d.conns.Add(t.UpdateRequested().Connect(func(inv tiles.Invalidation) {
		d.UpdateRequested.Emit(inv)
	}))
	if t.CustomCursorEnabled() {
		d.setCursor(cursor.Hidden)
	} else {
		d.conns.Add(t.CursorChanged().Connect(d.setCursor))
		d.setCursor(t.Cursor())
	}
}

func (d *Dispatcher) setCursor(s cursor.Shape) {
	if d.cursor == s {
		return
	}
	d.cursor = s
	d.CursorChanged.Emit(s)
}

// Close closes the active tool and leaves the dispatcher empty.
func (d *Dispatcher) Close() {
	d.SetTool(nil)
}

// DispatchPointer sends a pointer event to the tool. Mouse events are
// offered as tablet events first and as mouse events if the tool rejects
// them; double clicks only exist as mouse events.
func (d *Dispatcher) DispatchPointer(ev input.Event, toScene geometry.AffineTransform) Result {
	if d.tool == nil {
		return Rejected
	}
	if ev.Source == input.Tablet {
		return d.send(tabletType(ev.Kind), ev, toScene)
	}
	if ev.Kind == input.DoubleClick {
		return d.send(MouseDoubleClick, ev, toScene)
	}
	if d.send(tabletType(ev.Kind), ev, toScene).Accepted() {
		return Accepted
	}
	return d.send(mouseType(ev.Kind), ev, toScene)
}

func (d *Dispatcher) send(typ EventType, ev input.Event, toScene geometry.AffineTransform) Result {
	data := ev.ToScene(toScene)
	return d.tool.HandleEvent(Event{
		Type:      typ,
		ScenePos:  data.Pos,
		GlobalPos: ev.GlobalPos,
		Data:      data,
		Modifiers: ev.Modifiers,
	})
}

// DispatchKey sends a key press or release to the tool.
func (d *Dispatcher) DispatchKey(pressed bool, key fyne.KeyName, mods fyne.KeyModifier) Result {
	if d.tool == nil {
		return Rejected
	}
	typ := KeyRelease
	if pressed {
		typ = KeyPress
	}
	return d.tool.HandleEvent(Event{Type: typ, Key: key, Modifiers: mods})
}

// MoveCustomCursor records that the custom cursor moved to scenePos. The
// old and new cursor areas, mapped to view space, are added to the pending
// repaint rectangle.
func (d *Dispatcher) MoveCustomCursor(scenePos geometry.Point2D, fromScene geometry.AffineTransform) {
	if d.tool == nil || !d.tool.CustomCursorEnabled() {
		return
	}
	d.addRepaintRect(d.prevCursorRect)
	rect := fromScene.ApplyRect(d.tool.CustomCursorRect(scenePos))
	d.prevCursorRect = rect
	d.addRepaintRect(rect)
}

// CustomCursorRect returns the view area of the custom cursor last drawn.
func (d *Dispatcher) CustomCursorRect() geometry.RectInt {
	return d.prevCursorRect
}

func (d *Dispatcher) addRepaintRect(r geometry.RectInt) {
	d.repaintRect = d.repaintRect.Union(r)
}

// TakeRepaintRect returns the pending repaint rectangle and clears it.
func (d *Dispatcher) TakeRepaintRect() geometry.RectInt {
	r := d.repaintRect
	d.repaintRect = geometry.RectInt{}
	return r
}

func tabletType(k input.Kind) EventType {
	switch k {
	case input.Press:
		return TabletPress
	case input.Release:
		return TabletRelease
	default:
		return TabletMove
	}
}

func mouseType(k input.Kind) EventType {
	switch k {
	case input.Press:
		return MousePress
	case input.Release:
		return MouseRelease
	case input.DoubleClick:
		return MouseDoubleClick
	default:
		return MouseMove
	}
}
