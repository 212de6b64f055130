// Package tool defines pluggable canvas tools and the dispatcher that
// routes canvas events to the active one.
package tool

import (
	"paintfield/internal/cursor"
	"paintfield/internal/input"
	"paintfield/internal/signal"
	"paintfield/internal/tiles"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
)

// Result tells the caller whether an event was consumed.
type Result bool

const (
	Rejected Result = false
	Accepted Result = true
)

// Accepted reports whether the event was consumed.
func (r Result) Accepted() bool { return bool(r) }

// EventType identifies a tool event.
type EventType int

const (
	MouseMove EventType = iota
	MousePress
	MouseRelease
	MouseDoubleClick
	TabletMove
	TabletPress
	TabletRelease
	KeyPress
	KeyRelease
)

func (t EventType) String() string {
	return [...]string{
		"mouse-move", "mouse-press", "mouse-release", "mouse-double-click",
		"tablet-move", "tablet-press", "tablet-release",
		"key-press", "key-release",
	}[t]
}

// IsTablet reports whether t is one of the tablet event types.
func (t EventType) IsTablet() bool {
	return t >= TabletMove && t <= TabletRelease
}

// Event is what a tool sees: positions are in scene coordinates.
type Event struct {
	Type      EventType
	ScenePos  geometry.Point2D
	GlobalPos geometry.Point2D
	Data      input.TabletData // Data.Pos equals ScenePos for pointer events
	Key       fyne.KeyName
	Modifiers fyne.KeyModifier
}

// Tool is a pluggable canvas tool. A tool is owned by the dispatcher it is
// installed in and is closed when replaced.
type Tool interface {
	// HandleEvent processes ev and reports whether it was consumed.
	HandleEvent(ev Event) Result
	// Cursor is the cursor to show over the canvas.
	Cursor() cursor.Shape
	// CustomCursorEnabled reports whether the tool draws its own cursor.
	CustomCursorEnabled() bool
	// CustomCursorRect returns the scene area covered by the custom cursor at pos.
	CustomCursorRect(pos geometry.Point2D) geometry.Rect
	// UpdateRequested fires when the tool changed what some tiles should show.
	UpdateRequested() *signal.Signal[tiles.Invalidation]
	// CursorChanged fires when Cursor changes.
	CursorChanged() *signal.Signal[cursor.Shape]
	// Close releases the tool's resources.
	Close()
}

// Base implements the bookkeeping parts of Tool. Embed it and override
// HandleEvent and whatever else the tool needs.
type Base struct {
	shape         cursor.Shape
	updates       signal.Signal[tiles.Invalidation]
	cursorChanged signal.Signal[cursor.Shape]
}

// Cursor returns the current cursor shape.
func (b *Base) Cursor() cursor.Shape { return b.shape }

// SetCursor changes the cursor and notifies listeners if it differs.
func (b *Base) SetCursor(s cursor.Shape) {
	if b.shape == s {
		return
	}
	b.shape = s
	b.cursorChanged.Emit(s)
}

// CustomCursorEnabled returns false.
func (b *Base) CustomCursorEnabled() bool { return false }

// CustomCursorRect returns an empty rectangle.
func (b *Base) CustomCursorRect(geometry.Point2D) geometry.Rect { return geometry.Rect{} }

// UpdateRequested returns the update request signal.
func (b *Base) UpdateRequested() *signal.Signal[tiles.Invalidation] { return &b.updates }

// CursorChanged returns the cursor change signal.
func (b *Base) CursorChanged() *signal.Signal[cursor.Shape] { return &b.cursorChanged }

// RequestUpdate asks the view to re-render inv.
func (b *Base) RequestUpdate(inv tiles.Invalidation) {
	if inv.IsEmpty() {
		return
	}
	b.updates.Emit(inv)
}

// Close does nothing.
func (b *Base) Close() {}
