package tool

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintfield/internal/cursor"
	"paintfield/internal/input"
	"paintfield/internal/layer"
	"paintfield/internal/tiles"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// recordingTool accepts the event types listed in accept and records everything.
type recordingTool struct {
	Base
	accept map[EventType]bool
	events []Event
	closed int
	custom bool
}

func newRecordingTool(accept ...EventType) *recordingTool {
	t := &recordingTool{accept: map[EventType]bool{}}
	for _, a := range accept {
		t.accept[a] = true
	}
	return t
}

func (t *recordingTool) HandleEvent(ev Event) Result {
	t.events = append(t.events, ev)
	return Result(t.accept[ev.Type])
}

func (t *recordingTool) CustomCursorEnabled() bool { return t.custom }

func (t *recordingTool) CustomCursorRect(pos geometry.Point2D) geometry.Rect {
	return geometry.NewRect(pos.X-2, pos.Y-2, 4, 4)
}

func (t *recordingTool) Close() { t.closed++ }

func (t *recordingTool) types() []EventType {
	var out []EventType
	for _, e := range t.events {
		out = append(out, e.Type)
	}
	return out
}

func mousePress(pos geometry.PointInt) input.Event {
	var n input.Normalizer
	return n.Mouse(input.Press, desktop.MouseButtonPrimary, pos, pos.ToFloat(), 0)
}

func TestNoToolRejects(t *testing.T) {
	d := NewDispatcher()
	assert.False(t, d.DispatchPointer(mousePress(geometry.Pt(1, 1)), geometry.Identity()).Accepted())
	assert.False(t, d.DispatchKey(true, fyne.KeySpace, 0).Accepted())
	d.MoveCustomCursor(geometry.Point2D{}, geometry.Identity())
	assert.True(t, d.TakeRepaintRect().IsEmpty())
}

func TestTabletFirstThenMouse(t *testing.T) {
	d := NewDispatcher()
	rt := newRecordingTool(MousePress)
	d.SetTool(rt)

	res := d.DispatchPointer(mousePress(geometry.Pt(10, 20)), geometry.Translation(-10, -10))
	assert.True(t, res.Accepted())
	assert.Equal(t, []EventType{TabletPress, MousePress}, rt.types())
	assert.Equal(t, geometry.NewPoint2D(0, 10), rt.events[1].ScenePos)
	assert.Equal(t, 1.0, rt.events[0].Data.Pressure)
}

func TestTabletAcceptedSkipsMouse(t *testing.T) {
	d := NewDispatcher()
	rt := newRecordingTool(TabletPress)
	d.SetTool(rt)
	d.DispatchPointer(mousePress(geometry.Pt(1, 1)), geometry.Identity())
	assert.Equal(t, []EventType{TabletPress}, rt.types())
}

func TestRejectedPropagates(t *testing.T) {
	d := NewDispatcher()
	rt := newRecordingTool()
	d.SetTool(rt)
	assert.False(t, d.DispatchPointer(mousePress(geometry.Pt(1, 1)), geometry.Identity()).Accepted())

	var n input.Normalizer
	dbl := n.Mouse(input.DoubleClick, desktop.MouseButtonPrimary, geometry.Pt(1, 1), geometry.Point2D{}, 0)
	d.DispatchPointer(dbl, geometry.Identity())
	assert.Equal(t, MouseDoubleClick, rt.events[len(rt.events)-1].Type)

	tab := n.Tablet(input.Move, geometry.Pt(1, 1), geometry.NewPoint2D(1, 1), input.TabletData{Pressure: 0.4}, 0)
	d.DispatchPointer(tab, geometry.Identity())
	last := rt.events[len(rt.events)-1]
	assert.Equal(t, TabletMove, last.Type)
	assert.Equal(t, 0.4, last.Data.Pressure)
}

func TestKeyEvents(t *testing.T) {
	d := NewDispatcher()
	rt := newRecordingTool(KeyPress)
	d.SetTool(rt)
	assert.True(t, d.DispatchKey(true, fyne.KeyZ, fyne.KeyModifierControl).Accepted())
	assert.False(t, d.DispatchKey(false, fyne.KeyZ, 0).Accepted())
	assert.Equal(t, fyne.KeyZ, rt.events[0].Key)
	assert.Equal(t, fyne.KeyModifierControl, rt.events[0].Modifiers)
}

func TestReplaceToolTearsDownOnce(t *testing.T) {
	d := NewDispatcher()
	var relayed int
	d.UpdateRequested.Connect(func(tiles.Invalidation) { relayed++ })

	old := newRecordingTool()
	d.SetTool(old)
	d.SetTool(old) // reinstalling the same tool is a no-op
	assert.Zero(t, old.closed)

	next := newRecordingTool()
	d.SetTool(next)
	assert.Equal(t, 1, old.closed)
	assert.Zero(t, old.UpdateRequested().Len())
	assert.Zero(t, old.CursorChanged().Len())

	old.RequestUpdate(tiles.ForKeys(layer.NewKeySet(geometry.Pt(0, 0))))
	assert.Zero(t, relayed)
	next.RequestUpdate(tiles.ForKeys(layer.NewKeySet(geometry.Pt(0, 0))))
	assert.Equal(t, 1, relayed)

	d.Close()
	assert.Equal(t, 1, next.closed)
	assert.Nil(t, d.Tool())
}

func TestCursorFollowsTool(t *testing.T) {
	d := NewDispatcher()
	var seen []cursor.Shape
	d.CursorChanged.Connect(func(s cursor.Shape) { seen = append(seen, s) })

	rt := newRecordingTool()
	rt.SetCursor(cursor.Crosshair)
	d.SetTool(rt)
	rt.SetCursor(cursor.Arrow)
	assert.Equal(t, cursor.Arrow, d.Cursor())

	custom := newRecordingTool()
	custom.custom = true
	custom.SetCursor(cursor.Crosshair)
	d.SetTool(custom)
	assert.Equal(t, cursor.Hidden, d.Cursor())
	custom.SetCursor(cursor.Arrow) // ignored while the tool draws its own cursor
	assert.Equal(t, cursor.Hidden, d.Cursor())

	assert.Equal(t, []cursor.Shape{cursor.Crosshair, cursor.Arrow, cursor.Hidden}, seen)
}

func TestCustomCursorRepaintRect(t *testing.T) {
	d := NewDispatcher()
	rt := newRecordingTool()
	rt.custom = true
	d.SetTool(rt)

	fromScene := geometry.Scale(2, 2)
	d.MoveCustomCursor(geometry.NewPoint2D(10, 10), fromScene)
	assert.Equal(t, geometry.NewRectInt(16, 16, 8, 8), d.TakeRepaintRect())

	d.MoveCustomCursor(geometry.NewPoint2D(20, 10), fromScene)
	// Old area is erased and the new one drawn.
	assert.Equal(t, geometry.NewRectInt(16, 16, 28, 8), d.TakeRepaintRect())
	assert.True(t, d.TakeRepaintRect().IsEmpty())
}

func TestPencilPaints(t *testing.T) {
	target := layer.NewLayer("ink")
	p := NewPencil(target, color.RGBA{A: 255}, 4)
	d := NewDispatcher()
	var requested layer.KeySet
	d.UpdateRequested.Connect(func(inv tiles.Invalidation) {
		if requested == nil {
			requested = layer.KeySet{}
		}
		requested.AddAll(inv.Keys)
	})
	d.SetTool(p)
	assert.Equal(t, cursor.Hidden, d.Cursor())

	var n input.Normalizer
	press := n.Mouse(input.Press, desktop.MouseButtonPrimary, geometry.Pt(62, 10), geometry.NewPoint2D(62, 10), 0)
	assert.True(t, d.DispatchPointer(press, geometry.Identity()).Accepted())
	move := n.Mouse(input.Move, desktop.MouseButtonPrimary, geometry.Pt(70, 10), geometry.NewPoint2D(70, 10), 0)
	assert.True(t, d.DispatchPointer(move, geometry.Identity()).Accepted())
	release := n.Mouse(input.Release, desktop.MouseButtonPrimary, geometry.Pt(70, 10), geometry.NewPoint2D(70, 10), 0)
	assert.True(t, d.DispatchPointer(release, geometry.Identity()).Accepted())

	assert.True(t, requested.Has(geometry.Pt(0, 0)))
	assert.True(t, requested.Has(geometry.Pt(1, 0)))
	require.True(t, target.Surface.Contains(geometry.Pt(1, 0)))
	assert.Equal(t, uint8(255), target.Surface.Tile(geometry.Pt(1, 0)).RGBAAt(70-64, 10).A)

	hover := n.Mouse(input.Move, 0, geometry.Pt(200, 200), geometry.NewPoint2D(200, 200), 0)
	assert.False(t, d.DispatchPointer(hover, geometry.Identity()).Accepted())
}

func TestHandPans(t *testing.T) {
	nav := &fakeNav{t: geometry.Pt(5, 5)}
	h := NewHand(nav)
	d := NewDispatcher()
	d.SetTool(h)
	assert.Equal(t, cursor.OpenHand, d.Cursor())

	// Scene mapping must not matter, the hand works in window coordinates.
	toScene := geometry.Scale(0.5, 0.5)
	var n input.Normalizer
	d.DispatchPointer(n.Mouse(input.Press, desktop.MouseButtonPrimary, geometry.Pt(100, 100), geometry.NewPoint2D(100, 100), 0), toScene)
	assert.Equal(t, cursor.ClosedHand, d.Cursor())
	d.DispatchPointer(n.Mouse(input.Move, desktop.MouseButtonPrimary, geometry.Pt(130, 90), geometry.NewPoint2D(130, 90), 0), toScene)
	assert.Equal(t, geometry.Pt(35, -5), nav.t)
	d.DispatchPointer(n.Mouse(input.Release, desktop.MouseButtonPrimary, geometry.Pt(130, 90), geometry.NewPoint2D(130, 90), 0), toScene)
	assert.Equal(t, cursor.OpenHand, d.Cursor())
}

type fakeNav struct{ t geometry.PointInt }

func (f *fakeNav) Translation() geometry.PointInt     { return f.t }
func (f *fakeNav) SetTranslation(p geometry.PointInt) { f.t = p }
