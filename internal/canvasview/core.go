// Package canvasview ties navigation, key chords, tool dispatch and tile
// repainting together behind the event interface of one canvas view.
package canvasview

import (
	"math"

	"paintfield/internal/cursor"
	"paintfield/internal/input"
	"paintfield/internal/keychord"
	"paintfield/internal/layer"
	"paintfield/internal/navigation"
	"paintfield/internal/signal"
	"paintfield/internal/tiles"
	"paintfield/internal/tool"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// fitMargin leaves a small border around the scene when fitting to the view.
const fitMargin = 0.95

// Core is the toolkit independent part of a canvas view. It is not safe
// for concurrent use; feed it events from one goroutine.
type Core struct {
	doc       *layer.Document
	viewport  tiles.Viewport
	nav       *navigation.State
	keys      *keychord.Tracker
	drag      *navigation.Controller
	tools     *tool.Dispatcher
	scheduler *tiles.Scheduler
	cursors   *cursor.Stack
	input     input.Normalizer

	sceneSize  geometry.SizeInt
	viewSize   geometry.SizeInt
	viewCenter geometry.PointInt
	transforms navigation.Transforms

	conns signal.Group

	// RepaintRequested fires with the view area to repaint. An empty
	// rectangle means the whole view.
	RepaintRequested signal.Signal[geometry.RectInt]
	// FocusRequested fires when the view should take keyboard focus.
	FocusRequested signal.Signal[struct{}]
	// TransformsChanged fires after the view transforms were recomputed.
	TransformsChanged signal.Signal[navigation.Transforms]
}

// New creates a view core for doc that pushes tiles to vp. bindings are the
// navigation chords, read once here. cursors receives gesture overrides;
// nil creates a private stack.
func New(doc *layer.Document, vp tiles.Viewport, bindings keychord.Bindings, cursors *cursor.Stack) *Core {
	if cursors == nil {
		cursors = cursor.NewStack()
	}
	c := &Core{
		doc:       doc,
		viewport:  vp,
		nav:       navigation.NewState(),
		keys:      keychord.NewTracker(),
		tools:     tool.NewDispatcher(),
		scheduler: tiles.NewScheduler(vp),
		cursors:   cursors,
		sceneSize: doc.Size,
	}
	c.drag = navigation.NewController(c.nav, c.keys, bindings, cursors, c.ViewCenter)
	c.transforms = navigation.ComputeTransforms(c.nav.Navigation(), c.sceneSize, c.viewCenter)

	c.conns.Add(c.nav.Changed.Connect(func(navigation.Navigation) { c.updateTransforms() }))
	c.conns.Add(doc.TilesUpdated.Connect(c.UpdateTiles))
	c.conns.Add(c.tools.UpdateRequested.Connect(c.Update))
	return c
}

// Navigation returns the navigation state of the view.
func (c *Core) Navigation() *navigation.State { return c.nav }

// Transforms returns the current scene/view transforms.
func (c *Core) Transforms() navigation.Transforms { return c.transforms }

// ViewCenter returns the center of the view in view coordinates.
func (c *Core) ViewCenter() geometry.PointInt { return c.viewCenter }

// ViewSize returns the view size.
func (c *Core) ViewSize() geometry.SizeInt { return c.viewSize }

// SceneSize returns the document size the transforms are built for.
func (c *Core) SceneSize() geometry.SizeInt { return c.sceneSize }

// Mode returns the active drag navigation gesture.
func (c *Core) Mode() navigation.Mode { return c.drag.Mode() }

// Keys returns the key tracker.
func (c *Core) Keys() *keychord.Tracker { return c.keys }

// Document returns the displayed document.
func (c *Core) Document() *layer.Document { return c.doc }

// ViewportReady initializes the viewport: document size, transform and
// every tile of the document area.
func (c *Core) ViewportReady() {
	c.viewport.SetDocumentSize(c.sceneSize)
	c.updateTransforms()

	keys := layer.KeysForRect(geometry.NewRectInt(0, 0, c.sceneSize.Width, c.sceneSize.Height))
	keys.AddAll(c.doc.TileKeys())
	c.UpdateTiles(keys)
}

// SetSceneSize changes the document size used for centering.
func (c *Core) SetSceneSize(size geometry.SizeInt) {
	if size == c.sceneSize {
		return
	}
	c.sceneSize = size
	c.viewport.SetDocumentSize(size)
	c.updateTransforms()
}

// Resize records a new view size and re-centers the scene.
func (c *Core) Resize(width, height int) {
	c.viewSize = geometry.Sz(width, height)
	c.viewCenter = geometry.Pt(width/2, height/2)
	c.updateTransforms()
}

func (c *Core) updateTransforms() {
	c.transforms = navigation.ComputeTransforms(c.nav.Navigation(), c.sceneSize, c.viewCenter)
	c.viewport.SetTransform(c.transforms.FromScene)
	c.TransformsChanged.Emit(c.transforms)
	c.RepaintRequested.Emit(geometry.RectInt{})
}

// UpdateTiles re-renders whole tiles. A document that grew is resized
// into the viewport first.
func (c *Core) UpdateTiles(keys layer.KeySet) {
	c.SetSceneSize(c.doc.Size)
	c.Update(tiles.ForKeys(keys))
}

// Update re-renders the invalidated tiles with the active tool's layer overrides.
func (c *Core) Update(inv tiles.Invalidation) {
	c.scheduler.Update(c.doc.Root.Children, inv, c.tools.Drawer())
}

// SetTool installs t as the active tool, closing the previous one.
func (c *Core) SetTool(t tool.Tool) {
	c.tools.SetTool(t)
	c.flushCursorRepaint()
}

// Tool returns the active tool.
func (c *Core) Tool() tool.Tool { return c.tools.Tool() }

// Dispatcher exposes the tool dispatcher for cursor subscriptions.
func (c *Core) Dispatcher() *tool.Dispatcher { return c.tools }

// Cursor returns the cursor to show: a held override, else the tool cursor.
func (c *Core) Cursor() cursor.Shape {
	if s, ok := c.cursors.Current(); ok {
		return s
	}
	return c.tools.Cursor()
}

// Cursors returns the override stack.
func (c *Core) Cursors() *cursor.Stack { return c.cursors }

// Pointer handles a normalized mouse or tablet event. Navigation gestures
// get the event first; the tool only sees events they did not consume.
func (c *Core) Pointer(ev input.Event) tool.Result {
	switch ev.Kind {
	case input.Press:
		c.FocusRequested.Emit(struct{}{})
		if c.drag.Active() {
			return tool.Accepted
		}
		if ev.Primary() && c.drag.TryBegin(ev.Pos) {
			return tool.Accepted
		}
	case input.Move:
		if c.drag.Continue(ev.Pos) {
			return tool.Accepted
		}
	case input.Release:
		if c.drag.End() {
			return tool.Accepted
		}
	case input.DoubleClick:
		if c.drag.Active() {
			return tool.Accepted
		}
	}

	res := c.tools.DispatchPointer(ev, c.transforms.ToScene)
	if ev.Kind == input.Move {
		c.tools.MoveCustomCursor(ev.ScenePos(c.transforms.ToScene), c.transforms.FromScene)
		c.flushCursorRepaint()
	}
	return res
}

// Mouse normalizes and handles a mouse event.
func (c *Core) Mouse(kind input.Kind, ev *desktop.MouseEvent) tool.Result {
	return c.Pointer(c.input.FromDesktop(kind, ev))
}

// MouseDown handles a button press.
func (c *Core) MouseDown(ev *desktop.MouseEvent) tool.Result { return c.Mouse(input.Press, ev) }

// MouseMove handles pointer motion with or without buttons held.
func (c *Core) MouseMove(ev *desktop.MouseEvent) tool.Result { return c.Mouse(input.Move, ev) }

// MouseUp handles a button release.
func (c *Core) MouseUp(ev *desktop.MouseEvent) tool.Result { return c.Mouse(input.Release, ev) }

// MouseDoubleClick handles a double click.
func (c *Core) MouseDoubleClick(ev *desktop.MouseEvent) tool.Result {
	return c.Mouse(input.DoubleClick, ev)
}

// Tablet normalizes and handles a stylus sample.
func (c *Core) Tablet(kind input.Kind, pos geometry.PointInt, globalPos geometry.Point2D,
	data input.TabletData, mods fyne.KeyModifier) tool.Result {
	return c.Pointer(c.input.Tablet(kind, pos, globalPos, data, mods))
}

func (c *Core) flushCursorRepaint() {
	if r := c.tools.TakeRepaintRect(); !r.IsEmpty() {
		c.RepaintRequested.Emit(r)
	}
}

// KeyDown offers the key to the tool and records it as held.
func (c *Core) KeyDown(key fyne.KeyName, mods fyne.KeyModifier) tool.Result {
	res := c.tools.DispatchKey(true, key, mods)
	c.keys.Pressed(key)
	return res
}

// KeyUp offers the key to the tool and records it as released.
func (c *Core) KeyUp(key fyne.KeyName, mods fyne.KeyModifier) tool.Result {
	res := c.tools.DispatchKey(false, key, mods)
	c.keys.Released(key)
	return res
}

// Enter is called when the pointer enters the view.
func (c *Core) Enter() {
	c.FocusRequested.Emit(struct{}{})
}

// Leave is called when the pointer leaves the view. The custom cursor is
// erased; a running gesture continues until release.
func (c *Core) Leave() {
	if r := c.tools.CustomCursorRect(); !r.IsEmpty() {
		c.RepaintRequested.Emit(r)
	}
}

// FocusLost ends any gesture, keeping the navigation reached so far, and
// forgets held keys whose releases will go to another widget.
func (c *Core) FocusLost() {
	c.drag.End()
	c.keys.Reset()
}

// Scroll zooms one step per wheel notch about the pointer position.
func (c *Core) Scroll(dy float64, pos geometry.PointInt) {
	switch {
	case dy > 0:
		c.zoomAbout(c.nav.Scale()*navigation.ZoomStep, pos)
	case dy < 0:
		c.zoomAbout(c.nav.Scale()/navigation.ZoomStep, pos)
	}
}

// ZoomIn zooms one step about the view center.
func (c *Core) ZoomIn() {
	c.SetZoom(c.nav.Scale() * navigation.ZoomStep)
}

// ZoomOut zooms out one step about the view center.
func (c *Core) ZoomOut() {
	c.SetZoom(c.nav.Scale() / navigation.ZoomStep)
}

// SetZoom sets the scale, clamped, keeping the view center fixed.
func (c *Core) SetZoom(scale float64) {
	c.zoomAbout(scale, c.viewCenter)
}

func (c *Core) zoomAbout(scale float64, pivot geometry.PointInt) {
	scale = navigation.ClampZoom(scale)
	old := c.nav.Scale()
	if scale == old || old == 0 {
		return
	}
	ratio := scale / old
	offset := pivot.Sub(c.viewCenter)
	translation := c.nav.Translation().Sub(offset).MulF(ratio).Add(offset)
	n := c.nav.Navigation()
	n.Scale = scale
	n.Translation = translation
	c.nav.Set(n)
}

// FitToView centers the unrotated scene and scales it to fit the view.
func (c *Core) FitToView() {
	if c.viewSize.IsEmpty() || c.sceneSize.IsEmpty() {
		return
	}
	zoomX := float64(c.viewSize.Width) / float64(c.sceneSize.Width)
	zoomY := float64(c.viewSize.Height) / float64(c.sceneSize.Height)
	c.nav.Set(navigation.Navigation{
		Scale:    navigation.ClampZoom(math.Min(zoomX, zoomY) * fitMargin),
		Mirrored: c.nav.Mirrored(),
	})
}

// ActualSize shows the scene centered at 100% without rotation.
func (c *Core) ActualSize() {
	c.nav.Set(navigation.Navigation{Scale: 1, Mirrored: c.nav.Mirrored()})
}

// Close ends any gesture, releases every cursor override and closes the tool.
func (c *Core) Close() {
	c.drag.End()
	c.cursors.ReleaseAll()
	c.tools.Close()
	c.conns.DisconnectAll()
}
