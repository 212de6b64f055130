// Package canvas provides the fyne canvas view: a rotatable, zoomable
// document display that forwards input to a canvasview.Core.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"paintfield/internal/canvasview"
	"paintfield/internal/keychord"
	"paintfield/internal/layer"
	"paintfield/internal/navigation"
	"paintfield/internal/tool"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Background is drawn around the document.
var Background = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}

// cursorColor is used for tool outline cursors.
var cursorColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// View displays a document. It implements tiles.Viewport by keeping a
// scene sized backing image that pushed tiles are copied into; the raster
// draws that image through the view transform.
type View struct {
	widget.BaseWidget

	core   *canvasview.Core
	raster *fynecanvas.Raster

	// Guarded by mu: written from the event goroutine, read while drawing.
	mu         sync.Mutex
	backing    *image.RGBA
	fromScene  geometry.AffineTransform
	cursorRect geometry.RectInt
	hovering   bool

	onNavigationChange func(n navigation.Navigation)
}

// NewView creates a view of doc using the given navigation chords.
func NewView(doc *layer.Document, bindings keychord.Bindings) *View {
	v := &View{fromScene: geometry.Identity()}

	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(fyne.NewSize(100, 100))

	v.core = canvasview.New(doc, v, bindings, nil)
	v.core.RepaintRequested.Connect(func(geometry.RectInt) {
		v.mu.Lock()
		v.cursorRect = v.core.Dispatcher().CustomCursorRect()
		v.mu.Unlock()
		v.raster.Refresh()
	})
	v.core.FocusRequested.Connect(func(struct{}) { v.requestFocus() })
	v.core.TransformsChanged.Connect(func(navigation.Transforms) {
		if v.onNavigationChange != nil {
			v.onNavigationChange(v.core.Navigation().Navigation())
		}
	})

	v.ExtendBaseWidget(v)
	v.core.ViewportReady()
	return v
}

// Core returns the view core, for toolbar actions and tool switching.
func (v *View) Core() *canvasview.Core {
	return v.core
}

// SetTool installs the active tool.
func (v *View) SetTool(t tool.Tool) {
	v.core.SetTool(t)
	v.raster.Refresh()
}

// OnNavigationChange sets a callback run whenever the view transforms are
// recomputed, with the navigation they were built from.
func (v *View) OnNavigationChange(callback func(n navigation.Navigation)) {
	v.onNavigationChange = callback
}

// Close releases the tool and every cursor override.
func (v *View) Close() {
	v.core.Close()
}

func (v *View) requestFocus() {
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		return
	}
	if c := app.Driver().CanvasForObject(v); c != nil {
		c.Focus(v)
	}
}

// UpdateTile copies a rendered tile into the backing image.
func (v *View) UpdateTile(key geometry.PointInt, img *image.RGBA, topLeft geometry.PointInt) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.backing == nil {
		return
	}
	r := img.Bounds().Sub(img.Bounds().Min).Add(image.Pt(topLeft.X, topLeft.Y))
	draw.Draw(v.backing, r, img, img.Bounds().Min, draw.Src)
}

// SetTransform sets the scene to view transform used when drawing.
func (v *View) SetTransform(t geometry.AffineTransform) {
	v.mu.Lock()
	v.fromScene = t
	v.mu.Unlock()
}

// SetDocumentSize resizes the backing image, keeping existing content.
func (v *View) SetDocumentSize(size geometry.SizeInt) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.backing != nil && v.backing.Bounds().Dx() == size.Width && v.backing.Bounds().Dy() == size.Height {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	if v.backing != nil {
		draw.Draw(next, next.Bounds(), v.backing, image.Point{}, draw.Src)
	}
	v.backing = next
}

// Update schedules a repaint.
func (v *View) Update() {
	v.raster.Refresh()
}

// draw is the raster drawing function. w and h are in device pixels.
func (v *View) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	pixelScale := 1.0
	if size := v.Size(); size.Width > 0 {
		pixelScale = float64(w) / float64(size.Width)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	renderScene(output, v.backing, v.fromScene.Then(geometry.Scale(pixelScale, pixelScale)))
	if v.hovering && !v.cursorRect.IsEmpty() {
		drawCursorRing(output, v.cursorRect, pixelScale, cursorColor)
	}
	return output
}

// renderScene draws src into dst through the scene to pixel transform s2d.
// Pixels outside the transformed scene are left untouched.
func renderScene(dst *image.RGBA, src *image.RGBA, s2d geometry.AffineTransform) {
	if src == nil || src.Bounds().Empty() {
		return
	}
	m := f64.Aff3{s2d.A, s2d.B, s2d.TX, s2d.C, s2d.D, s2d.TY}
	draw.NearestNeighbor.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
}

func (v *View) setHovering(h bool) {
	v.mu.Lock()
	v.hovering = h
	v.mu.Unlock()
}

// MouseDown implements desktop.Mouseable.
func (v *View) MouseDown(ev *desktop.MouseEvent) {
	v.core.MouseDown(ev)
}

// MouseUp implements desktop.Mouseable.
func (v *View) MouseUp(ev *desktop.MouseEvent) {
	v.core.MouseUp(ev)
}

// MouseIn implements desktop.Hoverable.
func (v *View) MouseIn(ev *desktop.MouseEvent) {
	v.setHovering(true)
	v.core.Enter()
	v.core.MouseMove(ev)
}

// MouseMoved implements desktop.Hoverable.
func (v *View) MouseMoved(ev *desktop.MouseEvent) {
	v.core.MouseMove(ev)
}

// MouseOut implements desktop.Hoverable.
func (v *View) MouseOut() {
	v.setHovering(false)
	v.core.Leave()
}

// DoubleTapped implements fyne.DoubleTappable.
func (v *View) DoubleTapped(ev *fyne.PointEvent) {
	v.core.MouseDoubleClick(&desktop.MouseEvent{PointEvent: *ev, Button: desktop.MouseButtonPrimary})
}

// Scrolled zooms about the pointer.
func (v *View) Scrolled(ev *fyne.ScrollEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y)).Round()
	v.core.Scroll(float64(ev.Scrolled.DY), pos)
}

// KeyDown implements desktop.Keyable.
func (v *View) KeyDown(ev *fyne.KeyEvent) {
	v.core.KeyDown(ev.Name, 0)
}

// KeyUp implements desktop.Keyable.
func (v *View) KeyUp(ev *fyne.KeyEvent) {
	v.core.KeyUp(ev.Name, 0)
}

// FocusGained implements fyne.Focusable.
func (v *View) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (v *View) FocusLost() {
	v.core.FocusLost()
}

// TypedRune implements fyne.Focusable.
func (v *View) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (v *View) TypedKey(*fyne.KeyEvent) {}

// Cursor implements desktop.Cursorable.
func (v *View) Cursor() desktop.Cursor {
	return v.core.Cursor().Desktop()
}

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return &viewRenderer{view: v}
}

type viewRenderer struct {
	view *View
}

func (r *viewRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
	r.view.core.Resize(int(size.Width), int(size.Height))
}

func (r *viewRenderer) MinSize() fyne.Size {
	return r.view.raster.MinSize()
}

func (r *viewRenderer) Refresh() {
	r.view.raster.Refresh()
}

func (r *viewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster}
}

func (r *viewRenderer) Destroy() {}
