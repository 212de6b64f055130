package tool

import (
	"image"
	"image/color"
	"math"

	"paintfield/internal/cursor"
	"paintfield/internal/layer"
	"paintfield/internal/tiles"
	"paintfield/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for round dabs.
const circleSegments = 24

// Pencil paints pressure sized round dabs into a target layer.
type Pencil struct {
	Base

	Target *layer.Layer
	Color  color.RGBA // premultiplied
	Radius float64    // at full pressure

	drawing bool
	last    geometry.Point2D
}

// NewPencil creates a pencil drawing into target.
func NewPencil(target *layer.Layer, c color.RGBA, radius float64) *Pencil {
	p := &Pencil{Target: target, Color: c, Radius: radius}
	p.SetCursor(cursor.Crosshair)
	return p
}

// CustomCursorEnabled returns true: the pencil outlines its dab size.
func (p *Pencil) CustomCursorEnabled() bool { return true }

// CustomCursorRect returns the dab bounds at pos with one pixel of margin.
func (p *Pencil) CustomCursorRect(pos geometry.Point2D) geometry.Rect {
	r := p.Radius + 1
	return geometry.NewRect(pos.X-r, pos.Y-r, 2*r, 2*r)
}

// HandleEvent paints on tablet events. Mouse events arrive as tablet
// events first, so plain mouse events are left alone.
func (p *Pencil) HandleEvent(ev Event) Result {
	switch ev.Type {
	case TabletPress:
		p.drawing = true
		p.last = ev.ScenePos
		p.RequestUpdate(tiles.ForKeys(p.dab(ev.ScenePos, ev.Data.Pressure)))
		return Accepted
	case TabletMove:
		if !p.drawing {
			return Rejected
		}
		p.RequestUpdate(tiles.ForKeys(p.stroke(p.last, ev.ScenePos, ev.Data.Pressure)))
		p.last = ev.ScenePos
		return Accepted
	case TabletRelease:
		if !p.drawing {
			return Rejected
		}
		p.drawing = false
		return Accepted
	}
	return Rejected
}

// stroke places dabs from a to b spaced at a quarter of the radius.
func (p *Pencil) stroke(a, b geometry.Point2D, pressure float64) layer.KeySet {
	keys := layer.KeySet{}
	step := math.Max(p.Radius/4, 0.5)
	n := int(math.Ceil(a.Distance(b) / step))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		keys.AddAll(p.dab(a.Add(b.Sub(a).Scale(t)), pressure))
	}
	return keys
}

// dab paints one filled circle and returns the touched tiles.
func (p *Pencil) dab(center geometry.Point2D, pressure float64) layer.KeySet {
	if p.Target == nil || p.Target.Surface == nil {
		return nil
	}
	r := math.Max(p.Radius*pressure, 0.5)

	// Rasterize the dab once into a mask covering its bounds.
	ox, oy := int(math.Floor(center.X-r)), int(math.Floor(center.Y-r))
	area := geometry.NewRectInt(ox, oy, int(math.Ceil(center.X+r))-ox+1, int(math.Ceil(center.Y+r))-oy+1)
	z := vector.NewRasterizer(area.Width, area.Height)
	for i := 0; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		x := float32(center.X - float64(ox) + r*math.Cos(a))
		y := float32(center.Y - float64(oy) + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, area.Width, area.Height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	src := image.NewUniform(p.Color)
	keys := layer.KeysForRect(area)
	for key := range keys {
		tileRect := layer.TileRect(key)
		overlap := tileRect.Intersect(area)
		tile := p.Target.Surface.TileOrCreate(key)
		dst := overlap.Translate(tileRect.TopLeft().Neg()).Image()
		mp := image.Pt(overlap.X-area.X, overlap.Y-area.Y)
		draw.DrawMask(tile, dst, src, image.Point{}, mask, mp, draw.Over)
	}
	return keys
}
