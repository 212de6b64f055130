package layer

import (
	"image"
	"image/color"
	"math"

	"paintfield/pkg/geometry"

	"golang.org/x/image/draw"
)

// Drawer renders selected layers in place of the default compositing.
// Tools implement it to preview work in progress over a layer without
// committing it to the layer surface.
type Drawer interface {
	// CustomDrawLayers returns the layers the drawer renders itself.
	CustomDrawLayers() []*Layer
	// DrawLayer composites l's tile at key onto dst.
	DrawLayer(dst *image.RGBA, l *Layer, key geometry.PointInt)
}

// Renderer composites layer stacks tile by tile.
type Renderer struct {
	// Drawer, if set, takes over the layers it names.
	Drawer Drawer

	custom map[*Layer]bool
}

// RenderToSurface composites layers, bottom first, for each key. Tiles
// where nothing was drawn are absent from the returned surface.
func (r *Renderer) RenderToSurface(layers []*Layer, keys KeySet) *Surface {
	r.custom = nil
	if r.Drawer != nil {
		r.custom = make(map[*Layer]bool)
		for _, l := range r.Drawer.CustomDrawLayers() {
			r.custom[l] = true
		}
	}

	out := NewSurface()
	for key := range keys {
		tile := NewTile()
		if r.drawLayers(tile, layers, key) {
			out.SetTile(key, tile)
		}
	}
	return out
}

func (r *Renderer) drawLayers(dst *image.RGBA, layers []*Layer, key geometry.PointInt) bool {
	drawn := false
	for _, l := range layers {
		if r.drawLayer(dst, l, key) {
			drawn = true
		}
	}
	return drawn
}

func (r *Renderer) drawLayer(dst *image.RGBA, l *Layer, key geometry.PointInt) bool {
	if l == nil || !l.Visible {
		return false
	}
	if r.custom[l] {
		r.Drawer.DrawLayer(dst, l, key)
		return true
	}

	var src *image.RGBA
	if l.IsGroup() {
		src = NewTile()
		if !r.drawLayers(src, l.Children, key) {
			return false
		}
	} else if l.Surface != nil {
		src = l.Surface.Tile(key)
	}
	if src == nil {
		return false
	}

	composite(dst, src, l.Opacity)
	return true
}

// composite draws src over dst with a uniform opacity.
func composite(dst, src *image.RGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity >= 1 {
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}
