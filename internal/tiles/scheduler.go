// Package tiles re-renders invalidated canvas tiles and pushes them to the
// presentation surface.
package tiles

import (
	"image"
	"image/color"

	"paintfield/internal/layer"
	"paintfield/pkg/geometry"

	"golang.org/x/image/draw"
)

// DefaultFill is painted under every tile so areas without content never
// show stale pixels.
var DefaultFill = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Viewport is the presentation surface that displays rendered tiles.
type Viewport interface {
	// UpdateTile stores img at scene position topLeft. key is the tile it belongs to.
	UpdateTile(key geometry.PointInt, img *image.RGBA, topLeft geometry.PointInt)
	// SetTransform sets the scene to view transform.
	SetTransform(t geometry.AffineTransform)
	// SetDocumentSize sets the scene size in pixels.
	SetDocumentSize(size geometry.SizeInt)
	// Update requests one repaint of the view.
	Update()
}

// Invalidation names the tiles to re-render. When Rects is non-empty it
// alone selects the tiles, each limited to its tile-local rectangle, and
// Keys is only used for rendering. Otherwise every key is redrawn whole.
type Invalidation struct {
	Keys  layer.KeySet
	Rects map[geometry.PointInt]geometry.RectInt
}

// ForKeys invalidates whole tiles.
func ForKeys(keys layer.KeySet) Invalidation {
	return Invalidation{Keys: keys}
}

// ForRects invalidates parts of tiles.
func ForRects(rects map[geometry.PointInt]geometry.RectInt) Invalidation {
	keys := make(layer.KeySet, len(rects))
	for k := range rects {
		keys.Add(k)
	}
	return Invalidation{Keys: keys, Rects: rects}
}

// IsEmpty reports whether nothing is invalidated.
func (inv Invalidation) IsEmpty() bool {
	return inv.Keys.Len() == 0 && len(inv.Rects) == 0
}

// Scheduler renders invalidated tiles from a layer stack into a viewport.
type Scheduler struct {
	viewport Viewport
	fill     color.RGBA
}

// NewScheduler creates a scheduler that pushes tiles to vp.
func NewScheduler(vp Viewport) *Scheduler {
	return &Scheduler{viewport: vp, fill: DefaultFill}
}

// SetFill changes the background color used under tile content.
func (s *Scheduler) SetFill(c color.RGBA) {
	s.fill = c
}

// Update renders the invalidated tiles of layers and pushes them to the
// viewport, followed by a single repaint request. drawer may be nil.
// It returns the number of tiles pushed.
func (s *Scheduler) Update(layers []*layer.Layer, inv Invalidation, drawer layer.Drawer) int {
	renderKeys := inv.Keys
	if len(inv.Rects) > 0 {
		renderKeys = make(layer.KeySet, len(inv.Rects))
		for k := range inv.Rects {
			renderKeys.Add(k)
		}
	}
	if renderKeys.Len() == 0 {
		return 0
	}

	renderer := layer.Renderer{Drawer: drawer}
	surface := renderer.RenderToSurface(layers, renderKeys)

	pushed := 0
	for _, key := range renderKeys.Sorted() {
		rect := geometry.NewRectInt(0, 0, layer.TileSize, layer.TileSize)
		if len(inv.Rects) > 0 {
			rect = inv.Rects[key].Intersect(rect)
			if rect.IsEmpty() {
				continue
			}
		}

		img := image.NewRGBA(image.Rect(0, 0, rect.Width, rect.Height))
		draw.Draw(img, img.Bounds(), image.NewUniform(s.fill), image.Point{}, draw.Src)
		if tile := surface.Tile(key); tile != nil {
			draw.Draw(img, img.Bounds(), tile, image.Pt(rect.X, rect.Y), draw.Over)
		}

		topLeft := key.Mul(layer.TileSize).Add(rect.TopLeft())
		s.viewport.UpdateTile(key, img, topLeft)
		pushed++
	}

	s.viewport.Update()
	return pushed
}
