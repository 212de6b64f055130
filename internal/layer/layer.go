// Package layer provides the tiled layer tree of a document, image import,
// and compositing of layers into tiles.
package layer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"paintfield/internal/signal"
	"paintfield/pkg/geometry"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Layer is a node of the layer tree. A layer with children is a group;
// its own surface is ignored when rendering.
type Layer struct {
	Name     string
	Visible  bool
	Opacity  float64 // 0.0 - 1.0
	Surface  *Surface
	Children []*Layer
	Parent   *Layer
}

// NewLayer creates an empty visible raster layer.
func NewLayer(name string) *Layer {
	return &Layer{
		Name:    name,
		Visible: true,
		Opacity: 1.0,
		Surface: NewSurface(),
	}
}

// NewGroup creates an empty visible group layer.
func NewGroup(name string) *Layer {
	return &Layer{Name: name, Visible: true, Opacity: 1.0}
}

// Add appends children on top of the existing ones.
func (l *Layer) Add(children ...*Layer) {
	for _, c := range children {
		c.Parent = l
		l.Children = append(l.Children, c)
	}
}

// InsertBelow adds children beneath the existing ones, in order.
func (l *Layer) InsertBelow(children ...*Layer) {
	for _, c := range children {
		c.Parent = l
	}
	l.Children = append(append([]*Layer{}, children...), l.Children...)
}

// IsGroup reports whether the layer has children.
func (l *Layer) IsGroup() bool {
	return len(l.Children) > 0
}

// TileKeys returns the keys of every tile in the layer and its descendants.
func (l *Layer) TileKeys() KeySet {
	keys := KeySet{}
	l.collectKeys(keys)
	return keys
}

func (l *Layer) collectKeys(keys KeySet) {
	if l.Surface != nil {
		keys.AddAll(l.Surface.Keys())
	}
	for _, c := range l.Children {
		c.collectKeys(keys)
	}
}

// Document is a sized layer tree.
type Document struct {
	Size geometry.SizeInt
	Root *Layer

	// TilesUpdated fires with the keys of tiles whose content changed.
	TilesUpdated signal.Signal[KeySet]
}

// NewDocument creates a document with an empty root group.
func NewDocument(size geometry.SizeInt) *Document {
	return &Document{Size: size, Root: NewGroup("root")}
}

// TileKeys returns every tile key used by any layer.
func (d *Document) TileKeys() KeySet {
	return d.Root.TileKeys()
}

// NotifyTiles announces that the tiles at keys changed.
func (d *Document) NotifyTiles(keys KeySet) {
	if keys.Len() == 0 {
		return
	}
	d.TilesUpdated.Emit(keys)
}

// SetBackground places bg beneath every other layer, grows the document
// to at least size and announces every tile that may have changed.
func (d *Document) SetBackground(bg *Layer, size geometry.SizeInt) {
	d.Root.InsertBelow(bg)
	if size.Width > d.Size.Width {
		d.Size.Width = size.Width
	}
	if size.Height > d.Size.Height {
		d.Size.Height = size.Height
	}
	keys := KeysForRect(geometry.NewRectInt(0, 0, d.Size.Width, d.Size.Height))
	keys.AddAll(d.TileKeys())
	d.NotifyTiles(keys)
}

// FromImage creates a layer holding img, with img's top-left corner at the
// scene origin. Fully transparent tiles are not stored.
func FromImage(name string, img image.Image) *Layer {
	l := NewLayer(name)
	b := img.Bounds()
	size := geometry.Sz(b.Dx(), b.Dy())
	for key := range KeysForRect(geometry.NewRectInt(0, 0, size.Width, size.Height)) {
		tile := NewTile()
		r := TileRect(key)
		src := image.Pt(b.Min.X+r.X, b.Min.Y+r.Y)
		draw.Draw(tile, tile.Bounds(), img, src, draw.Src)
		if !isTransparent(tile) {
			l.Surface.SetTile(key, tile)
		}
	}
	return l
}

func isTransparent(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Load decodes the image file at path into a new layer named after the file.
// It also returns the image size.
func Load(path string) (*Layer, geometry.SizeInt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, geometry.SizeInt{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, geometry.SizeInt{}, fmt.Errorf("failed to decode image: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b := img.Bounds()
	return FromImage(name, img), geometry.Sz(b.Dx(), b.Dy()), nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
