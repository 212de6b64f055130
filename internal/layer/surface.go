package layer

import (
	"image"
	"sort"

	"paintfield/pkg/geometry"
)

// TileSize is the edge length of a surface tile in pixels.
const TileSize = 64

// KeySet is a set of tile keys.
type KeySet map[geometry.PointInt]struct{}

// NewKeySet creates a set holding keys.
func NewKeySet(keys ...geometry.PointInt) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts k.
func (s KeySet) Add(k geometry.PointInt) {
	s[k] = struct{}{}
}

// AddAll inserts every key of other.
func (s KeySet) AddAll(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Has reports whether k is in the set.
func (s KeySet) Has(k geometry.PointInt) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of keys.
func (s KeySet) Len() int {
	return len(s)
}

// Sorted returns the keys ordered by row, then column.
func (s KeySet) Sorted() []geometry.PointInt {
	keys := make([]geometry.PointInt, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})
	return keys
}

// TileRect returns the scene rectangle covered by the tile at key.
func TileRect(key geometry.PointInt) geometry.RectInt {
	return geometry.NewRectInt(key.X*TileSize, key.Y*TileSize, TileSize, TileSize)
}

// KeysForRect returns the keys of every tile touching r.
func KeysForRect(r geometry.RectInt) KeySet {
	keys := KeySet{}
	if r.IsEmpty() {
		return keys
	}
	x0, y0 := floorDiv(r.X, TileSize), floorDiv(r.Y, TileSize)
	x1, y1 := floorDiv(r.X+r.Width-1, TileSize), floorDiv(r.Y+r.Height-1, TileSize)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			keys.Add(geometry.Pt(x, y))
		}
	}
	return keys
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Surface is a sparse raster made of TileSize square tiles. Missing tiles
// are fully transparent. Tiles are premultiplied RGBA with bounds
// (0,0)-(TileSize,TileSize).
type Surface struct {
	tiles map[geometry.PointInt]*image.RGBA
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{tiles: make(map[geometry.PointInt]*image.RGBA)}
}

// NewTile allocates a transparent tile image.
func NewTile() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
}

// Contains reports whether a tile exists at key.
func (s *Surface) Contains(key geometry.PointInt) bool {
	_, ok := s.tiles[key]
	return ok
}

// Tile returns the tile at key, or nil.
func (s *Surface) Tile(key geometry.PointInt) *image.RGBA {
	return s.tiles[key]
}

// TileOrCreate returns the tile at key, allocating a transparent one if needed.
func (s *Surface) TileOrCreate(key geometry.PointInt) *image.RGBA {
	t, ok := s.tiles[key]
	if !ok {
		t = NewTile()
		s.tiles[key] = t
	}
	return t
}

// SetTile stores img at key. A nil image removes the tile.
func (s *Surface) SetTile(key geometry.PointInt, img *image.RGBA) {
	if img == nil {
		delete(s.tiles, key)
		return
	}
	s.tiles[key] = img
}

// Keys returns the keys of all existing tiles.
func (s *Surface) Keys() KeySet {
	keys := make(KeySet, len(s.tiles))
	for k := range s.tiles {
		keys.Add(k)
	}
	return keys
}

// Len returns the number of tiles.
func (s *Surface) Len() int {
	return len(s.tiles)
}
