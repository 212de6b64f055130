package canvas

import (
	"image"
	"image/color"
	"math"

	"paintfield/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ringThickness is the outline width of tool cursors, in device pixels.
const ringThickness = 1.5

// ringSegments is the number of polygon edges approximating a circle.
const ringSegments = 64

// drawCursorRing outlines the circle inscribed in rect, given in view
// units, scaled to device pixels.
func drawCursorRing(output *image.RGBA, rect geometry.RectInt, pixelScale float64, col color.RGBA) {
	c := rect.ToFloat().Center()
	r := (math.Min(float64(rect.Width), float64(rect.Height))/2 - 1) * pixelScale
	drawRing(output, c.X*pixelScale, c.Y*pixelScale, r, col)
}

// drawRing draws an anti-aliased circle outline centered at (cx, cy).
// The inner circle is wound the other way so it cuts a hole in the outer one.
func drawRing(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	area := image.Rect(
		int(math.Floor(cx-r-1)), int(math.Floor(cy-r-1)),
		int(math.Ceil(cx+r+1)), int(math.Ceil(cy+r+1)),
	).Intersect(output.Bounds())
	if area.Empty() {
		return
	}

	z := vector.NewRasterizer(area.Dx(), area.Dy())
	ox, oy := cx-float64(area.Min.X), cy-float64(area.Min.Y)
	circlePath(z, ox, oy, r, 1)
	if inner := r - ringThickness; inner > 0 {
		circlePath(z, ox, oy, inner, -1)
	}

	mask := image.NewAlpha(image.Rect(0, 0, area.Dx(), area.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(output, area, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// circlePath adds a closed circle to z. dir is 1 for clockwise on screen
// and -1 for the reverse winding.
func circlePath(z *vector.Rasterizer, cx, cy, r float64, dir float64) {
	for i := 0; i < ringSegments; i++ {
		a := dir * 2 * math.Pi * float64(i) / ringSegments
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}
