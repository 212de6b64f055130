package navigation

import (
	"paintfield/pkg/geometry"
)

// Transforms maps between scene (document) and view (widget) coordinates.
type Transforms struct {
	FromScene geometry.AffineTransform
	ToScene   geometry.AffineTransform
}

// ComputeTransforms derives the view transforms. The scene center is moved
// to the origin, mirrored if requested, scaled, rotated, and finally moved
// to the view center plus the navigation translation.
func ComputeTransforms(nav Navigation, sceneSize geometry.SizeInt, viewCenter geometry.PointInt) Transforms {
	sceneOffset := sceneSize.Half().ToFloat()
	viewOffset := viewCenter.Add(nav.Translation).ToFloat()

	mirror := 1.0
	if nav.Mirrored {
		mirror = -1
	}

	from := geometry.Translation(-sceneOffset.X, -sceneOffset.Y).
		Then(geometry.Scale(mirror, 1)).
		Then(geometry.Scale(nav.Scale, nav.Scale)).
		Then(geometry.RotationDegrees(nav.Rotation)).
		Then(geometry.Translation(viewOffset.X, viewOffset.Y))

	to, ok := from.Inverse()
	if !ok {
		// Only a zero scale gets here; keep mapping everything somewhere finite.
		to = geometry.Identity()
	}
	return Transforms{FromScene: from, ToScene: to}
}

// SceneToView maps a scene point into view coordinates.
func (t Transforms) SceneToView(p geometry.Point2D) geometry.Point2D {
	return t.FromScene.Apply(p)
}

// ViewToScene maps a view point into scene coordinates.
func (t Transforms) ViewToScene(p geometry.Point2D) geometry.Point2D {
	return t.ToScene.Apply(p)
}
