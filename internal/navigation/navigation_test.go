package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintfield/internal/cursor"
	"paintfield/internal/keychord"
	"paintfield/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

func TestSettersNoOpOnSameValue(t *testing.T) {
	s := NewState()
	var scale, rot, tr, mir, total int
	s.ScaleChanged.Connect(func(float64) { scale++ })
	s.RotationChanged.Connect(func(float64) { rot++ })
	s.TranslationChanged.Connect(func(geometry.PointInt) { tr++ })
	s.MirroredChanged.Connect(func(bool) { mir++ })
	s.Changed.Connect(func(Navigation) { total++ })

	s.SetScale(1)
	s.SetRotation(0)
	s.SetTranslation(geometry.Pt(0, 0))
	s.SetMirrored(false)
	assert.Zero(t, scale+rot+tr+mir+total)

	s.SetScale(2)
	s.SetScale(2)
	s.SetRotation(45)
	s.SetTranslation(geometry.Pt(3, 4))
	s.SetTranslation(geometry.Pt(3, 4))
	s.SetMirrored(true)
	assert.Equal(t, 1, scale)
	assert.Equal(t, 1, rot)
	assert.Equal(t, 1, tr)
	assert.Equal(t, 1, mir)
	assert.Equal(t, 4, total)
}

func TestMemorizeRestore(t *testing.T) {
	s := NewState()
	s.SetScale(3)
	s.Memorize()
	s.SetScale(0.5)
	s.SetRotation(10)

	fired := 0
	s.Changed.Connect(func(Navigation) { fired++ })
	s.Restore()
	assert.Equal(t, 3.0, s.Scale())
	assert.Equal(t, 0.0, s.Rotation())
	assert.Equal(t, 1, fired)
}

func TestSetFiresChangedOnce(t *testing.T) {
	s := NewState()
	var scale, rot, tr, mir, total int
	s.ScaleChanged.Connect(func(float64) { scale++ })
	s.RotationChanged.Connect(func(float64) { rot++ })
	s.TranslationChanged.Connect(func(geometry.PointInt) { tr++ })
	s.MirroredChanged.Connect(func(bool) { mir++ })
	s.Changed.Connect(func(n Navigation) {
		total++
		assert.Equal(t, s.Navigation(), n, "listeners see the complete update")
	})

	s.Set(Navigation{Scale: 2, Translation: geometry.Pt(4, 5)})
	assert.Equal(t, []int{1, 0, 1, 0, 1}, []int{scale, rot, tr, mir, total})

	s.Set(s.Navigation())
	assert.Equal(t, 1, total)
}

func TestTransformsRoundTrip(t *testing.T) {
	navs := []Navigation{
		Identity(),
		{Scale: 2.5, Rotation: 30, Translation: geometry.Pt(-40, 17)},
		{Scale: 0.3, Rotation: -135, Translation: geometry.Pt(5, 5), Mirrored: true},
	}
	points := []geometry.Point2D{{X: 0, Y: 0}, {X: 999, Y: 1}, {X: 512.25, Y: 77.5}, {X: -20, Y: 4000}}
	for _, nav := range navs {
		tr := ComputeTransforms(nav, geometry.Sz(1000, 1000), geometry.Pt(400, 300))
		for _, p := range points {
			back := tr.ViewToScene(tr.SceneToView(p))
			assert.InDelta(t, p.X, back.X, 1e-6)
			assert.InDelta(t, p.Y, back.Y, 1e-6)
		}
	}
}

func TestSceneCenterMapsToViewCenter(t *testing.T) {
	nav := Navigation{Scale: 1.7, Rotation: 77, Translation: geometry.Pt(12, -8)}
	tr := ComputeTransforms(nav, geometry.Sz(1000, 600), geometry.Pt(400, 300))
	v := tr.SceneToView(geometry.NewPoint2D(500, 300))
	assert.InDelta(t, 412, v.X, 1e-9)
	assert.InDelta(t, 292, v.Y, 1e-9)
}

func TestMirrorFlipsHorizontally(t *testing.T) {
	tr := ComputeTransforms(Navigation{Scale: 1, Mirrored: true}, geometry.Sz(100, 100), geometry.Pt(50, 50))
	v := tr.SceneToView(geometry.NewPoint2D(0, 0))
	assert.InDelta(t, 100, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)
}

type fixture struct {
	state   *State
	keys    *keychord.Tracker
	cursors *cursor.Stack
	ctrl    *Controller
	center  geometry.PointInt
}

func newFixture() *fixture {
	f := &fixture{
		state:   NewState(),
		keys:    keychord.NewTracker(),
		cursors: cursor.NewStack(),
		center:  geometry.Pt(400, 300),
	}
	f.ctrl = NewController(f.state, f.keys, keychord.DefaultBindings(), f.cursors,
		func() geometry.PointInt { return f.center })
	return f
}

func (f *fixture) hold(keys ...fyne.KeyName) {
	for _, k := range keys {
		f.keys.Pressed(k)
	}
}

func (f *fixture) transforms() Transforms {
	return ComputeTransforms(f.state.Navigation(), geometry.Sz(1000, 1000), f.center)
}

func TestNoChordNoGesture(t *testing.T) {
	f := newFixture()
	assert.False(t, f.ctrl.TryBegin(geometry.Pt(10, 10)))
	assert.False(t, f.ctrl.Continue(geometry.Pt(20, 20)))
	assert.False(t, f.ctrl.End())
	assert.Zero(t, f.cursors.Len())
}

func TestScalePriorityOverRotation(t *testing.T) {
	f := newFixture()
	f.hold(fyne.KeySpace, desktop.KeyShiftLeft, desktop.KeyAltLeft)
	assert.True(t, f.ctrl.TryBegin(geometry.Pt(10, 10)))
	assert.Equal(t, Scaling, f.ctrl.Mode())
	shape, _ := f.cursors.Current()
	assert.Equal(t, cursor.VResize, shape)
}

func TestRotationPriorityOverTranslation(t *testing.T) {
	f := newFixture()
	f.hold(fyne.KeySpace, desktop.KeyAltRight)
	assert.True(t, f.ctrl.TryBegin(geometry.Pt(10, 10)))
	assert.Equal(t, Rotating, f.ctrl.Mode())
	shape, _ := f.cursors.Current()
	assert.Equal(t, cursor.ClosedHand, shape)
}

func TestTranslateScenario(t *testing.T) {
	f := newFixture()
	f.state.SetTranslation(geometry.Pt(7, -3))
	f.hold(fyne.KeySpace)

	assert.True(t, f.ctrl.TryBegin(geometry.Pt(100, 100)))
	assert.Equal(t, Translating, f.ctrl.Mode())
	assert.True(t, f.ctrl.Continue(geometry.Pt(150, 120)))
	assert.Equal(t, geometry.Pt(57, 17), f.state.Translation())

	assert.True(t, f.ctrl.End())
	assert.Equal(t, Idle, f.ctrl.Mode())
	assert.Zero(t, f.cursors.Len())
	assert.False(t, f.ctrl.Continue(geometry.Pt(0, 0)))
}

func TestScaleScenarioAtViewCenter(t *testing.T) {
	f := newFixture()
	f.hold(desktop.KeyShiftLeft, fyne.KeySpace)

	f.ctrl.TryBegin(geometry.Pt(400, 300))
	f.ctrl.Continue(geometry.Pt(400, 200))
	assert.InDelta(t, 2.0, f.state.Scale(), 1e-12)
	assert.Equal(t, geometry.Pt(0, 0), f.state.Translation())

	f.ctrl.Continue(geometry.Pt(400, 400))
	assert.InDelta(t, 0.5, f.state.Scale(), 1e-12)
}

func TestPivotInvariance(t *testing.T) {
	start := Navigation{Scale: 1.5, Rotation: 20, Translation: geometry.Pt(30, -10)}
	origin := geometry.Pt(250, 180)
	moves := []geometry.PointInt{{X: 260, Y: 120}, {X: 500, Y: 420}, {X: 100, Y: 390}, {X: 333, Y: 181}}

	tests := []struct {
		name  string
		chord []fyne.KeyName
	}{
		{"scale", []fyne.KeyName{desktop.KeyShiftLeft, fyne.KeySpace}},
		{"rotate", []fyne.KeyName{desktop.KeyAltLeft, fyne.KeySpace}},
		{"translate", []fyne.KeyName{fyne.KeySpace}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pos := range moves {
				f := newFixture()
				f.state.Set(start)
				before := f.transforms().ViewToScene(origin.ToFloat())

				f.hold(tt.chord...)
				f.ctrl.TryBegin(origin)
				f.ctrl.Continue(pos)
				f.ctrl.End()

				// A translation drags the pivot along with the pointer.
				pivot := origin
				if tt.name == "translate" {
					pivot = pos
				}
				after := f.transforms().ViewToScene(pivot.ToFloat())

				// Translations are whole pixels, so allow half a view pixel per axis.
				tol := 0.75 / f.state.Scale()
				assert.InDelta(t, before.X, after.X, tol, "pos %v", pos)
				assert.InDelta(t, before.Y, after.Y, tol, "pos %v", pos)
			}
		})
	}
}

func TestRotationQuarterTurn(t *testing.T) {
	f := newFixture()
	f.hold(desktop.KeyAltLeft, fyne.KeySpace)

	// From directly below the center to directly left of it is a clockwise quarter turn.
	f.ctrl.TryBegin(geometry.Pt(400, 400))
	f.ctrl.Continue(geometry.Pt(300, 300))
	assert.InDelta(t, 90, f.state.Rotation(), 1e-9)
}

func TestRotationFromViewCenter(t *testing.T) {
	f := newFixture()
	f.hold(desktop.KeyAltLeft, fyne.KeySpace)
	f.ctrl.TryBegin(f.center)

	// A start on the center counts as angle 0, pointing down.
	f.ctrl.Continue(geometry.Pt(300, 300))
	assert.InDelta(t, 90, f.state.Rotation(), 1e-9)
	assert.Equal(t, geometry.Pt(0, 0), f.state.Translation())
}

func TestScaleMoveFiresChangedOnce(t *testing.T) {
	f := newFixture()
	f.hold(desktop.KeyShiftLeft, fyne.KeySpace)
	f.ctrl.TryBegin(geometry.Pt(100, 100))

	var seen []Navigation
	f.state.Changed.Connect(func(n Navigation) { seen = append(seen, n) })
	f.ctrl.Continue(geometry.Pt(100, 0))
	require.Len(t, seen, 1)
	assert.InDelta(t, 2.0, seen[0].Scale, 1e-12)
	assert.Equal(t, f.state.Translation(), seen[0].Translation)
}

func TestRotationZeroDeltaIsNoOp(t *testing.T) {
	f := newFixture()
	f.hold(desktop.KeyAltLeft, fyne.KeySpace)
	f.ctrl.TryBegin(geometry.Pt(450, 300))

	fired := 0
	f.state.Changed.Connect(func(Navigation) { fired++ })
	assert.True(t, f.ctrl.Continue(f.center))
	assert.Zero(t, fired)
}

func TestCancelRestoresBackup(t *testing.T) {
	f := newFixture()
	f.hold(fyne.KeySpace)
	f.ctrl.TryBegin(geometry.Pt(0, 0))
	f.ctrl.Continue(geometry.Pt(40, 40))
	f.ctrl.Cancel()
	assert.Equal(t, geometry.Pt(0, 0), f.state.Translation())
	assert.False(t, f.ctrl.Active())
	assert.Zero(t, f.cursors.Len())
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, MinZoom, ClampZoom(0.01))
	assert.Equal(t, MaxZoom, ClampZoom(100))
	assert.Equal(t, 2.0, ClampZoom(2))
}
