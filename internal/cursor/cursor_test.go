package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fyne.io/fyne/v2/driver/desktop"
)

func TestStackOrder(t *testing.T) {
	s := NewStack()
	_, ok := s.Current()
	assert.False(t, ok)

	a := s.Push(Crosshair)
	b := s.Push(ClosedHand)
	cur, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, ClosedHand, cur)

	// Out of order release keeps the newer override on top.
	a.Release()
	cur, _ = s.Current()
	assert.Equal(t, ClosedHand, cur)
	assert.Equal(t, 1, s.Len())

	b.Release()
	b.Release()
	assert.Zero(t, s.Len())
}

func TestChangedSignal(t *testing.T) {
	s := NewStack()
	var seen []Shape
	s.Changed.Connect(func(sh Shape) { seen = append(seen, sh) })

	under := s.Push(Hidden)
	top := s.Push(VResize)
	under.Release() // not the top entry, nothing visible changes
	top.Release()

	assert.Equal(t, []Shape{Hidden, VResize, Default}, seen)
}

func TestReleaseAll(t *testing.T) {
	s := NewStack()
	o := s.Push(OpenHand)
	s.Push(ClosedHand)
	s.ReleaseAll()
	assert.Zero(t, s.Len())
	assert.False(t, o.Held())
	o.Release()
	assert.Zero(t, s.Len())
}

func TestDesktopMapping(t *testing.T) {
	assert.Equal(t, desktop.HiddenCursor, Hidden.Desktop())
	assert.Equal(t, desktop.VResizeCursor, VResize.Desktop())
	assert.Equal(t, desktop.DefaultCursor, Default.Desktop())
	assert.Equal(t, "closed-hand", ClosedHand.String())
}
