package keychord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

func TestMatchOrderIndependent(t *testing.T) {
	chord := NewChord(desktop.KeyShiftLeft, fyne.KeySpace)

	for _, order := range [][]fyne.KeyName{
		{desktop.KeyShiftLeft, fyne.KeySpace},
		{fyne.KeySpace, desktop.KeyShiftRight},
	} {
		tr := NewTracker()
		tr.Pressed(order[0])
		assert.False(t, tr.Match(chord))
		tr.Pressed(order[1])
		assert.True(t, tr.Match(chord))

		tr.Released(order[0])
		tr.Released(order[1])
		assert.False(t, tr.Match(chord))
	}
}

func TestMatchPartialRelease(t *testing.T) {
	tr := NewTracker()
	chord := NewChord(desktop.KeyAltLeft, fyne.KeySpace)
	tr.Pressed(desktop.KeyAltLeft)
	tr.Pressed(fyne.KeySpace)
	tr.Released(fyne.KeySpace)
	assert.False(t, tr.Match(chord))
	assert.True(t, tr.IsHeld(desktop.KeyAltRight))
}

func TestEmptyChordNeverMatches(t *testing.T) {
	tr := NewTracker()
	tr.Pressed(fyne.KeySpace)
	assert.False(t, tr.Match(Chord{}))
}

func TestReset(t *testing.T) {
	tr := NewTracker()
	tr.Pressed(fyne.KeySpace)
	tr.Reset()
	assert.False(t, tr.Match(NewChord(fyne.KeySpace)))
	assert.Empty(t, tr.Held())
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		in      string
		want    Chord
		wantErr bool
	}{
		{in: "Space", want: NewChord(fyne.KeySpace)},
		{in: "ctrl + space", want: NewChord(desktop.KeyControlLeft, fyne.KeySpace)},
		{in: "Shift+Alt+z", want: NewChord(desktop.KeyShiftLeft, desktop.KeyAltLeft, fyne.KeyZ)},
		{in: "Cmd+F5", want: NewChord(desktop.KeySuperLeft, fyne.KeyF5)},
		{in: "", want: Chord{}},
		{in: "Shift+", wantErr: true},
		{in: "Hyper+Space", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChord(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChordString(t *testing.T) {
	c := NewChord(fyne.KeySpace, desktop.KeyShiftRight)
	assert.Equal(t, "Shift+Space", c.String())
	back, err := ParseChord(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

type mapSource map[string]string

func (m mapSource) String(key string) string { return m[key] }

func TestLoadBindings(t *testing.T) {
	b, err := LoadBindings(mapSource{SettingScale: "Ctrl+Space"})
	require.NoError(t, err)
	assert.Equal(t, NewChord(desktop.KeyControlLeft, fyne.KeySpace), b.Scale)
	assert.Equal(t, DefaultBindings().Translation, b.Translation)

	b, err = LoadBindings(mapSource{SettingRotation: "Nope+Space"})
	assert.Error(t, err)
	assert.Equal(t, DefaultBindings().Rotation, b.Rotation)
}
