// Package keychord tracks held keys and matches them against configured
// key chords used to gate canvas navigation gestures.
package keychord

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Settings keys for the navigation chords.
const (
	SettingTranslation = "paintfield.canvas.dragTranslation"
	SettingScale       = "paintfield.canvas.dragScale"
	SettingRotation    = "paintfield.canvas.dragRotation"
)

// Chord is a combination of keys that must be held together.
type Chord map[fyne.KeyName]struct{}

// NewChord builds a chord from keys. Right-hand modifiers are folded
// onto their left-hand names.
func NewChord(keys ...fyne.KeyName) Chord {
	c := make(Chord, len(keys))
	for _, k := range keys {
		c[Canonical(k)] = struct{}{}
	}
	return c
}

// Keys returns the chord keys in a stable order.
func (c Chord) Keys() []fyne.KeyName {
	keys := make([]fyne.KeyName, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := isModifier(keys[i]), isModifier(keys[j])
		if mi != mj {
			return mi
		}
		return keys[i] < keys[j]
	})
	return keys
}

// String formats the chord the way ParseChord reads it, e.g. "Shift+Space".
func (c Chord) String() string {
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		if name, ok := modifierNames[k]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, string(k))
		}
	}
	return strings.Join(parts, "+")
}

var modifierNames = map[fyne.KeyName]string{
	desktop.KeyControlLeft: "Ctrl",
	desktop.KeyShiftLeft:   "Shift",
	desktop.KeyAltLeft:     "Alt",
	desktop.KeySuperLeft:   "Super",
}

var modifierAliases = map[string]fyne.KeyName{
	"ctrl":    desktop.KeyControlLeft,
	"control": desktop.KeyControlLeft,
	"shift":   desktop.KeyShiftLeft,
	"alt":     desktop.KeyAltLeft,
	"option":  desktop.KeyAltLeft,
	"super":   desktop.KeySuperLeft,
	"meta":    desktop.KeySuperLeft,
	"cmd":     desktop.KeySuperLeft,
}

var namedKeys = func() map[string]fyne.KeyName {
	names := []fyne.KeyName{
		fyne.KeySpace, fyne.KeyTab, fyne.KeyEscape, fyne.KeyReturn, fyne.KeyEnter,
		fyne.KeyBackspace, fyne.KeyDelete, fyne.KeyInsert, fyne.KeyHome, fyne.KeyEnd,
		fyne.KeyPageUp, fyne.KeyPageDown, fyne.KeyUp, fyne.KeyDown, fyne.KeyLeft, fyne.KeyRight,
		fyne.KeyF1, fyne.KeyF2, fyne.KeyF3, fyne.KeyF4, fyne.KeyF5, fyne.KeyF6,
		fyne.KeyF7, fyne.KeyF8, fyne.KeyF9, fyne.KeyF10, fyne.KeyF11, fyne.KeyF12,
	}
	m := make(map[string]fyne.KeyName, len(names)+36)
	for _, n := range names {
		m[strings.ToLower(string(n))] = n
	}
	for r := 'A'; r <= 'Z'; r++ {
		m[strings.ToLower(string(r))] = fyne.KeyName(string(r))
	}
	for r := '0'; r <= '9'; r++ {
		m[string(r)] = fyne.KeyName(string(r))
	}
	return m
}()

// ParseChord parses a "+" separated key list such as "Ctrl+Space".
// An empty string yields an empty chord, which never matches.
func ParseChord(s string) (Chord, error) {
	c := Chord{}
	s = strings.TrimSpace(s)
	if s == "" {
		return c, nil
	}
	for _, tok := range strings.Split(s, "+") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("empty key in chord %q", s)
		}
		lower := strings.ToLower(tok)
		if k, ok := modifierAliases[lower]; ok {
			c[k] = struct{}{}
			continue
		}
		if k, ok := namedKeys[lower]; ok {
			c[k] = struct{}{}
			continue
		}
		return nil, fmt.Errorf("unknown key %q in chord %q", tok, s)
	}
	return c, nil
}

// Canonical folds right-hand modifier keys onto the left-hand names.
func Canonical(k fyne.KeyName) fyne.KeyName {
	switch k {
	case desktop.KeyShiftRight:
		return desktop.KeyShiftLeft
	case desktop.KeyControlRight:
		return desktop.KeyControlLeft
	case desktop.KeyAltRight:
		return desktop.KeyAltLeft
	case desktop.KeySuperRight:
		return desktop.KeySuperLeft
	}
	return k
}

func isModifier(k fyne.KeyName) bool {
	_, ok := modifierNames[k]
	return ok
}

// Tracker keeps the set of keys currently held down.
type Tracker struct {
	held map[fyne.KeyName]struct{}
}

// NewTracker creates a tracker with nothing held.
func NewTracker() *Tracker {
	return &Tracker{held: make(map[fyne.KeyName]struct{})}
}

// Pressed records k as held.
func (t *Tracker) Pressed(k fyne.KeyName) {
	t.held[Canonical(k)] = struct{}{}
}

// Released records k as released.
func (t *Tracker) Released(k fyne.KeyName) {
	delete(t.held, Canonical(k))
}

// Reset forgets every held key. Used when focus moves away and the
// matching key releases will never arrive.
func (t *Tracker) Reset() {
	clear(t.held)
}

// IsHeld reports whether k is down.
func (t *Tracker) IsHeld(k fyne.KeyName) bool {
	_, ok := t.held[Canonical(k)]
	return ok
}

// Held returns the held keys as a chord.
func (t *Tracker) Held() Chord {
	c := make(Chord, len(t.held))
	for k := range t.held {
		c[k] = struct{}{}
	}
	return c
}

// Match reports whether every key of c is held. Other keys may be held too.
func (t *Tracker) Match(c Chord) bool {
	if len(c) == 0 {
		return false
	}
	for k := range c {
		if _, ok := t.held[k]; !ok {
			return false
		}
	}
	return true
}

// Bindings are the three chords that start drag navigation.
type Bindings struct {
	Translation Chord
	Scale       Chord
	Rotation    Chord
}

// DefaultBindings returns Space to pan, Shift+Space to zoom and Alt+Space to rotate.
func DefaultBindings() Bindings {
	return Bindings{
		Translation: NewChord(fyne.KeySpace),
		Scale:       NewChord(desktop.KeyShiftLeft, fyne.KeySpace),
		Rotation:    NewChord(desktop.KeyAltLeft, fyne.KeySpace),
	}
}

// Source looks up a binding string by settings key.
type Source interface {
	String(key string) string
}

// LoadBindings reads the three chords from src. Missing entries keep the
// defaults; entries that fail to parse are reported and keep the defaults.
func LoadBindings(src Source) (Bindings, error) {
	b := DefaultBindings()
	var errs []string
	load := func(key string, dst *Chord) {
		s := src.String(key)
		if s == "" {
			return
		}
		c, err := ParseChord(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = c
	}
	load(SettingTranslation, &b.Translation)
	load(SettingScale, &b.Scale)
	load(SettingRotation, &b.Rotation)
	if len(errs) > 0 {
		return b, fmt.Errorf("invalid key bindings: %s", strings.Join(errs, "; "))
	}
	return b, nil
}
