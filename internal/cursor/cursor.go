// Package cursor provides cursor shapes and a stack of scoped cursor overrides.
package cursor

import (
	"paintfield/internal/signal"

	"fyne.io/fyne/v2/driver/desktop"
)

// Shape is a platform independent cursor shape.
type Shape int

const (
	Default Shape = iota
	Arrow
	Crosshair
	OpenHand
	ClosedHand
	VResize
	HResize
	Hidden
)

func (s Shape) String() string {
	switch s {
	case Arrow:
		return "arrow"
	case Crosshair:
		return "crosshair"
	case OpenHand:
		return "open-hand"
	case ClosedHand:
		return "closed-hand"
	case VResize:
		return "v-resize"
	case HResize:
		return "h-resize"
	case Hidden:
		return "hidden"
	default:
		return "default"
	}
}

// Desktop returns the closest fyne desktop cursor.
// fyne has no hand cursors, so both hands map to the pointer cursor.
func (s Shape) Desktop() desktop.Cursor {
	switch s {
	case Crosshair:
		return desktop.CrosshairCursor
	case OpenHand, ClosedHand:
		return desktop.PointerCursor
	case VResize:
		return desktop.VResizeCursor
	case HResize:
		return desktop.HResizeCursor
	case Hidden:
		return desktop.HiddenCursor
	default:
		return desktop.DefaultCursor
	}
}

// Stack is an ordered set of cursor overrides. The most recently pushed
// override that is still held decides the effective cursor.
type Stack struct {
	entries []*Override

	// Changed fires with the effective shape whenever the top entry changes.
	// When the stack becomes empty it fires with Default.
	Changed signal.Signal[Shape]
}

// Override is a held cursor override. Release it when the owner is done.
type Override struct {
	stack *Stack
	shape Shape
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push installs shape on top of the stack.
func (s *Stack) Push(shape Shape) *Override {
	o := &Override{stack: s, shape: shape}
	s.entries = append(s.entries, o)
	s.Changed.Emit(shape)
	return o
}

// Current returns the effective override, if any.
func (s *Stack) Current() (Shape, bool) {
	if len(s.entries) == 0 {
		return Default, false
	}
	return s.entries[len(s.entries)-1].shape, true
}

// Len returns the number of held overrides.
func (s *Stack) Len() int {
	return len(s.entries)
}

// ReleaseAll drops every override.
func (s *Stack) ReleaseAll() {
	if len(s.entries) == 0 {
		return
	}
	for _, o := range s.entries {
		o.stack = nil
	}
	s.entries = nil
	s.Changed.Emit(Default)
}

func (s *Stack) remove(o *Override) {
	for i, e := range s.entries {
		if e != o {
			continue
		}
		top := i == len(s.entries)-1
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		if top {
			shape, _ := s.Current()
			s.Changed.Emit(shape)
		}
		return
	}
}

// Shape returns the overriding shape.
func (o *Override) Shape() Shape {
	return o.shape
}

// Held reports whether the override is still on its stack.
func (o *Override) Held() bool {
	return o != nil && o.stack != nil
}

// Release removes the override. Releasing twice, or releasing a nil
// override, does nothing.
func (o *Override) Release() {
	if o == nil || o.stack == nil {
		return
	}
	s := o.stack
	o.stack = nil
	s.remove(o)
}
