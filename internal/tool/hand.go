package tool

import (
	"paintfield/internal/cursor"
	"paintfield/pkg/geometry"
)

// Translator is the part of the navigation state the hand tool moves.
type Translator interface {
	Translation() geometry.PointInt
	SetTranslation(geometry.PointInt)
}

// Hand pans the view while the primary button is held. It works in
// window coordinates because scene coordinates move with the pan.
type Hand struct {
	Base

	nav     Translator
	panning bool
	origin  geometry.Point2D
	start   geometry.PointInt
}

// NewHand creates a hand tool moving nav.
func NewHand(nav Translator) *Hand {
	h := &Hand{nav: nav}
	h.SetCursor(cursor.OpenHand)
	return h
}

// HandleEvent implements Tool.
func (h *Hand) HandleEvent(ev Event) Result {
	switch ev.Type {
	case TabletPress:
		h.panning = true
		h.origin = ev.GlobalPos
		h.start = h.nav.Translation()
		h.SetCursor(cursor.ClosedHand)
		return Accepted
	case TabletMove:
		if !h.panning {
			return Rejected
		}
		h.nav.SetTranslation(h.start.Add(ev.GlobalPos.Sub(h.origin).Round()))
		return Accepted
	case TabletRelease:
		if !h.panning {
			return Rejected
		}
		h.panning = false
		h.SetCursor(cursor.OpenHand)
		return Accepted
	}
	return Rejected
}
