// Package reveal implements the hero intro: two doors and a branding overlay
// that crumble away on the first click, staged over two fixed delays.
package reveal

import (
	"time"

	"ascendant/internal/render"
)

// Elements the hero markup provides
const (
	BodyID      = "page-body"
	HeroID      = "hero-beam"
	DoorLeftID  = "door-left"
	DoorRightID = "door-right"
	BrandingID  = "initial-branding"
	RevealedID  = "revealed-content"
)

// ScrollLockClass is carried by the body while the overlay is up
const ScrollLockClass = "scroll-locked"

// Tree is the read side of a document the gate needs
type Tree interface {
	Exists(id string) bool
	Parent(id string) string
}

// Stage is a batch of effects applied After the opening click
type Stage struct {
	After   time.Duration
	Effects []render.Effect
}

// Gate holds the reveal timings. The opened flag belongs to the session and is
// passed in; a Gate value carries no state of its own.
type Gate struct {
	RevealDelay time.Duration // click to revealed content
	RemoveDelay time.Duration // revealed content to doors leaving the layout
}

// Default returns the stock timings
func Default() Gate {
	return Gate{
		RevealDelay: 300 * time.Millisecond,
		RemoveDelay: 1200 * time.Millisecond,
	}
}

func ready(t Tree) bool {
	for _, id := range []string{DoorLeftID, DoorRightID, BrandingID, RevealedID, HeroID} {
		if !t.Exists(id) {
			return false
		}
	}
	return true
}

// Prepare returns the effects that put the hero in the state matching opened.
// A closed hero shows a pointer cursor and locks page scrolling; an opened one
// is rendered in its final state with no animation. ok is false when any hero
// element is missing, in which case the gate stays inactive.
func (g Gate) Prepare(t Tree, opened bool) ([]render.Effect, bool) {
	if !ready(t) {
		return nil, false
	}
	if opened {
		return []render.Effect{
			render.Class(BrandingID, "fade-out", true),
			render.Class(RevealedID, "visible", true),
			render.Style(DoorLeftID, "display", "none"),
			render.Style(DoorRightID, "display", "none"),
			render.Class(BodyID, ScrollLockClass, false),
		}, true
	}
	return []render.Effect{
		render.Style(HeroID, "cursor", "pointer"),
		render.Class(BodyID, ScrollLockClass, true),
	}, true
}

// Qualifies reports whether a click on target counts as a click in the hero
func Qualifies(t Tree, target string) bool {
	for id, depth := target, 0; id != "" && depth < 32; id, depth = t.Parent(id), depth+1 {
		if id == HeroID {
			return true
		}
	}
	return false
}

// Open returns the reveal stages for a click on target. It returns nil unless
// this is the first qualifying click of a ready hero.
func (g Gate) Open(t Tree, opened bool, target string) []Stage {
	if opened || !ready(t) || !Qualifies(t, target) {
		return nil
	}
	return []Stage{
		{
			Effects: []render.Effect{
				render.Class(DoorLeftID, "crumbling", true),
				render.Class(DoorRightID, "crumbling", true),
				render.Class(BrandingID, "fade-out", true),
			},
		},
		{
			After:   g.RevealDelay,
			Effects: []render.Effect{render.Class(RevealedID, "visible", true)},
		},
		{
			After: g.RevealDelay + g.RemoveDelay,
			Effects: []render.Effect{
				render.Style(DoorLeftID, "display", "none"),
				render.Style(DoorRightID, "display", "none"),
				render.Class(BodyID, ScrollLockClass, false),
			},
		},
	}
}
