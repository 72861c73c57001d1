// Package viewport fades page sections in the first time they scroll into
// view, and drives the hero beam parallax.
package viewport

import (
	"math"
	"strconv"

	"ascendant/internal/render"
)

// Rect is an element box in viewport coordinates (CSS pixels)
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) bottom() float64 { return r.Top + r.Height }
func (r Rect) right() float64  { return r.Left + r.Width }

// Margin grows (positive) or shrinks (negative) the root box per side
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Entry is one observed element as reported by the client
type Entry struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

// Animator holds the observer configuration. Which elements already fired is
// session state and is passed in.
type Animator struct {
	Classes    []string
	Threshold  float64
	RootMargin Margin
}

// Default returns the page's observer configuration
func Default() Animator {
	return Animator{
		Classes:    []string{"qual-point", "protocol-phase", "framework-content", "cta-content"},
		Threshold:  0.1,
		RootMargin: Margin{Bottom: -100},
	}
}

// ClassLister finds elements by class in document order
type ClassLister interface {
	ByClass(class string) []string
}

// Targets returns every element carrying an observed class, once each
func (a Animator) Targets(doc ClassLister) []string {
	seen := make(map[string]bool)
	var out []string
	for _, class := range a.Classes {
		for _, id := range doc.ByClass(class) {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func hidden(id string) []render.Effect {
	return []render.Effect{
		render.Style(id, "opacity", "0"),
		render.Style(id, "transform", "translateY(30px)"),
	}
}

func settled(id string) []render.Effect {
	return []render.Effect{
		render.Style(id, "transition", "all 1s cubic-bezier(0.4, 0, 0.2, 1)"),
		render.Style(id, "opacity", "1"),
		render.Style(id, "transform", "translateY(0)"),
	}
}

// Prepare hides every target that has not fired yet and settles the rest
func (a Animator) Prepare(targets []string, fired func(id string) bool) []render.Effect {
	var effects []render.Effect
	for _, id := range targets {
		if fired(id) {
			effects = append(effects, settled(id)...)
			continue
		}
		effects = append(effects, hidden(id)...)
	}
	return effects
}

// Ratio is the share of el's area inside the margin-adjusted viewport
func (a Animator) Ratio(el, viewport Rect) float64 {
	area := el.Width * el.Height
	if area <= 0 {
		return 0
	}

	m := a.RootMargin
	top := viewport.Top - m.Top
	left := viewport.Left - m.Left
	bottom := viewport.bottom() + m.Bottom
	right := viewport.right() + m.Right

	w := min(el.right(), right) - max(el.Left, left)
	h := min(el.bottom(), bottom) - max(el.Top, top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return (w * h) / area
}

// Observe checks entries against viewport. Each target fires at most once:
// the returned ids are the ones that fired now and must be excluded from
// every later call via fired.
func (a Animator) Observe(targets []string, entries []Entry, viewport Rect, fired func(id string) bool) ([]render.Effect, []string) {
	known := make(map[string]bool, len(targets))
	for _, id := range targets {
		known[id] = true
	}

	var effects []render.Effect
	var now []string
	for _, e := range entries {
		if !known[e.ID] || fired(e.ID) {
			continue
		}
		ratio := a.Ratio(e.Rect, viewport)
		if ratio <= 0 || ratio < a.Threshold {
			continue
		}
		known[e.ID] = false
		now = append(now, e.ID)
		effects = append(effects, settled(e.ID)...)
	}
	return effects, now
}

// BeamGlowID is the element moved by the parallax
const BeamGlowID = "beam-glow"

// ParallaxSpeed is the beam offset per scrolled pixel
const ParallaxSpeed = 0.15

// Parallax positions the beam glow for scrollY
func Parallax(scrollY float64) render.Effect {
	offset := strconv.FormatFloat(math.Round(scrollY*ParallaxSpeed*100)/100, 'f', -1, 64)
	return render.Style(BeamGlowID, "transform", "translate(-50%, "+offset+"px)")
}
