// Package render is the port between page logic and whatever draws the page.
//
// Page components (wizard, reveal gate, viewport animator) never touch a DOM.
// They call a Renderer, or return Effects that are later applied to one. The
// browser client applies the same Effects to the real document; tests and the
// terminal preview apply them to a headless Document.
//
// Every mutation addressed to an unknown element is silently dropped. Missing
// markup degrades a feature, it never fails a request.
package render

// Renderer is the minimal element API the page logic needs
type Renderer interface {
	Exists(id string) bool
	Children(id string) []string

	Create(parent, id, tag string)
	SetAttr(id, name, value string)
	ToggleClass(id, class string, on bool)
	SetValue(id, value string)
	SetText(id, text string)
	SetStyle(id, prop, value string)
	SetDisabled(id string, disabled bool)
	Focus(id string)
	ScrollIntoView(id string)
}

// Recorder forwards calls to another renderer and records every mutation that
// landed as an Effect.
type Recorder struct {
	next    Renderer
	effects []Effect
}

// NewRecorder wraps next
func NewRecorder(next Renderer) *Recorder {
	return &Recorder{next: next}
}

// Effects returns the recorded effects
func (r *Recorder) Effects() []Effect {
	return r.effects
}

// Drain returns the recorded effects and clears the buffer
func (r *Recorder) Drain() []Effect {
	out := r.effects
	r.effects = nil
	return out
}

func (r *Recorder) record(e Effect) {
	r.effects = append(r.effects, e)
}

func (r *Recorder) Exists(id string) bool {
	return r.next.Exists(id)
}

func (r *Recorder) Children(id string) []string {
	return r.next.Children(id)
}

func (r *Recorder) Create(parent, id, tag string) {
	if !r.next.Exists(parent) || r.next.Exists(id) {
		return
	}
	r.next.Create(parent, id, tag)
	r.record(Create(parent, id, tag))
}

func (r *Recorder) SetAttr(id, name, value string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.SetAttr(id, name, value)
	r.record(Attr(id, name, value))
}

func (r *Recorder) ToggleClass(id, class string, on bool) {
	if !r.next.Exists(id) {
		return
	}
	r.next.ToggleClass(id, class, on)
	r.record(Class(id, class, on))
}

func (r *Recorder) SetValue(id, value string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.SetValue(id, value)
	r.record(Value(id, value))
}

func (r *Recorder) SetText(id, text string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.SetText(id, text)
	r.record(Text(id, text))
}

func (r *Recorder) SetStyle(id, prop, value string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.SetStyle(id, prop, value)
	r.record(Style(id, prop, value))
}

func (r *Recorder) SetDisabled(id string, disabled bool) {
	if !r.next.Exists(id) {
		return
	}
	r.next.SetDisabled(id, disabled)
	r.record(Disabled(id, disabled))
}

func (r *Recorder) Focus(id string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.Focus(id)
	r.record(Focus(id))
}

func (r *Recorder) ScrollIntoView(id string) {
	if !r.next.Exists(id) {
		return
	}
	r.next.ScrollIntoView(id)
	r.record(Scroll(id))
}
