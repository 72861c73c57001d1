package render

// Op names a single rendering mutation
type Op string

const (
	OpCreate   Op = "create"
	OpAttr     Op = "attr"
	OpClass    Op = "class"
	OpValue    Op = "value"
	OpText     Op = "text"
	OpStyle    Op = "style"
	OpDisabled Op = "disabled"
	OpFocus    Op = "focus"
	OpScroll   Op = "scroll"
)

// Effect is the serialisable form of one Renderer call. It is the wire format
// the browser applies to the real DOM.
type Effect struct {
	Op     Op     `json:"op"`
	Target string `json:"target"`
	Parent string `json:"parent,omitempty"` // OpCreate only
	Name   string `json:"name,omitempty"`   // tag, attribute, class or style property
	Value  string `json:"value,omitempty"`
	On     bool   `json:"on,omitempty"` // OpClass, OpDisabled
}

// Create appends a new element with tag under parent
func Create(parent, id, tag string) Effect {
	return Effect{Op: OpCreate, Target: id, Parent: parent, Name: tag}
}

// Attr sets an attribute
func Attr(id, name, value string) Effect {
	return Effect{Op: OpAttr, Target: id, Name: name, Value: value}
}

// Class adds (on) or removes a class
func Class(id, class string, on bool) Effect {
	return Effect{Op: OpClass, Target: id, Name: class, On: on}
}

// Value sets a form control value
func Value(id, value string) Effect {
	return Effect{Op: OpValue, Target: id, Value: value}
}

// Text replaces the text content
func Text(id, text string) Effect {
	return Effect{Op: OpText, Target: id, Value: text}
}

// Style sets an inline style property
func Style(id, prop, value string) Effect {
	return Effect{Op: OpStyle, Target: id, Name: prop, Value: value}
}

// Disabled toggles the disabled state
func Disabled(id string, disabled bool) Effect {
	return Effect{Op: OpDisabled, Target: id, On: disabled}
}

// Focus moves focus
func Focus(id string) Effect {
	return Effect{Op: OpFocus, Target: id}
}

// Scroll scrolls the element into view
func Scroll(id string) Effect {
	return Effect{Op: OpScroll, Target: id}
}

// Apply replays effects onto r in order
func Apply(r Renderer, effects []Effect) {
	for _, e := range effects {
		switch e.Op {
		case OpCreate:
			r.Create(e.Parent, e.Target, e.Name)
		case OpAttr:
			r.SetAttr(e.Target, e.Name, e.Value)
		case OpClass:
			r.ToggleClass(e.Target, e.Name, e.On)
		case OpValue:
			r.SetValue(e.Target, e.Value)
		case OpText:
			r.SetText(e.Target, e.Value)
		case OpStyle:
			r.SetStyle(e.Target, e.Name, e.Value)
		case OpDisabled:
			r.SetDisabled(e.Target, e.On)
		case OpFocus:
			r.Focus(e.Target)
		case OpScroll:
			r.ScrollIntoView(e.Target)
		}
	}
}
