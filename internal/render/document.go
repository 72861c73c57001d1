package render

import "sort"

// Element is one node of a headless Document
type Element struct {
	ID       string
	Tag      string
	Parent   string
	Children []string
	Attrs    map[string]string
	Classes  map[string]bool
	Styles   map[string]string
	Value    string
	Text     string
	Disabled bool
}

// Document is an in-memory Renderer. It is not safe for concurrent use; callers
// hold the owning session's lock.
type Document struct {
	elements map[string]*Element
	order    []string
	focused  string
	scrolled []string
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Mount adds a top-level element. Layout elements the page ships with are
// mounted this way before any component runs.
func (d *Document) Mount(id, tag string, classes ...string) {
	if id == "" || d.Exists(id) {
		return
	}
	el := newElement(id, tag, "")
	for _, c := range classes {
		el.Classes[c] = true
	}
	d.elements[id] = el
	d.order = append(d.order, id)
}

func newElement(id, tag, parent string) *Element {
	return &Element{
		ID:      id,
		Tag:     tag,
		Parent:  parent,
		Attrs:   make(map[string]string),
		Classes: make(map[string]bool),
		Styles:  make(map[string]string),
	}
}

// Element returns the element with id
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

func (d *Document) Exists(id string) bool {
	_, ok := d.elements[id]
	return ok
}

func (d *Document) Children(id string) []string {
	el, ok := d.elements[id]
	if !ok {
		return nil
	}
	out := make([]string, len(el.Children))
	copy(out, el.Children)
	return out
}

// Parent returns the parent id of id, "" for top-level or unknown elements
func (d *Document) Parent(id string) string {
	if el, ok := d.elements[id]; ok {
		return el.Parent
	}
	return ""
}

func (d *Document) Create(parent, id, tag string) {
	p, ok := d.elements[parent]
	if !ok || id == "" || d.Exists(id) {
		return
	}
	d.elements[id] = newElement(id, tag, parent)
	d.order = append(d.order, id)
	p.Children = append(p.Children, id)
}

func (d *Document) SetAttr(id, name, value string) {
	if el, ok := d.elements[id]; ok {
		el.Attrs[name] = value
	}
}

func (d *Document) ToggleClass(id, class string, on bool) {
	el, ok := d.elements[id]
	if !ok {
		return
	}
	if on {
		el.Classes[class] = true
	} else {
		delete(el.Classes, class)
	}
}

func (d *Document) SetValue(id, value string) {
	if el, ok := d.elements[id]; ok {
		el.Value = value
	}
}

func (d *Document) SetText(id, text string) {
	if el, ok := d.elements[id]; ok {
		el.Text = text
	}
}

func (d *Document) SetStyle(id, prop, value string) {
	if el, ok := d.elements[id]; ok {
		el.Styles[prop] = value
	}
}

func (d *Document) SetDisabled(id string, disabled bool) {
	if el, ok := d.elements[id]; ok {
		el.Disabled = disabled
	}
}

func (d *Document) Focus(id string) {
	if d.Exists(id) {
		d.focused = id
	}
}

func (d *Document) ScrollIntoView(id string) {
	if d.Exists(id) {
		d.scrolled = append(d.scrolled, id)
	}
}

// HasClass reports whether id carries class
func (d *Document) HasClass(id, class string) bool {
	el, ok := d.elements[id]
	return ok && el.Classes[class]
}

// Attr returns an attribute value, "" when absent
func (d *Document) Attr(id, name string) string {
	if el, ok := d.elements[id]; ok {
		return el.Attrs[name]
	}
	return ""
}

// Value returns the control value
func (d *Document) Value(id string) string {
	if el, ok := d.elements[id]; ok {
		return el.Value
	}
	return ""
}

// Text returns the text content
func (d *Document) Text(id string) string {
	if el, ok := d.elements[id]; ok {
		return el.Text
	}
	return ""
}

// Style returns an inline style property
func (d *Document) Style(id, prop string) string {
	if el, ok := d.elements[id]; ok {
		return el.Styles[prop]
	}
	return ""
}

// IsDisabled reports the disabled state
func (d *Document) IsDisabled(id string) bool {
	el, ok := d.elements[id]
	return ok && el.Disabled
}

// Focused returns the focused element id
func (d *Document) Focused() string {
	return d.focused
}

// LastScrolled returns the most recent scroll target
func (d *Document) LastScrolled() string {
	if len(d.scrolled) == 0 {
		return ""
	}
	return d.scrolled[len(d.scrolled)-1]
}

// ByClass returns ids carrying class in document order
func (d *Document) ByClass(class string) []string {
	var out []string
	for _, id := range d.order {
		if d.elements[id].Classes[class] {
			out = append(out, id)
		}
	}
	return out
}

// ClassNames returns the sorted classes of id
func (d *Document) ClassNames(id string) []string {
	el, ok := d.elements[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(el.Classes))
	for c := range el.Classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
