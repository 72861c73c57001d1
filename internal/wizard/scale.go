package wizard

import (
	"strconv"

	"ascendant/internal/model"
	"ascendant/internal/render"
)

// OptionClass marks a rating option
const OptionClass = "scale-option"

// BuildScale fills containerID with the rating options 1..10, each tagged with
// its value and the hidden field it writes to. A container that already holds
// options is left as is, so calling it twice is harmless.
func BuildScale(r render.Renderer, containerID, fieldID string) bool {
	if !r.Exists(containerID) || len(r.Children(containerID)) > 0 {
		return false
	}

	for v := model.ScaleMin; v <= model.ScaleMax; v++ {
		id := OptionID(containerID, v)
		label := strconv.Itoa(v)

		r.Create(containerID, id, "button")
		r.SetAttr(id, "type", "button")
		r.ToggleClass(id, OptionClass, true)
		r.SetAttr(id, "role", "radio")
		r.SetAttr(id, "aria-checked", "false")
		r.SetAttr(id, "data-value", label)
		r.SetAttr(id, "data-field", fieldID)
		r.SetText(id, label)
	}
	return true
}
