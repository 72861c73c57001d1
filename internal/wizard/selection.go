package wizard

import (
	"strconv"

	"ascendant/internal/model"
	"ascendant/internal/render"
)

// Navigation keys recognised on a focused option
const (
	KeyRight = "ArrowRight"
	KeyUp    = "ArrowUp"
	KeyLeft  = "ArrowLeft"
	KeyDown  = "ArrowDown"
)

// KeyDelta maps a navigation key to its step. ok is false for every other key;
// the client must then leave the key event alone.
func KeyDelta(key string) (delta int, ok bool) {
	switch key {
	case KeyRight, KeyUp:
		return 1, true
	case KeyLeft, KeyDown:
		return -1, true
	}
	return 0, false
}

func clamp(v int) int {
	if v < model.ScaleMin {
		return model.ScaleMin
	}
	if v > model.ScaleMax {
		return model.ScaleMax
	}
	return v
}

// selectable reports whether the scale of step idx accepts a selection:
// the step exists, is not pending and the form is not locked.
func selectable(s model.WizardState, idx int) bool {
	if idx < 0 || idx >= len(s.Steps) || s.Submitted {
		return false
	}
	return s.Steps[idx].Status != model.StepPending
}

// applySelection records value on the scale of step idx and renders the
// exclusive selection. s must already be a private copy.
func applySelection(s *model.WizardState, idx, value int) ([]render.Effect, bool) {
	if !selectable(*s, idx) || value < model.ScaleMin || value > model.ScaleMax {
		return nil, false
	}

	step := &s.Steps[idx]
	step.Scale.Selected = value
	return selectionEffects(step.QuestionID, value), true
}

// selectionEffects marks value selected and every sibling unselected, then
// writes the value to the hidden field.
func selectionEffects(questionID string, value int) []render.Effect {
	scaleID := ScaleID(questionID)
	effects := make([]render.Effect, 0, 2*(model.ScaleMax-model.ScaleMin+1)+1)
	for v := model.ScaleMin; v <= model.ScaleMax; v++ {
		id := OptionID(scaleID, v)
		on := v == value
		effects = append(effects,
			render.Class(id, "selected", on),
			render.Attr(id, "aria-checked", strconv.FormatBool(on)),
		)
	}
	return append(effects, render.Value(FieldID(questionID), strconv.Itoa(value)))
}

// nudgeTarget resolves the value a navigation key moves to. The focused option
// wins; without one the current selection is the origin.
func nudgeTarget(step model.Step, focused, delta int) int {
	origin := focused
	if origin < model.ScaleMin || origin > model.ScaleMax {
		origin = step.Scale.Selected
	}
	return clamp(origin + delta)
}

// OptionTree is the read side of a document needed to resolve an option
type OptionTree interface {
	Exists(id string) bool
	Parent(id string) string
	Attr(id, name string) string
	IsDisabled(id string) bool
}

// ResolveOption maps an option element to the question it answers and the
// value it carries. ok is false for anything that is not an enabled option
// sitting in the scale of its own question.
func ResolveOption(t OptionTree, optionID string) (questionID string, value int, ok bool) {
	if !t.Exists(optionID) || t.IsDisabled(optionID) {
		return "", 0, false
	}
	value, err := strconv.Atoi(t.Attr(optionID, "data-value"))
	if err != nil || value < model.ScaleMin || value > model.ScaleMax {
		return "", 0, false
	}

	scaleID := t.Parent(optionID)
	questionID = t.Attr(t.Parent(scaleID), "data-question")
	if questionID == "" || scaleID != ScaleID(questionID) || optionID != OptionID(scaleID, value) {
		return "", 0, false
	}
	if t.Attr(optionID, "data-field") != FieldID(questionID) {
		return "", 0, false
	}
	return questionID, value, true
}
