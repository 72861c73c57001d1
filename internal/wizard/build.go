package wizard

import (
	"strconv"

	"ascendant/internal/model"
	"ascendant/internal/render"
)

// Build creates one step per question inside the steps container and returns
// the initial state: first step active, the rest pending, submit disabled.
//
// It returns false without touching r when the page lacks its form or steps
// container or when there are no usable questions. Questions with an empty or
// repeated id are skipped.
func Build(r render.Renderer, questions []model.Question) (model.WizardState, bool) {
	if !r.Exists(FormID) || !r.Exists(StepsID) {
		return model.WizardState{}, false
	}

	usable := make([]model.Question, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		usable = append(usable, q)
	}
	if len(usable) == 0 {
		return model.WizardState{}, false
	}

	state := model.WizardState{Steps: make([]model.Step, len(usable))}
	for i, q := range usable {
		buildStep(r, i, q)

		state.Steps[i] = model.Step{
			Index:      i,
			QuestionID: q.ID,
			Status:     model.StepPending,
		}
	}

	state.Steps[0].Status = model.StepActive
	r.ToggleClass(StepID(usable[0].ID), "active", true)
	r.SetDisabled(SubmitID, true)
	r.SetAttr(WarningID, "aria-hidden", "true")

	return state, true
}

func buildStep(r render.Renderer, index int, q model.Question) {
	stepID := StepID(q.ID)
	scaleID := ScaleID(q.ID)
	fieldID := FieldID(q.ID)

	r.Create(StepsID, stepID, "section")
	r.ToggleClass(stepID, "question-step", true)
	r.SetAttr(stepID, "data-index", strconv.Itoa(index))
	r.SetAttr(stepID, "data-question", q.ID)

	r.Create(stepID, stepID+"-section", "p")
	r.ToggleClass(stepID+"-section", "question-section", true)
	r.SetText(stepID+"-section", q.Section)

	r.Create(stepID, stepID+"-statement", "h3")
	r.ToggleClass(stepID+"-statement", "question-statement", true)
	r.SetText(stepID+"-statement", q.Statement)

	r.Create(stepID, scaleID, "div")
	r.ToggleClass(scaleID, "likert-scale", true)
	r.SetAttr(scaleID, "role", "radiogroup")
	r.SetAttr(scaleID, "aria-labelledby", stepID+"-statement")
	r.SetAttr(scaleID, "data-field", fieldID)

	r.Create(stepID, fieldID, "input")
	r.SetAttr(fieldID, "type", "hidden")
	r.SetAttr(fieldID, "name", q.ID)

	BuildScale(r, scaleID, fieldID)
}
