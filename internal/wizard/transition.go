package wizard

import (
	"ascendant/internal/model"
	"ascendant/internal/render"
)

// Event is an input the wizard reacts to
type Event interface {
	isEvent()
}

// Select is a direct activation (click, tap) of an option
type Select struct {
	QuestionID string
	Value      int
}

// Nudge is a navigation key pressed while an option of the scale has focus.
// Focused is the value of that option, 0 when unknown.
type Nudge struct {
	QuestionID string
	Focused    int
	Key        string
}

// Submit is a press of the final submit control
type Submit struct{}

func (Select) isEvent() {}
func (Nudge) isEvent()  {}
func (Submit) isEvent() {}

// Transition is the wizard state machine. It never mutates s; it returns the
// next state and the effects that render the change. Events that do not apply
// return s unchanged and no effects.
func Transition(s model.WizardState, ev Event) (model.WizardState, []render.Effect) {
	if !s.Initialized() {
		return s, nil
	}

	switch e := ev.(type) {
	case Select:
		return selectAndAdvance(s, s.StepIndex(e.QuestionID), e.Value, nil)

	case Nudge:
		delta, ok := KeyDelta(e.Key)
		idx := s.StepIndex(e.QuestionID)
		if !ok || !selectable(s, idx) {
			return s, nil
		}
		value := nudgeTarget(s.Steps[idx], e.Focused, delta)
		focus := render.Focus(OptionID(ScaleID(e.QuestionID), value))
		return selectAndAdvance(s, idx, value, []render.Effect{focus})

	case Submit:
		return submit(s)
	}
	return s, nil
}

func selectAndAdvance(s model.WizardState, idx, value int, lead []render.Effect) (model.WizardState, []render.Effect) {
	next := s.Clone()
	effects, ok := applySelection(&next, idx, value)
	if !ok {
		return s, nil
	}
	effects = append(lead, effects...)
	return next, append(effects, advance(&next, idx)...)
}

// advance completes step idx and activates its successor, or reveals the
// terminal warning once the sequence is exhausted. A completed step never
// advances again, so revising an earlier answer only changes its value.
func advance(s *model.WizardState, idx int) []render.Effect {
	step := &s.Steps[idx]
	if step.Status != model.StepActive {
		return nil
	}

	step.Status = model.StepCompleted
	stepID := StepID(step.QuestionID)
	effects := []render.Effect{
		render.Class(stepID, "active", false),
		render.Class(stepID, "completed", true),
	}

	if idx+1 < len(s.Steps) {
		next := &s.Steps[idx+1]
		next.Status = model.StepActive
		nextID := StepID(next.QuestionID)
		return append(effects,
			render.Class(nextID, "active", true),
			render.Scroll(nextID),
		)
	}

	if s.WarningShown {
		return effects
	}
	s.WarningShown = true
	return append(effects, warningEffects()...)
}

func warningEffects() []render.Effect {
	return []render.Effect{
		render.Class(WarningID, "visible", true),
		render.Attr(WarningID, "aria-hidden", "false"),
		render.Scroll(WarningID),
		render.Disabled(SubmitID, false),
	}
}

// submit takes the terminal lock. It only applies once the warning is shown
// and only the first time.
func submit(s model.WizardState) (model.WizardState, []render.Effect) {
	if !s.WarningShown || s.Submitted {
		return s, nil
	}

	next := s.Clone()
	next.Submitted = true
	return next, lockEffects(next)
}

func lockEffects(s model.WizardState) []render.Effect {
	var effects []render.Effect
	for _, step := range s.Steps {
		scaleID := ScaleID(step.QuestionID)
		for v := model.ScaleMin; v <= model.ScaleMax; v++ {
			effects = append(effects, render.Disabled(OptionID(scaleID, v), true))
		}
	}
	return append(effects,
		render.Disabled(SubmitID, true),
		render.Text(SubmitID, SubmittedLabel),
		render.Class(SubmitID, "submitted", true),
		render.Class(FeedbackID, "visible", true),
		render.Text(FeedbackID, FeedbackText),
	)
}

// Sync renders s onto a freshly built wizard. Build followed by Sync reproduces
// the page a client had before it reconnected.
func Sync(s model.WizardState) []render.Effect {
	var effects []render.Effect
	for _, step := range s.Steps {
		stepID := StepID(step.QuestionID)
		effects = append(effects,
			render.Class(stepID, "active", step.Status == model.StepActive),
			render.Class(stepID, "completed", step.Status == model.StepCompleted),
		)
		if step.Scale.Answered() {
			effects = append(effects, selectionEffects(step.QuestionID, step.Scale.Selected)...)
		}
	}
	if s.WarningShown {
		effects = append(effects,
			render.Class(WarningID, "visible", true),
			render.Attr(WarningID, "aria-hidden", "false"),
			render.Disabled(SubmitID, false),
		)
	}
	if s.Submitted {
		effects = append(effects, lockEffects(s)...)
	}
	return effects
}
