package wizard

import (
	"ascendant/internal/model"
	"ascendant/internal/render"
)

// Controller owns one wizard state and applies every transition to a renderer.
// It is not safe for concurrent use; one controller serves one session.
type Controller struct {
	r     render.Renderer
	state model.WizardState
}

// NewController returns an uninitialised controller drawing on r
func NewController(r render.Renderer) *Controller {
	return &Controller{r: r}
}

// Restore returns a controller resuming state on r. r is expected to already
// show state (see Sync).
func Restore(r render.Renderer, state model.WizardState) *Controller {
	return &Controller{r: r, state: state.Clone()}
}

// Init builds the steps for questions. It reports false and leaves the
// controller inert when the page or the question list is unusable.
func (c *Controller) Init(questions []model.Question) bool {
	if c.state.Initialized() {
		return true
	}
	state, ok := Build(c.r, questions)
	if !ok {
		return false
	}
	c.state = state
	return true
}

// Dispatch runs ev through Transition and applies the resulting effects
func (c *Controller) Dispatch(ev Event) []render.Effect {
	next, effects := Transition(c.state, ev)
	c.state = next
	render.Apply(c.r, effects)
	return effects
}

// Select is shorthand for Dispatch(Select{...})
func (c *Controller) Select(questionID string, value int) []render.Effect {
	return c.Dispatch(Select{QuestionID: questionID, Value: value})
}

// Submit is shorthand for Dispatch(Submit{})
func (c *Controller) Submit() []render.Effect {
	return c.Dispatch(Submit{})
}

// State returns a copy of the current state
func (c *Controller) State() model.WizardState {
	return c.state.Clone()
}
