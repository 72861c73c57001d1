// Package wizard implements the assessment questionnaire: one step per
// question, a 1..10 rating scale per step, strictly sequential activation and a
// terminal warning + submit stage.
//
// The state machine is the pure Transition function. Controller pairs it with a
// render.Renderer for callers that hold a live document.
package wizard

import "strconv"

// Containers the host page must provide. The wizard fills them, it never
// creates them.
const (
	FormID     = "assessment-form"
	StepsID    = "question-steps"
	WarningID  = "final-warning"
	SubmitID   = "final-submit"
	FeedbackID = "submit-feedback"
)

// Copy applied by the terminal action
const (
	SubmittedLabel = "Commitment Recorded"
	FeedbackText   = "Your answers are locked in. The protocol begins now."
)

// StepID is the element id of the step bound to questionID
func StepID(questionID string) string {
	return "step-" + questionID
}

// ScaleID is the element id of the scale container of questionID
func ScaleID(questionID string) string {
	return "scale-" + questionID
}

// FieldID is the element id of the hidden answer field of questionID
func FieldID(questionID string) string {
	return "answer-" + questionID
}

// OptionID is the element id of the option with value inside a scale container
func OptionID(containerID string, value int) string {
	return containerID + "-" + strconv.Itoa(value)
}
