package model

// StepStatus is the lifecycle position of a wizard step
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
)

// Scale bounds. Every scale carries exactly ScaleMax-ScaleMin+1 options.
const (
	ScaleMin = 1
	ScaleMax = 10
)

// Scale holds the answer of one step. Selected is 0 until the first answer.
type Scale struct {
	Selected int `json:"selected"`
}

// Answered reports whether a value has been chosen
func (s Scale) Answered() bool {
	return s.Selected >= ScaleMin && s.Selected <= ScaleMax
}

// Step is the rendered unit bound 1:1 to a question
type Step struct {
	Index      int        `json:"index"`
	QuestionID string     `json:"questionId"`
	Status     StepStatus `json:"status"`
	Scale      Scale      `json:"scale"`
}

// WizardState is the complete state of one questionnaire run
type WizardState struct {
	Steps        []Step `json:"steps"`
	WarningShown bool   `json:"warningShown"` // terminal warning revealed (at most once)
	Submitted    bool   `json:"submitted"`    // terminal lock taken
}

// Initialized reports whether the wizard was built from a non-empty question list
func (s WizardState) Initialized() bool {
	return len(s.Steps) > 0
}

// ActiveIndex returns the index of the active step, or -1
func (s WizardState) ActiveIndex() int {
	for i, st := range s.Steps {
		if st.Status == StepActive {
			return i
		}
	}
	return -1
}

// StepIndex returns the index of the step bound to questionID, or -1
func (s WizardState) StepIndex(questionID string) int {
	for i, st := range s.Steps {
		if st.QuestionID == questionID {
			return i
		}
	}
	return -1
}

// Answers maps question IDs to the selected values of answered steps
func (s WizardState) Answers() map[string]int {
	answers := make(map[string]int, len(s.Steps))
	for _, st := range s.Steps {
		if st.Scale.Answered() {
			answers[st.QuestionID] = st.Scale.Selected
		}
	}
	return answers
}

// Clone returns a deep copy so transitions never alias the caller's steps
func (s WizardState) Clone() WizardState {
	out := s
	out.Steps = make([]Step, len(s.Steps))
	copy(out.Steps, s.Steps)
	return out
}
