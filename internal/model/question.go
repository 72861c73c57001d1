package model

// Question is one statement of the self-assessment. The ordinal position is the
// position in the list it was loaded from.
type Question struct {
	ID        string `json:"id" yaml:"id" bson:"id"`                      // e.g. "discipline-1"
	Section   string `json:"section" yaml:"section" bson:"section"`       // grouping label shown above the statement
	Statement string `json:"statement" yaml:"statement" bson:"statement"` // prompt rated 1..10
}

// QuestionSet is an ordered, named list of questions
type QuestionSet struct {
	Key       string     `json:"key" yaml:"key" bson:"_id"`
	Title     string     `json:"title" yaml:"title" bson:"title"`
	Questions []Question `json:"questions" yaml:"questions" bson:"questions"`
}

// Sections returns section labels in first-seen order
func (s *QuestionSet) Sections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range s.Questions {
		if seen[q.Section] {
			continue
		}
		seen[q.Section] = true
		out = append(out, q.Section)
	}
	return out
}
