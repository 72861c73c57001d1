// Package tui previews the assessment wizard in a terminal. It drives the same
// controller the server uses and draws from the headless document.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ascendant/internal/model"
	"ascendant/internal/render"
	"ascendant/internal/static"
	"ascendant/internal/wizard"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C9A45C"))
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C9A45C")).Italic(true)
	optionStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	selectedStyle = optionStyle.Foreground(lipgloss.Color("#07070A")).Background(lipgloss.Color("#C9A45C"))
	cursorStyle   = optionStyle.BorderForeground(lipgloss.Color("#F2EFE8")).Bold(true)
	disabledStyle = optionStyle.Foreground(lipgloss.Color("#555555"))
	warningStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#C9A45C")).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8D8A84"))
)

// Model is the bubbletea model of the preview
type Model struct {
	doc      *render.Document
	ctrl     *wizard.Controller
	ready    bool
	cursor   int // focused option value, 0 before the first move
	quitting bool
}

// New builds the wizard for questions on a copy of the page layout
func New(layout *static.Layout, questions []model.Question) Model {
	doc := layout.Mount()
	ctrl := wizard.NewController(doc)
	return Model{
		doc:   doc,
		ctrl:  ctrl,
		ready: ctrl.Init(questions),
	}
}

// State returns the wizard state
func (m Model) State() model.WizardState {
	return m.ctrl.State()
}

func (m Model) Init() tea.Cmd { return nil }

// current is the step the keyboard acts on: the active one, or the last one
// once the sequence is exhausted
func (m Model) current() (model.Step, bool) {
	s := m.ctrl.State()
	if !s.Initialized() {
		return model.Step{}, false
	}
	if i := s.ActiveIndex(); i >= 0 {
		return s.Steps[i], true
	}
	return s.Steps[len(s.Steps)-1], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	if !m.ready {
		return m, nil
	}

	step, _ := m.current()
	before := step.QuestionID

	switch k := key.String(); k {
	case "left", "right", "up", "down":
		names := map[string]string{
			"left": wizard.KeyLeft, "right": wizard.KeyRight, "up": wizard.KeyUp, "down": wizard.KeyDown,
		}
		m.ctrl.Dispatch(wizard.Nudge{QuestionID: step.QuestionID, Focused: m.cursor, Key: names[k]})
		m.cursor = m.selected(before)
	case "enter", " ":
		if m.cursor > 0 {
			m.ctrl.Select(step.QuestionID, m.cursor)
		}
	case "s":
		m.ctrl.Submit()
	default:
		if v, err := strconv.Atoi(k); err == nil {
			if v == 0 {
				v = model.ScaleMax
			}
			m.ctrl.Select(step.QuestionID, v)
		}
	}

	if next, _ := m.current(); next.QuestionID != before {
		m.cursor = 0
	}
	return m, nil
}

// selected reads the selected value of a scale back from the document
func (m Model) selected(questionID string) int {
	v, _ := strconv.Atoi(m.doc.Value(wizard.FieldID(questionID)))
	return v
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return titleStyle.Render("Ascendant Protocol") + "\n\nNo questions to show.\n"
	}

	var b strings.Builder
	s := m.ctrl.State()
	step, _ := m.current()
	stepID := wizard.StepID(step.QuestionID)

	b.WriteString(titleStyle.Render("Ascendant Protocol Self-Assessment"))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", step.Index+1, len(s.Steps)))
	b.WriteString(sectionStyle.Render(m.doc.Text(stepID+"-section")) + "\n")
	b.WriteString(m.doc.Text(stepID+"-statement") + "\n\n")

	scaleID := wizard.ScaleID(step.QuestionID)
	var options []string
	for v := model.ScaleMin; v <= model.ScaleMax; v++ {
		id := wizard.OptionID(scaleID, v)
		style := optionStyle
		switch {
		case m.doc.IsDisabled(id):
			style = disabledStyle
		case m.doc.HasClass(id, "selected"):
			style = selectedStyle
		case v == m.cursor:
			style = cursorStyle
		}
		options = append(options, style.Render(m.doc.Text(id)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, options...) + "\n\n")

	if m.doc.HasClass(wizard.WarningID, "visible") {
		warning := m.doc.Text("final-warning-title") + "\n" + m.doc.Text("final-warning-text")
		b.WriteString(warningStyle.Render(warning) + "\n")
		b.WriteString(fmt.Sprintf("[%s]\n", m.doc.Text(wizard.SubmitID)))
	}
	if m.doc.HasClass(wizard.FeedbackID, "visible") {
		b.WriteString(sectionStyle.Render(m.doc.Text(wizard.FeedbackID)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("1-9,0 rate · ←/→ move · enter select · s submit · q quit"))
	return b.String()
}

// Run starts the preview on the terminal
func Run(layout *static.Layout, questions []model.Question) error {
	_, err := tea.NewProgram(New(layout, questions), tea.WithAltScreen()).Run()
	return err
}
