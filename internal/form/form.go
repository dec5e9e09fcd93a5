// Package form collects record fields with a full-screen terminal form.
package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/mnemosyne/pkg/records"
)

// Styles for the form
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#4ECDC4"))

	requiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

const (
	inputWidth = 60
	textHeight = 4
)

// input is one form row: a single-line input or a text area.
type input struct {
	field records.Field
	line  textinput.Model
	text  textarea.Model
}

func newInput(field records.Field, value string) input {
	in := input{field: field}
	if field.Multiline() {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetWidth(inputWidth)
		ta.SetHeight(textHeight)
		ta.SetValue(value)
		ta.Blur()
		in.text = ta
		return in
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Width = inputWidth
	if field == records.Rating {
		ti.Placeholder = "whole number, blank for none"
	}
	ti.SetValue(value)
	ti.Blur()
	in.line = ti
	return in
}

func (in *input) value() string {
	if in.field.Multiline() {
		return in.text.Value()
	}
	return in.line.Value()
}

func (in *input) focus() tea.Cmd {
	if in.field.Multiline() {
		return in.text.Focus()
	}
	return in.line.Focus()
}

func (in *input) blur() {
	if in.field.Multiline() {
		in.text.Blur()
		return
	}
	in.line.Blur()
}

func (in *input) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if in.field.Multiline() {
		in.text, cmd = in.text.Update(msg)
	} else {
		in.line, cmd = in.line.Update(msg)
	}
	return cmd
}

func (in *input) view() string {
	if in.field.Multiline() {
		return in.text.View()
	}
	return in.line.View()
}

// Model is the Bubble Tea model for one form.
type Model struct {
	title     string
	inputs    []input
	focused   int
	submitted bool
	canceled  bool
}

// NewModel builds a form for fields, pre-filled from current.
func NewModel(title string, fields []records.Field, current records.Values) Model {
	m := Model{title: title}
	for _, f := range fields {
		m.inputs = append(m.inputs, newInput(f, current[f]))
	}
	if len(m.inputs) > 0 {
		m.inputs[0].focus()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, textarea.Blink)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit

		case "ctrl+s":
			m.submitted = true
			return m, tea.Quit

		case "tab", "down":
			if key.String() == "down" && m.current().field.Multiline() {
				break
			}
			return m, m.move(1)

		case "shift+tab", "up":
			if key.String() == "up" && m.current().field.Multiline() {
				break
			}
			return m, m.move(-1)

		case "enter":
			if m.current().field.Multiline() {
				break
			}
			if m.focused == len(m.inputs)-1 {
				m.submitted = true
				return m, tea.Quit
			}
			return m, m.move(1)
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	cmd := m.inputs[m.focused].update(msg)
	return m, cmd
}

func (m *Model) current() *input {
	if len(m.inputs) == 0 {
		return &input{}
	}
	return &m.inputs[m.focused]
}

func (m *Model) move(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focused].blur()
	m.focused = (m.focused + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focused].focus()
}

// View renders the form.
func (m Model) View() string {
	if m.submitted || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	for i := range m.inputs {
		in := &m.inputs[i]
		style := labelStyle
		if i == m.focused {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(in.field.String()))
		if in.field.Required() {
			b.WriteString(requiredStyle.Render(" *"))
		}
		b.WriteString("\n")
		b.WriteString(in.view())
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) helpText() string {
	if m.current().field.Multiline() {
		return "tab: next field • ctrl+s: save • esc: cancel"
	}
	return "enter/tab: next field • ctrl+s: save • esc: cancel"
}

// Submitted reports whether the user saved the form.
func (m Model) Submitted() bool { return m.submitted }

// Canceled reports whether the user abandoned the form.
func (m Model) Canceled() bool { return m.canceled }

// Values returns the entered values.
func (m Model) Values() records.Values {
	v := make(records.Values, len(m.inputs))
	for i := range m.inputs {
		v[m.inputs[i].field] = m.inputs[i].value()
	}
	return v
}
