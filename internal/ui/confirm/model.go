package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ResultMsg reports the answer to a question asked with Ask.
type ResultMsg struct {
	Token string
	OK    bool
}

type formBindings struct {
	ok bool
}

// Model asks a yes/no question.
type Model struct {
	token  string
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an idle confirmation dialog.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Ask shows a question. token is echoed back in the ResultMsg.
func (m *Model) Ask(token, title, description, affirmative string) tea.Cmd {
	m.token = token
	m.fb.ok = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(&m.fb.ok),
		),
	).WithWidth(min(max(m.width-4, 40), 100))
	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	token := m.token
	switch m.form.State {
	case huh.StateCompleted:
		ok := m.fb.ok
		return m, func() tea.Msg { return ResultMsg{Token: token, OK: ok} }
	case huh.StateAborted:
		return m, func() tea.Msg { return ResultMsg{Token: token} }
	}
	return m, cmd
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
