package sharepreview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/transfer"
)

// AcceptMsg is sent when the user accepts the shared task.
type AcceptMsg struct {
	Shared transfer.Shared
}

// DeclineMsg is sent when the user declines the shared task.
type DeclineMsg struct{}

type formBindings struct {
	accept bool
}

// Model previews a task received through a share link.
type Model struct {
	shared *transfer.Shared
	style  model.EmojiStyle
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an empty share preview.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Show loads a shared task into the preview.
func (m *Model) Show(shared transfer.Shared, style model.EmojiStyle) tea.Cmd {
	m.shared = &shared
	m.style = style
	m.fb.accept = true

	sender := shared.SharedBy
	if sender == "" {
		sender = transfer.DefaultSender
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s shared a task with you", sender)).
				Description("Add it to your tasks?").
				Affirmative("Add task").
				Negative("Decline").
				Value(&m.fb.accept),
		),
	).WithWidth(min(max(m.width-4, 40), 100))
	return m.form.Init()
}

// Update handles messages for the preview.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.fb.accept && m.shared != nil {
			shared := *m.shared
			return m, func() tea.Msg { return AcceptMsg{Shared: shared} }
		}
		return m, func() tea.Msg { return DeclineMsg{} }
	case huh.StateAborted:
		return m, func() tea.Msg { return DeclineMsg{} }
	}
	return m, cmd
}

// View renders the task card above the confirmation.
func (m Model) View() string {
	if m.shared == nil || m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.card(), "", m.form.View()),
	)
}

func (m Model) card() string {
	t := m.shared.Task
	name := t.Name
	if glyph := emoji.Render(m.style, t.Emoji); glyph != "" {
		name = glyph + " " + name
	}
	lines := []string{theme.TaskStyle(t.Color, true).Render(name)}
	if t.Description != "" {
		lines = append(lines, emoji.Expand(m.style, t.Description))
	}
	if t.Deadline != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render("Deadline: "+t.Deadline.Local().Format("2006-01-02 15:04")))
	}
	if len(t.Category) > 0 {
		chips := make([]string, len(t.Category))
		for i, c := range t.Category {
			chips[i] = theme.ChipStyle(c.Color).Render(c.Name)
		}
		lines = append(lines, strings.Join(chips, " "))
	}
	return theme.BorderStyle.Padding(0, 1).Width(min(max(m.width-8, 30), 80)).
		Render(strings.Join(lines, "\n"))
}

// SetSize updates the preview dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
