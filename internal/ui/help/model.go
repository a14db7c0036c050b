// Package help renders the key and command reference opened with "?".
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/theme"
)

// section is one titled group of bindings.
type section struct {
	title    string
	bindings []key.Binding
}

// commandUsage describes the ":" commands.
var commandUsage = []struct{ usage, desc string }{
	{"import <file>", "merge tasks from an export or .eml file"},
	{"export [all]", "write the selected task, or all tasks, to a file"},
	{"share", "copy a share link for the selected task"},
	{"accept <link|file>", "preview a task someone shared"},
	{"categories", "manage categories"},
	{"settings", "open settings"},
	{"logout", "delete everything stored on this machine"},
}

// Model is the reference overlay.
type Model struct {
	keys       *keys.KeyMap
	help       help.Model
	categories bool
	width      int
	height     int
}

// New returns the overlay for km.
func New(km *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: km, help: h, categories: true}
	m.SetSize(width, height)
	return m
}

// SetCategoriesEnabled hides the category bindings and command while
// categories are switched off in settings.
func (m *Model) SetCategoriesEnabled(on bool) {
	m.categories = on
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) sections() []section {
	k := m.keys
	screens := []key.Binding{k.Settings, k.Search, k.Command, k.Help}
	if m.categories {
		screens = append([]key.Binding{k.Categories}, screens...)
	}
	return []section{
		{"Moving around", []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}},
		{"Tasks", []key.Binding{k.New, k.Edit, k.Done, k.Pin, k.Delete, k.Duplicate, k.Share}},
		{"Voice", []key.Binding{k.ReadAloud, k.Mute}},
		{"Screens", screens},
	}
}

func (m Model) commands() string {
	var sb strings.Builder
	for _, c := range commandUsage {
		if c.usage == "categories" && !m.categories {
			continue
		}
		sb.WriteString(theme.HelpKeyStyle.Render(":"+c.usage) + "  " + theme.HelpStyle.Render(c.desc) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	cols := make([]string, 0, 4)
	for _, s := range m.sections() {
		body := m.help.FullHelpView([][]key.Binding{s.bindings})
		cols = append(cols, lipgloss.NewStyle().MarginRight(4).Render(
			lipgloss.JoinVertical(lipgloss.Left, heading.Render(s.title), body)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.MarginBottom(1).Render("Keys"),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		"",
		heading.Render("Commands"),
		m.commands(),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
