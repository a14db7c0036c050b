package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/userstate"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Action names an operation the parent performs on the shown task.
type Action string

// Actions offered from the detail view.
const (
	ActionEdit      Action = "edit"
	ActionDone      Action = "done"
	ActionPin       Action = "pin"
	ActionDelete    Action = "delete"
	ActionDuplicate Action = "duplicate"
	ActionShare     Action = "share"
	ActionReadAloud Action = "read"
)

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action Action
	TaskID int64
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	style    model.EmojiStyle
	glow     bool
	now      time.Time
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// TaskID returns the id of the shown task, or zero.
func (m Model) TaskID() int64 {
	if m.task == nil {
		return 0
	}
	return m.task.ID
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
		if m.task != nil {
			if action, ok := m.actionFor(msg); ok {
				id := m.task.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: action, TaskID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) actionFor(msg tea.KeyMsg) (Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		return ActionEdit, true
	case key.Matches(msg, m.keys.Done):
		return ActionDone, true
	case key.Matches(msg, m.keys.Pin):
		return ActionPin, true
	case key.Matches(msg, m.keys.Delete):
		return ActionDelete, true
	case key.Matches(msg, m.keys.Duplicate):
		return ActionDuplicate, true
	case key.Matches(msg, m.keys.Share):
		return ActionShare, true
	case key.Matches(msg, m.keys.ReadAloud):
		return ActionReadAloud, true
	}
	return "", false
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	title := task.Name
	if glyph := emoji.Render(m.style, task.Emoji); glyph != "" {
		title = glyph + "  " + title
	}
	sections = append(sections, theme.TaskStyle(task.Color, m.glow).Render(title))

	var badges []string
	if task.Done {
		badges = append(badges, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("✓ done"))
	} else {
		badges = append(badges, lipgloss.NewStyle().Foreground(theme.ColorGray).Render("○ open"))
	}
	if task.Pinned {
		badges = append(badges, lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("▲ pinned"))
	}
	for _, c := range task.Category {
		label := c.Name
		if glyph := emoji.Render(m.style, c.Emoji); glyph != "" {
			label = glyph + " " + label
		}
		badges = append(badges, theme.ChipStyle(c.Color).Render(label))
	}
	sections = append(sections, strings.Join(badges, "  "))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) {
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-10s", label+":")),
			valStyle.Render(value),
		))
	}

	row("Created", fmt.Sprintf("%s (%s)",
		task.Date.Local().Format("2006-01-02 15:04"),
		humanize.RelTime(task.Date, m.now, "ago", "from now")))
	if task.Deadline != nil {
		row("Deadline", fmt.Sprintf("%s (%s)",
			task.Deadline.Local().Format("2006-01-02 15:04"),
			userstate.DeadlineText(task.Deadline.Time, m.now)))
	}
	if task.LastSave != nil {
		row("Edited", humanize.RelTime(*task.LastSave, m.now, "ago", "from now"))
	}
	if task.SharedBy != "" {
		row("Shared by", task.SharedBy)
	}
	row("Color", task.Color)

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := emoji.Expand(m.style, task.Description)
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed and re-renders the content.
// A nil task clears the view.
func (m *Model) SetTask(t *model.Task, u model.User, now time.Time) {
	if t != nil {
		c := t.Clone()
		t = &c
	}
	samePage := m.task != nil && t != nil && m.task.ID == t.ID
	m.task = t
	m.style = u.EmojisStyle
	m.glow = u.Settings.EnableGlow
	m.now = now
	m.viewport.SetContent(m.renderContent())
	if !samePage {
		m.viewport.GotoTop()
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
