package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/userstate"
)

// maxChips caps the category chips drawn on one line.
const maxChips = 2

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for filtering.
func (i TaskItem) FilterValue() string { return i.Task.Name }

// Title returns the task name for the list.
func (i TaskItem) Title() string { return i.Task.Name }

// Description returns the task description.
func (i TaskItem) Description() string { return i.Task.Description }

// TaskDelegate implements list.ItemDelegate for rendering tasks.
type TaskDelegate struct {
	EmojiStyle     model.EmojiStyle
	Glow           bool
	ShowCategories bool
	Now            time.Time
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti.Task, index == m.Index()))
}

func (d TaskDelegate) renderLine(t model.Task, isSelected bool) string {
	prefix := "○"
	if t.Done {
		prefix = "✓"
	}

	pin := "  "
	if t.Pinned {
		pin = lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("▲ ")
	}

	name := t.Name
	if glyph := emoji.Render(d.EmojiStyle, t.Emoji); glyph != "" {
		name = glyph + " " + name
	}
	if t.Done {
		name = theme.DoneItemStyle.Render(name)
	} else {
		name = theme.TaskStyle(t.Color, d.Glow).Render(name)
	}

	chips := ""
	if d.ShowCategories && len(t.Category) > 0 {
		chips = " " + renderChips(d.EmojiStyle, t.Category)
	}

	due := ""
	if t.Deadline != nil && !t.Done {
		text := userstate.DeadlineText(t.Deadline.Time, d.Now)
		style := lipgloss.NewStyle().Foreground(theme.ColorGray)
		if t.Deadline.Before(d.Now) {
			style = style.Foreground(theme.ColorRed)
		}
		due = "  " + style.Render(text)
	}

	shared := ""
	if t.SharedBy != "" {
		shared = lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render(" ⇄ " + t.SharedBy)
	}

	line := fmt.Sprintf("%s %s%s%s%s%s", prefix, pin, name, chips, shared, due)
	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// renderChips draws category chips, folding the rest into a counter.
func renderChips(style model.EmojiStyle, cats []model.Category) string {
	shown := cats
	if len(shown) > maxChips {
		shown = shown[:maxChips]
	}
	parts := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		label := c.Name
		if glyph := emoji.Render(style, c.Emoji); glyph != "" {
			label = glyph + " " + label
		}
		parts = append(parts, theme.ChipStyle(c.Color).Render(label))
	}
	if rest := len(cats) - len(shown); rest > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorGray).Render(fmt.Sprintf("+%d", rest)))
	}
	return strings.Join(parts, " ")
}
