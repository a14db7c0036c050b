package taskform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// defaultColor is the color offered for new tasks.
const defaultColor = "#b624ff"

// SubmitMsg is dispatched when the form is completed. Task.ID is zero for
// a new task.
type SubmitMsg struct {
	Task model.Task
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	emoji       string
	color       string
	deadline    string
	categoryIDs []int64
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	editing    *model.Task
	categories []model.Category
	showCats   bool
	emojiStyle model.EmojiStyle
	width      int
	height     int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{color: defaultColor},
		width:  width,
		height: height,
	}
}

// SetUser supplies the categories offered by the form and whether the
// category field is shown at all.
func (m *Model) SetUser(u model.User) {
	m.categories = model.CloneCategories(u.Categories)
	m.showCats = u.Settings.EnableCategories
	m.emojiStyle = u.EmojisStyle
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editing = nil
	*m.fb = formBindings{color: defaultColor}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	c := t.Clone()
	m.editing = &c
	*m.fb = formBindings{
		name:        t.Name,
		description: t.Description,
		emoji:       emoji.Render(m.emojiStyle, t.Emoji),
		color:       t.Color,
		deadline:    formatDeadline(t.Deadline),
	}
	for _, cat := range t.Category {
		m.fb.categoryIDs = append(m.fb.categoryIDs, cat.ID)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing task.
func (m Model) Editing() bool {
	return m.editing != nil
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editing != nil {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("What needs to be done?").
			Value(&m.fb.name).
			Validate(validateName),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Lines(3).
			Value(&m.fb.description).
			Validate(validateLength("description", model.DescriptionMaxLength)),
		huh.NewInput().
			Title("Emoji").
			Placeholder("an emoji or a code like 1f3e0 (optional)").
			Value(&m.fb.emoji).
			Validate(validateEmoji),
		huh.NewInput().
			Title("Color").
			Placeholder(defaultColor).
			Value(&m.fb.color).
			Validate(validateColor),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD HH:MM (optional)").
			Value(&m.fb.deadline).
			Validate(validateDeadline),
	}
	if f := m.categoryField(); f != nil {
		fields = append(fields, f)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) categoryField() huh.Field {
	if !m.showCats || len(m.categories) == 0 {
		return nil
	}
	opts := make([]huh.Option[int64], len(m.categories))
	for i, c := range m.categories {
		label := c.Name
		if glyph := emoji.Render(m.emojiStyle, c.Emoji); glyph != "" {
			label = glyph + " " + label
		}
		opts[i] = huh.NewOption(label, c.ID)
	}
	return huh.NewMultiSelect[int64]().
		Title("Categories").
		Options(opts...).
		Limit(model.MaxCategoriesPerTask).
		Value(&m.fb.categoryIDs).
		Validate(validateCategories)
}

// Task builds the task described by the current field values.
func (m Model) Task() model.Task {
	var t model.Task
	if m.editing != nil {
		t = m.editing.Clone()
	}
	t.Name = strings.TrimSpace(m.fb.name)
	t.Description = strings.TrimSpace(m.fb.description)
	t.Emoji = emoji.Normalize(m.fb.emoji)
	t.Color = strings.TrimSpace(m.fb.color)
	t.Deadline, _ = parseDeadline(m.fb.deadline)

	if m.showCats {
		t.Category = nil
		for _, id := range m.fb.categoryIDs {
			if i := model.FindCategory(m.categories, id); i >= 0 {
				t.Category = append(t.Category, m.categories[i])
			}
		}
	}
	return t
}

func (m Model) handleSubmit() tea.Cmd {
	t := m.Task()
	return func() tea.Msg { return SubmitMsg{Task: t} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
