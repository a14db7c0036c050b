package categorymgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/userstate"
)

// CloseMsg signals the parent to close the category view.
type CloseMsg struct{}

// ChangedMsg signals that categories were modified.
type ChangedMsg struct {
	Notice string
}

type categoryMode int

const (
	modeList categoryMode = iota
	modeForm
	modeConfirmDelete
)

// defaultColor is offered for new categories.
const defaultColor = "#1fff44"

type formBindings struct {
	name    string
	emoji   string
	color   string
	confirm bool
}

type savedMsg struct {
	name string
	err  error
}

type deletedMsg struct {
	name string
	err  error
}

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        categoryMode
	session     *userstate.Session
	keys        *keys.KeyMap
	categories  []model.Category
	style       model.EmojiStyle
	selectedIdx int
	editingID   int64
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(s *userstate.Session, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:    modeList,
		session: s,
		keys:    k,
		fb:      &formBindings{},
		width:   width, height: height,
	}
}

// Init loads categories from the session.
func (m Model) Init() tea.Cmd {
	return nil
}

// Reload refreshes the categories from the session and returns to the
// list.
func (m *Model) Reload() {
	u := m.session.User()
	m.categories = u.Categories
	m.style = u.EmojisStyle
	m.mode = modeList
	if m.selectedIdx >= len(m.categories) {
		m.selectedIdx = max(len(m.categories)-1, 0)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return m.finish(msg.err, fmt.Sprintf("Category %q saved", msg.name))

	case deletedMsg:
		return m.finish(msg.err, fmt.Sprintf("Category %q deleted", msg.name))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) finish(err error, notice string) (Model, tea.Cmd) {
	m.Reload()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	m.statusMsg = notice
	return m, func() tea.Msg { return ChangedMsg{Notice: notice} }
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editingID = 0
		*m.fb = formBindings{color: defaultColor}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.categories) == 0 {
			return m, nil
		}
		c := m.categories[m.selectedIdx]
		m.editingID = c.ID
		*m.fb = formBindings{
			name:  c.Name,
			emoji: emoji.Render(m.style, c.Emoji),
			color: c.Color,
		}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.categories) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Category name").
				Value(&m.fb.name).
				Validate(validateName),
			huh.NewInput().
				Title("Emoji").
				Placeholder("an emoji or a code like 1f3e0 (optional)").
				Value(&m.fb.emoji).
				Validate(func(s string) error {
					if strings.TrimSpace(s) != "" && emoji.Normalize(s) == "" {
						return fmt.Errorf("enter an emoji or a code such as 1f3e0")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder(defaultColor).
				Value(&m.fb.color).
				Validate(func(s string) error {
					if !theme.ValidHex(strings.TrimSpace(s)) {
						return fmt.Errorf("use a hex color such as %s", defaultColor)
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("name is required")
	}
	if model.TextLength(s) > model.CategoryNameMaxLength {
		return fmt.Errorf("name is limited to %d characters", model.CategoryNameMaxLength)
	}
	return nil
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.categories) {
		name = m.categories[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", name)).
				Description("Tasks keep the copy they already have.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveCategory()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			return m, m.deleteCategory(m.categories[m.selectedIdx])
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// InForm reports whether a form has keyboard focus.
func (m Model) InForm() bool {
	return m.mode != modeList
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		for i, c := range m.categories {
			label := c.Name
			if glyph := emoji.Render(m.style, c.Emoji); glyph != "" {
				label = glyph + " " + label
			}
			label = theme.ChipStyle(c.Color).Render(label)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

func (m Model) saveCategory() tea.Cmd {
	s := m.session
	c := model.Category{
		ID:    m.editingID,
		Name:  m.fb.name,
		Emoji: emoji.Normalize(m.fb.emoji),
		Color: strings.TrimSpace(m.fb.color),
	}
	return func() tea.Msg {
		saved, err := s.SaveCategory(context.Background(), c)
		return savedMsg{name: saved.Name, err: err}
	}
}

func (m Model) deleteCategory(c model.Category) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.DeleteCategory(context.Background(), c.ID)
		return deletedMsg{name: c.Name, err: err}
	}
}
