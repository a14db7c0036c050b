package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/speech"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/userstate"
)

// CloseMsg signals the settings view should close.
type CloseMsg struct {
	// Err is set when saving failed. Notice describes what was saved.
	Err    error
	Notice string
}

// voicesChangedMsg is sent when the voice watcher published a new list.
type voicesChangedMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name           string
	picture        string
	emojiStyle     model.EmojiStyle
	categories     bool
	doneToBottom   bool
	glow           bool
	readAloud      bool
	voice          string
	volume         string
	voices         []speech.Voice
	voicesRevision int
}

// Model is the Bubble Tea model for the settings screen.
type Model struct {
	session *userstate.Session
	watcher *speech.VoiceWatcher

	form *huh.Form
	fb   *formBindings

	// voicesCh receives a signal for every voice list change while the
	// view is open. done is closed when the view closes.
	voicesCh    chan struct{}
	done        chan struct{}
	unsubscribe func()

	width, height int
}

// New creates a settings view. watcher may be nil when speech is off.
func New(s *userstate.Session, w *speech.VoiceWatcher, width, height int) Model {
	return Model{
		session: s,
		watcher: w,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Open loads the current user into the form and subscribes to voice
// updates. Close must be called when the view is left.
func (m *Model) Open() tea.Cmd {
	m.Close()

	u := m.session.User()
	*m.fb = formBindings{
		name:         u.DisplayName(""),
		emojiStyle:   u.EmojisStyle,
		categories:   u.Settings.EnableCategories,
		doneToBottom: u.Settings.DoneToBottom,
		glow:         u.Settings.EnableGlow,
		readAloud:    u.Settings.EnableReadAloud,
		voice:        u.Settings.Voice,
		volume:       strconv.FormatFloat(u.Settings.VoiceVolume, 'f', -1, 64),
	}
	if u.ProfilePicture != nil {
		m.fb.picture = *u.ProfilePicture
	}

	var cmds []tea.Cmd
	if m.watcher != nil {
		ch := make(chan struct{}, 1)
		m.voicesCh = ch
		m.done = make(chan struct{})
		m.fb.voices = m.watcher.Voices()
		m.unsubscribe = m.watcher.Subscribe(func([]speech.Voice) {
			select {
			case ch <- struct{}{}:
			default:
			}
		})
		cmds = append(cmds, waitForVoices(ch, m.done))
	}

	m.form = m.buildForm()
	cmds = append(cmds, m.form.Init())
	return tea.Batch(cmds...)
}

// Close drops the voice subscription. It is safe to call more than once.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.done != nil {
		close(m.done)
		m.done = nil
		m.voicesCh = nil
	}
}

func waitForVoices(ch <-chan struct{}, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return voicesChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(voicesChangedMsg); ok {
		if m.voicesCh == nil {
			return m, nil
		}
		m.fb.voices = m.watcher.Voices()
		m.fb.voicesRevision++
		return m, waitForVoices(m.voicesCh, m.done)
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.Close()
		return m, m.save()
	case huh.StateAborted:
		m.Close()
		return m, func() tea.Msg { return CloseMsg{} }
	}
	return m, cmd
}

func (m *Model) buildForm() *huh.Form {
	styles := make([]huh.Option[model.EmojiStyle], len(model.EmojiStyles))
	for i, s := range model.EmojiStyles {
		styles[i] = huh.NewOption(string(s), s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("shown in the greeting").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if model.TextLength(strings.TrimSpace(s)) > model.UserNameMaxLength {
						return fmt.Errorf("name is limited to %d characters", model.UserNameMaxLength)
					}
					return nil
				}),
			huh.NewInput().
				Title("Profile picture").
				Placeholder("https:// URL or image file (optional)").
				Value(&m.fb.picture).
				Validate(userstate.ValidatePicture),
			huh.NewSelect[model.EmojiStyle]().
				Title("Emoji style").
				Options(styles...).
				Value(&m.fb.emojiStyle),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewConfirm().Title("Enable categories").Value(&m.fb.categories),
			huh.NewConfirm().Title("Move done tasks to the bottom").Value(&m.fb.doneToBottom),
			huh.NewConfirm().Title("Glow task colors").Value(&m.fb.glow),
			huh.NewConfirm().Title("Enable read aloud").Value(&m.fb.readAloud),
		).Title("Preferences"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Voice").
				OptionsFunc(m.fb.voiceOptions, &m.fb.voicesRevision).
				Value(&m.fb.voice),
			huh.NewInput().
				Title("Volume").
				Placeholder("0 to 1").
				Value(&m.fb.volume).
				Validate(func(s string) error {
					_, err := parseVolume(s)
					return err
				}),
		).Title("Read aloud"),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// voiceOptions lists the known voices. The stored voice stays selectable
// even when the engine does not report it.
func (fb *formBindings) voiceOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(fb.voices)+1)
	seen := false
	for _, v := range fb.voices {
		label := v.Name
		if v.Language != "" {
			label = fmt.Sprintf("%s (%s)", v.Name, v.Language)
		}
		if v.Name == fb.voice {
			seen = true
		}
		opts = append(opts, huh.NewOption(label, v.Name))
	}
	if !seen && fb.voice != "" {
		opts = append([]huh.Option[string]{huh.NewOption(fb.voice, fb.voice)}, opts...)
	}
	return opts
}

func parseVolume(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 1 {
		return 0, errors.New("volume must be a number from 0 to 1")
	}
	return v, nil
}

// save writes every field. Each setter commits on its own and skips the
// write when nothing changed.
func (m Model) save() tea.Cmd {
	s := m.session
	fb := *m.fb
	return func() tea.Msg {
		ctx := context.Background()
		volume, err := parseVolume(fb.volume)
		if err != nil {
			return CloseMsg{Err: err}
		}
		if err := s.SetName(ctx, fb.name); err != nil {
			return CloseMsg{Err: err}
		}
		if err := s.SetProfilePicture(ctx, fb.picture); err != nil {
			return CloseMsg{Err: err}
		}
		if err := s.SetEmojiStyle(ctx, fb.emojiStyle); err != nil {
			return CloseMsg{Err: err}
		}
		err = s.UpdateSettings(ctx, func(st *model.AppSettings) {
			st.EnableCategories = fb.categories
			st.DoneToBottom = fb.doneToBottom
			st.EnableGlow = fb.glow
			st.EnableReadAloud = fb.readAloud
			st.Voice = fb.voice
			st.VoiceVolume = volume
		})
		if err != nil {
			return CloseMsg{Err: err}
		}
		return CloseMsg{Notice: "Settings saved"}
	}
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Settings")
	return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 12)
}
