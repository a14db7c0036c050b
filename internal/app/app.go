package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/backup"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/speech"
	"github.com/nhle/taskdeck/internal/transfer"
	"github.com/nhle/taskdeck/internal/ui"
	"github.com/nhle/taskdeck/internal/ui/categorymgr"
	"github.com/nhle/taskdeck/internal/ui/command"
	"github.com/nhle/taskdeck/internal/ui/confirm"
	"github.com/nhle/taskdeck/internal/ui/detail"
	helpview "github.com/nhle/taskdeck/internal/ui/help"
	"github.com/nhle/taskdeck/internal/ui/settings"
	"github.com/nhle/taskdeck/internal/ui/sharepreview"
	"github.com/nhle/taskdeck/internal/ui/taskform"
	"github.com/nhle/taskdeck/internal/ui/tasklist"
	"github.com/nhle/taskdeck/internal/userstate"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewTaskForm
	ViewCategories
	ViewSettings
	ViewSharePreview
	ViewConfirm
	ViewHelp
	ViewCommand
)

const logoutToken = "logout"

// Deps are the services the application runs on.
type Deps struct {
	Session *userstate.Session
	Config  model.AppConfig

	// Synth is nil when read aloud is unavailable.
	Synth  speech.Synthesizer
	Voices *speech.VoiceWatcher

	// Backup is nil when scheduled backups are off.
	Backup *backup.Scheduler

	// Clipboard copies share links. It defaults to the system clipboard.
	Clipboard func(string) error

	// Initial is a shared task to preview on start.
	Initial *transfer.Shared
}

// Model is the root Bubble Tea model that manages view routing, the
// screen frame, and access to the user state session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	frame        ui.Frame
	session      *userstate.Session
	config       model.AppConfig
	keys         *KeyMap

	synth    speech.Synthesizer
	voices   *speech.VoiceWatcher
	backup   *backup.Scheduler
	copyText func(string) error
	initial  *transfer.Shared

	taskList     tasklist.Model
	detail       detail.Model
	taskForm     taskform.Model
	categories   categorymgr.Model
	settings     settings.Model
	sharePreview sharepreview.Model
	confirm      confirm.Model
	helpView     helpview.Model
	commandView  command.Model

	toast    *toast
	toastSeq int

	// speaking is set while a task is read aloud. prevVolume is restored
	// when unmuting.
	speaking   bool
	prevVolume float64

	ready bool
}

// New creates a new root application model.
func New(d Deps) Model {
	keys := DefaultKeyMap()
	if d.Voices == nil {
		d.Voices = speech.NewVoiceWatcher()
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}

	m := Model{
		currentView:  ViewList,
		session:      d.Session,
		config:       d.Config,
		keys:         keys,
		synth:        d.Synth,
		voices:       d.Voices,
		backup:       d.Backup,
		copyText:     d.Clipboard,
		initial:      d.Initial,
		taskList:     tasklist.New(keys, 80, 24),
		detail:       detail.New(keys, 80, 24),
		taskForm:     taskform.New(80, 24),
		categories:   categorymgr.New(d.Session, keys, 80, 24),
		settings:     settings.New(d.Session, d.Voices, 80, 24),
		sharePreview: sharepreview.New(80, 24),
		confirm:      confirm.New(80, 24),
		helpView:     helpview.New(keys, 80, 24),
		commandView:  command.New(80, 24),
		prevVolume:   model.DefaultSettings().VoiceVolume,
	}
	m.refresh()
	return m
}

// Init checks the stored profile, loads voices, starts scheduled backups
// and previews the task passed on the command line.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.taskList.Init(),
		m.checkProfilePicture(),
		m.refreshVoices(),
	}
	if m.backup != nil {
		cmds = append(cmds, m.backup.Start())
	}
	if m.initial != nil {
		shared := *m.initial
		cmds = append(cmds, func() tea.Msg { return sharedLoadedMsg{shared: shared} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		w, h := m.frame.Body()
		m.taskList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.categories.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.sharePreview.SetSize(w, h)
		m.confirm.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case resultMsg:
		m.refresh()
		if msg.back && m.currentView == ViewDetail {
			m.currentView = ViewList
		}
		if msg.err != nil {
			log.Printf("app: %v", msg.err)
			return m, m.toastCmd(msg.err.Error(), true)
		}
		if msg.notice != "" {
			return m, m.toastCmd(msg.notice, false)
		}
		return m, nil

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case speechDoneMsg:
		m.speaking = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			log.Printf("app: read aloud: %v", msg.err)
			return m, m.toastCmd("Read aloud failed: "+msg.err.Error(), true)
		}
		return m, nil

	case backup.DueMsg:
		u := m.session.User()
		return m, tea.Batch(
			backup.Write(m.config.Backup.Dir, u.Tasks, msg.At),
			m.backup.Wait(),
		)

	case backup.DoneMsg:
		if msg.Err != nil {
			log.Printf("app: backup: %v", msg.Err)
			return m, m.toastCmd("Backup failed: "+msg.Err.Error(), true)
		}
		if msg.Path != "" {
			log.Printf("app: backup written to %s", msg.Path)
		}
		return m, nil

	case tasklist.SelectedTaskMsg:
		t, err := m.session.Task(msg.TaskID)
		if err != nil {
			return m, m.toastCmd(err.Error(), true)
		}
		u := m.session.User()
		m.detail.SetTask(&t, u, m.session.Now())
		m.switchTo(ViewDetail)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		return m, m.taskAction(msg.Action, msg.TaskID)

	case taskform.SubmitMsg:
		m.closeForm()
		if m.taskForm.Editing() {
			return m, m.editTask(msg.Task)
		}
		return m, m.addTask(msg.Task)

	case taskform.CancelMsg:
		m.closeForm()
		return m, nil

	case categorymgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case categorymgr.ChangedMsg:
		m.refresh()
		return m, m.toastCmd(msg.Notice, false)

	case settings.CloseMsg:
		m.currentView = ViewList
		m.refresh()
		if msg.Err != nil {
			return m, m.toastCmd(msg.Err.Error(), true)
		}
		if msg.Notice != "" {
			return m, m.toastCmd(msg.Notice, false)
		}
		return m, nil

	case sharedLoadedMsg:
		if msg.err != nil {
			log.Printf("app: shared task: %v", msg.err)
			return m, m.toastCmd(msg.err.Error(), true)
		}
		m.switchTo(ViewSharePreview)
		return m, m.sharePreview.Show(msg.shared, m.session.User().EmojisStyle)

	case sharepreview.AcceptMsg:
		m.currentView = ViewList
		return m, m.acceptShared(msg.Shared)

	case sharepreview.DeclineMsg:
		m.currentView = ViewList
		return m, m.toastCmd("Shared task declined", false)

	case confirm.ResultMsg:
		m.currentView = ViewList
		if msg.Token == logoutToken && msg.OK {
			return m, m.logout()
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if mdl, cmd, ok := m.handleGlobalKey(msg); ok {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey runs the shortcuts of the list and detail views. It
// reports false when the key belongs to the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewCommand:
		if msg.String() == "esc" {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewDetail:
		switch {
		case key.Matches(msg, m.keys.Mute):
			return m, m.toggleMute(), true
		case key.Matches(msg, m.keys.Help):
			m.switchTo(ViewHelp)
			return m, nil, true
		case key.Matches(msg, m.keys.Command):
			m.switchTo(ViewCommand)
			return m, m.commandView.Focus(), true
		}
		return m, nil, false
	case ViewList:
		if m.taskList.Searching() {
			return m, nil, false
		}
	default:
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit(), true
	case key.Matches(msg, m.keys.Help):
		m.switchTo(ViewHelp)
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.switchTo(ViewCommand)
		return m, m.commandView.Focus(), true
	case key.Matches(msg, m.keys.New):
		return m, m.openTaskForm(nil), true
	case key.Matches(msg, m.keys.Mute):
		return m, m.toggleMute(), true
	case key.Matches(msg, m.keys.Categories):
		return m, m.openCategories(), true
	case key.Matches(msg, m.keys.Settings):
		return m, m.openSettings(), true
	}

	t, ok := m.taskList.Selected()
	if !ok {
		return m, nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		return m, m.taskAction(detail.ActionEdit, t.ID), true
	case key.Matches(msg, m.keys.Done):
		return m, m.taskAction(detail.ActionDone, t.ID), true
	case key.Matches(msg, m.keys.Pin):
		return m, m.taskAction(detail.ActionPin, t.ID), true
	case key.Matches(msg, m.keys.Delete):
		return m, m.taskAction(detail.ActionDelete, t.ID), true
	case key.Matches(msg, m.keys.Duplicate):
		return m, m.taskAction(detail.ActionDuplicate, t.ID), true
	case key.Matches(msg, m.keys.Share):
		return m, m.taskAction(detail.ActionShare, t.ID), true
	case key.Matches(msg, m.keys.ReadAloud):
		return m, m.taskAction(detail.ActionReadAloud, t.ID), true
	}
	return m, nil, false
}

// taskAction runs an action on a task from the list or the detail view.
func (m *Model) taskAction(a detail.Action, id int64) tea.Cmd {
	switch a {
	case detail.ActionEdit:
		t, err := m.session.Task(id)
		if err != nil {
			return m.toastCmd(err.Error(), true)
		}
		return m.openTaskForm(&t)
	case detail.ActionDone:
		return m.toggleDone(id)
	case detail.ActionPin:
		return m.togglePin(id)
	case detail.ActionDelete:
		return m.deleteTask(id)
	case detail.ActionDuplicate:
		return m.duplicateTask(id)
	case detail.ActionShare:
		return m.shareTask(id)
	case detail.ActionReadAloud:
		return m.readAloud(id)
	}
	return nil
}

func (m *Model) switchTo(v ViewState) {
	if m.currentView == v {
		return
	}
	m.previousView = m.currentView
	m.currentView = v
}

// openTaskForm opens the form to edit t, or to create a task when t is nil.
func (m *Model) openTaskForm(t *model.Task) tea.Cmd {
	m.taskForm.SetUser(m.session.User())
	m.switchTo(ViewTaskForm)
	if t == nil {
		return m.taskForm.StartCreate()
	}
	return m.taskForm.StartEdit(*t)
}

// closeForm returns to the view the task form was opened from.
func (m *Model) closeForm() {
	if m.previousView == ViewDetail {
		m.currentView = ViewDetail
		return
	}
	m.currentView = ViewList
}

func (m *Model) openCategories() tea.Cmd {
	if !m.session.User().Settings.EnableCategories {
		return m.toastCmd("Categories are turned off in settings", true)
	}
	m.categories.Reload()
	m.switchTo(ViewCategories)
	return m.categories.Init()
}

func (m *Model) openSettings() tea.Cmd {
	m.switchTo(ViewSettings)
	return m.settings.Open()
}

func (m *Model) askLogout() tea.Cmd {
	m.switchTo(ViewConfirm)
	return m.confirm.Ask(logoutToken,
		"Log out?",
		"This deletes all tasks, categories and settings stored on this device.",
		"Log out")
}

// quit stops background work and exits.
func (m *Model) quit() tea.Cmd {
	if m.backup != nil {
		m.backup.Stop()
	}
	if m.speaking && m.synth != nil {
		m.synth.Cancel()
	}
	m.settings.Close()
	return tea.Quit
}

// refresh pushes the session's user into every view that shows it.
func (m *Model) refresh() {
	u := m.session.User()
	now := m.session.Now()
	m.taskList.SetUser(u, now)
	m.taskForm.SetUser(u)
	m.helpView.SetCategoriesEnabled(u.Settings.EnableCategories)

	if id := m.detail.TaskID(); id != 0 {
		t, err := m.session.Task(id)
		if err != nil {
			m.detail.SetTask(nil, u, now)
			if m.currentView == ViewDetail {
				m.currentView = ViewList
			}
			return
		}
		m.detail.SetTask(&t, u, now)
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewCategories:
		m.categories, cmd = m.categories.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewSharePreview:
		m.sharePreview, cmd = m.sharePreview.Update(msg)
	case ViewConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the active view inside the frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var notice string
	if m.toast != nil {
		notice = m.toast.render()
	}
	return m.frame.Compose(
		m.frame.Header(m.greeting(), m.progress()),
		m.renderContent(),
		m.frame.Status(m.keyHints(), notice),
	)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewCategories:
		return m.categories.View()
	case ViewSettings:
		return m.settings.View()
	case ViewSharePreview:
		return m.sharePreview.View()
	case ViewConfirm:
		return m.confirm.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

func (m Model) greeting() string {
	now := m.session.Now()
	g := userstate.Greeting(now)
	if name := m.session.User().DisplayName(""); name != "" {
		return fmt.Sprintf("%s, %s", g, name)
	}
	return g
}

// progress summarizes the task list for the header.
func (m Model) progress() string {
	p := userstate.Summarize(m.session.User().Tasks, m.session.Now())
	if p.Total == 0 {
		return "no tasks yet"
	}
	s := fmt.Sprintf("%d/%d done (%.0f%%) %s", p.Done, p.Total, p.Percent(), userstate.CompletionText(p.Percent()))
	if p.DueToday > 0 {
		s += fmt.Sprintf(" | %d due today", p.DueToday)
	}
	return s
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter run | tab complete | esc back"
	case ViewDetail:
		return "esc back | e edit | x done | p pin | d delete | D duplicate | s share | r read"
	case ViewTaskForm, ViewSettings:
		return "enter next | esc cancel"
	case ViewCategories:
		return "n new | e edit | d delete | esc back"
	case ViewSharePreview, ViewConfirm:
		return "←/→ choose | enter confirm"
	default:
		if q := m.taskList.Query(); q != "" {
			return fmt.Sprintf("search %q | esc clear", q)
		}
		return "q quit | ? help | n new | / search | : command | c categories | , settings"
	}
}
