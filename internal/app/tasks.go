package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/speech"
	"github.com/nhle/taskdeck/internal/transfer"
	"github.com/nhle/taskdeck/internal/userstate"
)

// resultMsg is sent after an operation on the session finished. The views
// are refreshed from the session and the notice is shown as a toast.
type resultMsg struct {
	notice string
	err    error

	// back returns to the list when set, e.g. after deleting the task
	// shown in the detail view.
	back bool
}

// sharedLoadedMsg carries a shared task to preview.
type sharedLoadedMsg struct {
	shared transfer.Shared
	err    error
}

// speechDoneMsg is sent when read aloud finished or was cancelled.
type speechDoneMsg struct{ err error }

func (m *Model) addTask(t model.Task) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		added, err := s.AddTask(context.Background(), t)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Added task %q", added.Name)}
	}
}

func (m *Model) editTask(t model.Task) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		edited, err := s.EditTask(context.Background(), t)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Saved task %q", edited.Name)}
	}
}

func (m *Model) toggleDone(id int64) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.ToggleDone(context.Background(), id)
		if err != nil {
			return resultMsg{err: err}
		}
		if t.Done {
			return resultMsg{notice: fmt.Sprintf("Marked %q as done", t.Name)}
		}
		return resultMsg{notice: fmt.Sprintf("Marked %q as not done", t.Name)}
	}
}

func (m *Model) togglePin(id int64) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.TogglePin(context.Background(), id)
		if err != nil {
			return resultMsg{err: err}
		}
		if t.Pinned {
			return resultMsg{notice: fmt.Sprintf("Pinned %q", t.Name)}
		}
		return resultMsg{notice: fmt.Sprintf("Unpinned %q", t.Name)}
	}
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.Task(id)
		if err != nil {
			return resultMsg{err: err}
		}
		if err := s.DeleteTask(context.Background(), id); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Deleted task %q", t.Name), back: true}
	}
}

func (m *Model) duplicateTask(id int64) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.DuplicateTask(context.Background(), id)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Duplicated %q", t.Name)}
	}
}

// shareTask copies a share link for the task to the clipboard.
func (m *Model) shareTask(id int64) tea.Cmd {
	s := m.session
	cfg := m.config.Share
	copyText := m.copyText
	return func() tea.Msg {
		t, err := s.Task(id)
		if err != nil {
			return resultMsg{err: err}
		}
		u := s.User()
		link, err := transfer.ShareLink(cfg.BaseURL, t, u.DisplayName(cfg.SenderFallback))
		if err != nil {
			return resultMsg{err: err}
		}
		if err := copyText(link); err != nil {
			log.Printf("app: clipboard unavailable: %v", err)
			return resultMsg{err: fmt.Errorf("could not copy the link, share it by hand: %s", link)}
		}
		return resultMsg{notice: fmt.Sprintf("Share link for %q copied to the clipboard", t.Name)}
	}
}

func (m *Model) importFile(path string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		if path == "" {
			return resultMsg{err: errors.New("usage: import <file>")}
		}
		tasks, err := transfer.ReadFile(path)
		if err != nil {
			return resultMsg{err: err}
		}
		if err := s.Import(context.Background(), tasks); err != nil {
			return resultMsg{err: importError(err)}
		}
		return resultMsg{notice: fmt.Sprintf("Imported %d task(s)", len(tasks))}
	}
}

// importError turns a rejected batch into a message naming the offenders.
func importError(err error) error {
	var verr *merge.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("import rejected, these tasks exceed a field limit: %s",
			strings.Join(verr.TaskNames, ", "))
	}
	return err
}

func (m *Model) exportTasks(tasks []model.Task) tea.Cmd {
	dir := m.config.Export.Dir
	now := m.session.Now()
	return func() tea.Msg {
		if len(tasks) == 0 {
			return resultMsg{err: errors.New("nothing to export")}
		}
		path, err := transfer.ExportFile(dir, tasks, now)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Exported %d task(s) to %s", len(tasks), path)}
	}
}

func loadShared(ref string) tea.Cmd {
	return func() tea.Msg {
		if ref == "" {
			return sharedLoadedMsg{err: errors.New("usage: accept <link|file>")}
		}
		shared, err := transfer.LoadShared(ref)
		return sharedLoadedMsg{shared: shared, err: err}
	}
}

func (m *Model) acceptShared(shared transfer.Shared) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.AcceptShared(context.Background(), shared)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Added %q from %s", t.Name, t.SharedBy)}
	}
}

func (m *Model) logout() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		if err := s.Reset(context.Background()); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: "Logged out, all data was cleared", back: true}
	}
}

// toggleMute flips between silence and the volume used before muting.
func (m *Model) toggleMute() tea.Cmd {
	s := m.session
	current := s.User().Settings.VoiceVolume
	next := speech.ToggleMute(current, m.prevVolume)
	if current != 0 {
		m.prevVolume = current
	}
	return func() tea.Msg {
		err := s.UpdateSettings(context.Background(), func(st *model.AppSettings) {
			st.VoiceVolume = next
		})
		if err != nil {
			return resultMsg{err: err}
		}
		if next == 0 {
			return resultMsg{notice: "Read aloud muted"}
		}
		return resultMsg{notice: fmt.Sprintf("Read aloud volume %.0f%%", next*100)}
	}
}

// readAloud speaks a task, or stops speaking when speech is running.
func (m *Model) readAloud(id int64) tea.Cmd {
	if m.speaking {
		m.synth.Cancel()
		return nil
	}

	u := m.session.User()
	switch {
	case !u.Settings.EnableReadAloud:
		return m.toastCmd("Read aloud is turned off in settings", true)
	case m.synth == nil:
		return m.toastCmd("Read aloud is not available on this system", true)
	case u.Settings.Muted():
		return m.toastCmd("Read aloud is muted, press m to unmute", true)
	}

	t, err := m.session.Task(id)
	if err != nil {
		return m.toastCmd(err.Error(), true)
	}

	m.speaking = true
	synth := m.synth
	voice := speech.ResolveVoice(m.voices.Voices(), u.Settings.Voice)
	volume := u.Settings.VoiceVolume
	return func() tea.Msg {
		err := synth.Speak(context.Background(), speech.TaskScript(t), voice, volume)
		return speechDoneMsg{err: err}
	}
}

// refreshVoices asks the synthesizer for its voices so open views get
// them through the watcher.
func (m *Model) refreshVoices() tea.Cmd {
	if m.synth == nil {
		return nil
	}
	synth := m.synth
	w := m.voices
	return func() tea.Msg {
		if err := w.Refresh(context.Background(), synth); err != nil {
			log.Printf("app: listing voices: %v", err)
		}
		return nil
	}
}

// checkProfilePicture clears a stored picture that can no longer be shown.
func (m *Model) checkProfilePicture() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.CheckProfilePicture(context.Background())
		var rerr *userstate.RenderError
		if errors.As(err, &rerr) {
			log.Printf("app: %v", rerr)
			return resultMsg{err: fmt.Errorf("your profile picture could not be shown and was removed")}
		}
		if err != nil {
			return resultMsg{err: err}
		}
		return nil
	}
}
