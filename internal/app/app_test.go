package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/speech"
	"github.com/nhle/taskdeck/internal/ui/confirm"
	"github.com/nhle/taskdeck/internal/ui/detail"
	"github.com/nhle/taskdeck/internal/ui/tasklist"
	"github.com/nhle/taskdeck/internal/userstate"
	"github.com/nhle/taskdeck/tests/testutil"
)

type fakeSynth struct {
	spoken    []string
	cancelled int
}

func (f *fakeSynth) Voices(context.Context) ([]speech.Voice, error) {
	return []speech.Voice{{Name: "en", Language: "en"}}, nil
}

func (f *fakeSynth) Speak(_ context.Context, text, _ string, _ float64) error {
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSynth) Cancel() { f.cancelled++ }

func newTestModel(t *testing.T, d Deps) (Model, *userstate.Session) {
	t.Helper()
	if d.Session == nil {
		d.Session = testutil.NewTestSession(t, nil)
	}
	if d.Config.Share.BaseURL == "" {
		d.Config = *model.DefaultAppConfig()
		d.Config.Export.Dir = t.TempDir()
	}
	if d.Clipboard == nil {
		d.Clipboard = func(string) error { return nil }
	}
	return New(d), d.Session
}

// step feeds msg to m and returns the updated model with its command.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mdl, cmd := m.Update(msg)
	return mdl.(Model), cmd
}

func addTask(t *testing.T, s *userstate.Session, name string) model.Task {
	t.Helper()
	task, err := s.AddTask(context.Background(), model.Task{Name: name, Color: "#b624ff"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	return task
}

func TestAddTaskRefreshesList(t *testing.T) {
	m, s := newTestModel(t, Deps{})

	msg := m.addTask(model.Task{Name: "Buy milk", Color: "#b624ff"})()
	m, _ = step(t, m, msg)

	sel, ok := m.taskList.Selected()
	if !ok || sel.Name != "Buy milk" {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	if len(s.User().Tasks) != 1 {
		t.Errorf("tasks = %d, want 1", len(s.User().Tasks))
	}
	if m.toast == nil || m.toast.isError {
		t.Errorf("toast = %+v, want a notice", m.toast)
	}
}

func TestDeleteFromDetailReturnsToList(t *testing.T) {
	m, s := newTestModel(t, Deps{})
	task := addTask(t, s, "Water plants")
	m.refresh()

	m, _ = step(t, m, tasklist.SelectedTaskMsg{TaskID: task.ID})
	if m.currentView != ViewDetail {
		t.Fatalf("view = %v, want detail", m.currentView)
	}

	m, cmd := step(t, m, detail.ActionMsg{Action: detail.ActionDelete, TaskID: task.ID})
	m, _ = step(t, m, cmd())

	if m.currentView != ViewList {
		t.Errorf("view = %v, want list", m.currentView)
	}
	if len(s.User().Tasks) != 0 {
		t.Error("task not deleted")
	}
}

func TestShareCopiesLink(t *testing.T) {
	var copied string
	m, s := newTestModel(t, Deps{Clipboard: func(text string) error {
		copied = text
		return nil
	}})
	task := addTask(t, s, "Call mom")

	msg := m.shareTask(task.ID)().(resultMsg)
	if msg.err != nil {
		t.Fatalf("share: %v", msg.err)
	}
	if !strings.HasPrefix(copied, "taskdeck://share?") || !strings.Contains(copied, "task=") {
		t.Errorf("copied = %q", copied)
	}
}

func TestShareReportsClipboardFailure(t *testing.T) {
	m, s := newTestModel(t, Deps{Clipboard: func(string) error {
		return errors.New("no clipboard")
	}})
	task := addTask(t, s, "Call mom")

	msg := m.shareTask(task.ID)().(resultMsg)
	if msg.err == nil || !strings.Contains(msg.err.Error(), "task=") {
		t.Errorf("err = %v, want the link in the message", msg.err)
	}
}

func TestLogoutAfterConfirm(t *testing.T) {
	m, s := newTestModel(t, Deps{})
	addTask(t, s, "Old task")

	m, cmd := step(t, m, confirm.ResultMsg{Token: logoutToken, OK: false})
	if cmd != nil || len(s.User().Tasks) != 1 {
		t.Fatal("declined logout cleared data")
	}

	m, cmd = step(t, m, confirm.ResultMsg{Token: logoutToken, OK: true})
	if cmd == nil {
		t.Fatal("no logout command")
	}
	m, _ = step(t, m, cmd())
	if len(s.User().Tasks) != 0 {
		t.Error("logout kept tasks")
	}
	if _, ok := m.taskList.Selected(); ok {
		t.Error("list still shows a task")
	}
}

func TestToggleMuteRestoresVolume(t *testing.T) {
	m, s := newTestModel(t, Deps{})

	m, _ = step(t, m, m.toggleMute()())
	if v := s.User().Settings.VoiceVolume; v != 0 {
		t.Fatalf("volume after mute = %v", v)
	}
	m, _ = step(t, m, m.toggleMute()())
	if v := s.User().Settings.VoiceVolume; v != 0.6 {
		t.Errorf("volume after unmute = %v, want 0.6", v)
	}
}

func TestReadAloud(t *testing.T) {
	synth := &fakeSynth{}
	m, s := newTestModel(t, Deps{Synth: synth})
	task := addTask(t, s, "Feed cat")

	cmd := m.readAloud(task.ID)
	if !m.speaking {
		t.Fatal("not speaking")
	}
	if again := m.readAloud(task.ID); again != nil || synth.cancelled != 1 {
		t.Errorf("second press did not cancel")
	}

	m, _ = step(t, m, cmd())
	if m.speaking {
		t.Error("still speaking after done")
	}
	if len(synth.spoken) != 1 || !strings.Contains(synth.spoken[0], "Feed cat") {
		t.Errorf("spoken = %q", synth.spoken)
	}
}

func TestReadAloudWithoutSynth(t *testing.T) {
	m, s := newTestModel(t, Deps{})
	task := addTask(t, s, "Feed cat")

	m.readAloud(task.ID)
	if m.speaking || m.toast == nil || !m.toast.isError {
		t.Errorf("speaking %v toast %+v", m.speaking, m.toast)
	}
}

func TestExecuteCommand(t *testing.T) {
	m, s := newTestModel(t, Deps{})
	addTask(t, s, "One")
	addTask(t, s, "Two")
	m.refresh()

	msg := m.executeCommand("export all")().(resultMsg)
	if msg.err != nil || !strings.Contains(msg.notice, "Exported 2 task(s)") {
		t.Errorf("export all = %+v", msg)
	}

	m.executeCommand("frobnicate")
	if m.toast == nil || !strings.Contains(m.toast.text, "frobnicate") {
		t.Errorf("toast = %+v", m.toast)
	}

	if m.executeCommand("settings"); m.currentView != ViewSettings {
		t.Errorf("view = %v, want settings", m.currentView)
	}
	m.settings.Close()
}

func TestImportErrorNamesTasks(t *testing.T) {
	err := importError(&merge.ValidationError{TaskNames: []string{"a", "b"}})
	if !strings.Contains(err.Error(), "a, b") {
		t.Errorf("err = %v", err)
	}

	other := errors.New("boom")
	if importError(other) != other {
		t.Error("unrelated error was rewritten")
	}
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m.toastCmd("first", false)
	first := m.toast.id
	m.toastCmd("second", false)

	m, _ = step(t, m, toastExpiredMsg{id: first})
	if m.toast == nil || m.toast.text != "second" {
		t.Fatalf("newer toast hidden: %+v", m.toast)
	}
	m, _ = step(t, m, toastExpiredMsg{id: m.toast.id})
	if m.toast != nil {
		t.Error("toast not hidden")
	}
}

func TestHeaderProgress(t *testing.T) {
	m, s := newTestModel(t, Deps{})
	if got := m.progress(); got != "no tasks yet" {
		t.Errorf("progress = %q", got)
	}

	task := addTask(t, s, "One")
	addTask(t, s, "Two")
	if _, err := s.ToggleDone(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}
	if got := m.progress(); !strings.HasPrefix(got, "1/2 done (50%)") {
		t.Errorf("progress = %q", got)
	}
}
