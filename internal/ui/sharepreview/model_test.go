package sharepreview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/transfer"
)

func sharedTask() transfer.Shared {
	deadline := model.Moment{Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return transfer.Shared{
		SharedBy: "Sam",
		Task: model.Task{
			ID:          9,
			Name:        "Plan trip",
			Description: "Book hotel",
			Color:       "#3d91ff",
			Deadline:    &deadline,
			Category:    []model.Category{{ID: 1, Name: "Travel", Color: "#ff8800"}},
		},
	}
}

func TestPreviewShowsTask(t *testing.T) {
	m := New(80, 30)
	m.Show(sharedTask(), model.EmojiStyleNative)

	view := m.View()
	for _, want := range []string{"Sam shared a task with you", "Plan trip", "Book hotel", "Travel", "Deadline:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAcceptAndDecline(t *testing.T) {
	m := New(80, 30)
	m.Show(sharedTask(), model.EmojiStyleNative)
	m.form.State = huh.StateCompleted
	_, cmd := m.Update(nil)
	msg, ok := cmd().(AcceptMsg)
	if !ok || msg.Shared.Task.Name != "Plan trip" || msg.Shared.SharedBy != "Sam" {
		t.Fatalf("accept = %#v", msg)
	}

	m.Show(sharedTask(), model.EmojiStyleNative)
	m.fb.accept = false
	m.form.State = huh.StateCompleted
	_, cmd = m.Update(nil)
	if _, ok := cmd().(DeclineMsg); !ok {
		t.Error("declining did not emit DeclineMsg")
	}

	m.Show(sharedTask(), model.EmojiStyleNative)
	m.form.State = huh.StateAborted
	_, cmd = m.Update(nil)
	if _, ok := cmd().(DeclineMsg); !ok {
		t.Error("aborting did not emit DeclineMsg")
	}
}

func TestUnnamedSender(t *testing.T) {
	s := sharedTask()
	s.SharedBy = ""
	m := New(80, 30)
	m.Show(s, model.EmojiStyleNative)
	if !strings.Contains(m.View(), transfer.DefaultSender+" shared a task with you") {
		t.Error("fallback sender not shown")
	}
}
