package backup

import (
	"os"
	"testing"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

func TestValidateSpec(t *testing.T) {
	for _, spec := range []string{"@daily", "@every 1h", "0 18 * * *", "0 0 18 * * *"} {
		if err := ValidateSpec(spec); err != nil {
			t.Errorf("ValidateSpec(%q): %v", spec, err)
		}
	}
	if err := ValidateSpec("every day"); err == nil {
		t.Error("expected error for invalid spec")
	}
	if _, err := NewScheduler("nope", time.UTC); err == nil {
		t.Error("NewScheduler accepted invalid spec")
	}
}

func TestTriggerDeliversOneDueMessage(t *testing.T) {
	s, err := NewScheduler("@daily", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	s.trigger()
	s.trigger()

	msg := s.Wait()()
	due, ok := msg.(DueMsg)
	if !ok || !due.At.Equal(at) {
		t.Fatalf("msg = %#v, want DueMsg at %v", msg, at)
	}
	if len(s.dueCh) != 0 {
		t.Error("second trigger was not absorbed")
	}
}

func TestStopReleasesWaiters(t *testing.T) {
	s, err := NewScheduler("@daily", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if cmd := s.Start(); cmd == nil {
		t.Fatal("Start returned nil command")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("second Start should return nil")
	}

	done := make(chan any)
	go func() { done <- s.Wait()() }()
	s.Stop()

	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("msg = %#v, want nil", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Stop")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	msg := Write(dir, []model.Task{{ID: 1, Name: "a"}}, now)()
	done, ok := msg.(DoneMsg)
	if !ok || done.Err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if _, err := os.Stat(done.Path); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}
