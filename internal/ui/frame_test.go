package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFrameBody(t *testing.T) {
	w, h := NewFrame(40, 10).Body()
	if w != 40 || h != 8 {
		t.Errorf("Body = %d x %d, want 40 x 8", w, h)
	}
	if _, h := NewFrame(40, 1).Body(); h != 0 {
		t.Errorf("tiny frame body height = %d", h)
	}
}

func TestFrameHeader(t *testing.T) {
	hdr := NewFrame(40, 10).Header("Good morning, Ada", "1/2 done")
	if !strings.Contains(hdr, "Good morning, Ada") || !strings.Contains(hdr, "1/2 done") {
		t.Errorf("header = %q", hdr)
	}
	if got := lipgloss.Width(hdr); got != 40 {
		t.Errorf("header width = %d, want 40", got)
	}

	narrow := NewFrame(10, 10).Header("Good morning, Ada", "1/2 done")
	if strings.Contains(narrow, "Good") || !strings.Contains(narrow, "1/2 done") {
		t.Errorf("narrow header = %q, want progress only", narrow)
	}
}

func TestFrameStatus(t *testing.T) {
	f := NewFrame(60, 10)
	if s := f.Status("q quit", ""); !strings.Contains(s, "q quit") {
		t.Errorf("status = %q", s)
	}
	s := f.Status("q quit", "Task added")
	if strings.Contains(s, "q quit") || !strings.Contains(s, "Task added") {
		t.Errorf("notice status = %q", s)
	}
}

func TestFrameComposeClipsBody(t *testing.T) {
	f := NewFrame(20, 5)
	body := strings.Repeat("row\n", 19) + "row"
	out := f.Compose(f.Header("hi", "0/0"), body, f.Status("q quit", ""))
	if lines := strings.Count(out, "\n") + 1; lines != 5 {
		t.Errorf("lines = %d, want 5", lines)
	}
}
