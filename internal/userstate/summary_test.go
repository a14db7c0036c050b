package userstate

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

func TestOrdered(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Done: true},
		{ID: 2},
		{ID: 3, Pinned: true, Done: true},
		{ID: 4, Pinned: true},
		{ID: 5},
	}

	order := func(ts []model.Task) []int64 {
		var out []int64
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	got := order(Ordered(tasks, model.AppSettings{}))
	if want := []int64{3, 4, 1, 2, 5}; !slices.Equal(got, want) {
		t.Errorf("pinned first = %v, want %v", got, want)
	}

	got = order(Ordered(tasks, model.AppSettings{DoneToBottom: true}))
	if want := []int64{4, 2, 5, 3, 1}; !slices.Equal(got, want) {
		t.Errorf("done to bottom = %v, want %v", got, want)
	}
}

func TestCompletionText(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "No tasks completed yet"},
		{10, "just getting started"},
		{25, "good progress"},
		{50, "halfway"},
		{80, "Almost there"},
		{100, "All tasks completed"},
	}
	for _, tt := range tests {
		if got := CompletionText(tt.percent); !strings.Contains(got, tt.want) {
			t.Errorf("CompletionText(%v) = %q, want it to contain %q", tt.percent, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Done: true, Deadline: model.NewMoment(now)},
		{ID: 2, Deadline: model.NewMoment(now.Add(5 * time.Hour))},
		{ID: 3, Deadline: model.NewMoment(now.Add(24 * time.Hour))},
		{ID: 4},
	}
	p := Summarize(tasks, now)
	if p.Total != 4 || p.Done != 1 || p.DueToday != 1 {
		t.Errorf("progress = %+v", p)
	}
	if p.Percent() != 25 {
		t.Errorf("percent = %v, want 25", p.Percent())
	}
	if (Progress{}).Percent() != 0 {
		t.Error("empty progress should be 0%")
	}
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC) }
	if got := Greeting(at(8)); got != "Good morning" {
		t.Errorf("8h: %q", got)
	}
	if got := Greeting(at(15)); got != "Good afternoon" {
		t.Errorf("15h: %q", got)
	}
	if got := Greeting(at(22)); got != "Good evening" {
		t.Errorf("22h: %q", got)
	}
}

func TestDeadlineText(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	if got := DeadlineText(now.Add(-time.Hour), now); !strings.HasPrefix(got, "overdue") {
		t.Errorf("past: %q", got)
	}
	if got := DeadlineText(now.Add(2*time.Hour), now); got != "today 12:00" {
		t.Errorf("today: %q", got)
	}
	if got := DeadlineText(now.Add(24*time.Hour), now); got != "tomorrow 10:00" {
		t.Errorf("tomorrow: %q", got)
	}
	if got := DeadlineText(now.Add(72*time.Hour), now); !strings.HasPrefix(got, "Thursday") {
		t.Errorf("this week: %q", got)
	}
}

func TestSearch(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Name: "Buy milk"},
		{ID: 2, Name: "Call mom", Description: "about the weekend"},
		{ID: 3, Name: "Write report"},
	}

	if got := Search(tasks, "  "); len(got) != 3 {
		t.Errorf("empty query returned %d tasks, want 3", len(got))
	}

	got := Search(tasks, "milk")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Search(milk) = %+v, want task 1", got)
	}

	got = Search(tasks, "weekend")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Search(weekend) = %+v, want task 2 via description", got)
	}

	if got := Search(tasks, "zzz"); len(got) != 0 {
		t.Errorf("Search(zzz) = %+v, want none", got)
	}
}
