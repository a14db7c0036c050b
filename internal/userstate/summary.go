package userstate

import (
	"math"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nhle/taskdeck/internal/model"
)

// Ordered returns tasks in display order: pinned tasks first, then, when
// settings.DoneToBottom is set, open tasks before done ones. Ties keep
// insertion order.
func Ordered(tasks []model.Task, settings model.AppSettings) []model.Task {
	out := model.CloneTasks(tasks)
	rank := func(t model.Task) int {
		r := 0
		if !t.Pinned {
			r += 2
		}
		if settings.DoneToBottom && t.Done {
			r += 4
		}
		return r
	}
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return rank(a) - rank(b)
	})
	return out
}

// Progress summarizes task completion.
type Progress struct {
	Total    int
	Done     int
	DueToday int
}

// Percent returns the share of done tasks in [0, 100]. It is 0 when there
// are no tasks.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// Summarize counts done tasks and open tasks due on now's calendar day.
func Summarize(tasks []model.Task, now time.Time) Progress {
	p := Progress{Total: len(tasks)}
	y, m, d := now.Date()
	for _, t := range tasks {
		if t.Done {
			p.Done++
			continue
		}
		if t.Deadline == nil {
			continue
		}
		ty, tm, td := t.Deadline.In(now.Location()).Date()
		if ty == y && tm == m && td == d {
			p.DueToday++
		}
	}
	return p
}

// CompletionText returns an encouragement for the given completion percent.
func CompletionText(percent float64) string {
	switch {
	case percent == 0:
		return "No tasks completed yet. Keep going!"
	case percent == 100:
		return "Congratulations! All tasks completed!"
	case percent >= 75:
		return "Almost there!"
	case percent >= 50:
		return "You're halfway there! Keep it up!"
	case percent >= 25:
		return "You're making good progress."
	default:
		return "You're just getting started."
	}
}

// Greeting returns a greeting for the hour of now.
func Greeting(now time.Time) string {
	h := now.Hour()
	switch {
	case h >= 5 && h < 12:
		return "Good morning"
	case h > 12 && h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// DeadlineText describes a deadline relative to now.
func DeadlineText(deadline, now time.Time) string {
	if deadline.Before(now) {
		return "overdue " + humanize.RelTime(deadline, now, "ago", "from now")
	}
	dy, dm, dd := deadline.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	if dy == ny && dm == nm && dd == nd {
		return "today " + deadline.In(now.Location()).Format("15:04")
	}
	if tomorrow := now.AddDate(0, 0, 1); dd == tomorrow.Day() && dm == tomorrow.Month() && dy == tomorrow.Year() {
		return "tomorrow " + deadline.In(now.Location()).Format("15:04")
	}
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if days <= 7 {
		return deadline.In(now.Location()).Format("Monday") + " (" + humanize.RelTime(deadline, now, "ago", "from now") + ")"
	}
	return humanize.RelTime(deadline, now, "ago", "from now")
}
