// Package speech reads tasks aloud through a text-to-speech engine.
package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskdeck/internal/model"
)

// Voice is a voice offered by a synthesizer.
type Voice struct {
	Name     string
	Language string
	Default  bool
}

// Synthesizer speaks text.
type Synthesizer interface {
	// Voices lists the installed voices.
	Voices(ctx context.Context) ([]Voice, error)

	// Speak starts speaking text and returns once speech has finished or
	// ctx is done. volume is in [0, 1].
	Speak(ctx context.Context, text string, voice string, volume float64) error

	// Cancel stops any speech in progress.
	Cancel()
}

// TaskScript builds the text read aloud for a task.
func TaskScript(t model.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s.", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&sb, " %s.", strings.TrimRight(t.Description, ". "))
	}
	if t.Deadline != nil {
		fmt.Fprintf(&sb, " Deadline: %s.", t.Deadline.Format("Monday, January 2 at 15:04"))
	}
	if len(t.Category) > 0 {
		names := make([]string, len(t.Category))
		for i, c := range t.Category {
			names[i] = c.Name
		}
		fmt.Fprintf(&sb, " Categories: %s.", strings.Join(names, ", "))
	}
	if t.Done {
		sb.WriteString(" This task is done.")
	}
	return sb.String()
}

// ToggleMute returns the volume after the mute button is pressed.
// previous is the volume before the last mute; unmuting restores it, or
// full volume when it is zero.
func ToggleMute(current, previous float64) float64 {
	if current != 0 {
		return 0
	}
	if previous != 0 {
		return previous
	}
	return 1
}

// ResolveVoice returns the name of the voice in voices matching want, or
// an empty string to let the engine pick its default.
func ResolveVoice(voices []Voice, want string) string {
	for _, v := range voices {
		if strings.EqualFold(v.Name, want) {
			return v.Name
		}
	}
	return ""
}
