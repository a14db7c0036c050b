package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/theme"
)

const toastDuration = 4 * time.Second

// toast is a short notice shown in place of the key hints.
type toast struct {
	id      int
	text    string
	isError bool
}

// toastExpiredMsg hides the toast with the given id. A newer toast keeps
// showing.
type toastExpiredMsg struct{ id int }

// toastCmd shows text in the status bar until it expires.
func (m *Model) toastCmd(text string, isError bool) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, text: text, isError: isError}
	id := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *toast) render() string {
	return theme.ToastStyle(t.isError).Render(t.text)
}
