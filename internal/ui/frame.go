// Package ui holds the screen frame shared by the app views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/theme"
)

// chromeLines counts the header and the status line.
const chromeLines = 2

// Frame is the app screen: a header with the greeting and the completion
// progress, the active view, and a status line with key hints or a notice.
type Frame struct {
	Width  int
	Height int
}

// NewFrame returns a frame for a terminal of the given size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height}
}

// Body returns the size left for the active view.
func (f Frame) Body() (width, height int) {
	return f.Width, max(f.Height-chromeLines, 0)
}

// Header puts the greeting on the left and the progress on the right. The
// greeting is dropped first when both do not fit.
func (f Frame) Header(greeting, progress string) string {
	right := theme.HeaderStyle.Render(progress)
	left := ""
	if room := f.Width - lipgloss.Width(right); room > 0 {
		left = theme.HeaderStyle.MaxWidth(room).Render(greeting)
	}
	return fill(theme.HeaderStyle, left, right, f.Width)
}

// Status shows the key hints, or notice in their place when it is set.
func (f Frame) Status(hints, notice string) string {
	text := notice
	if text == "" {
		text = theme.StatusBarStyle.Render(hints)
	}
	return fill(theme.StatusBarStyle, text, "", f.Width)
}

// Compose stacks the header, the body clipped to the rows between, and the
// status line.
func (f Frame) Compose(header, body, status string) string {
	_, h := f.Body()
	if h > 0 {
		body = lipgloss.NewStyle().MaxHeight(h).Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// fill pads between left and right with the background of style so the
// line spans width.
func fill(style lipgloss.Style, left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	pad := lipgloss.NewStyle().
		Background(style.GetBackground()).
		Render(strings.Repeat(" ", gap))
	return left + pad + right
}
