package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/ui/command"
)

// executeCommand handles a line from the command palette.
func (m *Model) executeCommand(line string) tea.Cmd {
	name, arg := command.Parse(line)
	switch name {
	case "":
		return nil
	case "import":
		return m.importFile(arg)
	case "export":
		if arg == "all" {
			return m.exportTasks(m.session.User().Tasks)
		}
		t, ok := m.taskList.Selected()
		if !ok {
			return m.toastCmd("select a task to export, or use export all", true)
		}
		return m.exportTasks(m.withSelected(t.ID))
	case "share":
		if t, ok := m.taskList.Selected(); ok {
			return m.shareTask(t.ID)
		}
		return m.toastCmd("select a task to share", true)
	case "accept":
		return loadShared(arg)
	case "categories", "category":
		return m.openCategories()
	case "settings", "config":
		return m.openSettings()
	case "logout":
		return m.askLogout()
	case "quit", "q":
		return m.quit()
	case "help":
		m.switchTo(ViewHelp)
		return nil
	default:
		return m.toastCmd("unknown command: "+name, true)
	}
}

// withSelected returns the task with id as a one-element export batch.
func (m *Model) withSelected(id int64) []model.Task {
	t, err := m.session.Task(id)
	if err != nil {
		return nil
	}
	return []model.Task{t}
}
