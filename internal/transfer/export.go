// Package transfer moves tasks in and out of the app: JSON export files,
// import files, saved mail messages, and share links.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

// exportTimeLayout mirrors the en-US short date-time format.
const exportTimeLayout = "1/2/2006, 3:04:05 PM"

var filenameReplacer = strings.NewReplacer("/", "_", ":", "_", ",", "_", " ", "_")

// WriteTasks writes tasks as a JSON array indented by two spaces.
func WriteTasks(w io.Writer, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing tasks: %w", err)
	}
	return nil
}

// ExportFilename returns "Tasks_<timestamp>.json" for now.
func ExportFilename(now time.Time) string {
	return "Tasks_" + filenameReplacer.Replace(now.Format(exportTimeLayout)) + ".json"
}

// ExportFile writes tasks into a new export file in dir and returns its path.
func ExportFile(dir string, tasks []model.Task, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ExportFilename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteTasks(f, tasks); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}

// SelectTasks returns the tasks whose ids are listed, in task order. An
// empty id list selects every task.
func SelectTasks(tasks []model.Task, ids []int64) []model.Task {
	if len(ids) == 0 {
		return model.CloneTasks(tasks)
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Task
	for _, t := range tasks {
		if want[t.ID] {
			out = append(out, t.Clone())
		}
	}
	return out
}
