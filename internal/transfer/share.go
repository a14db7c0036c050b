package transfer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
)

// DefaultSender is used when a link or user carries no sender name.
const DefaultSender = "User"

// Shared is a task received through a share link.
type Shared struct {
	Task     model.Task
	SharedBy string
}

// IDSource issues identifiers that do not collide with existing tasks.
type IDSource interface {
	TaskID(existing []model.Task) int64
}

// ShareLink encodes task into a link under base. base is the share
// endpoint, for example "https://tasks.example.com/share".
func ShareLink(base string, task model.Task, userName string) (string, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("encoding shared task: %w", err)
	}
	if userName == "" {
		userName = DefaultSender
	}

	q := url.Values{}
	q.Set("task", string(data))
	q.Set("userName", userName)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode(), nil
}

// ParseShareLink decodes a share link. raw may be a full link or just its
// query string.
func ParseShareLink(raw string) (Shared, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}

	q, err := url.ParseQuery(raw)
	if err != nil {
		return Shared{}, &ParseError{Source: "share link", Err: err}
	}
	payload := q.Get("task")
	if payload == "" {
		return Shared{}, &ParseError{Source: "share link", Err: ErrNoTaskParam}
	}

	var task model.Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return Shared{}, &ParseError{Source: "share link", Err: err}
	}
	return Shared{Task: task, SharedBy: q.Get("userName")}, nil
}

// Ingest adds a shared task to user. The task gets a fresh identifier, is
// stamped with its sender, and is appended after the existing tasks; its
// categories are upserted into the user's categories. On error user is
// returned unchanged.
func Ingest(user model.User, shared Shared, ids IDSource) (model.User, model.Task, error) {
	if err := merge.ValidateTask(shared.Task); err != nil {
		return user, model.Task{}, err
	}

	task := shared.Task.Clone()
	task.ID = ids.TaskID(user.Tasks)
	task.SharedBy = shared.SharedBy
	if task.SharedBy == "" {
		task.SharedBy = DefaultSender
	}

	out := user.Clone()
	out.Categories = merge.UpsertCategories(user.Categories, task.Category)
	out.Tasks = append(out.Tasks, task)
	return out, task, nil
}
