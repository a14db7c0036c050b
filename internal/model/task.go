package model

import (
	"encoding/json"
	"time"
)

// Task is a single to-do item owned by the user.
//
// JSON keys match the export format so exported files can be imported
// back by any build of the app.
type Task struct {
	// ID is unique within the user aggregate and never reused.
	ID int64 `json:"id"`

	Done   bool `json:"done"`
	Pinned bool `json:"pinned"`

	// Name is at most TaskNameMaxLength characters.
	Name string `json:"name"`

	// Description is optional, at most DescriptionMaxLength characters.
	Description string `json:"description,omitempty"`

	// Emoji is a unified code such as "1f3e0", empty when unset.
	Emoji string `json:"emoji,omitempty"`

	// Color is a hex color like "#b624ff".
	Color string `json:"color"`

	// Date is when the task was created.
	Date time.Time `json:"date"`

	Deadline *Moment `json:"deadline,omitempty"`

	// Category holds copies of the categories assigned to this task.
	// Copies are taken at assignment time and not refreshed later.
	Category []Category `json:"category,omitempty"`

	// LastSave is stamped whenever the task is edited.
	LastSave *time.Time `json:"lastSave,omitempty"`

	// SharedBy names the user who shared this task, empty for local tasks.
	SharedBy string `json:"sharedBy,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. A cleared deadline decodes
// to nil.
func (t *Task) UnmarshalJSON(data []byte) error {
	type taskAlias Task
	var a taskAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Deadline != nil && a.Deadline.IsZero() {
		a.Deadline = nil
	}
	*t = Task(a)
	return nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.LastSave != nil {
		s := *t.LastSave
		c.LastSave = &s
	}
	if t.Category != nil {
		c.Category = append([]Category(nil), t.Category...)
	}
	return c
}

// CloneTasks deep-copies a task list. A nil list stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// HasCategory reports whether the task carries a category with the given id.
func (t Task) HasCategory(id int64) bool {
	for _, c := range t.Category {
		if c.ID == id {
			return true
		}
	}
	return false
}
