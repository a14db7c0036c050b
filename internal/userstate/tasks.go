package userstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// ErrCategoryNotFound is returned when no category has the requested id.
var ErrCategoryNotFound = errors.New("category not found")

// ErrTooManyCategories is returned when a task carries more categories
// than model.MaxCategoriesPerTask.
var ErrTooManyCategories = fmt.Errorf("a task can have at most %d categories", model.MaxCategoriesPerTask)

func validateForm(t model.Task) error {
	if err := merge.ValidateTask(t); err != nil {
		return err
	}
	if len(t.Category) > model.MaxCategoriesPerTask {
		return ErrTooManyCategories
	}
	return nil
}

// AddTask appends a new task. The task gets a fresh id and creation date
// and starts neither done nor pinned.
func (s *Session) AddTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := validateForm(t); err != nil {
		return model.Task{}, err
	}

	var added model.Task
	err := s.Update(ctx, func(u *model.User) error {
		t = t.Clone()
		t.ID = s.ids.TaskID(u.Tasks)
		t.Date = s.now()
		t.Done = false
		t.Pinned = false
		t.LastSave = nil
		u.Tasks = append(u.Tasks, t)
		added = t
		return nil
	})
	return added, err
}

// EditTask replaces the editable fields of the task with t.ID and stamps
// its last-save time.
func (s *Session) EditTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := validateForm(t); err != nil {
		return model.Task{}, err
	}

	var edited model.Task
	err := s.Update(ctx, func(u *model.User) error {
		i := u.TaskIndex(t.ID)
		if i < 0 {
			return fmt.Errorf("editing task %d: %w", t.ID, ErrTaskNotFound)
		}
		cur := &u.Tasks[i]
		cur.Name = t.Name
		cur.Description = t.Description
		cur.Emoji = t.Emoji
		cur.Color = t.Color
		cur.Deadline = t.Clone().Deadline
		cur.Category = model.CloneCategories(t.Category)
		saved := s.now()
		cur.LastSave = &saved
		edited = cur.Clone()
		return nil
	})
	return edited, err
}

// DeleteTask removes the task with the given id.
func (s *Session) DeleteTask(ctx context.Context, id int64) error {
	return s.Update(ctx, func(u *model.User) error {
		i := u.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("deleting task %d: %w", id, ErrTaskNotFound)
		}
		u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
		return nil
	})
}

// ToggleDone flips the done flag of a task and returns the updated task.
func (s *Session) ToggleDone(ctx context.Context, id int64) (model.Task, error) {
	return s.mutateTask(ctx, id, func(t *model.Task) { t.Done = !t.Done })
}

// TogglePin flips the pinned flag of a task and returns the updated task.
func (s *Session) TogglePin(ctx context.Context, id int64) (model.Task, error) {
	return s.mutateTask(ctx, id, func(t *model.Task) { t.Pinned = !t.Pinned })
}

func (s *Session) mutateTask(ctx context.Context, id int64, fn func(t *model.Task)) (model.Task, error) {
	var out model.Task
	err := s.Update(ctx, func(u *model.User) error {
		i := u.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("updating task %d: %w", id, ErrTaskNotFound)
		}
		fn(&u.Tasks[i])
		out = u.Tasks[i].Clone()
		return nil
	})
	return out, err
}

// DuplicateTask appends a copy of the task with a new id and creation date.
func (s *Session) DuplicateTask(ctx context.Context, id int64) (model.Task, error) {
	var dup model.Task
	err := s.Update(ctx, func(u *model.User) error {
		i := u.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("duplicating task %d: %w", id, ErrTaskNotFound)
		}
		dup = u.Tasks[i].Clone()
		dup.ID = s.ids.TaskID(u.Tasks)
		dup.Date = s.now()
		dup.LastSave = nil
		u.Tasks = append(u.Tasks, dup)
		return nil
	})
	return dup, err
}

// Task returns a copy of the task with the given id.
func (s *Session) Task(id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.user.TaskIndex(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return s.user.Tasks[i].Clone(), nil
}
