package merge

import (
	"fmt"
	"strings"

	"github.com/nhle/taskdeck/internal/model"
)

// FieldError describes the first field limit a task violates.
type FieldError struct {
	Task  string
	Field string
	Limit int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("task %q: %s exceeds %d characters", e.Task, e.Field, e.Limit)
}

// ValidationError lists the names of every task in a batch that violates a
// field limit. A batch with any invalid task is rejected as a whole.
type ValidationError struct {
	TaskNames []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid task(s): %s", len(e.TaskNames), strings.Join(e.TaskNames, ", "))
}

// ValidateTask checks the field limits of a single task.
func ValidateTask(t model.Task) error {
	if model.TextLength(t.Name) > model.TaskNameMaxLength {
		return &FieldError{Task: t.Name, Field: "name", Limit: model.TaskNameMaxLength}
	}
	if model.TextLength(t.Description) > model.DescriptionMaxLength {
		return &FieldError{Task: t.Name, Field: "description", Limit: model.DescriptionMaxLength}
	}
	for _, c := range t.Category {
		if model.TextLength(c.Name) > model.CategoryNameMaxLength {
			return &FieldError{Task: t.Name, Field: "category name", Limit: model.CategoryNameMaxLength}
		}
	}
	return nil
}

// ValidateBatch checks every task and returns a *ValidationError naming all
// offenders, or nil when the whole batch is valid.
func ValidateBatch(tasks []model.Task) error {
	var names []string
	for _, t := range tasks {
		if ValidateTask(t) != nil {
			names = append(names, t.Name)
		}
	}
	if len(names) > 0 {
		return &ValidationError{TaskNames: names}
	}
	return nil
}
