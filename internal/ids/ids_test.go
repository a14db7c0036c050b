package ids

import (
	"testing"

	"github.com/google/uuid"

	"github.com/nhle/taskdeck/internal/model"
)

// sequence returns UUIDs whose first eight bytes encode the given values.
func sequence(values ...uint64) func() uuid.UUID {
	i := 0
	return func() uuid.UUID {
		var u uuid.UUID
		v := values[i%len(values)]
		i++
		for b := 7; b >= 0; b-- {
			u[b] = byte(v)
			v >>= 8
		}
		return u
	}
}

func TestTaskIDSkipsZeroAndCollisions(t *testing.T) {
	g := NewWithSource(sequence(0, 42, 43))
	got := g.TaskID([]model.Task{{ID: 42}})
	if got != 43 {
		t.Errorf("TaskID = %d, want 43", got)
	}
}

func TestTaskIDFitsInJSONNumber(t *testing.T) {
	g := NewWithSource(sequence(^uint64(0)))
	got := g.TaskID(nil)
	if got <= 0 || got > maxSafe {
		t.Errorf("TaskID = %d, outside (0, 2^53)", got)
	}
}

func TestTaskIDUnique(t *testing.T) {
	g := New()
	var tasks []model.Task
	for range 200 {
		id := g.TaskID(tasks)
		for _, existing := range tasks {
			if existing.ID == id {
				t.Fatalf("duplicate id %d", id)
			}
		}
		tasks = append(tasks, model.Task{ID: id})
	}
}

func TestCategoryIDAvoidsExisting(t *testing.T) {
	g := NewWithSource(sequence(1, 2, 6))
	got := g.CategoryID(model.DefaultCategories())
	if got != 6 {
		t.Errorf("CategoryID = %d, want 6", got)
	}
}
