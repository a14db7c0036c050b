// Package ids issues task identifiers.
package ids

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/nhle/taskdeck/internal/model"
)

// maxSafe masks identifiers to 53 bits so they survive a round trip
// through JSON numbers in browsers.
const maxSafe = 1<<53 - 1

// Generator draws random task identifiers from version-4 UUIDs.
type Generator struct {
	newUUID func() uuid.UUID
}

// New returns a Generator backed by uuid.New.
func New() *Generator {
	return &Generator{newUUID: uuid.New}
}

// NewWithSource returns a Generator that draws from fn. Used in tests.
func NewWithSource(fn func() uuid.UUID) *Generator {
	return &Generator{newUUID: fn}
}

// TaskID returns a positive identifier not used by any of existing.
func (g *Generator) TaskID(existing []model.Task) int64 {
	used := make(map[int64]struct{}, len(existing))
	for _, t := range existing {
		used[t.ID] = struct{}{}
	}
	for {
		u := g.newUUID()
		id := int64(binary.BigEndian.Uint64(u[:8]) & maxSafe)
		if id == 0 {
			continue
		}
		if _, taken := used[id]; taken {
			continue
		}
		return id
	}
}

// CategoryID returns a positive identifier not used by any of existing.
func (g *Generator) CategoryID(existing []model.Category) int64 {
	tasks := make([]model.Task, len(existing))
	for i, c := range existing {
		tasks[i] = model.Task{ID: c.ID}
	}
	return g.TaskID(tasks)
}
