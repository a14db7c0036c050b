package userstate

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nhle/taskdeck/internal/model"
)

// taskSource exposes task names and descriptions to the fuzzy matcher.
type taskSource []model.Task

func (s taskSource) String(i int) string {
	t := s[i]
	if t.Description == "" {
		return t.Name
	}
	return t.Name + " " + t.Description
}

func (s taskSource) Len() int { return len(s) }

// Search returns the tasks whose name or description fuzzy-matches query,
// best match first. An empty query returns tasks unchanged.
func Search(tasks []model.Task, query string) []model.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return tasks
	}
	matches := fuzzy.FindFrom(query, taskSource(tasks))
	out := make([]model.Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, tasks[m.Index])
	}
	return out
}
