// Package merge combines imported or shared tasks into the user's state.
//
// Tasks and categories are keyed by id. Merging never reorders what the
// user already has, and importing the same file twice leaves the state as
// it was after the first import.
package merge

import "github.com/nhle/taskdeck/internal/model"

// UpsertCategories adds incoming categories to existing. A new id is
// appended in encounter order; a known id overwrites the existing entry in
// place. An incoming entry without an emoji keeps the existing emoji.
// Neither input is modified.
func UpsertCategories(existing, incoming []model.Category) []model.Category {
	out := model.CloneCategories(existing)
	if out == nil {
		out = []model.Category{}
	}

	pos := make(map[int64]int, len(out)+len(incoming))
	for i, c := range out {
		if _, ok := pos[c.ID]; !ok {
			pos[c.ID] = i
		}
	}

	for _, c := range incoming {
		i, ok := pos[c.ID]
		if !ok {
			pos[c.ID] = len(out)
			out = append(out, c)
			continue
		}
		if c.Emoji == "" {
			c.Emoji = out[i].Emoji
		}
		out[i] = c
	}
	return out
}

// CategoriesOf gathers the categories embedded in tasks, in encounter order.
func CategoriesOf(tasks []model.Task) []model.Category {
	var out []model.Category
	for _, t := range tasks {
		out = append(out, t.Category...)
	}
	return out
}

// MergeTasks returns existing followed by incoming with one entry per id.
// The first occurrence of an id fixes its position and a later record with
// the same id replaces it whole. Neither input is modified.
func MergeTasks(existing, incoming []model.Task) []model.Task {
	out := make([]model.Task, 0, len(existing)+len(incoming))
	pos := make(map[int64]int, len(existing)+len(incoming))

	add := func(t model.Task) {
		if i, ok := pos[t.ID]; ok {
			out[i] = t.Clone()
			return
		}
		pos[t.ID] = len(out)
		out = append(out, t.Clone())
	}

	for _, t := range existing {
		add(t)
	}
	for _, t := range incoming {
		add(t)
	}
	return out
}

// Import validates incoming as a batch and merges it into user: embedded
// categories are upserted into the user's categories, then tasks are
// merged. On error user is returned unchanged.
func Import(user model.User, incoming []model.Task) (model.User, error) {
	if err := ValidateBatch(incoming); err != nil {
		return user, err
	}

	out := user.Clone()
	out.Categories = UpsertCategories(user.Categories, CategoriesOf(incoming))
	out.Tasks = MergeTasks(user.Tasks, incoming)
	return out, nil
}
