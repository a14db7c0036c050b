package userstate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/taskdeck/internal/model"
)

// ErrEmptyName is returned when a required name is blank.
var ErrEmptyName = errors.New("name is required")

// SaveCategory creates a category when c.ID is zero and replaces the
// existing category otherwise. Tasks keep the copies they already embed.
func (s *Session) SaveCategory(ctx context.Context, c model.Category) (model.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Category{}, ErrEmptyName
	}
	if model.TextLength(c.Name) > model.CategoryNameMaxLength {
		return model.Category{}, fmt.Errorf("category name exceeds %d characters", model.CategoryNameMaxLength)
	}

	err := s.Update(ctx, func(u *model.User) error {
		if c.ID == 0 {
			c.ID = s.ids.CategoryID(u.Categories)
			u.Categories = append(u.Categories, c)
			return nil
		}
		i := model.FindCategory(u.Categories, c.ID)
		if i < 0 {
			return fmt.Errorf("saving category %d: %w", c.ID, ErrCategoryNotFound)
		}
		u.Categories[i] = c
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category from the user's list. Tasks keep the
// copies they already embed.
func (s *Session) DeleteCategory(ctx context.Context, id int64) error {
	return s.Update(ctx, func(u *model.User) error {
		i := model.FindCategory(u.Categories, id)
		if i < 0 {
			return fmt.Errorf("deleting category %d: %w", id, ErrCategoryNotFound)
		}
		u.Categories = append(u.Categories[:i], u.Categories[i+1:]...)
		return nil
	})
}
