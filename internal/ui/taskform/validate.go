package taskform

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// deadlineLayout is the format shown and accepted by the deadline field.
const deadlineLayout = "2006-01-02 15:04"

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return validateLength("name", model.TaskNameMaxLength)(s)
}

func validateLength(field string, max int) func(string) error {
	return func(s string) error {
		if n := model.TextLength(s); n > max {
			return fmt.Errorf("%s is %d characters, the limit is %d", field, n, max)
		}
		return nil
	}
}

func validateColor(s string) error {
	if !theme.ValidHex(strings.TrimSpace(s)) {
		return fmt.Errorf("use a hex color such as #b624ff")
	}
	return nil
}

func validateEmoji(s string) error {
	if emoji.Normalize(s) == "" && strings.TrimSpace(s) != "" {
		return fmt.Errorf("enter an emoji or a code such as 1f3e0")
	}
	return nil
}

func validateDeadline(s string) error {
	if _, err := parseDeadline(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD HH:MM or YYYY-MM-DD")
	}
	return nil
}

func validateCategories(ids []int64) error {
	if len(ids) > model.MaxCategoriesPerTask {
		return fmt.Errorf("pick at most %d categories", model.MaxCategoriesPerTask)
	}
	return nil
}

// parseDeadline reads the deadline field. Empty input means no deadline.
func parseDeadline(s string) (*model.Moment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	m, err := model.ParseMoment(strings.Replace(s, " ", "T", 1))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func formatDeadline(m *model.Moment) string {
	if m == nil {
		return ""
	}
	return m.In(time.Local).Format(deadlineLayout)
}
