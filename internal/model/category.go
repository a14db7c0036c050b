package model

// Category is a user-defined label. Tasks embed copies of categories.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Color string `json:"color"`
}

// CloneCategories copies a category list. A nil list stays nil.
func CloneCategories(cats []Category) []Category {
	if cats == nil {
		return nil
	}
	return append([]Category(nil), cats...)
}

// FindCategory returns the index of the category with the given id, or -1.
func FindCategory(cats []Category, id int64) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}
