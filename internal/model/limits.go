package model

import "unicode/utf16"

// Field length limits. Lengths are counted in UTF-16 code units, the unit
// browser builds of the app use, so files move between builds unchanged.
const (
	TaskNameMaxLength       = 30
	DescriptionMaxLength    = 200
	CategoryNameMaxLength   = 20
	UserNameMaxLength       = 14
	ProfilePictureMaxLength = 255

	// MaxCategoriesPerTask is enforced by the task form, not by import.
	MaxCategoriesPerTask = 4
)

// TextLength returns the length of s in UTF-16 code units.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
