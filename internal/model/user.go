package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// EmojiStyle selects the emoji artwork set.
type EmojiStyle string

const (
	EmojiStyleApple    EmojiStyle = "apple"
	EmojiStyleGoogle   EmojiStyle = "google"
	EmojiStyleTwitter  EmojiStyle = "twitter"
	EmojiStyleFacebook EmojiStyle = "facebook"
	EmojiStyleNative   EmojiStyle = "native"
)

// EmojiStyles lists every style in display order.
var EmojiStyles = []EmojiStyle{
	EmojiStyleApple,
	EmojiStyleGoogle,
	EmojiStyleTwitter,
	EmojiStyleFacebook,
	EmojiStyleNative,
}

// Valid reports whether s is a known style.
func (s EmojiStyle) Valid() bool {
	for _, known := range EmojiStyles {
		if s == known {
			return true
		}
	}
	return false
}

// User is the root aggregate. Everything the app persists lives here and
// is stored as one JSON document.
type User struct {
	// Name is nil until the user sets one.
	Name *string `json:"name"`

	CreatedAt time.Time `json:"createdAt"`

	// ProfilePicture is a URL or local file path, nil when unset.
	ProfilePicture *string `json:"profilePicture"`

	EmojisStyle EmojiStyle  `json:"emojisStyle"`
	Tasks       []Task      `json:"tasks"`
	Categories  []Category  `json:"categories"`
	Settings    AppSettings `json:"settings"`

	// Extra holds top-level keys this version does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

// UserKeys lists the JSON keys of User in declaration order.
var UserKeys = []string{
	"name",
	"createdAt",
	"profilePicture",
	"emojisStyle",
	"tasks",
	"categories",
	"settings",
}

// DefaultCategories returns the starter categories of a new user.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Home", Emoji: "1f3e0", Color: "#1fff44"},
		{ID: 2, Name: "Work", Emoji: "1f3e2", Color: "#248eff"},
		{ID: 3, Name: "Personal", Emoji: "1f464", Color: "#e843fe"},
		{ID: 4, Name: "Health/Fitness", Emoji: "1f4aa", Color: "#ffdf3d"},
		{ID: 5, Name: "Education", Emoji: "1f4da", Color: "#ff8e24"},
	}
}

// DefaultUser returns the state of a brand new user created at now.
func DefaultUser(now time.Time) User {
	return User{
		CreatedAt:   now,
		EmojisStyle: EmojiStyleApple,
		Tasks:       []Task{},
		Categories:  DefaultCategories(),
		Settings:    DefaultSettings(),
	}
}

// DisplayName returns the user's name or fallback when unset.
func (u User) DisplayName(fallback string) string {
	if u.Name == nil || *u.Name == "" {
		return fallback
	}
	return *u.Name
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	c.Name = cloneString(u.Name)
	c.ProfilePicture = cloneString(u.ProfilePicture)
	c.Tasks = CloneTasks(u.Tasks)
	c.Categories = CloneCategories(u.Categories)
	c.Settings = u.Settings.Clone()
	c.Extra = cloneExtra(u.Extra)
	return c
}

// TaskIndex returns the index of the task with the given id, or -1.
func (u User) TaskIndex(id int64) int {
	for i, t := range u.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

type userAlias User

// UnmarshalJSON implements json.Unmarshaler.
func (u *User) UnmarshalJSON(data []byte) error {
	var a userAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}
	extra, err := unknownKeys(data, UserKeys)
	if err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}
	a.Extra = extra
	*u = User(a)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(userAlias(u), u.Extra)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
