package app

import "github.com/nhle/taskdeck/internal/keys"

// KeyMap holds the bindings shared by the root model and its views.
type KeyMap = keys.KeyMap

// DefaultKeyMap returns the application's key bindings.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
