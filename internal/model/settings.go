package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AppSettings holds the user's application preferences.
//
// Older documents stored settings as a single-element list; UnmarshalJSON
// accepts that form and the object form, and MarshalJSON always writes
// the object form.
type AppSettings struct {
	EnableCategories bool    `json:"enableCategories"`
	DoneToBottom     bool    `json:"doneToBottom"`
	EnableGlow       bool    `json:"enableGlow"`
	EnableReadAloud  bool    `json:"enableReadAloud"`
	Voice            string  `json:"voice"`
	VoiceVolume      float64 `json:"voiceVolume"`

	// Extra holds keys this version does not know about. They are written
	// back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// SettingsKeys lists the JSON keys of AppSettings in declaration order.
var SettingsKeys = []string{
	"enableCategories",
	"doneToBottom",
	"enableGlow",
	"enableReadAloud",
	"voice",
	"voiceVolume",
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() AppSettings {
	return AppSettings{
		EnableCategories: true,
		DoneToBottom:     false,
		EnableGlow:       true,
		EnableReadAloud:  true,
		Voice:            "Google UK English Male",
		VoiceVolume:      0.6,
	}
}

// Clone returns a deep copy of s.
func (s AppSettings) Clone() AppSettings {
	c := s
	c.Extra = cloneExtra(s.Extra)
	return c
}

// Muted reports whether read-aloud output is silent.
func (s AppSettings) Muted() bool {
	return s.VoiceVolume <= 0
}

type settingsAlias AppSettings

// SettingsObject returns the raw settings object from a stored value that
// may be an object, a single-element list, or null. It returns nil for null
// or an empty list.
func SettingsObject(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return trimmed, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decoding settings list: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	obj := bytes.TrimSpace(list[0])
	if bytes.Equal(obj, []byte("null")) {
		return nil, nil
	}
	return obj, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AppSettings) UnmarshalJSON(data []byte) error {
	obj, err := SettingsObject(data)
	if err != nil {
		return err
	}
	if obj == nil {
		return nil
	}

	var a settingsAlias
	if err := json.Unmarshal(obj, &a); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	extra, err := unknownKeys(obj, SettingsKeys)
	if err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	a.Extra = extra
	*s = AppSettings(a)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s AppSettings) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(settingsAlias(s), s.Extra)
}
