// Package reconcile brings a stored user document up to the current schema.
//
// The stored document may come from any earlier version of the app. Keys
// that are missing get their default value. Keys that are present keep
// their stored value even when it is null or false, and keys the current
// schema does not know about are carried through untouched.
package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/nhle/taskdeck/internal/model"
)

// Document is a decoded stored user that remembers which keys were present.
type Document struct {
	user model.User

	keys map[string]json.RawMessage

	// settingsKeys is nil when settings were absent, null, or an empty list.
	settingsKeys map[string]json.RawMessage

	// legacySettings is set when settings were stored in list form.
	legacySettings bool
}

// Decode parses a stored user document. The top-level value must be a JSON
// object.
func Decode(data []byte) (*Document, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	if keys == nil {
		return nil, fmt.Errorf("decoding stored user: top-level value is null")
	}

	doc := &Document{keys: keys}
	if err := json.Unmarshal(data, &doc.user); err != nil {
		return nil, err
	}

	if raw, ok := keys["settings"]; ok {
		obj, err := model.SettingsObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding stored user: %w", err)
		}
		doc.legacySettings = len(raw) > 0 && raw[0] == '['
		if obj != nil {
			if err := json.Unmarshal(obj, &doc.settingsKeys); err != nil {
				return nil, fmt.Errorf("decoding stored settings: %w", err)
			}
		}
	}

	return doc, nil
}

// Has reports whether the stored document carried the top-level key.
func (d *Document) Has(key string) bool {
	_, ok := d.keys[key]
	return ok
}

// Result is the outcome of a reconciliation.
type Result struct {
	User model.User

	// Filled lists the dotted paths that were back-filled from defaults.
	Filled []string

	// Normalized is set when the stored shape was rewritten without
	// filling any value, such as list-form settings.
	Normalized bool
}

// Changed reports whether the reconciled user differs from what was stored.
// Callers commit only when it returns true.
func (r Result) Changed() bool {
	return len(r.Filled) > 0 || r.Normalized
}

type userRule struct {
	key  string
	fill func(u *model.User, def model.User)
}

type settingsRule struct {
	key  string
	fill func(s *model.AppSettings, def model.AppSettings)
}

// userRules has one entry per key of model.User. Lists are treated as
// leaves: a present list is kept as stored.
var userRules = []userRule{
	{"name", func(u *model.User, d model.User) { u.Name = cloneString(d.Name) }},
	{"createdAt", func(u *model.User, d model.User) { u.CreatedAt = d.CreatedAt }},
	{"profilePicture", func(u *model.User, d model.User) { u.ProfilePicture = cloneString(d.ProfilePicture) }},
	{"emojisStyle", func(u *model.User, d model.User) { u.EmojisStyle = d.EmojisStyle }},
	{"tasks", func(u *model.User, d model.User) { u.Tasks = model.CloneTasks(d.Tasks) }},
	{"categories", func(u *model.User, d model.User) { u.Categories = model.CloneCategories(d.Categories) }},
}

var settingsRules = []settingsRule{
	{"enableCategories", func(s *model.AppSettings, d model.AppSettings) { s.EnableCategories = d.EnableCategories }},
	{"doneToBottom", func(s *model.AppSettings, d model.AppSettings) { s.DoneToBottom = d.DoneToBottom }},
	{"enableGlow", func(s *model.AppSettings, d model.AppSettings) { s.EnableGlow = d.EnableGlow }},
	{"enableReadAloud", func(s *model.AppSettings, d model.AppSettings) { s.EnableReadAloud = d.EnableReadAloud }},
	{"voice", func(s *model.AppSettings, d model.AppSettings) { s.Voice = d.Voice }},
	{"voiceVolume", func(s *model.AppSettings, d model.AppSettings) { s.VoiceVolume = d.VoiceVolume }},
}

// Reconcile fills the keys doc is missing from defaults. A nil doc yields a
// copy of defaults. defaults is never modified and the result shares no
// memory with it.
func Reconcile(doc *Document, defaults model.User) Result {
	if doc == nil {
		return Result{User: defaults.Clone(), Filled: append([]string(nil), model.UserKeys...)}
	}

	res := Result{User: doc.user.Clone()}
	for _, r := range userRules {
		if doc.Has(r.key) {
			continue
		}
		r.fill(&res.User, defaults)
		res.Filled = append(res.Filled, r.key)
	}

	// Settings are structured: an absent or null value is reconciled
	// against an empty object, so every setting is filled.
	for _, r := range settingsRules {
		if _, ok := doc.settingsKeys[r.key]; ok {
			continue
		}
		r.fill(&res.User.Settings, defaults.Settings)
		res.Filled = append(res.Filled, "settings."+r.key)
	}
	if doc.legacySettings {
		res.Normalized = true
	}

	return res
}

// Load decodes data and reconciles it against defaults. Empty data is
// treated as a missing document.
func Load(data []byte, defaults model.User) (Result, error) {
	if len(data) == 0 {
		return Reconcile(nil, defaults), nil
	}
	doc, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	return Reconcile(doc, defaults), nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
