package help

import (
	"strings"
	"testing"

	"github.com/nhle/taskdeck/internal/keys"
)

func TestViewListsKeysAndCommands(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	out := m.View()
	for _, want := range []string{"Tasks", "Voice", "read aloud", "mute", ":import <file>", ":categories"} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}

func TestCategoriesHiddenWhenDisabled(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetCategoriesEnabled(false)
	out := m.View()
	if strings.Contains(out, ":categories") || strings.Contains(out, "manage categories") {
		t.Error("categories command shown while disabled")
	}
	for _, s := range m.sections() {
		for _, b := range s.bindings {
			if b.Help().Desc == "categories" {
				t.Error("categories binding shown while disabled")
			}
		}
	}
}
