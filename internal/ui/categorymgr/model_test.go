package categorymgr

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListNavigationWraps(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m.Reload()

	m, _ = m.Update(runes("k"))
	if want := len(m.categories) - 1; m.selectedIdx != want {
		t.Fatalf("up from top selected %d, want %d", m.selectedIdx, want)
	}
	m, _ = m.Update(runes("j"))
	if m.selectedIdx != 0 {
		t.Fatalf("down from bottom selected %d, want 0", m.selectedIdx)
	}
}

func TestSaveAndDelete(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m.Reload()
	before := len(m.categories)

	m.fb.name = "  Errands "
	m.fb.emoji = "1F6D2"
	m.fb.color = "#abc"
	m, cmd := m.Update(m.saveCategory()())
	if cmd == nil {
		t.Fatal("no change notice after save")
	}
	if msg, ok := cmd().(ChangedMsg); !ok || msg.Notice != `Category "Errands" saved` {
		t.Errorf("notice = %#v", msg)
	}

	cats := s.User().Categories
	if len(cats) != before+1 {
		t.Fatalf("categories = %d, want %d", len(cats), before+1)
	}
	added := cats[len(cats)-1]
	if added.Name != "Errands" || added.Emoji != "1f6d2" || added.Color != "#abc" {
		t.Errorf("added = %+v", added)
	}

	m.selectedIdx = len(m.categories) - 1
	m, _ = m.Update(m.deleteCategory(m.categories[m.selectedIdx])())
	if got := len(s.User().Categories); got != before {
		t.Errorf("categories after delete = %d, want %d", got, before)
	}
	if m.selectedIdx >= len(m.categories) {
		t.Errorf("selection %d out of range", m.selectedIdx)
	}
}

func TestSaveErrorStaysInView(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m.Reload()

	m.fb.name = "   "
	m, cmd := m.Update(m.saveCategory()())
	if cmd != nil {
		t.Error("failed save produced a change notice")
	}
	if m.statusMsg == "" {
		t.Error("error not shown")
	}
}
