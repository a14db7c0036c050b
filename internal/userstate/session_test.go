package userstate_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/store"
	"github.com/nhle/taskdeck/internal/transfer"
	"github.com/nhle/taskdeck/internal/userstate"
	"github.com/nhle/taskdeck/tests/testutil"
)

func storedUser(t *testing.T, kv store.KV) map[string]json.RawMessage {
	t.Helper()
	data, err := kv.Get(context.Background(), store.UserKey)
	if err != nil {
		t.Fatalf("reading stored user: %v", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("decoding stored user: %v", err)
	}
	return obj
}

func TestOpenEmptyStoreCommitsDefaults(t *testing.T) {
	kv := testutil.NewTestStore(t)
	s := testutil.NewTestSession(t, kv)

	if s.Writes() != 1 {
		t.Errorf("writes = %d, want 1", s.Writes())
	}
	obj := storedUser(t, kv)
	if string(obj["name"]) != "null" {
		t.Errorf("name = %s, want null", obj["name"])
	}
	if !strings.HasPrefix(string(obj["settings"]), "{") {
		t.Errorf("settings stored as %s, want an object", obj["settings"])
	}
}

func TestOpenSkipsCommitWhenNothingFilled(t *testing.T) {
	kv := testutil.NewTestStore(t)
	testutil.NewTestSession(t, kv)

	again := testutil.NewTestSession(t, kv)
	if again.Writes() != 0 {
		t.Errorf("writes = %d, want 0", again.Writes())
	}
}

func TestOpenKeepsExplicitFalse(t *testing.T) {
	kv := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := kv.Set(ctx, store.UserKey, []byte(`{"name":"Ada","settings":[{"enableGlow":false}],"legacyFlag":1}`)); err != nil {
		t.Fatal(err)
	}

	s := testutil.NewTestSession(t, kv)
	u := s.User()
	if u.Settings.EnableGlow {
		t.Error("enableGlow=false was overwritten")
	}
	if !u.Settings.EnableCategories {
		t.Error("missing enableCategories not filled")
	}
	if s.Writes() != 1 {
		t.Errorf("writes = %d, want 1", s.Writes())
	}
	if got := string(storedUser(t, kv)["legacyFlag"]); got != "1" {
		t.Errorf("unknown key lost, got %q", got)
	}
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	kv := testutil.NewTestStore(t)
	if err := kv.Set(context.Background(), store.UserKey, []byte(`[1,2]`)); err != nil {
		t.Fatal(err)
	}
	if _, err := userstate.Open(context.Background(), kv, userstate.Options{}); err == nil {
		t.Error("expected error for non-object document")
	}
}

func TestOpenAcceptsClearedDeadline(t *testing.T) {
	kv := testutil.NewTestStore(t)
	doc := `{"tasks":[{"id":7,"name":"Call mom","color":"#fff","date":"2024-01-01T00:00:00Z","deadline":""}]}`
	if err := kv.Set(context.Background(), store.UserKey, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	s, err := userstate.Open(context.Background(), kv, userstate.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	task, err := s.Task(7)
	if err != nil {
		t.Fatal(err)
	}
	if task.Deadline != nil {
		t.Errorf("deadline = %v, want nil", task.Deadline)
	}
	if err := s.Reset(context.Background()); err != nil {
		t.Errorf("Reset: %v", err)
	}
}

func TestUpdateWithoutChangeDoesNotWrite(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	before := s.Writes()

	err := s.Update(context.Background(), func(u *model.User) error {
		u.Settings.Voice = strings.TrimSpace(u.Settings.Voice)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Writes() != before {
		t.Errorf("writes = %d, want %d", s.Writes(), before)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestSession(t, nil)

	added, err := s.AddTask(ctx, model.Task{ID: 999, Name: "Write report", Color: "#b624ff", Done: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if added.ID == 999 || added.ID == 0 {
		t.Errorf("AddTask kept caller id %d", added.ID)
	}
	if added.Done || !added.Date.Equal(testutil.Epoch) {
		t.Errorf("added = %+v", added)
	}

	added.Name = "Write final report"
	edited, err := s.EditTask(ctx, added)
	if err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	if edited.LastSave == nil || edited.Name != "Write final report" {
		t.Errorf("edited = %+v", edited)
	}

	if got, _ := s.ToggleDone(ctx, added.ID); !got.Done {
		t.Error("ToggleDone did not mark done")
	}
	if got, _ := s.TogglePin(ctx, added.ID); !got.Pinned {
		t.Error("TogglePin did not pin")
	}

	dup, err := s.DuplicateTask(ctx, added.ID)
	if err != nil {
		t.Fatalf("DuplicateTask: %v", err)
	}
	if dup.ID == added.ID || dup.Name != edited.Name {
		t.Errorf("dup = %+v", dup)
	}

	if err := s.DeleteTask(ctx, added.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.DeleteTask(ctx, added.ID); !errors.Is(err, userstate.ErrTaskNotFound) {
		t.Errorf("second delete err = %v, want ErrTaskNotFound", err)
	}

	tasks := s.User().Tasks
	if len(tasks) != 1 || tasks[0].ID != dup.ID {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestAddTaskValidates(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	ctx := context.Background()

	_, err := s.AddTask(ctx, model.Task{Name: strings.Repeat("x", 31)})
	var ferr *merge.FieldError
	if !errors.As(err, &ferr) {
		t.Errorf("err = %v, want *merge.FieldError", err)
	}

	cats := model.DefaultCategories()
	_, err = s.AddTask(ctx, model.Task{Name: "many", Category: cats})
	if !errors.Is(err, userstate.ErrTooManyCategories) {
		t.Errorf("err = %v, want ErrTooManyCategories", err)
	}
	if n := len(s.User().Tasks); n != 0 {
		t.Errorf("tasks = %d, want 0", n)
	}
}

func TestImportRejectedBatchDoesNotWrite(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	before := s.Writes()

	err := s.Import(context.Background(), []model.Task{{ID: 1, Name: "ok"}, {ID: 2, Name: strings.Repeat("y", 40)}})
	var verr *merge.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *merge.ValidationError", err)
	}
	if s.Writes() != before || len(s.User().Tasks) != 0 {
		t.Error("rejected import changed state")
	}
}

func TestImportTwiceWritesOnce(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	ctx := context.Background()
	batch := []model.Task{{ID: 10, Name: "a"}, {ID: 11, Name: "b"}}

	if err := s.Import(ctx, batch); err != nil {
		t.Fatal(err)
	}
	writes := s.Writes()
	if err := s.Import(ctx, batch); err != nil {
		t.Fatal(err)
	}
	if s.Writes() != writes {
		t.Errorf("idempotent import wrote again")
	}
}

func TestAcceptShared(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestSession(t, nil)
	mine, err := s.AddTask(ctx, model.Task{Name: "mine"})
	if err != nil {
		t.Fatal(err)
	}

	link, err := transfer.ShareLink("taskdeck://share", model.Task{ID: mine.ID, Name: "theirs"}, "Bob")
	if err != nil {
		t.Fatal(err)
	}
	shared, err := transfer.ParseShareLink(link)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.AcceptShared(ctx, shared)
	if err != nil {
		t.Fatalf("AcceptShared: %v", err)
	}
	if got.ID == mine.ID || got.SharedBy != "Bob" {
		t.Errorf("got = %+v", got)
	}
	tasks := s.User().Tasks
	if len(tasks) != 2 || tasks[1].ID != got.ID {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestSession(t, nil)
	if _, err := s.AddTask(ctx, model.Task{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetName(ctx, "Ada"); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	u := s.User()
	if u.Name != nil || len(u.Tasks) != 0 || len(u.Categories) != 5 {
		t.Errorf("user after reset = %+v", u)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestSession(t, nil)

	task, err := s.AddTask(ctx, model.Task{Name: "gym", Category: model.DefaultCategories()[3:4]})
	if err != nil {
		t.Fatal(err)
	}

	c, err := s.SaveCategory(ctx, model.Category{Name: "Garden", Color: "#00ff00"})
	if err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}
	if c.ID <= 5 {
		t.Errorf("new category id %d collides with defaults", c.ID)
	}

	if _, err := s.SaveCategory(ctx, model.Category{ID: 4, Name: "Fitness", Color: "#ffdf3d"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Task(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category[0].Name != "Health/Fitness" {
		t.Errorf("embedded copy changed to %q", got.Category[0].Name)
	}

	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCategory(ctx, c.ID); !errors.Is(err, userstate.ErrCategoryNotFound) {
		t.Errorf("err = %v, want ErrCategoryNotFound", err)
	}
	if _, err := s.SaveCategory(ctx, model.Category{Name: " "}); !errors.Is(err, userstate.ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestSession(t, nil)

	if err := s.SetName(ctx, strings.Repeat("n", 15)); err == nil {
		t.Error("expected error for long name")
	}
	if err := s.SetProfilePicture(ctx, "http://insecure.example.com/me.png"); !errors.Is(err, userstate.ErrInvalidPicture) {
		t.Errorf("err = %v, want ErrInvalidPicture", err)
	}
	if err := s.SetEmojiStyle(ctx, "comic"); err == nil {
		t.Error("expected error for unknown emoji style")
	}

	pic := filepath.Join(t.TempDir(), "me.png")
	if err := os.WriteFile(pic, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProfilePicture(ctx, pic); err != nil {
		t.Fatalf("SetProfilePicture: %v", err)
	}
	if err := s.CheckProfilePicture(ctx); err != nil {
		t.Errorf("CheckProfilePicture on existing file: %v", err)
	}

	if err := os.Remove(pic); err != nil {
		t.Fatal(err)
	}
	err := s.CheckProfilePicture(ctx)
	var rerr *userstate.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RenderError", err)
	}
	if s.User().ProfilePicture != nil {
		t.Error("broken picture was not cleared")
	}
}

func TestUpdateSettingsClampsVolume(t *testing.T) {
	s := testutil.NewTestSession(t, nil)
	err := s.UpdateSettings(context.Background(), func(st *model.AppSettings) {
		st.VoiceVolume = 3
		st.DoneToBottom = true
	})
	if err != nil {
		t.Fatal(err)
	}
	st := s.User().Settings
	if st.VoiceVolume != 1 || !st.DoneToBottom {
		t.Errorf("settings = %+v", st)
	}
}
