package merge

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestMergeTasksReplacesInPlace(t *testing.T) {
	existing := []model.Task{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	incoming := []model.Task{{ID: 4, Name: "d"}, {ID: 2, Name: "b2", Done: true}}

	got := MergeTasks(existing, incoming)

	if want := []int64{1, 2, 3, 4}; !slices.Equal(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if got[1].Name != "b2" || !got[1].Done {
		t.Errorf("task 2 not replaced whole: %+v", got[1])
	}
	if existing[1].Name != "b" {
		t.Error("existing slice modified")
	}
}

func TestMergeTasksLastWriterWinsWithinBatch(t *testing.T) {
	got := MergeTasks(nil, []model.Task{{ID: 5, Name: "first"}, {ID: 6}, {ID: 5, Name: "second"}})
	if want := []int64{5, 6}; !slices.Equal(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	if got[0].Name != "second" {
		t.Errorf("name = %q, want second", got[0].Name)
	}
}

func TestMergeTasksCollapsesExistingDuplicates(t *testing.T) {
	got := MergeTasks([]model.Task{{ID: 1, Name: "x"}, {ID: 1, Name: "y"}}, nil)
	if len(got) != 1 || got[0].Name != "y" {
		t.Errorf("got %+v", got)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	user := model.DefaultUser(testTime)
	user.Tasks = []model.Task{{ID: 1, Name: "keep"}}
	batch := []model.Task{
		{ID: 2, Name: "new", Category: []model.Category{{ID: 9, Name: "Garden", Color: "#00ff00"}}},
		{ID: 1, Name: "replaced"},
	}

	once, err := Import(user, batch)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	twice, err := Import(once, batch)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second import changed state:\n%+v\n%+v", once, twice)
	}
	if want := []int64{1, 2}; !slices.Equal(ids(once.Tasks), want) {
		t.Errorf("ids = %v, want %v", ids(once.Tasks), want)
	}
	if n := len(once.Categories); n != 6 {
		t.Errorf("categories = %d, want 6", n)
	}
}

func TestImportRejectsWholeBatch(t *testing.T) {
	user := model.DefaultUser(testTime)
	batch := []model.Task{
		{ID: 1, Name: "fine"},
		{ID: 2, Name: strings.Repeat("n", 31)},
		{ID: 3, Name: "long category", Category: []model.Category{{ID: 1, Name: strings.Repeat("c", 21)}}},
		{ID: 4, Name: "long description", Description: strings.Repeat("d", 201)},
	}

	got, err := Import(user, batch)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	want := []string{strings.Repeat("n", 31), "long category", "long description"}
	if !slices.Equal(verr.TaskNames, want) {
		t.Errorf("TaskNames = %v, want %v", verr.TaskNames, want)
	}
	if len(got.Tasks) != 0 || len(got.Categories) != 5 {
		t.Errorf("state changed on rejected import: %d tasks, %d categories", len(got.Tasks), len(got.Categories))
	}
}

func TestValidateTaskLimitsAreInclusive(t *testing.T) {
	task := model.Task{
		Name:        strings.Repeat("n", model.TaskNameMaxLength),
		Description: strings.Repeat("d", model.DescriptionMaxLength),
		Category:    []model.Category{{Name: strings.Repeat("c", model.CategoryNameMaxLength)}},
	}
	if err := ValidateTask(task); err != nil {
		t.Errorf("ValidateTask at limits: %v", err)
	}

	task.Description += "d"
	var ferr *FieldError
	if err := ValidateTask(task); !errors.As(err, &ferr) || ferr.Field != "description" {
		t.Errorf("err = %v, want description FieldError", err)
	}
}

func TestUpsertCategories(t *testing.T) {
	existing := []model.Category{
		{ID: 1, Name: "Home", Emoji: "1f3e0", Color: "#1fff44"},
		{ID: 2, Name: "Work", Emoji: "1f3e2", Color: "#248eff"},
	}
	incoming := []model.Category{
		{ID: 3, Name: "Garden", Color: "#00ff00"},
		{ID: 1, Name: "House", Color: "#000000"},
		{ID: 4, Name: "Music", Emoji: "1f3b5", Color: "#ff00ff"},
	}

	got := UpsertCategories(existing, incoming)

	want := []model.Category{
		{ID: 1, Name: "House", Emoji: "1f3e0", Color: "#000000"},
		{ID: 2, Name: "Work", Emoji: "1f3e2", Color: "#248eff"},
		{ID: 3, Name: "Garden", Color: "#00ff00"},
		{ID: 4, Name: "Music", Emoji: "1f3b5", Color: "#ff00ff"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
	if existing[0].Name != "Home" {
		t.Error("existing slice modified")
	}
}

func TestCategoriesOfKeepsEncounterOrder(t *testing.T) {
	tasks := []model.Task{
		{Category: []model.Category{{ID: 2}, {ID: 1}}},
		{},
		{Category: []model.Category{{ID: 3}}},
	}
	got := CategoriesOf(tasks)
	var gotIDs []int64
	for _, c := range got {
		gotIDs = append(gotIDs, c.ID)
	}
	if want := []int64{2, 1, 3}; !slices.Equal(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}
