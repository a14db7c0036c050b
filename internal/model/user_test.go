package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONKeepsUnknownKeys(t *testing.T) {
	in := `{"name":"Ada","createdAt":"2024-01-02T03:04:05Z","profilePicture":null,
		"emojisStyle":"google","tasks":[],"categories":[],
		"settings":{"enableCategories":false,"doneToBottom":true,"enableGlow":false,
		"enableReadAloud":true,"voice":"en","voiceVolume":0.2,"appBadge":true},
		"theme":"dark"}`

	var u User
	if err := json.Unmarshal([]byte(in), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := string(u.Extra["theme"]); got != `"dark"` {
		t.Errorf("Extra[theme] = %s", got)
	}
	if got := string(u.Settings.Extra["appBadge"]); got != "true" {
		t.Errorf("Settings.Extra[appBadge] = %s", got)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"theme":"dark"`, `"appBadge":true`, `"enableGlow":false`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestSettingsAcceptLegacyList(t *testing.T) {
	var s AppSettings
	if err := json.Unmarshal([]byte(`[{"voice":"x","voiceVolume":0.3}]`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.Voice != "x" || s.VoiceVolume != 0.3 {
		t.Errorf("got %+v", s)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != '{' {
		t.Errorf("settings should encode as an object, got %s", out)
	}
}

func TestUserCloneIsDeep(t *testing.T) {
	u := DefaultUser(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	u.Name = StringPtr("Ada")
	u.Tasks = append(u.Tasks, Task{ID: 1, Name: "a", Category: []Category{{ID: 1, Name: "Home"}}})

	c := u.Clone()
	*c.Name = "Bob"
	c.Tasks[0].Category[0].Name = "Changed"
	c.Categories[0].Name = "Changed"

	if *u.Name != "Ada" {
		t.Error("name aliased")
	}
	if u.Tasks[0].Category[0].Name != "Home" {
		t.Error("task categories aliased")
	}
	if u.Categories[0].Name != "Home" {
		t.Error("categories aliased")
	}
}

func TestMomentAcceptsPickerFormat(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":1,"name":"a","deadline":"2024-05-10T18:30"}`), &task); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if task.Deadline == nil {
		t.Fatal("deadline not parsed")
	}
	if task.Deadline.Hour() != 18 || task.Deadline.Minute() != 30 {
		t.Errorf("deadline = %v", task.Deadline.Time)
	}
}

func TestClearedDeadlineDecodesToNil(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":1,"name":"a","deadline":""}`), &task); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if task.Deadline != nil {
		t.Errorf("deadline = %v, want nil", task.Deadline)
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "deadline") {
		t.Errorf("cleared deadline written back: %s", data)
	}
}

func TestTextLengthCountsUTF16Units(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"ğüş", 3},
		{"\U0001F600", 2},
	}
	for _, tt := range tests {
		if got := TextLength(tt.in); got != tt.want {
			t.Errorf("TextLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
