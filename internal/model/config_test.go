package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Errorf("driver = %q, want %q", cfg.Storage.Driver, StorageSQLite)
	}
	if !cfg.Speech.Enabled {
		t.Error("speech should be enabled by default")
	}
	if cfg.Share.SenderFallback != "User" {
		t.Errorf("sender fallback = %q, want User", cfg.Share.SenderFallback)
	}
}

func TestLoadConfigExplicitFalseIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "speech:\n  enabled: false\nshare:\n  base_url: https://tasks.example.com/\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Speech.Enabled {
		t.Error("explicit speech.enabled=false was overridden")
	}
	if cfg.Speech.Command != "espeak-ng" {
		t.Errorf("speech command = %q, want default", cfg.Speech.Command)
	}
	if cfg.Share.BaseURL != "https://tasks.example.com/" {
		t.Errorf("base url = %q", cfg.Share.BaseURL)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  driver: redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Storage.Driver = StorageKeyring
	cfg.Backup.Schedule = "0 0 * * * *"
	cfg.Speech.Enabled = false

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Storage.Driver != StorageKeyring {
		t.Errorf("driver = %q", got.Storage.Driver)
	}
	if got.Backup.Schedule != "0 0 * * * *" {
		t.Errorf("schedule = %q", got.Backup.Schedule)
	}
	if got.Speech.Enabled {
		t.Error("speech.enabled = true after saving false")
	}
}
