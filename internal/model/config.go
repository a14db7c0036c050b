package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage driver names.
const (
	StorageSQLite  = "sqlite"
	StorageKeyring = "keyring"
)

// StorageConfig selects where the user document is persisted.
type StorageConfig struct {
	// Driver is "sqlite" or "keyring".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. Ignored by the keyring driver.
	Path string `mapstructure:"path" yaml:"path"`

	// KeyringDir is used by the encrypted-file keyring backend.
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir"`
}

// ShareConfig controls share link generation.
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// SenderFallback is the sender name used when the user has none.
	SenderFallback string `mapstructure:"sender_fallback" yaml:"sender_fallback"`
}

// ExportConfig controls where exported task files go.
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// BackupConfig controls scheduled exports. An empty schedule disables them.
type BackupConfig struct {
	Schedule string `mapstructure:"schedule" yaml:"schedule"`
	Dir      string `mapstructure:"dir" yaml:"dir"`
}

// SpeechConfig configures the read-aloud synthesizer.
type SpeechConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Command string `mapstructure:"command" yaml:"command"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	// File receives log output while the terminal UI runs. Empty discards it.
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Share   ShareConfig   `mapstructure:"share" yaml:"share"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Backup  BackupConfig  `mapstructure:"backup" yaml:"backup"`
	Speech  SpeechConfig  `mapstructure:"speech" yaml:"speech"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/taskdeck, or the working directory when the
// home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskdeck")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskdeck/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Storage: StorageConfig{
			Driver:     StorageSQLite,
			Path:       filepath.Join(dir, "taskdeck.db"),
			KeyringDir: filepath.Join(dir, "keyring"),
		},
		Share: ShareConfig{
			BaseURL:        "taskdeck://share",
			SenderFallback: "User",
		},
		Export: ExportConfig{Dir: "."},
		Backup: BackupConfig{Dir: filepath.Join(dir, "backups")},
		Speech: SpeechConfig{Enabled: true, Command: "espeak-ng"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.keyring_dir", def.Storage.KeyringDir)
	v.SetDefault("share.base_url", def.Share.BaseURL)
	v.SetDefault("share.sender_fallback", def.Share.SenderFallback)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("backup.schedule", "")
	v.SetDefault("backup.dir", def.Backup.Dir)
	v.SetDefault("speech.command", def.Speech.Command)
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Viper unmarshals a missing bool as false; only an explicit false
	// turns speech off.
	if !v.IsSet("speech.enabled") {
		cfg.Speech.Enabled = true
	}

	switch cfg.Storage.Driver {
	case StorageSQLite, StorageKeyring:
	default:
		return nil, fmt.Errorf("parsing config %s: unknown storage driver %q", path, cfg.Storage.Driver)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("share", cfg.Share)
	v.Set("export", cfg.Export)
	v.Set("backup", cfg.Backup)
	v.Set("speech", cfg.Speech)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
