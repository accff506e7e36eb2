package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/workbench/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	Workbench     WorkbenchConfig `mapstructure:"workbench" yaml:"workbench"`
	Backup        BackupConfig    `mapstructure:"backup" yaml:"backup"`
	Logging       LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// WorkbenchConfig controls editor group behavior.
type WorkbenchConfig struct {
	DefaultGroup       string `mapstructure:"default_group" yaml:"default_group"`
	MaxEditorsPerGroup int    `mapstructure:"max_editors_per_group" yaml:"max_editors_per_group"`
}

// BackupConfig configures encrypted hot-exit backups.
type BackupConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir          string `mapstructure:"dir" yaml:"dir"`
	KeyStorePath string `mapstructure:"key_store_path" yaml:"key_store_path"`
}

// LoggingConfig controls event logging behavior.
type LoggingConfig struct {
	DisableEventLog bool `mapstructure:"disable_event_log" yaml:"disable_event_log"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".workbench", "state"),
		Workbench: WorkbenchConfig{
			DefaultGroup:       string(schema.DefaultGroup),
			MaxEditorsPerGroup: schema.DefaultMaxEditorsPerGroup,
		},
		Backup: BackupConfig{
			Enabled:      true,
			Dir:          filepath.Join(home, ".workbench", "state", "backups"),
			KeyStorePath: filepath.Join(home, ".workbench", "state", "backups", "keys.bundle"),
		},
		Logging: LoggingConfig{
			DisableEventLog: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".workbench", "config.yaml"), nil
}
