// Package config loads chime's settings from defaults, the config file and
// CHIME_* environment variables.
package config

import "time"

// Config is the effective configuration.
type Config struct {
	// Directory holding tasks.json, the lock file and the TUI log
	DataDir  string      `yaml:"data_dir" mapstructure:"data_dir"`
	LogLevel string      `yaml:"log_level" mapstructure:"log_level"`
	Alarm    AlarmConfig `yaml:"alarm" mapstructure:"alarm"`
	Sound    SoundConfig `yaml:"sound" mapstructure:"sound"`
}

// AlarmConfig configures the alarm monitor.
type AlarmConfig struct {
	TickInterval   time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	FiredRetention time.Duration `yaml:"fired_retention" mapstructure:"fired_retention"`
}

// SoundConfig configures playback.
type SoundConfig struct {
	// Built-in sound preselected in the form and used by `chime add`
	Default string `yaml:"default" mapstructure:"default"`
	// Player command; empty means auto-detect
	Player     string   `yaml:"player" mapstructure:"player"`
	PlayerArgs []string `yaml:"player_args" mapstructure:"player_args"`
}
