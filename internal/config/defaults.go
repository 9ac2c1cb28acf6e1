package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pablasso/chime/internal/sound"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		Alarm: AlarmConfig{
			TickInterval:   time.Second,
			FiredRetention: 24 * time.Hour,
		},
		Sound: SoundConfig{
			Default:    sound.Default().ID,
			PlayerArgs: []string{},
		},
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/chime, or ~/.local/share/chime.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "chime")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chime"
	}
	return filepath.Join(home, ".local", "share", "chime")
}

// DefaultPath returns $XDG_CONFIG_HOME/chime/config.yaml, or
// ~/.config/chime/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "chime", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".chime", "config.yaml")
	}
	return filepath.Join(home, ".config", "chime", "config.yaml")
}

// fileConfig is the on-disk shape: durations are written as strings.
type fileConfig struct {
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	Alarm    struct {
		TickInterval   string `yaml:"tick_interval"`
		FiredRetention string `yaml:"fired_retention"`
	} `yaml:"alarm"`
	Sound SoundConfig `yaml:"sound"`
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.DataDir = cfg.DataDir
	fc.LogLevel = cfg.LogLevel
	fc.Alarm.TickInterval = cfg.Alarm.TickInterval.String()
	fc.Alarm.FiredRetention = cfg.Alarm.FiredRetention.String()
	fc.Sound = cfg.Sound
	if fc.Sound.PlayerArgs == nil {
		fc.Sound.PlayerArgs = []string{}
	}
	return yaml.Marshal(fc)
}

const defaultHeader = `# chime configuration
# Every key can be overridden with CHIME_<KEY>, e.g. CHIME_ALARM_TICK_INTERVAL=5s.
# sound.player empty means auto-detect (ffplay, mpv, afplay, paplay, aplay).
`

// WriteDefault writes the default configuration to path. An existing file
// is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0644)
}
