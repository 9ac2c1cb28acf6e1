package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pablasso/chime/internal/alarm"
	"github.com/pablasso/chime/internal/sound"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHIME"

// Load reads the configuration. An empty path means DefaultPath(). A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("alarm.tick_interval", d.Alarm.TickInterval)
	v.SetDefault("alarm.fired_retention", d.Alarm.FiredRetention)
	v.SetDefault("sound.default", d.Sound.Default)
	v.SetDefault("sound.player", d.Sound.Player)
	v.SetDefault("sound.player_args", d.Sound.PlayerArgs)
}

// Validate rejects settings the alarm monitor cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir must not be empty")
	}
	if c.Alarm.TickInterval <= 0 {
		return fmt.Errorf("config: alarm.tick_interval must be positive, got %s", c.Alarm.TickInterval)
	}
	if c.Alarm.FiredRetention < alarm.MinRetention {
		return fmt.Errorf("config: alarm.fired_retention must be at least %s, got %s", alarm.MinRetention, c.Alarm.FiredRetention)
	}
	if _, ok := sound.Lookup(c.Sound.Default); !ok {
		return fmt.Errorf("config: unknown sound.default %q", c.Sound.Default)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
