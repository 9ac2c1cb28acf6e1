package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Alarm.TickInterval)
	assert.Equal(t, 24*time.Hour, cfg.Alarm.FiredRetention)
	assert.Equal(t, "bell", cfg.Sound.Default)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPaths_RespectXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, filepath.Join("/cfg", "chime", "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join("/data", "chime"), DefaultDataDir())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "chime"), cfg.DataDir)
	assert.Equal(t, time.Second, cfg.Alarm.TickInterval)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `data_dir: /tmp/chime-test
log_level: debug
alarm:
  tick_interval: 5s
sound:
  default: chime
  player: mpv
  player_args: ["--volume=50"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chime-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Alarm.TickInterval)
	assert.Equal(t, 24*time.Hour, cfg.Alarm.FiredRetention, "unset keys keep defaults")
	assert.Equal(t, "chime", cfg.Sound.Default)
	assert.Equal(t, "mpv", cfg.Sound.Player)
	assert.Equal(t, []string{"--volume=50"}, cfg.Sound.PlayerArgs)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0644))

	t.Setenv("CHIME_LOG_LEVEL", "warn")
	t.Setenv("CHIME_ALARM_TICK_INTERVAL", "250ms")
	t.Setenv("CHIME_DATA_DIR", "/env/data")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Alarm.TickInterval)
	assert.Equal(t, "/env/data", cfg.DataDir)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CHIME_DATA_DIR", "~/tasks")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks"), cfg.DataDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "alarm: [\n"},
		{"zero tick", "alarm:\n  tick_interval: 0s\n"},
		{"retention under a minute", "alarm:\n  fired_retention: 20s\n"},
		{"unknown sound", "sound:\n  default: gong\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	path := filepath.Join(t.TempDir(), "chime", "config.yaml")

	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	want := DefaultConfig()
	assert.Equal(t, want.DataDir, cfg.DataDir)
	assert.Equal(t, want.LogLevel, cfg.LogLevel)
	assert.Equal(t, want.Alarm, cfg.Alarm)
	assert.Equal(t, want.Sound.Default, cfg.Sound.Default)
	assert.Empty(t, cfg.Sound.Player)
	assert.Empty(t, cfg.Sound.PlayerArgs)

	assert.Error(t, WriteDefault(path, false), "existing file must not be overwritten")
	assert.NoError(t, WriteDefault(path, true))
}

func TestMarshal_WritesDurationsAsStrings(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick_interval: 1s")
	assert.Contains(t, string(data), "fired_retention: 24h0m0s")
}
