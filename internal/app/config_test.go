package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "bad level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: `invalid log-level "loud"`},
		{name: "bad format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: `invalid log-format "xml"`},
		{name: "generation too low", modify: func(c *Config) { c.Generation = 0 }, wantErr: "invalid generation 0: must be 1 to 5"},
		{name: "generation too high", modify: func(c *Config) { c.Generation = 6 }, wantErr: "invalid generation 6"},
		{name: "bad output", modify: func(c *Config) { c.Output = "yaml" }, wantErr: `invalid output "yaml"`},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -1 }, wantErr: "invalid workers -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.modify(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, cfg, *got)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("every problem is reported", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
		for _, want := range []string{"log-level", "log-format", "generation", "output"} {
			assert.Contains(t, err.Error(), want)
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ConfigFromSettings(NewSettings())
		require.NoError(t, err)
		assert.Equal(t, Config{LogLevel: "warn", LogFormat: "text", Generation: 5, Output: OutputText, Workers: 4}, *cfg)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CECPLAN_GENERATION", "3")
		t.Setenv("CECPLAN_LOG_LEVEL", "DEBUG")
		cfg, err := ConfigFromSettings(NewSettings())
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Generation)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("settings file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output: json\nworkers: 1\n"), 0o644))

		v := NewSettings()
		require.NoError(t, ReadSettingsFile(v, path))
		cfg, err := ConfigFromSettings(v)
		require.NoError(t, err)
		assert.Equal(t, OutputJSON, cfg.Output)
		assert.Equal(t, 1, cfg.Workers)
	})

	t.Run("explicit settings file must exist", func(t *testing.T) {
		err := ReadSettingsFile(NewSettings(), filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}
