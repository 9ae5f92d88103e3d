package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jsonview/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := New()

	assert.Equal(t, "files.json", cfg.Source.Manifest)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2, cfg.Viewer.Indent)
	assert.False(t, cfg.Viewer.RevertActiveOnError)
	assert.Equal(t, "rename", cfg.Download.Collision)
	assert.Equal(t, []string{"*.json"}, cfg.Server.Include)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, "213", cfg.Theme.Primary)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, New(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
source:
  base_url: http://localhost:9000/data/
  timeout: 10s
viewer:
  indent: 4
  revert_active_on_error: true
download:
  collision: skip
theme:
  name: ocean
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/data/", cfg.Source.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
		assert.Equal(t, 4, cfg.Viewer.Indent)
		assert.True(t, cfg.Viewer.RevertActiveOnError)
		assert.Equal(t, "skip", cfg.Download.Collision)

		// Unset keys keep their defaults
		assert.Equal(t, "files.json", cfg.Source.Manifest)
		assert.Equal(t, ":8080", cfg.Server.Addr)

		// Theme colors follow the theme name
		assert.Equal(t, "ocean", cfg.Theme.Name)
		assert.Equal(t, "31", cfg.Theme.Primary)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source:\n  base_url: ./data\n"), 0644))

		t.Setenv("JSONVIEW_SOURCE__BASE_URL", "https://example.com/files/")
		t.Setenv("JSONVIEW_VIEWER__INDENT", "3")

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/files/", cfg.Source.BaseURL)
		assert.Equal(t, 3, cfg.Viewer.Indent)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source: [unclosed"), 0644))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("download:\n  collision: ask\n"), 0644))

		_, err := LoadConfigFile(path)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
		assert.Contains(t, err.Error(), "download.collision")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"empty base url", func(c *Config) { c.Source.BaseURL = " " }, "source.base_url"},
		{"empty manifest", func(c *Config) { c.Source.Manifest = "" }, "source.manifest"},
		{"negative timeout", func(c *Config) { c.Source.Timeout = -time.Second }, "source.timeout"},
		{"indent too large", func(c *Config) { c.Viewer.Indent = 9 }, "viewer.indent"},
		{"negative indent", func(c *Config) { c.Viewer.Indent = -1 }, "viewer.indent"},
		{"bad collision", func(c *Config) { c.Download.Collision = "merge" }, "download.collision"},
		{"bad glob", func(c *Config) { c.Server.Include = []string{"[a-"} }, "server.include"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var configErr *errors.ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.param, configErr.Param())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := New()
	cfg.Source.BaseURL = "http://localhost:8080/"
	cfg.Source.Timeout = 45 * time.Second
	cfg.Download.Dir = "/tmp/downloads"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestThemes(t *testing.T) {
	for _, name := range ListThemes() {
		theme := GetTheme(name)
		assert.NotEmpty(t, theme["primary"], name)
		assert.NotEmpty(t, theme["error"], name)
	}

	// Unknown names fall back to the default theme
	assert.Equal(t, GetTheme("default"), GetTheme("neon"))

	cfg := New()
	cfg.ApplyTheme("dark")
	assert.Equal(t, "dark", cfg.Theme.Name)
	assert.Equal(t, "105", cfg.Theme.Primary)
}
