package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jsonview/internal/errors"

	"github.com/gobwas/glob"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore: JSONVIEW_SOURCE__BASE_URL sets source.base_url.
const EnvPrefix = "JSONVIEW_"

// Config represents the application configuration structure.
type Config struct {
	Source struct {
		BaseURL  string        `yaml:"base_url" koanf:"base_url"`   // http(s) URL or local directory
		Manifest string        `yaml:"manifest" koanf:"manifest"`   // Manifest path relative to the base
		Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`     // Per-request timeout, 0 disables
	} `yaml:"source" koanf:"source"`
	Viewer struct {
		Indent              int    `yaml:"indent" koanf:"indent"`                                 // Spaces per indentation level
		Highlight           bool   `yaml:"highlight" koanf:"highlight"`                           // Syntax highlight the content
		Style               string `yaml:"style" koanf:"style"`                                   // Chroma style name
		Mouse               bool   `yaml:"mouse" koanf:"mouse"`                                   // Enable mouse clicks
		RevertActiveOnError bool   `yaml:"revert_active_on_error" koanf:"revert_active_on_error"` // Move the marker back after a failed load
	} `yaml:"viewer" koanf:"viewer"`
	Download struct {
		Dir       string `yaml:"dir" koanf:"dir"`             // Where downloads are saved
		Collision string `yaml:"collision" koanf:"collision"` // rename, overwrite or skip
	} `yaml:"download" koanf:"download"`
	Server struct {
		Addr    string   `yaml:"addr" koanf:"addr"`       // Listen address
		Dir     string   `yaml:"dir" koanf:"dir"`         // Directory to serve
		Include []string `yaml:"include" koanf:"include"` // Globs for the generated manifest
		Watch   bool     `yaml:"watch" koanf:"watch"`     // Regenerate the manifest on changes
		CORS    bool     `yaml:"cors" koanf:"cors"`       // Allow cross-origin GETs
	} `yaml:"server" koanf:"server"`
	Log struct {
		Debug bool   `yaml:"debug" koanf:"debug"`
		JSON  bool   `yaml:"json" koanf:"json"`
		File  string `yaml:"file" koanf:"file"`
	} `yaml:"log" koanf:"log"`
	Theme struct {
		Name     string `yaml:"name" koanf:"name"`         // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary" koanf:"primary"`   // Title bar and active row
		Success  string `yaml:"success" koanf:"success"`   // Success message color
		Error    string `yaml:"error" koanf:"error"`       // Error message color
		Info     string `yaml:"info" koanf:"info"`         // Status and help text
		Emphasis string `yaml:"emphasis" koanf:"emphasis"` // Header file name
		Border   string `yaml:"border" koanf:"border"`     // Panel borders
	} `yaml:"theme" koanf:"theme"`
}

// DefaultPath returns ~/.config/jsonview/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jsonview", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path, then
// overlays environment overrides. A missing file yields the defaults.
func LoadConfigFile(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := defaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	// A bare theme name picks up the predefined colors
	if k.Exists("theme.name") && !k.Exists("theme.primary") {
		cfg.ApplyTheme(cfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Source.BaseURL = "."
	cfg.Source.Manifest = "files.json"
	cfg.Source.Timeout = 30 * time.Second

	cfg.Viewer.Indent = 2
	cfg.Viewer.Highlight = true
	cfg.Viewer.Style = "monokai"
	cfg.Viewer.Mouse = true
	cfg.Viewer.RevertActiveOnError = false

	cfg.Download.Dir = "."
	cfg.Download.Collision = "rename"

	cfg.Server.Addr = ":8080"
	cfg.Server.Dir = "."
	cfg.Server.Include = []string{"*.json"}
	cfg.Server.Watch = true
	cfg.Server.CORS = true

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validCollisions = map[string]bool{"rename": true, "overwrite": true, "skip": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if strings.TrimSpace(c.Source.BaseURL) == "" {
		return errors.NewConfigError("base url is required", "source.base_url", errors.InvalidConfig, nil)
	}
	if strings.TrimSpace(c.Source.Manifest) == "" {
		return errors.NewConfigError("manifest path is required", "source.manifest", errors.InvalidConfig, nil)
	}
	if c.Source.Timeout < 0 {
		return errors.NewConfigError("timeout must be >= 0", "source.timeout", errors.InvalidConfig, nil)
	}

	if c.Viewer.Indent < 0 || c.Viewer.Indent > 8 {
		return errors.NewConfigError(fmt.Sprintf("indent must be between 0 and 8, got %d", c.Viewer.Indent),
			"viewer.indent", errors.InvalidConfig, nil)
	}

	if !validCollisions[c.Download.Collision] {
		return errors.NewConfigError(fmt.Sprintf("invalid collision setting %q", c.Download.Collision),
			"download.collision", errors.InvalidConfig, nil)
	}

	for i, pattern := range c.Server.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errors.NewConfigError(fmt.Sprintf("include pattern %d is invalid", i),
				"server.include", errors.InvalidConfig, err)
		}
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes:
// no highlighting, no mouse, downloads overwrite.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Viewer.Highlight = false
	cfg.Viewer.Mouse = false
	cfg.Download.Collision = "overwrite"
	cfg.Source.Timeout = 5 * time.Second
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"error":    "196", // Red
			"info":     "245", // Grey
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
		"ocean": {
			"primary":  "31",  // Teal
			"success":  "36",  // Green-Blue
			"error":    "196", // Red
			"info":     "33",  // Blue
			"emphasis": "51",  // Cyan
			"border":   "31",  // Teal
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme colors from a predefined theme.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	if name == "" {
		name = "default"
	}
	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean"}
}
