// Package config loads the preview tool's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Config holds all configuration for the preview tool.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
}

// RenderConfig selects renderer behavior.
type RenderConfig struct {
	DirectiveKinds   []string `yaml:"directiveKinds"`   // Empty = built-in defaults
	DiagramLanguages []string `yaml:"diagramLanguages"` // Empty = built-in defaults
	HighlightStyle   string   `yaml:"highlightStyle"`   // Chroma style name (empty = default)
	Highlighting     *bool    `yaml:"highlighting"`     // nil = enabled
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address (default "localhost:6419")
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounceMillis"` // 0 = default
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: "localhost:6419"},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("%w: watch.debounceMillis must be >= 0, got %d", ErrInvalidValue, c.Watch.DebounceMillis)
	}
	for _, kind := range c.Render.DirectiveKinds {
		if strings.TrimSpace(kind) == "" {
			return fmt.Errorf("%w: render.directiveKinds contains an empty kind", ErrInvalidValue)
		}
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name. A
// nameOrPath containing a path separator is treated as a file path;
// otherwise it is searched in the current directory and the user
// config directory. Returns an error if the file is not found, no
// silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name, trying .yaml
// then .yml, in the current directory then the user config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdpreview", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
