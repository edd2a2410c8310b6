package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted when -config is unset.
const EnvConfig = "GRAFIKA_CONFIG"

// Load builds the effective configuration: defaults, then the config file,
// then command-line flags. The result is validated.
//
// A relative mesh path in the file is taken relative to the file itself;
// one given with -mesh stays relative to the working directory.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolveConfigPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Mesh.Path = relativeTo(filepath.Dir(path), cfg.Mesh.Path)
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath picks -config, then $GRAFIKA_CONFIG, then the first
// existing search path.
func resolveConfigPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

func findConfigFile() string {
	for _, path := range searchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func searchPaths() []string {
	return []string{
		"grafika.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

// ConfigDir returns the per-user config directory for grafika.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Grafika")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Grafika")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "grafika")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "grafika")
}

// loadFromFile decodes YAML over the values already in cfg, so keys missing
// from the file keep their defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
