package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Window.FOV != 45 {
		t.Errorf("expected fov 45, got %v", cfg.Window.FOV)
	}

	if cfg.Camera.MinPitch != -89 || cfg.Camera.MaxPitch != 89 {
		t.Errorf("expected pitch limits [-89,89], got [%v,%v]", cfg.Camera.MinPitch, cfg.Camera.MaxPitch)
	}
	if cfg.Camera.Yaw != -90 {
		t.Errorf("expected yaw -90, got %v", cfg.Camera.Yaw)
	}

	if !cfg.Lighting.Enabled {
		t.Error("expected lighting enabled by default")
	}
	if cfg.Lighting.Ambient != 0.2 || cfg.Lighting.LightStrength != 1 {
		t.Errorf("unexpected lighting strengths: %+v", cfg.Lighting)
	}

	if cfg.Mesh.Path != "" || cfg.Mesh.Watch {
		t.Errorf("expected built-in mesh without watch, got %+v", cfg.Mesh)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "grafika.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  fov: 60

camera:
  position: [1, 2, 10]
  sensitivity: 0.05
  max_pitch: 60

lighting:
  ambient: 0.4
  enabled: false
  light_position: [0, 5, 0]

mesh:
  path: "models/teapot.obj"
  layout: "position-normal"
  mode: "direct"
  watch: true

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 || !cfg.Window.Fullscreen {
		t.Errorf("window not loaded: %+v", cfg.Window)
	}
	if cfg.Window.Near != 0.1 {
		t.Errorf("unset near plane should keep default, got %v", cfg.Window.Near)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 10} {
		t.Errorf("expected position [1 2 10], got %v", cfg.Camera.Position)
	}
	if cfg.Camera.MaxPitch != 60 || cfg.Camera.MinPitch != -89 {
		t.Errorf("unexpected pitch limits [%v,%v]", cfg.Camera.MinPitch, cfg.Camera.MaxPitch)
	}
	if cfg.Lighting.Enabled {
		t.Error("expected lighting disabled")
	}
	if cfg.Lighting.LightPosition != [3]float32{0, 5, 0} {
		t.Errorf("expected light position [0 5 0], got %v", cfg.Lighting.LightPosition)
	}
	if cfg.Mesh.Path != "models/teapot.obj" || cfg.Mesh.Layout != "position-normal" || cfg.Mesh.Mode != "direct" || !cfg.Mesh.Watch {
		t.Errorf("mesh not loaded: %+v", cfg.Mesh)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":       "window:\n  width: not a number\n  invalid syntax here\n",
		"short vector": "camera:\n  position: [1, 2]\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/grafika.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"fov too wide", func(c *Config) { c.Window.FOV = 180 }},
		{"near plane zero", func(c *Config) { c.Window.Near = 0 }},
		{"far before near", func(c *Config) { c.Window.Far = 0.05 }},
		{"pitch beyond 89", func(c *Config) { c.Camera.MaxPitch = 90 }},
		{"pitch limits swapped", func(c *Config) { c.Camera.MinPitch, c.Camera.MaxPitch = 10, -10 }},
		{"negative speed", func(c *Config) { c.Camera.Speed = -1 }},
		{"negative ambient step", func(c *Config) { c.Lighting.AmbientStep = -0.1 }},
		{"unknown layout", func(c *Config) { c.Mesh.Layout = "position-tangent" }},
		{"unknown mode", func(c *Config) { c.Mesh.Mode = "strips" }},
		{"watch without path", func(c *Config) { c.Mesh.Watch = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "grafika.yaml"), []byte("window:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find grafika.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grafika.yaml")

	cfg := Default()
	cfg.Mesh.Path = "cube.obj"
	cfg.Camera.Position = [3]float32{4, 5, 6}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Mesh.Path != "cube.obj" || loaded.Camera.Position != cfg.Camera.Position {
		t.Errorf("saved config did not survive reload: %+v", loaded)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "mesh flags",
			setup: func() {
				*flagMesh = "bunny.obj"
				*flagLayout = "position-color"
				*flagMode = "direct"
				*flagWatch = true
			},
			verify: func(t *testing.T, cfg *Config) {
				want := MeshConfig{Path: "bunny.obj", Layout: "position-color", Mode: "direct", Watch: true}
				if cfg.Mesh != want {
					t.Errorf("got %+v, want %+v", cfg.Mesh, want)
				}
			},
			teardown: func() {
				*flagMesh = ""
				*flagLayout = ""
				*flagMode = ""
				*flagWatch = false
			},
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "grafika.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
mesh:
  layout: position-normal
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Mesh.Layout != "position-normal" {
		t.Errorf("expected layout from file, got %s", cfg.Mesh.Layout)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "grafika.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  mode: strips\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadResolvesMeshPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "grafika.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  path: models/teapot.obj\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if want := filepath.Join(dir, "models", "teapot.obj"); cfg.Mesh.Path != want {
		t.Errorf("mesh path: got %s, want %s", cfg.Mesh.Path, want)
	}

	// A -mesh flag is not rebased.
	*flagMesh = "local.obj"
	defer func() { *flagMesh = "" }()
	cfg, err = Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Mesh.Path != "local.obj" {
		t.Errorf("flag mesh path: got %s", cfg.Mesh.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  title: From Env\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Title != "From Env" {
		t.Errorf("title: got %q", cfg.Window.Title)
	}
}
