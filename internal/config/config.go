// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/grafika/internal/engine/model"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display and projection settings.
type WindowConfig struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	ShowFPS    bool    `yaml:"show_fps"`
	FOV        float32 `yaml:"fov"` // vertical, degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the starting pose and camera tuning. Angles in degrees.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Sensitivity float32    `yaml:"sensitivity"`
	Speed       float32    `yaml:"speed"`
	TurnRate    float32    `yaml:"turn_rate"`
	MinPitch    float32    `yaml:"min_pitch"`
	MaxPitch    float32    `yaml:"max_pitch"`
}

// LightingConfig holds the starting lighting and adjustment rates.
type LightingConfig struct {
	Ambient       float32    `yaml:"ambient"`
	LightStrength float32    `yaml:"light_strength"`
	Enabled       bool       `yaml:"enabled"`
	AmbientStep   float32    `yaml:"ambient_step"` // per second of held key
	LightStep     float32    `yaml:"light_step"`   // per second of held key
	LightPosition [3]float32 `yaml:"light_position"`
	AmbientColor  [3]float32 `yaml:"ambient_color"`
	DiffuseColor  [3]float32 `yaml:"diffuse_color"`
}

// MeshConfig selects the mesh and how it is flattened.
type MeshConfig struct {
	Path   string `yaml:"path"`   // empty loads the built-in cube
	Layout string `yaml:"layout"` // predefined layout name
	Mode   string `yaml:"mode"`   // "indexed" or "direct"
	Watch  bool   `yaml:"watch"`  // reload on change
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Grafika",
			Width:         800,
			Height:        600,
			VSync:         true,
			FOV:           45,
			Near:          0.1,
			Far:           100,
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 3},
			Yaw:         -90,
			Pitch:       0,
			Sensitivity: 0.1,
			Speed:       2.5,
			TurnRate:    90,
			MinPitch:    -89,
			MaxPitch:    89,
		},
		Lighting: LightingConfig{
			Ambient:       0.2,
			LightStrength: 1.0,
			Enabled:       true,
			AmbientStep:   0.5,
			LightStep:     1.0,
			LightPosition: [3]float32{1.2, 1.0, 2.0},
			AmbientColor:  [3]float32{1, 1, 1},
			DiffuseColor:  [3]float32{1, 1, 1},
		},
		Mesh: MeshConfig{
			Layout: model.LayoutPositionNormalTexCoord.Name,
			Mode:   model.ModeIndexed.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	w := c.Window
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, w.Width, w.Height)
	}
	if w.FOV <= 0 || w.FOV >= 180 {
		return fmt.Errorf("%w: fov %v outside (0,180)", ErrInvalid, w.FOV)
	}
	if w.Near <= 0 || w.Far <= w.Near {
		return fmt.Errorf("%w: clip planes near=%v far=%v", ErrInvalid, w.Near, w.Far)
	}

	cam := c.Camera
	if cam.MinPitch < -89 || cam.MaxPitch > 89 || cam.MinPitch > cam.MaxPitch {
		return fmt.Errorf("%w: pitch limits [%v,%v] must lie within [-89,89]", ErrInvalid, cam.MinPitch, cam.MaxPitch)
	}
	if cam.Sensitivity < 0 || cam.Speed < 0 || cam.TurnRate < 0 {
		return fmt.Errorf("%w: camera rates must not be negative", ErrInvalid)
	}

	if c.Lighting.AmbientStep < 0 || c.Lighting.LightStep < 0 {
		return fmt.Errorf("%w: lighting steps must not be negative", ErrInvalid)
	}

	if _, err := model.LayoutByName(c.Mesh.Layout); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := model.ParseMode(c.Mesh.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Mesh.Watch && c.Mesh.Path == "" {
		return fmt.Errorf("%w: mesh.watch needs mesh.path", ErrInvalid)
	}
	return nil
}
