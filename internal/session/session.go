// Package session drives camera and lighting from per-frame input.
// It has no window or GL dependency so the frame logic can be tested directly.
package session

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/grafika/internal/config"
	"github.com/Faultbox/grafika/internal/engine/camera"
	"github.com/Faultbox/grafika/internal/engine/input"
	"github.com/Faultbox/grafika/internal/engine/lighting"
)

// maxFrameTime caps dt so a stall (debugger, window drag) does not
// teleport the camera.
const maxFrameTime = 0.25

// Session is the mutable per-run state updated once per frame.
type Session struct {
	Camera   *camera.FreeLook
	Lighting *lighting.State

	ambientStep float32
	lightStep   float32
	log         *zap.Logger
}

// New creates a session from cfg. log may be nil.
func New(cfg *config.Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		Camera:      camera.NewFreeLook(CameraConfig(cfg.Camera)),
		Lighting:    lighting.New(LightingConfig(cfg.Lighting)),
		ambientStep: cfg.Lighting.AmbientStep,
		lightStep:   cfg.Lighting.LightStep,
		log:         log,
	}
}

// CameraConfig converts the YAML camera section.
func CameraConfig(c config.CameraConfig) camera.Config {
	cfg := camera.DefaultConfig()
	cfg.Position = mgl32.Vec3(c.Position)
	cfg.Yaw = c.Yaw
	cfg.Pitch = c.Pitch
	cfg.Sensitivity = c.Sensitivity
	cfg.Speed = c.Speed
	cfg.TurnRate = c.TurnRate
	cfg.MinPitch = c.MinPitch
	cfg.MaxPitch = c.MaxPitch
	return cfg
}

// LightingConfig converts the YAML lighting section.
func LightingConfig(c config.LightingConfig) lighting.Config {
	return lighting.Config{
		Ambient:       c.Ambient,
		LightStrength: c.LightStrength,
		Enabled:       c.Enabled,
		LightPosition: mgl32.Vec3(c.LightPosition),
		AmbientColor:  mgl32.Vec3(c.AmbientColor),
		DiffuseColor:  mgl32.Vec3(c.DiffuseColor),
	}
}

// Step applies one frame of input and reports whether the session should end.
// Nothing is mutated once quit has been requested.
func (s *Session) Step(in *input.State, dt float32) (quit bool) {
	if in.QuitRequested() || in.Pressed(input.KeyEscape) {
		return true
	}
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameTime {
		dt = maxFrameTime
	}

	if in.Refocused() {
		// Motion across the focus change is not a look gesture.
		s.Camera.Activate()
	}

	frame := camera.Frame{
		DeltaTime: dt,
		Move: camera.Movement{
			Forward: in.Held(input.KeyForward),
			Back:    in.Held(input.KeyBack),
			Left:    in.Held(input.KeyLeft),
			Right:   in.Held(input.KeyRight),
			Up:      in.Held(input.KeyUp),
			Down:    in.Held(input.KeyDown),
		},
		Turn: axis(in.Held(input.KeyYawLeft), in.Held(input.KeyYawRight)),
	}
	if x, y, ok := in.Mouse(); ok {
		frame.Cursor = mgl32.Vec2{x, y}
		frame.HasCursor = true
	}
	s.Camera.Update(frame)

	if d := axis(in.Held(input.KeyDecreaseAmbient), in.Held(input.KeyIncreaseAmbient)); d != 0 {
		s.Lighting.AdjustAmbient(d * s.ambientStep * dt)
	}
	if d := axis(in.Held(input.KeyDecreaseLight), in.Held(input.KeyIncreaseLight)); d != 0 {
		s.Lighting.AdjustLightStrength(d * s.lightStep * dt)
	}
	if in.Pressed(input.KeyToggleLighting) {
		enabled := s.Lighting.Toggle()
		s.log.Debug("lighting toggled", zap.Bool("enabled", enabled))
	}
	return false
}

// Snapshot is a read-only view of the session for rendering and HUD text.
type Snapshot struct {
	Pose     camera.Pose
	Lighting lighting.Uniforms
}

// Snapshot returns the current pose and lighting.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Pose:     s.Camera.Pose(),
		Lighting: s.Lighting.Uniforms(),
	}
}

// axis maps a negative/positive key pair to -1, 0 or +1.
func axis(neg, pos bool) float32 {
	var v float32
	if neg {
		v--
	}
	if pos {
		v++
	}
	return v
}
