// Package lighting holds the adjustable scene lighting parameters.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Strength ranges.
const (
	MinAmbient       = 0.0
	MaxAmbient       = 1.0
	MinLightStrength = 0.0
	MaxLightStrength = 2.0
)

// Config holds the starting lighting parameters.
type Config struct {
	Ambient       float32
	LightStrength float32
	Enabled       bool

	LightPosition mgl32.Vec3
	AmbientColor  mgl32.Vec3
	DiffuseColor  mgl32.Vec3
}

// DefaultConfig returns a dim white ambient with a single white light
// above and to the right of the origin.
func DefaultConfig() Config {
	return Config{
		Ambient:       0.2,
		LightStrength: 1.0,
		Enabled:       true,
		LightPosition: mgl32.Vec3{1.2, 1.0, 2.0},
		AmbientColor:  mgl32.Vec3{1, 1, 1},
		DiffuseColor:  mgl32.Vec3{1, 1, 1},
	}
}

// State is the session lighting. Strengths stay within their ranges
// after every adjustment; position and colors are fixed at construction.
type State struct {
	ambient       float32
	lightStrength float32
	enabled       bool

	lightPosition mgl32.Vec3
	ambientColor  mgl32.Vec3
	diffuseColor  mgl32.Vec3
}

// New creates a lighting state, clamping the starting strengths.
func New(cfg Config) *State {
	return &State{
		ambient:       clamp(cfg.Ambient, MinAmbient, MaxAmbient),
		lightStrength: clamp(cfg.LightStrength, MinLightStrength, MaxLightStrength),
		enabled:       cfg.Enabled,
		lightPosition: cfg.LightPosition,
		ambientColor:  cfg.AmbientColor,
		diffuseColor:  cfg.DiffuseColor,
	}
}

// AdjustAmbient adds delta to the ambient strength and returns the new value.
// A NaN delta is ignored.
func (s *State) AdjustAmbient(delta float32) float32 {
	if math32.IsNaN(delta) {
		return s.ambient
	}
	s.ambient = clamp(s.ambient+delta, MinAmbient, MaxAmbient)
	return s.ambient
}

// AdjustLightStrength adds delta to the light strength and returns the new value.
func (s *State) AdjustLightStrength(delta float32) float32 {
	if math32.IsNaN(delta) {
		return s.lightStrength
	}
	s.lightStrength = clamp(s.lightStrength+delta, MinLightStrength, MaxLightStrength)
	return s.lightStrength
}

// Toggle flips the enabled flag once and returns the new value.
// Callers are responsible for edge detection.
func (s *State) Toggle() bool {
	s.enabled = !s.enabled
	return s.enabled
}

// Ambient returns the ambient strength.
func (s *State) Ambient() float32 { return s.ambient }

// LightStrength returns the light strength.
func (s *State) LightStrength() float32 { return s.lightStrength }

// Enabled reports whether lighting is on.
func (s *State) Enabled() bool { return s.enabled }

// Uniforms is the per-frame lighting snapshot uploaded to the shader.
type Uniforms struct {
	Ambient       float32
	LightStrength float32
	Enabled       bool
	LightPosition mgl32.Vec3
	AmbientColor  mgl32.Vec3
	DiffuseColor  mgl32.Vec3
}

// Uniforms returns the current snapshot.
func (s *State) Uniforms() Uniforms {
	return Uniforms{
		Ambient:       s.ambient,
		LightStrength: s.lightStrength,
		Enabled:       s.enabled,
		LightPosition: s.lightPosition,
		AmbientColor:  s.ambientColor,
		DiffuseColor:  s.diffuseColor,
	}
}

// clamp bounds v to [lo, hi]. NaN leaves the value at lo.
func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	return math32.Max(lo, math32.Min(hi, v))
}
