// Package camera provides the first-person free-look camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Hard pitch limits in degrees. Config limits are narrowed into this range
// so the front vector never reaches the world up axis.
const (
	MinPitchLimit float32 = -89
	MaxPitchLimit float32 = 89
)

// Config holds camera tuning. Angles are in degrees.
type Config struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	Sensitivity float32 // degrees per pixel of mouse travel
	Speed       float32 // world units per second
	TurnRate    float32 // degrees per second for keyboard yaw

	MinPitch float32
	MaxPitch float32
	WorldUp  mgl32.Vec3
}

// DefaultConfig returns a camera three units back from the origin, looking down -Z.
func DefaultConfig() Config {
	return Config{
		Position:    mgl32.Vec3{0, 0, 3},
		Yaw:         -90,
		Pitch:       0,
		Sensitivity: 0.1,
		Speed:       2.5,
		TurnRate:    90,
		MinPitch:    MinPitchLimit,
		MaxPitch:    MaxPitchLimit,
		WorldUp:     mgl32.Vec3{0, 1, 0},
	}
}

// Movement is the set of translation keys held this frame.
type Movement struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
}

// Any reports whether any translation key is held.
func (m Movement) Any() bool {
	return m.Forward || m.Back || m.Left || m.Right || m.Up || m.Down
}

// Frame is one frame of camera input.
type Frame struct {
	DeltaTime float32

	// Cursor is the absolute mouse position, valid when HasCursor is set.
	Cursor    mgl32.Vec2
	HasCursor bool

	Move Movement

	// Turn is the keyboard yaw direction: -1 left, +1 right, 0 none.
	Turn float32
}

// Pose is a read-only snapshot of the camera.
type Pose struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// ViewMatrix returns the view matrix looking along Front.
func (p Pose) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(p.Position, p.Position.Add(p.Front), p.Up)
}

// DisplayYaw returns yaw wrapped to [0, 360).
func (p Pose) DisplayYaw() float32 {
	y := math32.Mod(p.Yaw, 360)
	if y < 0 {
		y += 360
	}
	return y
}

// Projection returns a perspective projection. fov is the vertical field of view in degrees.
func Projection(fov, aspect, near, far float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
}

// FreeLook is a mouse-look camera with WASD-style translation.
// Only position, yaw and pitch are stored; the basis vectors are recomputed on demand.
type FreeLook struct {
	cfg Config

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	// Last absolute cursor sample. The first sample after creation or Reset
	// only primes it so the camera does not jump.
	lastX, lastY float32
	primed       bool
}

// NewFreeLook creates a camera from cfg.
func NewFreeLook(cfg Config) *FreeLook {
	if cfg.MinPitch > cfg.MaxPitch {
		cfg.MinPitch, cfg.MaxPitch = cfg.MaxPitch, cfg.MinPitch
	}
	cfg.MinPitch = pitchLimit(cfg.MinPitch, MinPitchLimit)
	cfg.MaxPitch = pitchLimit(cfg.MaxPitch, MaxPitchLimit)
	if cfg.WorldUp.Len() == 0 {
		cfg.WorldUp = mgl32.Vec3{0, 1, 0}
	}
	cfg.WorldUp = cfg.WorldUp.Normalize()

	c := &FreeLook{
		cfg:      cfg,
		position: cfg.Position,
		yaw:      cfg.Yaw,
	}
	c.pitch = c.clampPitch(cfg.Pitch)
	return c
}

// Reset restores the starting pose and re-arms the first-sample guard.
func (c *FreeLook) Reset() {
	c.position = c.cfg.Position
	c.yaw = c.cfg.Yaw
	c.pitch = c.clampPitch(c.cfg.Pitch)
	c.primed = false
}

// Activate re-arms the first-sample guard without moving the camera,
// e.g. when mouse capture is regained.
func (c *FreeLook) Activate() {
	c.primed = false
}

// Look consumes an absolute cursor sample.
func (c *FreeLook) Look(x, y float32) {
	if !finite(x) || !finite(y) {
		return
	}
	if !c.primed {
		c.lastX, c.lastY = x, y
		c.primed = true
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	c.rotate(dx, dy)
}

// LookDelta consumes a relative cursor delta. The first delta after
// creation or Reset is discarded.
func (c *FreeLook) LookDelta(dx, dy float32) {
	if !finite(dx) || !finite(dy) {
		return
	}
	if !c.primed {
		c.primed = true
		return
	}
	c.rotate(dx, dy)
}

// Screen y grows downward, so moving the mouse up raises pitch.
func (c *FreeLook) rotate(dx, dy float32) {
	c.yaw += dx * c.cfg.Sensitivity
	c.pitch = c.clampPitch(c.pitch - dy*c.cfg.Sensitivity)
}

// Turn rotates yaw by TurnRate*dt in the given direction (-1 left, +1 right).
func (c *FreeLook) Turn(direction, dt float32) {
	if direction == 0 || !finite(direction) || !finite(dt) || dt <= 0 {
		return
	}
	c.yaw += mgl32.Clamp(direction, -1, 1) * c.cfg.TurnRate * dt
}

// Move translates the camera along its basis, scaled by Speed*dt.
// Negative dt is treated as zero.
func (c *FreeLook) Move(keys Movement, dt float32) {
	if !finite(dt) || dt <= 0 || !keys.Any() {
		return
	}
	front, right, _ := c.basis()
	step := c.cfg.Speed * dt

	if keys.Forward {
		c.position = c.position.Add(front.Mul(step))
	}
	if keys.Back {
		c.position = c.position.Sub(front.Mul(step))
	}
	if keys.Right {
		c.position = c.position.Add(right.Mul(step))
	}
	if keys.Left {
		c.position = c.position.Sub(right.Mul(step))
	}
	if keys.Up {
		c.position = c.position.Add(c.cfg.WorldUp.Mul(step))
	}
	if keys.Down {
		c.position = c.position.Sub(c.cfg.WorldUp.Mul(step))
	}
}

// Update applies one frame: look, keyboard turn, then movement along the new front.
func (c *FreeLook) Update(f Frame) {
	if f.HasCursor {
		c.Look(f.Cursor.X(), f.Cursor.Y())
	}
	c.Turn(f.Turn, f.DeltaTime)
	c.Move(f.Move, f.DeltaTime)
}

// Pose returns the current camera snapshot.
func (c *FreeLook) Pose() Pose {
	front, right, up := c.basis()
	return Pose{
		Position: c.position,
		Front:    front,
		Up:       up,
		Right:    right,
		Yaw:      c.yaw,
		Pitch:    c.pitch,
	}
}

// Config returns the configuration the camera was created with.
func (c *FreeLook) Config() Config {
	return c.cfg
}

// basis derives front, right and up from yaw and pitch.
func (c *FreeLook) basis() (front, right, up mgl32.Vec3) {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)

	front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	right = front.Cross(c.cfg.WorldUp).Normalize()
	up = right.Cross(front).Normalize()
	return front, right, up
}

func (c *FreeLook) clampPitch(p float32) float32 {
	return mgl32.Clamp(p, c.cfg.MinPitch, c.cfg.MaxPitch)
}

// pitchLimit bounds a configured limit to the hard range; NaN falls back.
func pitchLimit(v, fallback float32) float32 {
	if math32.IsNaN(v) {
		return fallback
	}
	return mgl32.Clamp(v, MinPitchLimit, MaxPitchLimit)
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
