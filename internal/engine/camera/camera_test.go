package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func nearVec(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestNewFreeLook_Defaults(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	p := c.Pose()

	if !nearVec(p.Position, mgl32.Vec3{0, 0, 3}) {
		t.Errorf("position: got %v", p.Position)
	}
	if !nearVec(p.Front, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("front: got %v, want (0,0,-1)", p.Front)
	}
	if !nearVec(p.Up, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("up: got %v, want (0,1,0)", p.Up)
	}
	if !nearVec(p.Right, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("right: got %v, want (1,0,0)", p.Right)
	}
}

func TestNewFreeLook_ClampsStartPitch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pitch = 120
	c := NewFreeLook(cfg)
	if got := c.Pose().Pitch; got != 89 {
		t.Errorf("start pitch: got %v, want 89", got)
	}
}

func TestNewFreeLook_BoundsPitchLimits(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name     string
		min, max float32
		wantMin  float32
		wantMax  float32
	}{
		{"too wide", -120, 120, -89, 89},
		{"swapped and too wide", 200, -200, -89, 89},
		{"narrower kept", -30, 45, -30, 45},
		{"NaN limits", nan, nan, -89, 89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MinPitch, cfg.MaxPitch = tt.min, tt.max
			c := NewFreeLook(cfg)

			if got := c.Config(); got.MinPitch != tt.wantMin || got.MaxPitch != tt.wantMax {
				t.Fatalf("limits: got [%v,%v], want [%v,%v]", got.MinPitch, got.MaxPitch, tt.wantMin, tt.wantMax)
			}

			c.LookDelta(0, 0)
			c.LookDelta(0, -10000)
			p := c.Pose()
			if p.Pitch != tt.wantMax {
				t.Errorf("pitch up: got %v, want %v", p.Pitch, tt.wantMax)
			}
			if p.Front.Z() >= 0 {
				t.Errorf("front flipped over the top: %v", p.Front)
			}

			c.LookDelta(0, 20000)
			if got := c.Pose().Pitch; got != tt.wantMin {
				t.Errorf("pitch down: got %v, want %v", got, tt.wantMin)
			}
		})
	}
}

func TestLook_FirstSampleIsZeroDelta(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	before := c.Pose()

	c.Look(50, 30)
	after := c.Pose()
	if after.Yaw != before.Yaw || after.Pitch != before.Pitch {
		t.Fatalf("first sample moved camera: yaw %v→%v pitch %v→%v",
			before.Yaw, after.Yaw, before.Pitch, after.Pitch)
	}

	c.Look(60, 20)
	p := c.Pose()
	if !near(p.Yaw, -90+1) {
		t.Errorf("yaw: got %v, want -89", p.Yaw)
	}
	if !near(p.Pitch, 1) {
		t.Errorf("pitch: got %v, want 1", p.Pitch)
	}
}

func TestLookDelta_FirstDeltaDiscarded(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.LookDelta(500, 500)
	if p := c.Pose(); p.Yaw != -90 || p.Pitch != 0 {
		t.Fatalf("first delta applied: yaw=%v pitch=%v", p.Yaw, p.Pitch)
	}
	c.LookDelta(10, 0)
	if p := c.Pose(); !near(p.Yaw, -89) {
		t.Errorf("yaw: got %v, want -89", p.Yaw)
	}
}

func TestActivate_RearmsGuard(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Look(0, 0)
	c.Look(10, 0)
	yaw := c.Pose().Yaw

	c.Activate()
	c.Look(400, 400)
	if got := c.Pose().Yaw; got != yaw {
		t.Errorf("sample after Activate moved camera: %v→%v", yaw, got)
	}
}

func TestReset(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Look(0, 0)
	c.Look(100, 100)
	c.Move(Movement{Forward: true}, 1)
	c.Reset()

	p := c.Pose()
	if p.Yaw != -90 || p.Pitch != 0 || !nearVec(p.Position, mgl32.Vec3{0, 0, 3}) {
		t.Errorf("reset pose: %+v", p)
	}
	c.Look(500, 500)
	if c.Pose().Yaw != -90 {
		t.Error("first sample after Reset should be ignored")
	}
}

func TestPitchAlwaysClamped(t *testing.T) {
	tests := []struct {
		name string
		dy   float32
		want float32
	}{
		{"mouse up", -100, 89},
		{"mouse down", 100, -89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFreeLook(DefaultConfig())
			c.Look(0, 0)
			y := float32(0)
			for i := 0; i < 1000; i++ {
				y += tt.dy
				c.Look(0, y)
				p := c.Pose().Pitch
				if p < -89 || p > 89 {
					t.Fatalf("step %d: pitch %v out of range", i, p)
				}
			}
			if got := c.Pose().Pitch; got != tt.want {
				t.Errorf("final pitch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYawUnbounded(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Look(0, 0)
	x := float32(0)
	for i := 0; i < 100; i++ {
		x += 100
		c.Look(x, 0)
	}
	p := c.Pose()
	// Accumulated float32 error grows with magnitude.
	if math.Abs(float64(p.Yaw-910)) > 0.01 {
		t.Errorf("yaw: got %v, want 910", p.Yaw)
	}
	if math.Abs(float64(p.DisplayYaw()-190)) > 0.01 {
		t.Errorf("display yaw: got %v, want 190", p.DisplayYaw())
	}
}

func TestDisplayYaw_Negative(t *testing.T) {
	if got := (Pose{Yaw: -90}).DisplayYaw(); !near(got, 270) {
		t.Errorf("got %v, want 270", got)
	}
}

func TestMove_Directions(t *testing.T) {
	tests := []struct {
		name string
		keys Movement
		want mgl32.Vec3
	}{
		{"forward", Movement{Forward: true}, mgl32.Vec3{0, 0, 3 - 2.5}},
		{"back", Movement{Back: true}, mgl32.Vec3{0, 0, 3 + 2.5}},
		{"right", Movement{Right: true}, mgl32.Vec3{2.5, 0, 3}},
		{"left", Movement{Left: true}, mgl32.Vec3{-2.5, 0, 3}},
		{"up", Movement{Up: true}, mgl32.Vec3{0, 2.5, 3}},
		{"down", Movement{Down: true}, mgl32.Vec3{0, -2.5, 3}},
		{"forward and back cancel", Movement{Forward: true, Back: true}, mgl32.Vec3{0, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFreeLook(DefaultConfig())
			c.Move(tt.keys, 1)
			if got := c.Pose().Position; !nearVec(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMove_FrameRateIndependent(t *testing.T) {
	const n = 10
	const dt = float32(0.5)

	one := NewFreeLook(DefaultConfig())
	one.Move(Movement{Forward: true, Right: true}, dt)

	many := NewFreeLook(DefaultConfig())
	for i := 0; i < n; i++ {
		many.Move(Movement{Forward: true, Right: true}, dt/n)
	}

	if a, b := one.Pose().Position, many.Pose().Position; !nearVec(a, b) {
		t.Errorf("one step %v != %d steps %v", a, n, b)
	}
}

func TestMove_NonPositiveDelta(t *testing.T) {
	for _, dt := range []float32{0, -1, float32(math.NaN())} {
		c := NewFreeLook(DefaultConfig())
		c.Move(Movement{Forward: true}, dt)
		if got := c.Pose().Position; !nearVec(got, mgl32.Vec3{0, 0, 3}) {
			t.Errorf("dt=%v moved camera to %v", dt, got)
		}
	}
}

func TestLook_IgnoresNonFinite(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Look(0, 0)
	c.Look(float32(math.NaN()), 5)
	c.Look(float32(math.Inf(1)), 5)
	if p := c.Pose(); p.Yaw != -90 || p.Pitch != 0 {
		t.Errorf("non-finite sample changed pose: yaw=%v pitch=%v", p.Yaw, p.Pitch)
	}
}

func TestTurn(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Turn(1, 0.5)
	if got := c.Pose().Yaw; !near(got, -45) {
		t.Errorf("turn right: got %v, want -45", got)
	}
	c.Turn(-1, 1)
	if got := c.Pose().Yaw; !near(got, -135) {
		t.Errorf("turn left: got %v, want -135", got)
	}
	c.Turn(1, -1)
	if got := c.Pose().Yaw; !near(got, -135) {
		t.Errorf("negative dt turned camera: %v", got)
	}
}

func TestUpdate_MovesAlongNewFront(t *testing.T) {
	c := NewFreeLook(DefaultConfig())
	c.Update(Frame{DeltaTime: 1, Turn: 1})
	// Turned 90 degrees right in one second, now facing +X.
	c.Update(Frame{DeltaTime: 1, Move: Movement{Forward: true}})

	p := c.Pose()
	if !near(p.Yaw, 0) {
		t.Fatalf("yaw: got %v, want 0", p.Yaw)
	}
	if !nearVec(p.Position, mgl32.Vec3{2.5, 0, 3}) {
		t.Errorf("position: got %v, want (2.5,0,3)", p.Position)
	}
}

func TestPose_ViewMatrix(t *testing.T) {
	p := NewFreeLook(DefaultConfig()).Pose()
	v := p.ViewMatrix()
	// The camera position maps to the view-space origin.
	origin := v.Mul4x1(p.Position.Vec4(1))
	if !nearVec(origin.Vec3(), mgl32.Vec3{}) {
		t.Errorf("camera position in view space: got %v", origin)
	}
	// A point in front of the camera lands on -Z.
	ahead := v.Mul4x1(p.Position.Add(p.Front).Vec4(1))
	if !nearVec(ahead.Vec3(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("point ahead in view space: got %v", ahead)
	}
}

func TestProjection_BadAspect(t *testing.T) {
	got := Projection(45, 0, 0.1, 100)
	want := Projection(45, 1, 0.1, 100)
	if !got.ApproxEqual(want) {
		t.Error("zero aspect should fall back to 1")
	}
}
