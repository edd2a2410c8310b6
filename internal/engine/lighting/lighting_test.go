package lighting

import (
	"math"
	"testing"
)

func TestNew_ClampsStart(t *testing.T) {
	tests := []struct {
		name             string
		ambient, light   float32
		wantAmb, wantLit float32
	}{
		{"in range", 0.3, 1.5, 0.3, 1.5},
		{"too high", 4, 9, 1, 2},
		{"too low", -1, -3, 0, 0},
		{"nan", float32(math.NaN()), float32(math.NaN()), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Ambient = tt.ambient
			cfg.LightStrength = tt.light
			s := New(cfg)
			if s.Ambient() != tt.wantAmb {
				t.Errorf("ambient: got %v, want %v", s.Ambient(), tt.wantAmb)
			}
			if s.LightStrength() != tt.wantLit {
				t.Errorf("light strength: got %v, want %v", s.LightStrength(), tt.wantLit)
			}
		})
	}
}

func TestAdjust_StaysInRange(t *testing.T) {
	s := New(DefaultConfig())
	deltas := []float32{0.3, 0.5, 0.7, -0.1, -2, 5, -0.05, 0.01, -10, 10}

	for i, d := range deltas {
		a := s.AdjustAmbient(d)
		l := s.AdjustLightStrength(d)
		if a < MinAmbient || a > MaxAmbient {
			t.Errorf("step %d: ambient %v out of [0,1]", i, a)
		}
		if l < MinLightStrength || l > MaxLightStrength {
			t.Errorf("step %d: light strength %v out of [0,2]", i, l)
		}
	}
}

func TestAdjust_SaturatesAtBounds(t *testing.T) {
	s := New(DefaultConfig())
	for i := 0; i < 100; i++ {
		s.AdjustAmbient(0.1)
		s.AdjustLightStrength(0.1)
	}
	if s.Ambient() != MaxAmbient {
		t.Errorf("ambient: got %v, want %v", s.Ambient(), float32(MaxAmbient))
	}
	if s.LightStrength() != MaxLightStrength {
		t.Errorf("light strength: got %v, want %v", s.LightStrength(), float32(MaxLightStrength))
	}

	// Leaving the bound is immediate, there is no accumulated overshoot.
	if got := s.AdjustAmbient(-0.25); math.Abs(float64(got-0.75)) > 1e-6 {
		t.Errorf("ambient after step down: got %v, want 0.75", got)
	}
}

func TestAdjust_IgnoresNaN(t *testing.T) {
	s := New(DefaultConfig())
	if got := s.AdjustAmbient(float32(math.NaN())); got != 0.2 {
		t.Errorf("ambient: got %v, want 0.2", got)
	}
	if got := s.AdjustLightStrength(float32(math.NaN())); got != 1 {
		t.Errorf("light strength: got %v, want 1", got)
	}
}

func TestToggle_Parity(t *testing.T) {
	for n := 0; n < 6; n++ {
		s := New(DefaultConfig())
		for i := 0; i < n; i++ {
			s.Toggle()
		}
		want := n%2 == 0
		if s.Enabled() != want {
			t.Errorf("after %d toggles: enabled=%v, want %v", n, s.Enabled(), want)
		}
	}
}

func TestUniforms(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	s.AdjustAmbient(0.3)
	s.Toggle()

	u := s.Uniforms()
	if math.Abs(float64(u.Ambient-0.5)) > 1e-6 {
		t.Errorf("ambient: got %v, want 0.5", u.Ambient)
	}
	if u.Enabled {
		t.Error("expected lighting disabled")
	}
	// Strength is reported as-is while disabled.
	if u.LightStrength != 1 {
		t.Errorf("light strength: got %v, want 1", u.LightStrength)
	}
	if u.LightPosition != cfg.LightPosition || u.DiffuseColor != cfg.DiffuseColor {
		t.Error("fixed parameters changed")
	}
}
