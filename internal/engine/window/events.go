package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/grafika/internal/engine/input"
)

// Bindings maps physical keys to logical keys.
type Bindings map[sdl.Scancode]input.Key

// DefaultBindings returns WASD movement, Space/LShift vertical, Q/E yaw,
// L to toggle lighting and the arrow keys for ambient and light strength.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_W:      input.KeyForward,
		sdl.SCANCODE_S:      input.KeyBack,
		sdl.SCANCODE_A:      input.KeyLeft,
		sdl.SCANCODE_D:      input.KeyRight,
		sdl.SCANCODE_SPACE:  input.KeyUp,
		sdl.SCANCODE_LSHIFT: input.KeyDown,
		sdl.SCANCODE_Q:      input.KeyYawLeft,
		sdl.SCANCODE_E:      input.KeyYawRight,
		sdl.SCANCODE_ESCAPE: input.KeyEscape,
		sdl.SCANCODE_L:      input.KeyToggleLighting,
		sdl.SCANCODE_UP:     input.KeyIncreaseAmbient,
		sdl.SCANCODE_DOWN:   input.KeyDecreaseAmbient,
		sdl.SCANCODE_RIGHT:  input.KeyIncreaseLight,
		sdl.SCANCODE_LEFT:   input.KeyDecreaseLight,
		sdl.SCANCODE_F12:    input.KeyScreenshot,
	}
}

// PollInput drains pending SDL events into state.
// Call state.Begin before polling each frame.
func (w *Window) PollInput(state *input.State, bindings Bindings) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			state.RequestQuit()

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				state.Resize(w.DrawableSize())
			case sdl.WINDOWEVENT_FOCUS_LOST:
				state.ReleaseAll()
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				state.Refocus()
			case sdl.WINDOWEVENT_CLOSE:
				state.RequestQuit()
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if k, ok := bindings[e.Keysym.Scancode]; ok {
				state.SetKey(k, e.Type == sdl.KEYDOWN)
			}

		case *sdl.MouseMotionEvent:
			state.MoveMouse(float32(e.XRel), float32(e.YRel))
		}
	}
}
