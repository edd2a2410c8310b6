// Package input tracks per-frame keyboard and mouse state.
// It is backend neutral; the window package feeds it from SDL events.
package input

// Key is a logical action key.
type Key int

// Logical keys.
const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyYawLeft
	KeyYawRight
	KeyEscape
	KeyToggleLighting
	KeyIncreaseAmbient
	KeyDecreaseAmbient
	KeyIncreaseLight
	KeyDecreaseLight
	KeyScreenshot

	keyCount
)

var keyNames = [keyCount]string{
	KeyForward:         "forward",
	KeyBack:            "back",
	KeyLeft:            "left",
	KeyRight:           "right",
	KeyUp:              "up",
	KeyDown:            "down",
	KeyYawLeft:         "yaw_left",
	KeyYawRight:        "yaw_right",
	KeyEscape:          "escape",
	KeyToggleLighting:  "toggle_lighting",
	KeyIncreaseAmbient: "increase_ambient",
	KeyDecreaseAmbient: "decrease_ambient",
	KeyIncreaseLight:   "increase_light",
	KeyDecreaseLight:   "decrease_light",
	KeyScreenshot:      "screenshot",
}

// String returns the key name.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey returns the key with the given name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// State holds the input for the current frame.
// Call Begin once per frame before feeding events.
type State struct {
	held [keyCount]bool
	prev [keyCount]bool

	mouseX, mouseY float32
	deltaX, deltaY float32
	hasMouse       bool

	quit      bool
	refocused bool

	resized       bool
	width, height int
}

// New creates an empty input state.
func New() *State {
	return &State{}
}

// Begin starts a new frame: the held set becomes the previous set and
// per-frame accumulators are cleared.
func (s *State) Begin() {
	s.prev = s.held
	s.deltaX, s.deltaY = 0, 0
	s.resized = false
	s.refocused = false
}

// SetKey records a key going down or up.
func (s *State) SetKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	s.held[k] = down
}

// MoveMouse records relative mouse motion. The absolute position
// accumulates the deltas so relative-mode backends still report one.
func (s *State) MoveMouse(dx, dy float32) {
	s.deltaX += dx
	s.deltaY += dy
	s.mouseX += dx
	s.mouseY += dy
	s.hasMouse = true
}

// ReleaseAll clears every held key, e.g. when the window loses focus.
func (s *State) ReleaseAll() {
	s.held = [keyCount]bool{}
}

// Held reports whether k is down this frame.
func (s *State) Held(k Key) bool {
	return k >= 0 && k < keyCount && s.held[k]
}

// Pressed reports whether k went down since the previous frame.
func (s *State) Pressed(k Key) bool {
	return k >= 0 && k < keyCount && s.held[k] && !s.prev[k]
}

// Released reports whether k went up since the previous frame.
func (s *State) Released(k Key) bool {
	return k >= 0 && k < keyCount && !s.held[k] && s.prev[k]
}

// Mouse returns the accumulated cursor position and whether any motion was seen.
func (s *State) Mouse() (x, y float32, ok bool) {
	return s.mouseX, s.mouseY, s.hasMouse
}

// MouseDelta returns the motion accumulated this frame.
func (s *State) MouseDelta() (dx, dy float32) {
	return s.deltaX, s.deltaY
}

// RequestQuit marks the session for shutdown.
func (s *State) RequestQuit() {
	s.quit = true
}

// QuitRequested reports whether shutdown was requested.
func (s *State) QuitRequested() bool {
	return s.quit
}

// Refocus records that the window regained input focus this frame.
func (s *State) Refocus() {
	s.refocused = true
}

// Refocused reports whether focus was regained this frame.
func (s *State) Refocused() bool {
	return s.refocused
}

// Resize records a new drawable size.
func (s *State) Resize(width, height int) {
	s.resized = true
	s.width, s.height = width, height
}

// Resized returns the size recorded this frame, if any.
func (s *State) Resized() (width, height int, ok bool) {
	return s.width, s.height, s.resized
}
