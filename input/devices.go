package input

// Keyboard is a polled keyboard.
type Keyboard struct {
	src  KeySource
	keys tracker
}

// NewKeyboard creates a keyboard reading from src.
func NewKeyboard(src KeySource) *Keyboard {
	return &Keyboard{src: src, keys: newTracker(int(KeyCount))}
}

func (*Keyboard) Kind() Kind { return KindKeyboard }
func (*Keyboard) device() {}

// PollInput samples every key.
func (k *Keyboard) PollInput() {
	k.keys.update(func(i int) bool { return k.src.KeyPressed(Key(i)) })
}

// State returns where key is in its press cycle.
func (k *Keyboard) State(key Key) State { return k.keys.state(int(key)) }

// IsKeyDown reports whether key went down on the last poll.
func (k *Keyboard) IsKeyDown(key Key) bool { return k.State(key) == Pressed }

// IsKeyHeld reports whether key has been down for more than one poll.
func (k *Keyboard) IsKeyHeld(key Key) bool { return k.State(key) == Held }

// IsKeyUp reports whether key is not pressed.
func (k *Keyboard) IsKeyUp(key Key) bool { return k.State(key) == Released }

// Mouse is a polled mouse.
type Mouse struct {
	src     MouseSource
	buttons tracker
	x, y    float64
}

// NewMouse creates a mouse reading from src.
func NewMouse(src MouseSource) *Mouse {
	return &Mouse{src: src, buttons: newTracker(int(MouseButtonCount))}
}

func (*Mouse) Kind() Kind { return KindMouse }
func (*Mouse) device() {}

// PollInput samples the buttons and the cursor.
func (m *Mouse) PollInput() {
	m.buttons.update(func(i int) bool { return m.src.ButtonPressed(MouseButton(i)) })
	m.x, m.y = m.src.CursorPos()
}

// Position returns the cursor position sampled by the last poll.
func (m *Mouse) Position() (x, y float64) { return m.x, m.y }

// State returns where b is in its press cycle.
func (m *Mouse) State(b MouseButton) State { return m.buttons.state(int(b)) }

// IsButtonDown reports whether b went down on the last poll.
func (m *Mouse) IsButtonDown(b MouseButton) bool { return m.State(b) == Pressed }

// IsButtonHeld reports whether b has been down for more than one poll.
func (m *Mouse) IsButtonHeld(b MouseButton) bool { return m.State(b) == Held }

// IsButtonUp reports whether b is not pressed.
func (m *Mouse) IsButtonUp(b MouseButton) bool { return m.State(b) == Released }

// Gamepad is a polled gamepad. A disconnected pad reports every button
// released.
type Gamepad struct {
	src       GamepadSource
	cur, prev GamepadButton
	connected bool
}

// NewGamepad creates a gamepad reading from src.
func NewGamepad(src GamepadSource) *Gamepad {
	return &Gamepad{src: src}
}

func (*Gamepad) Kind() Kind { return KindGamepad }
func (*Gamepad) device() {}

// PollInput samples the button mask.
func (g *Gamepad) PollInput() {
	g.prev = g.cur
	g.connected = g.src.Connected()
	if g.connected {
		g.cur = g.src.Buttons()
	} else {
		g.cur = 0
	}
}

// Connected reports whether the pad was present at the last poll.
func (g *Gamepad) Connected() bool { return g.connected }

// State returns where b is in its press cycle. When b has several bits
// set, all of them must be down.
func (g *Gamepad) State(b GamepadButton) State {
	if b == 0 {
		return Released
	}
	return stateOf(g.cur&b == b, g.prev&b == b)
}

// IsButtonDown reports whether b went down on the last poll.
func (g *Gamepad) IsButtonDown(b GamepadButton) bool { return g.State(b) == Pressed }

// IsButtonHeld reports whether b has been down for more than one poll.
func (g *Gamepad) IsButtonHeld(b GamepadButton) bool { return g.State(b) == Held }

// IsButtonUp reports whether b is not pressed.
func (g *Gamepad) IsButtonUp(b GamepadButton) bool { return g.State(b) == Released }
