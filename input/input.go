// Package input tracks polled keyboard, mouse and gamepad state between
// frames. Call PollInput once per frame before reading any device.
package input

import (
	"errors"
	"fmt"
)

// Errors returned by New.
var (
	ErrUnsupported = errors.New("input: device kind not supported")
	ErrWrongSource = errors.New("input: source does not match device kind")
)

// Kind names a device variant.
type Kind int

const (
	KindKeyboard Kind = iota
	KindMouse
	KindGamepad
	KindTouch
)

func (k Kind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindMouse:
		return "mouse"
	case KindGamepad:
		return "gamepad"
	case KindTouch:
		return "touch"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Device is one polled input device: *Keyboard, *Mouse or *Gamepad.
// The set is closed; switch on the concrete type to read it.
type Device interface {
	Kind() Kind
	PollInput()
	device()
}

// KeySource reports the raw state of keyboard keys.
type KeySource interface {
	KeyPressed(k Key) bool
}

// MouseSource reports the raw state of mouse buttons and the cursor.
type MouseSource interface {
	ButtonPressed(b MouseButton) bool
	CursorPos() (x, y float64)
}

// GamepadSource reports the raw state of a gamepad.
type GamepadSource interface {
	Connected() bool
	Buttons() GamepadButton
}

// New creates a device of kind reading from source.
func New(kind Kind, source any) (Device, error) {
	switch kind {
	case KindKeyboard:
		src, ok := source.(KeySource)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a KeySource, got %T", ErrWrongSource, kind, source)
		}
		return NewKeyboard(src), nil
	case KindMouse:
		src, ok := source.(MouseSource)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a MouseSource, got %T", ErrWrongSource, kind, source)
		}
		return NewMouse(src), nil
	case KindGamepad:
		src, ok := source.(GamepadSource)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a GamepadSource, got %T", ErrWrongSource, kind, source)
		}
		return NewGamepad(src), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}

// State is where a key or button is in its press cycle.
type State int

const (
	Released State = iota // Not pressed
	Pressed               // Went down on the last poll
	Held                  // Down on the last two polls
)

func (s State) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Held:
		return "held"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func stateOf(cur, prev bool) State {
	switch {
	case !cur:
		return Released
	case prev:
		return Held
	default:
		return Pressed
	}
}

// tracker keeps the current and previous raw state of n buttons.
type tracker struct {
	cur, prev []bool
}

func newTracker(n int) tracker {
	return tracker{cur: make([]bool, n), prev: make([]bool, n)}
}

func (t *tracker) update(pressed func(i int) bool) {
	t.prev, t.cur = t.cur, t.prev
	for i := range t.cur {
		t.cur[i] = pressed(i)
	}
}

func (t *tracker) state(i int) State {
	if i < 0 || i >= len(t.cur) {
		return Released
	}
	return stateOf(t.cur[i], t.prev[i])
}
