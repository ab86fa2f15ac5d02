package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/vgl/input"
)

// InputSource reads polled input from an open window. It implements
// input.KeySource, input.MouseSource and input.GamepadSource.
type InputSource struct {
	w   *Window
	pad glfw.Joystick
}

// NewInputSource reads keyboard and mouse from w and the gamepad from the
// first joystick slot.
func NewInputSource(w *Window) *InputSource {
	return &InputSource{w: w, pad: glfw.Joystick1}
}

// Devices creates the keyboard, mouse and gamepad devices.
func (s *InputSource) Devices() (*input.Keyboard, *input.Mouse, *input.Gamepad) {
	return input.NewKeyboard(s), input.NewMouse(s), input.NewGamepad(s)
}

func (s *InputSource) KeyPressed(k input.Key) bool {
	win := s.w.GLFW()
	key, ok := glfwKey(k)
	if win == nil || !ok {
		return false
	}
	return win.GetKey(key) == glfw.Press
}

func (s *InputSource) ButtonPressed(b input.MouseButton) bool {
	win := s.w.GLFW()
	if win == nil {
		return false
	}
	var mb glfw.MouseButton
	switch b {
	case input.MouseButtonLeft:
		mb = glfw.MouseButtonLeft
	case input.MouseButtonRight:
		mb = glfw.MouseButtonRight
	case input.MouseButtonMiddle:
		mb = glfw.MouseButtonMiddle
	default:
		return false
	}
	return win.GetMouseButton(mb) == glfw.Press
}

func (s *InputSource) CursorPos() (x, y float64) {
	if win := s.w.GLFW(); win != nil {
		return win.GetCursorPos()
	}
	return 0, 0
}

func (s *InputSource) Connected() bool {
	return s.w.GLFW() != nil && s.pad.IsGamepad()
}

// gamepadButtons maps GLFW's standard layout onto the button mask.
var gamepadButtons = [...]struct {
	glfw glfw.GamepadButton
	mask input.GamepadButton
}{
	{glfw.ButtonBack, input.ButtonSelect},
	{glfw.ButtonLeftThumb, input.ButtonLStickIn},
	{glfw.ButtonRightThumb, input.ButtonRStickIn},
	{glfw.ButtonStart, input.ButtonStart},
	{glfw.ButtonDpadUp, input.ButtonDpadUp},
	{glfw.ButtonDpadRight, input.ButtonDpadRight},
	{glfw.ButtonDpadDown, input.ButtonDpadDown},
	{glfw.ButtonDpadLeft, input.ButtonDpadLeft},
	{glfw.ButtonLeftBumper, input.ButtonLBumper},
	{glfw.ButtonRightBumper, input.ButtonRBumper},
	{glfw.ButtonY, input.ButtonFaceNorth},
	{glfw.ButtonB, input.ButtonFaceEast},
	{glfw.ButtonA, input.ButtonFaceSouth},
	{glfw.ButtonX, input.ButtonFaceWest},
}

// triggerThreshold is the axis value past which a trigger counts as pressed.
const triggerThreshold = 0.5

func (s *InputSource) Buttons() input.GamepadButton {
	state := s.pad.GetGamepadState()
	if state == nil {
		return 0
	}
	var mask input.GamepadButton
	for _, b := range gamepadButtons {
		if state.Buttons[b.glfw] == glfw.Press {
			mask |= b.mask
		}
	}
	if state.Axes[glfw.AxisLeftTrigger] > triggerThreshold {
		mask |= input.ButtonLTrigger
	}
	if state.Axes[glfw.AxisRightTrigger] > triggerThreshold {
		mask |= input.ButtonRTrigger
	}
	return mask
}

// glfwKey maps input keys to GLFW keys.
func glfwKey(k input.Key) (glfw.Key, bool) {
	switch k {
	case input.KeyTab:
		return glfw.KeyTab, true
	case input.KeyLeft:
		return glfw.KeyLeft, true
	case input.KeyRight:
		return glfw.KeyRight, true
	case input.KeyUp:
		return glfw.KeyUp, true
	case input.KeyDown:
		return glfw.KeyDown, true
	case input.KeyPageUp:
		return glfw.KeyPageUp, true
	case input.KeyPageDown:
		return glfw.KeyPageDown, true
	case input.KeyHome:
		return glfw.KeyHome, true
	case input.KeyEnd:
		return glfw.KeyEnd, true
	case input.KeySpace:
		return glfw.KeySpace, true
	case input.KeyEnter:
		return glfw.KeyEnter, true
	case input.KeyEscape:
		return glfw.KeyEscape, true
	case input.KeyBackspace:
		return glfw.KeyBackspace, true
	case input.KeyLeftShift:
		return glfw.KeyLeftShift, true
	case input.KeyLeftControl:
		return glfw.KeyLeftControl, true
	case input.KeyA:
		return glfw.KeyA, true
	case input.KeyD:
		return glfw.KeyD, true
	case input.KeyE:
		return glfw.KeyE, true
	case input.KeyP:
		return glfw.KeyP, true
	case input.KeyQ:
		return glfw.KeyQ, true
	case input.KeyR:
		return glfw.KeyR, true
	case input.KeyS:
		return glfw.KeyS, true
	case input.KeyW:
		return glfw.KeyW, true
	case input.Key0:
		return glfw.Key0, true
	case input.Key1:
		return glfw.Key1, true
	case input.Key2:
		return glfw.Key2, true
	case input.KeyF1:
		return glfw.KeyF1, true
	case input.KeyF2:
		return glfw.KeyF2, true
	case input.KeyF3:
		return glfw.KeyF3, true
	case input.KeyF12:
		return glfw.KeyF12, true
	default:
		return glfw.KeyUnknown, false
	}
}
