package input

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyLeftShift
	KeyLeftControl
	KeyA
	KeyD
	KeyE
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyW
	Key0
	Key1
	Key2
	KeyF1
	KeyF2
	KeyF3
	KeyF12
	KeyCount
)

// GamepadButton is a bit in a gamepad's button mask.
type GamepadButton uint32

const (
	ButtonSelect GamepadButton = 1 << iota
	ButtonLStickIn
	ButtonRStickIn
	ButtonStart
	ButtonDpadUp
	ButtonDpadRight
	ButtonDpadDown
	ButtonDpadLeft
	ButtonLTrigger
	ButtonRTrigger
	ButtonLBumper
	ButtonRBumper
	ButtonFaceNorth // Triangle, Y
	ButtonFaceEast  // Circle, B
	ButtonFaceSouth // Cross, A
	ButtonFaceWest  // Square, X
)
