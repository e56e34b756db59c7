package viewport

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyControl
)

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
)

// PointerEvent is a normalized pointer event from the host.
// NDC is in [-1,+1]^2, x right, y up.
type PointerEvent struct {
	NDC    mgl32.Vec2
	Button Button
	Ctrl   bool
	Time   time.Time
}

type KeyEvent struct {
	Key     Key
	Pressed bool
	Time    time.Time
}

// Viewport is the contract the host rendering side provides to the core.
// The core never touches the scene graph directly; it only reads the camera
// and requests cursor / orbit-control changes.
type Viewport interface {
	Camera() Camera
	SetOrbitEnabled(enabled bool)
	SetCursor(c Cursor)
}
