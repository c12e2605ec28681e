// Package winmsg defines the event model shared by the router, the
// controllers and the host: window handles, messages, results and the
// message codes the application reacts to.
//
// The numeric values match the Win32 definitions so the host can pass raw
// messages through unchanged, but nothing here depends on Windows.
package winmsg

// Handle is an opaque window identifier issued by the host.
type Handle uintptr

// Result is the value returned to the host for a processed message.
type Result uintptr

// Message is a single event delivered by the host.
type Message struct {
	Code   uint32
	WParam uintptr
	LParam uintptr
}

// CreateParams is the decoded payload of a creation event.
type CreateParams struct {
	Instance uintptr
	Token    uintptr
}

// Point is a screen coordinate.
type Point struct {
	X int32
	Y int32
}

// Host message codes.
const (
	Null        uint32 = 0x0000
	Create      uint32 = 0x0001
	Destroy     uint32 = 0x0002
	Activate    uint32 = 0x0006
	Paint       uint32 = 0x000F
	Close       uint32 = 0x0010
	ContextMenu uint32 = 0x007B
	NCCreate    uint32 = 0x0081
	NCDestroy   uint32 = 0x0082
	KeyDown     uint32 = 0x0100
	Command     uint32 = 0x0111
	MouseMove   uint32 = 0x0200
	LButtonUp   uint32 = 0x0202
	Hotkey      uint32 = 0x0312
	User        uint32 = 0x0400
	App         uint32 = 0x8000
)

// Application message codes.
const (
	// TrayNotify is the callback message of the notification icon.
	TrayNotify = User + 1
	// ConfigChanged is posted to the root window when the configuration file changes.
	ConfigChanged = App + 1
)

// Notification icon sub-events (NOTIFYICON_VERSION_4, low word of lParam).
const (
	NotifySelect    = User + 0
	NotifyKeySelect = User + 1
)

// Activation states carried in the low word of wParam for Activate.
const (
	Inactive    = 0
	Active      = 1
	ClickActive = 2
)

// Virtual key codes used by the panel.
const (
	VKReturn = 0x0D
	VKEscape = 0x1B
	VKUp     = 0x26
	VKDown   = 0x28
)

// Results with a fixed meaning.
const (
	Handled Result = 0
	// CreateFailed makes the host abort the window creation.
	CreateFailed Result = ^Result(0)
)

// ClassName is the window class shared by every application window.
const ClassName = "Rectangular_Common_Class"

// SlotIndex is the offset in the window extra bytes holding the binding token.
const SlotIndex = 0

// LowWord returns the lower 16 bits of v.
func LowWord(v uintptr) uint16 {
	return uint16(v & 0xFFFF)
}

// HighWord returns bits 16-31 of v.
func HighWord(v uintptr) uint16 {
	return uint16((v >> 16) & 0xFFFF)
}

// LowWordSigned returns the lower 16 bits of v as a signed value.
func LowWordSigned(v uintptr) int16 {
	return int16(LowWord(v))
}

// HighWordSigned returns bits 16-31 of v as a signed value.
func HighWordSigned(v uintptr) int16 {
	return int16(HighWord(v))
}

// PointFromParam unpacks the signed x/y pair packed into a message parameter
// (GET_X_LPARAM/GET_Y_LPARAM semantics).
func PointFromParam(v uintptr) Point {
	return Point{X: int32(LowWordSigned(v)), Y: int32(HighWordSigned(v))}
}

// PackPoint is the inverse of PointFromParam.
func PackPoint(p Point) uintptr {
	return uintptr(uint16(p.X)) | uintptr(uint16(p.Y))<<16
}
