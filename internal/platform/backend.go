// Package platform hides the window system behind the small set of
// operations window arrangement needs.
package platform

import "errors"

// ErrUnsupported is returned by New on platforms without a backend.
var ErrUnsupported = errors.New("window arrangement is not supported on this platform")

// WindowID is a platform-neutral window identifier: an HWND on Windows, an
// X11 window id elsewhere.
type WindowID uintptr

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the centre point of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	Class  string
	Title  string
	Bounds Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	// ActiveDisplay returns the display holding the focused window.
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	// ListWindowsOnDisplay lists arrangeable windows whose centre lies on
	// the display, in a stable order.
	ListWindowsOnDisplay(displayID int) ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	// Close releases the connection to the window system.
	Close() error
}

// FindDisplay returns the display with the given id.
func FindDisplay(displays []Display, id int) (Display, bool) {
	for _, d := range displays {
		if d.ID == id {
			return d, true
		}
	}
	return Display{}, false
}
