//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/rectangular/internal/x11"
)

// LinuxBackend arranges X11 windows through an EWMH-compliant window manager.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// New opens a connection to the X server named by $DISPLAY.
func New() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// Displays returns all active displays ordered by id.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for i, m := range monitors {
		d := displayFromMonitor(m, conn.WorkArea(m))
		d.Primary = i == 0
		displays = append(displays, d)
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the display holding the focused window, falling
// back to the one under the pointer.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}
	m, err := conn.ActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(m, conn.WorkArea(m)), nil
}

// ActiveWindow returns the focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindowsOnDisplay lists normal, visible windows of the current desktop
// whose centres are inside the display bounds.
func (b *LinuxBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}
	target, ok := FindDisplay(displays, displayID)
	if !ok {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		if !target.Bounds.Contains(c.X+c.Width/2, c.Y+c.Height/2) {
			continue
		}
		windows = append(windows, Window{
			ID:     WindowID(c.ID),
			PID:    c.PID,
			Class:  c.Class,
			Title:  c.Title,
			Bounds: Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height},
		})
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(uint32(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m, work x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Usable: Rect{X: work.X, Y: work.Y, Width: work.Width, Height: work.Height},
	}
}
