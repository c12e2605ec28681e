//go:build windows

package platform

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const (
	monitorInfoPrimary = 0x1
	dwmwaCloaked       = 14
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procEnumDisplayMonitors   = user32.NewProc("EnumDisplayMonitors")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

// Enumeration callbacks are created once; each NewCallback allocates a
// slot that is never freed. The collected handles live in package state
// guarded by enumMu because the enumeration calls are synchronous.
var (
	enumMu       sync.Mutex
	enumMonitors []win.HMONITOR
	enumWindows  []win.HWND

	monitorCallback = windows.NewCallback(func(hmon, hdc, rect, data uintptr) uintptr {
		enumMonitors = append(enumMonitors, win.HMONITOR(hmon))
		return 1
	})
	windowCallback = windows.NewCallback(func(hwnd, data uintptr) uintptr {
		enumWindows = append(enumWindows, win.HWND(hwnd))
		return 1
	})
)

// WindowsBackend arranges top-level windows with the Win32 API.
type WindowsBackend struct {
	pid uint32
}

var _ Backend = (*WindowsBackend)(nil)

// New returns the Win32 backend. Windows of the current process are never
// listed.
func New() (Backend, error) {
	return &WindowsBackend{pid: windows.GetCurrentProcessId()}, nil
}

// Close implements Backend.
func (b *WindowsBackend) Close() error { return nil }

// Displays returns the monitors in enumeration order.
func (b *WindowsBackend) Displays() ([]Display, error) {
	hmons, err := monitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(hmons))
	for i, h := range hmons {
		d, ok := displayInfo(h, i)
		if !ok {
			continue
		}
		displays = append(displays, d)
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return displays, nil
}

// ActiveDisplay returns the monitor nearest to the foreground window, or
// the primary monitor when there is none.
func (b *WindowsBackend) ActiveDisplay() (Display, error) {
	hmons, err := monitors()
	if err != nil {
		return Display{}, err
	}
	if fg := win.GetForegroundWindow(); fg != 0 {
		want := win.MonitorFromWindow(fg, win.MONITOR_DEFAULTTONEAREST)
		for i, h := range hmons {
			if h == want {
				if d, ok := displayInfo(h, i); ok {
					return d, nil
				}
			}
		}
	}
	displays, err := b.Displays()
	if err != nil {
		return Display{}, err
	}
	for _, d := range displays {
		if d.Primary {
			return d, nil
		}
	}
	return displays[0], nil
}

// ActiveWindow returns the foreground window.
func (b *WindowsBackend) ActiveWindow() (WindowID, error) {
	return WindowID(win.GetForegroundWindow()), nil
}

// ListWindowsOnDisplay lists visible, restored, titled application windows
// of other processes whose centres lie on the display.
func (b *WindowsBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}
	target, ok := FindDisplay(displays, displayID)
	if !ok {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}

	hwnds, err := topLevelWindows()
	if err != nil {
		return nil, err
	}

	var out []Window
	for _, h := range hwnds {
		w, ok := b.describe(h)
		if !ok {
			continue
		}
		if !target.Bounds.Contains(w.Bounds.Center()) {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i].Bounds, out[j].Bounds
		if a.Y != c.Y {
			return a.Y < c.Y
		}
		return a.X < c.X
	})
	return out, nil
}

// MoveResize restores a maximized window and moves it without changing the
// z-order or activation.
func (b *WindowsBackend) MoveResize(windowID WindowID, bounds Rect) error {
	h := win.HWND(windowID)
	if win.IsZoomed(h) {
		win.ShowWindow(h, win.SW_RESTORE)
	}
	if !win.SetWindowPos(h, 0, int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height),
		win.SWP_NOZORDER|win.SWP_NOACTIVATE|win.SWP_NOOWNERZORDER) {
		return fmt.Errorf("SetWindowPos %#x failed", uintptr(h))
	}
	return nil
}

func (b *WindowsBackend) describe(h win.HWND) (Window, bool) {
	if !win.IsWindowVisible(h) || win.IsIconic(h) || cloaked(h) {
		return Window{}, false
	}
	if win.GetAncestor(h, win.GA_ROOTOWNER) != h {
		return Window{}, false
	}
	if win.GetWindowLong(h, win.GWL_EXSTYLE)&win.WS_EX_TOOLWINDOW != 0 {
		return Window{}, false
	}

	var pid uint32
	win.GetWindowThreadProcessId(h, &pid)
	if pid == b.pid {
		return Window{}, false
	}

	title := windowText(h)
	if title == "" {
		return Window{}, false
	}

	var rc win.RECT
	if !win.GetWindowRect(h, &rc) {
		return Window{}, false
	}

	return Window{
		ID:     WindowID(h),
		PID:    int(pid),
		Class:  className(h),
		Title:  title,
		Bounds: rectFromWin(rc),
	}, true
}

func monitors() ([]win.HMONITOR, error) {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumMonitors = enumMonitors[:0]
	r, _, err := procEnumDisplayMonitors.Call(0, 0, monitorCallback, 0)
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}
	return append([]win.HMONITOR(nil), enumMonitors...), nil
}

func topLevelWindows() ([]win.HWND, error) {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumWindows = enumWindows[:0]
	if err := windows.EnumWindows(windowCallback, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return append([]win.HWND(nil), enumWindows...), nil
}

func displayInfo(h win.HMONITOR, id int) (Display, bool) {
	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(h, &mi) {
		return Display{}, false
	}
	return Display{
		ID:      id,
		Name:    fmt.Sprintf("Display%d", id+1),
		Bounds:  rectFromWin(mi.RcMonitor),
		Usable:  rectFromWin(mi.RcWork),
		Primary: mi.DwFlags&monitorInfoPrimary != 0,
	}, true
}

func windowText(h win.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func className(h win.HWND) string {
	buf := make([]uint16, 256)
	n, err := win.GetClassName(h, &buf[0], len(buf))
	if err != nil || n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// cloaked reports windows hidden by DWM, such as suspended store apps and
// windows on other virtual desktops.
func cloaked(h win.HWND) bool {
	if procDwmGetWindowAttribute.Find() != nil {
		return false
	}
	var v uint32
	r, _, _ := procDwmGetWindowAttribute.Call(uintptr(h), dwmwaCloaked, uintptr(unsafe.Pointer(&v)), unsafe.Sizeof(v))
	return r == 0 && v != 0
}

func rectFromWin(rc win.RECT) Rect {
	return Rect{
		X:      int(rc.Left),
		Y:      int(rc.Top),
		Width:  int(rc.Right - rc.Left),
		Height: int(rc.Bottom - rc.Top),
	}
}
