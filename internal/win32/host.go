//go:build windows

// Package win32 connects the router and controllers to the Windows
// windowing system: the shared window class, the message loop and the
// notification icon, context menu and panel resources.
package win32

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/rectangular/internal/bridge"
	"github.com/1broseidon/rectangular/internal/router"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procFillRect         = user32.NewProc("FillRect")
	procMonitorFromRect  = user32.NewProc("MonitorFromRect")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

// The class has a single window procedure, a plain function the system
// calls back. It forwards to the router of the registered host.
var (
	dispatchTo *router.Router
	wndProc    = windows.NewCallback(func(hwnd, msg, wParam, lParam uintptr) uintptr {
		m := winmsg.Message{Code: uint32(msg), WParam: wParam, LParam: lParam}
		if dispatchTo == nil {
			return win.DefWindowProc(win.HWND(hwnd), m.Code, m.WParam, m.LParam)
		}
		return uintptr(dispatchTo.Dispatch(winmsg.Handle(hwnd), m))
	})
)

// WindowSpec describes a window to create with the shared class.
type WindowSpec struct {
	Title   string
	Style   uint32
	ExStyle uint32
	X, Y    int32
	Width   int32
	Height  int32
	Parent  win.HWND
}

// Host owns the registered window class and implements router.Host.
type Host struct {
	instance  win.HINSTANCE
	className *uint16
	log       *slog.Logger
}

var _ router.Host = (*Host)(nil)

// NewHost returns a host for the current module. Call Register before
// creating windows.
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		instance:  win.GetModuleHandle(nil),
		className: windows.StringToUTF16Ptr(winmsg.ClassName),
		log:       logger,
	}
}

// Instance returns the module instance handle.
func (h *Host) Instance() uintptr { return uintptr(h.instance) }

// Register registers the shared window class and routes its messages to r.
func (h *Host) Register(r *router.Router) error {
	wc := win.WNDCLASSEX{
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   wndProc,
		CbWndExtra:    int32(4 * unsafe.Sizeof(uintptr(0))),
		HInstance:     h.instance,
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		HbrBackground: win.GetSysColorBrush(win.COLOR_WINDOW),
		LpszClassName: h.className,
	}
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	if win.RegisterClassEx(&wc) == 0 {
		return fmt.Errorf("RegisterClassEx %s: %w", winmsg.ClassName, windows.GetLastError())
	}
	dispatchTo = r
	return nil
}

// Unregister removes the window class. All windows must be destroyed.
func (h *Host) Unregister() {
	if !win.UnregisterClass(h.className) {
		h.log.Warn("UnregisterClass failed", "class", winmsg.ClassName)
	}
	dispatchTo = nil
}

// CreateWindow creates a window of the shared class. The token reaches the
// router as the creation parameter.
func (h *Host) CreateWindow(spec WindowSpec, tok bridge.Token) (winmsg.Handle, error) {
	title, err := windows.UTF16PtrFromString(spec.Title)
	if err != nil {
		return 0, err
	}
	hwnd, _, callErr := procCreateWindowExW.Call(
		uintptr(spec.ExStyle),
		uintptr(unsafe.Pointer(h.className)),
		uintptr(unsafe.Pointer(title)),
		uintptr(spec.Style),
		uintptr(spec.X),
		uintptr(spec.Y),
		uintptr(spec.Width),
		uintptr(spec.Height),
		uintptr(spec.Parent),
		0,
		uintptr(h.instance),
		uintptr(tok),
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx %q: %w", spec.Title, callErr)
	}
	return winmsg.Handle(hwnd), nil
}

// Run pumps messages until WM_QUIT and returns its exit code.
func (h *Host) Run() int {
	var msg win.MSG
	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0:
			return int(msg.WParam)
		case -1:
			h.log.Error("GetMessage failed", "error", windows.GetLastError())
			return 1
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

// Slot implements router.Host.
func (h *Host) Slot(hwnd winmsg.Handle) uintptr {
	return win.GetWindowLongPtr(win.HWND(hwnd), winmsg.SlotIndex)
}

// SetSlot implements router.Host.
func (h *Host) SetSlot(hwnd winmsg.Handle, v uintptr) {
	win.SetWindowLongPtr(win.HWND(hwnd), winmsg.SlotIndex, v)
}

// CreateParams reads the CREATESTRUCT passed with WM_CREATE.
func (h *Host) CreateParams(m winmsg.Message) winmsg.CreateParams {
	if m.LParam == 0 {
		return winmsg.CreateParams{}
	}
	cs := (*win.CREATESTRUCT)(unsafe.Pointer(m.LParam))
	return winmsg.CreateParams{Instance: uintptr(cs.Instance), Token: cs.CreateParams}
}

// DefaultProc implements router.Host.
func (h *Host) DefaultProc(hwnd winmsg.Handle, m winmsg.Message) winmsg.Result {
	return winmsg.Result(win.DefWindowProc(win.HWND(hwnd), m.Code, m.WParam, m.LParam))
}

// PaintDefault fills the dirty region with the window colour.
func (h *Host) PaintDefault(hwnd winmsg.Handle) {
	var ps win.PAINTSTRUCT
	hdc := win.BeginPaint(win.HWND(hwnd), &ps)
	if hdc == 0 {
		return
	}
	fillRect(hdc, &ps.RcPaint, win.GetSysColorBrush(win.COLOR_WINDOW))
	win.EndPaint(win.HWND(hwnd), &ps)
}

// Destroy implements router.Host.
func (h *Host) Destroy(hwnd winmsg.Handle) {
	win.DestroyWindow(win.HWND(hwnd))
}

func fillRect(hdc win.HDC, rc *win.RECT, brush win.HBRUSH) {
	procFillRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(rc)), uintptr(brush))
}
