//go:build windows

package win32

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/rectangular/internal/app"
	"github.com/1broseidon/rectangular/internal/bridge"
	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/hotkeys"
	"github.com/1broseidon/rectangular/internal/popup"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

const rowPadding = 8

// Toolkit implements app.Toolkit on top of a Host.
type Toolkit struct {
	host           *Host
	tray           TrayOptions
	panelSize      popup.Size
	taskbarCreated uint32
	log            *slog.Logger
}

var _ app.Toolkit = (*Toolkit)(nil)

// NewToolkit returns a toolkit creating windows through host.
func NewToolkit(host *Host, tray TrayOptions, panelSize popup.Size, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{
		host:           host,
		tray:           tray,
		panelSize:      panelSize,
		taskbarCreated: win.RegisterWindowMessage(windows.StringToUTF16Ptr("TaskbarCreated")),
		log:            logger,
	}
}

// RootWindow describes the hidden message-only main window.
func RootWindow() WindowSpec {
	return WindowSpec{Title: "Rectangular", Parent: win.HWND_MESSAGE}
}

// RegisterIcon implements app.Toolkit.
func (t *Toolkit) RegisterIcon(owner winmsg.Handle, instance uintptr) (app.Icon, error) {
	return newTrayIcon(owner, instance, t.tray, t.log)
}

// NewMenu implements app.Toolkit.
func (t *Toolkit) NewMenu(owner winmsg.Handle) (app.Menu, error) {
	return newContextMenu(owner)
}

// CreatePopup creates the hidden panel window bound to p.
func (t *Toolkit) CreatePopup(_ uintptr, p *controller.Shared[*app.Popup]) (winmsg.Handle, error) {
	spec := WindowSpec{
		Title:   "Rectangular layouts",
		Style:   win.WS_POPUP | win.WS_THICKFRAME,
		ExStyle: win.WS_EX_PALETTEWINDOW,
		Width:   t.panelSize.Width,
		Height:  t.panelSize.Height,
	}
	return bridge.Create(p, func(tok bridge.Token) (winmsg.Handle, error) {
		return t.host.CreateWindow(spec, tok)
	})
}

// DestroyWindow implements app.Toolkit.
func (t *Toolkit) DestroyWindow(h winmsg.Handle) {
	win.DestroyWindow(win.HWND(h))
}

// PostClose implements app.Toolkit.
func (t *Toolkit) PostClose(h winmsg.Handle) {
	win.PostMessage(win.HWND(h), win.WM_CLOSE, 0, 0)
}

// PostQuit implements app.Toolkit.
func (t *Toolkit) PostQuit(code int) {
	win.PostQuitMessage(int32(code))
}

// TaskbarCreated implements app.Toolkit.
func (t *Toolkit) TaskbarCreated() uint32 { return t.taskbarCreated }

// RegisterHotkey implements app.Toolkit. Auto-repeat is suppressed.
func (t *Toolkit) RegisterHotkey(owner winmsg.Handle, id uint16, b hotkeys.Binding) error {
	r, _, err := procRegisterHotKey.Call(uintptr(owner), uintptr(id), uintptr(b.Modifiers|hotkeys.ModNoRepeat), uintptr(b.Key))
	if r == 0 {
		return fmt.Errorf("RegisterHotKey %s: %w", b, err)
	}
	return nil
}

// UnregisterHotkey implements app.Toolkit.
func (t *Toolkit) UnregisterHotkey(owner winmsg.Handle, id uint16) {
	procUnregisterHotKey.Call(uintptr(owner), uintptr(id))
}

// ShowAt places the panel topmost at pos and gives it the foreground so
// that clicking elsewhere deactivates it.
func (t *Toolkit) ShowAt(h winmsg.Handle, pos winmsg.Point, size popup.Size) {
	hwnd := win.HWND(h)
	win.SetWindowPos(hwnd, win.HWND_TOPMOST, pos.X, pos.Y, size.Width, size.Height, win.SWP_SHOWWINDOW)
	win.SetForegroundWindow(hwnd)
}

// Hide implements app.Panel.
func (t *Toolkit) Hide(h winmsg.Handle) {
	win.ShowWindow(win.HWND(h), win.SW_HIDE)
}

// WorkArea returns the work area of the monitor nearest to p.
func (t *Toolkit) WorkArea(p winmsg.Point) popup.Rect {
	probe := win.RECT{Left: p.X, Top: p.Y, Right: p.X + 1, Bottom: p.Y + 1}
	r, _, _ := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&probe)), win.MONITOR_DEFAULTTONEAREST)

	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if r == 0 || !win.GetMonitorInfo(win.HMONITOR(r), &mi) {
		t.log.Warn("no monitor information, using primary screen size")
		return popup.Rect{
			Right:  win.GetSystemMetrics(win.SM_CXSCREEN),
			Bottom: win.GetSystemMetrics(win.SM_CYSCREEN),
		}
	}
	w := mi.RcWork
	return popup.Rect{Left: w.Left, Top: w.Top, Right: w.Right, Bottom: w.Bottom}
}

// ClientSize implements app.Panel.
func (t *Toolkit) ClientSize(h winmsg.Handle) popup.Size {
	var rc win.RECT
	if !win.GetClientRect(win.HWND(h), &rc) {
		return popup.Size{}
	}
	return popup.Size{Width: rc.Right - rc.Left, Height: rc.Bottom - rc.Top}
}

// PaintRows draws the layout rows, highlighting the selected one.
func (t *Toolkit) PaintRows(h winmsg.Handle, rows []app.Row) {
	hwnd := win.HWND(h)
	var ps win.PAINTSTRUCT
	hdc := win.BeginPaint(hwnd, &ps)
	if hdc == 0 {
		return
	}
	defer win.EndPaint(hwnd, &ps)

	var client win.RECT
	win.GetClientRect(hwnd, &client)
	fillRect(hdc, &client, win.GetSysColorBrush(win.COLOR_WINDOW))

	old := win.SelectObject(hdc, win.GetStockObject(win.DEFAULT_GUI_FONT))
	defer win.SelectObject(hdc, old)
	win.SetBkMode(hdc, win.TRANSPARENT)

	for _, row := range rows {
		rc := win.RECT{Left: row.Rect.Left, Top: row.Rect.Top, Right: row.Rect.Right, Bottom: row.Rect.Bottom}
		text := win.COLOR_WINDOWTEXT
		if row.Selected {
			fillRect(hdc, &rc, win.GetSysColorBrush(win.COLOR_HIGHLIGHT))
			text = win.COLOR_HIGHLIGHTTEXT
		}
		win.SetTextColor(hdc, win.COLORREF(win.GetSysColor(text)))

		label, err := windows.UTF16FromString(row.Label)
		if err != nil {
			continue
		}
		rc.Left += rowPadding
		rc.Right -= rowPadding
		win.DrawTextEx(hdc, &label[0], int32(len(label)-1), &rc,
			win.DT_LEFT|win.DT_VCENTER|win.DT_SINGLELINE|win.DT_END_ELLIPSIS, nil)
	}
}

// Invalidate implements app.Panel.
func (t *Toolkit) Invalidate(h winmsg.Handle) {
	win.InvalidateRect(win.HWND(h), nil, false)
}

// Post queues message code for h. It is safe to call from any goroutine.
func Post(h winmsg.Handle, code uint32) {
	win.PostMessage(win.HWND(h), code, 0, 0)
}
