//go:build windows

package win32

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"github.com/google/uuid"
	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/rectangular/internal/winmsg"
)

// Resource id of the application icon linked into the executable.
const iconResourceID = 1

// TrayOptions configures the notification icon.
type TrayOptions struct {
	Tooltip string
	// GUID identifies the icon across restarts; uuid.Nil uses the owner
	// window and id instead.
	GUID uuid.UUID
	// IconPath is an .ico file used when the executable has no icon
	// resource.
	IconPath string
}

type trayIcon struct {
	data  win.NOTIFYICONDATA
	owned bool
	log   *slog.Logger
}

func newTrayIcon(owner winmsg.Handle, instance uintptr, opts TrayOptions, logger *slog.Logger) (*trayIcon, error) {
	icon, owned, err := loadTrayIcon(win.HINSTANCE(instance), opts.IconPath)
	if err != nil {
		return nil, err
	}

	t := &trayIcon{owned: owned, log: logger}
	d := &t.data
	d.CbSize = uint32(unsafe.Sizeof(*d))
	d.HWnd = win.HWND(owner)
	d.UID = 1
	d.UFlags = win.NIF_MESSAGE | win.NIF_ICON | win.NIF_TIP | win.NIF_SHOWTIP
	d.UCallbackMessage = winmsg.TrayNotify
	d.HIcon = icon
	copy(d.SzTip[:len(d.SzTip)-1], windows.StringToUTF16(opts.Tooltip))
	if opts.GUID != uuid.Nil {
		d.UFlags |= win.NIF_GUID
		d.GuidItem = guidFromUUID(opts.GUID)
	}

	if err := t.add(); err != nil {
		t.destroyIcon()
		return nil, err
	}
	return t, nil
}

func (t *trayIcon) add() error {
	if !win.Shell_NotifyIcon(win.NIM_ADD, &t.data) {
		// A stale icon with the same GUID survives a crash; remove and retry.
		if t.data.UFlags&win.NIF_GUID == 0 {
			return fmt.Errorf("Shell_NotifyIcon(NIM_ADD) failed")
		}
		win.Shell_NotifyIcon(win.NIM_DELETE, &t.data)
		if !win.Shell_NotifyIcon(win.NIM_ADD, &t.data) {
			return fmt.Errorf("Shell_NotifyIcon(NIM_ADD) failed after removing a stale icon")
		}
	}
	t.data.UVersion = win.NOTIFYICON_VERSION_4
	if !win.Shell_NotifyIcon(win.NIM_SETVERSION, &t.data) {
		return fmt.Errorf("Shell_NotifyIcon(NIM_SETVERSION) failed")
	}
	return nil
}

// Reregister adds the icon again after explorer restarted.
func (t *trayIcon) Reregister() error {
	return t.add()
}

// Unregister removes the icon and frees a loaded icon image.
func (t *trayIcon) Unregister() {
	if !win.Shell_NotifyIcon(win.NIM_DELETE, &t.data) {
		t.log.Debug("Shell_NotifyIcon(NIM_DELETE) failed")
	}
	t.destroyIcon()
}

func (t *trayIcon) destroyIcon() {
	if t.owned && t.data.HIcon != 0 {
		win.DestroyIcon(t.data.HIcon)
	}
	t.data.HIcon = 0
}

// loadTrayIcon tries the executable's icon resource, then the configured
// file, then the stock application icon. owned reports whether the result
// must be destroyed.
func loadTrayIcon(instance win.HINSTANCE, path string) (icon win.HICON, owned bool, err error) {
	cx := win.GetSystemMetrics(win.SM_CXSMICON)
	cy := win.GetSystemMetrics(win.SM_CYSMICON)

	if h := win.LoadImage(instance, win.MAKEINTRESOURCE(iconResourceID), win.IMAGE_ICON, cx, cy, 0); h != 0 {
		return win.HICON(h), true, nil
	}
	if path != "" {
		p, err := windows.UTF16PtrFromString(path)
		if err != nil {
			return 0, false, err
		}
		if h := win.LoadImage(0, p, win.IMAGE_ICON, cx, cy, win.LR_LOADFROMFILE); h != 0 {
			return win.HICON(h), true, nil
		}
	}
	if h := win.LoadIcon(0, win.MAKEINTRESOURCE(win.IDI_APPLICATION)); h != 0 {
		return h, false, nil
	}
	return 0, false, fmt.Errorf("no tray icon could be loaded")
}

// guidFromUUID converts an RFC 4122 UUID to the mixed-endian Windows layout.
func guidFromUUID(u uuid.UUID) syscall.GUID {
	var g syscall.GUID
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:16])
	return g
}
