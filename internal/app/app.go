// Package app implements the two window controllers of the tray utility:
// the hidden root window owning the notification icon and context menu, and
// the popup panel listing the available layouts.
//
// Controllers talk to the windowing system only through the Toolkit
// interface so they can be driven by the in-memory host in tests.
package app

import (
	"log/slog"

	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/hotkeys"
	"github.com/1broseidon/rectangular/internal/popup"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// Context menu command identifiers.
const (
	MenuExit uint16 = iota + 1
	MenuTileDefault
	MenuReloadConfig
	MenuUndo
)

// Default panel geometry.
const (
	DefaultPanelWidth  int32 = 300
	DefaultPanelHeight int32 = 200
	DefaultRowHeight   int32 = 24
)

// Icon is a registered notification-area icon.
type Icon interface {
	// Reregister adds the icon again after the taskbar was recreated.
	Reregister() error
	// Unregister removes the icon from the notification area.
	Unregister()
}

// Menu is the context menu attached to the root window.
type Menu interface {
	// Show displays the menu at pt and returns once it was dismissed. The
	// selected command arrives later as a winmsg.Command message.
	Show(pt winmsg.Point)
	Destroy()
}

// Row is one line of the layout panel.
type Row struct {
	Label    string
	Selected bool
	Rect     popup.Rect
}

// Panel is the part of the windowing system the popup needs.
type Panel interface {
	// ShowAt moves h to pos, resizes it and shows it topmost in the
	// foreground.
	ShowAt(h winmsg.Handle, pos winmsg.Point, size popup.Size)
	Hide(h winmsg.Handle)
	// WorkArea returns the work area of the monitor nearest to p.
	WorkArea(p winmsg.Point) popup.Rect
	// ClientSize returns the size of the client area of h, which excludes
	// the window frame.
	ClientSize(h winmsg.Handle) popup.Size
	// PaintRows draws rows into the dirty region of h.
	PaintRows(h winmsg.Handle, rows []Row)
	// Invalidate schedules a repaint of h.
	Invalidate(h winmsg.Handle)
}

// Toolkit creates and drives the host resources used by the controllers.
type Toolkit interface {
	Panel

	RegisterIcon(owner winmsg.Handle, instance uintptr) (Icon, error)
	NewMenu(owner winmsg.Handle) (Menu, error)
	// CreatePopup creates the hidden popup window bound to p.
	CreatePopup(instance uintptr, p *controller.Shared[*Popup]) (winmsg.Handle, error)
	// DestroyWindow destroys h synchronously.
	DestroyWindow(h winmsg.Handle)
	// PostClose queues a close request for h.
	PostClose(h winmsg.Handle)
	// PostQuit ends the message loop with code.
	PostQuit(code int)
	// TaskbarCreated returns the message broadcast when the taskbar is
	// recreated, or 0 when the host has none.
	TaskbarCreated() uint32
	// RegisterHotkey delivers b to owner as a winmsg.Hotkey message with
	// id in WParam.
	RegisterHotkey(owner winmsg.Handle, id uint16, b hotkeys.Binding) error
	UnregisterHotkey(owner winmsg.Handle, id uint16)
}

// Hotkey binds a global shortcut to a menu command.
type Hotkey struct {
	Command uint16
	Binding hotkeys.Binding
}

// Arranger applies named layouts to the windows on the desktop.
type Arranger interface {
	Apply(layout string) error
	// Undo restores the window positions from before the last Apply.
	Undo() error
	Layouts() []string
	Default() string
}

// Options configures the controllers.
type Options struct {
	Toolkit  Toolkit
	Arranger Arranger
	// Reload re-reads the configuration. Nil disables reloading.
	Reload func() error
	// Hotkeys are registered on the root window. A shortcut another
	// program already owns is skipped.
	Hotkeys []Hotkey

	PanelSize popup.Size
	RowHeight int32
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PanelSize.Width <= 0 {
		o.PanelSize.Width = DefaultPanelWidth
	}
	if o.PanelSize.Height <= 0 {
		o.PanelSize.Height = DefaultPanelHeight
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
