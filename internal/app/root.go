package app

import (
	"fmt"
	"slices"

	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// Root is the controller of the hidden main window. It owns the
// notification icon, the context menu and a reference to the popup.
type Root struct {
	opts Options

	handle      winmsg.Handle
	icon        Icon
	menu        Menu
	popup       *controller.Shared[*Popup]
	popupHandle winmsg.Handle
	hotkeys     []uint16
}

// NewRoot returns an unbound root controller.
func NewRoot(opts Options) *Root {
	return &Root{opts: opts.withDefaults()}
}

// Handle returns the window handle recorded at creation.
func (r *Root) Handle() winmsg.Handle { return r.handle }

// Popup returns the popup reference owned by r, or nil before creation.
// Callers must not Release it.
func (r *Root) Popup() *controller.Shared[*Popup] { return r.popup }

// HandleCreate builds the icon, the menu and the hidden popup. Any failure
// refuses the window.
func (r *Root) HandleCreate(ctx controller.CreateContext, h winmsg.Handle, _ winmsg.Message) winmsg.Result {
	r.handle = h
	if err := r.build(ctx.Instance); err != nil {
		r.opts.Logger.Error("root window setup failed", "error", err)
		return winmsg.CreateFailed
	}
	r.opts.Logger.Info("tray ready", "hwnd", fmt.Sprintf("%#x", uintptr(h)), "popup", fmt.Sprintf("%#x", uintptr(r.popupHandle)))
	return winmsg.Handled
}

func (r *Root) build(instance uintptr) error {
	tk := r.opts.Toolkit

	icon, err := tk.RegisterIcon(r.handle, instance)
	if err != nil {
		return fmt.Errorf("register tray icon: %w", err)
	}
	r.icon = icon

	menu, err := tk.NewMenu(r.handle)
	if err != nil {
		return fmt.Errorf("create context menu: %w", err)
	}
	r.menu = menu

	for _, hk := range r.opts.Hotkeys {
		if err := tk.RegisterHotkey(r.handle, hk.Command, hk.Binding); err != nil {
			r.opts.Logger.Warn("hotkey unavailable", "hotkey", hk.Binding.String(), "error", err)
			continue
		}
		r.hotkeys = append(r.hotkeys, hk.Command)
	}

	p := controller.New(NewPopup(r.opts))
	ph, err := tk.CreatePopup(instance, p)
	if err != nil {
		p.Release()
		return fmt.Errorf("create popup: %w", err)
	}
	r.popup = p
	r.popupHandle = ph
	return nil
}

// HandleMessage implements controller.Controller.
func (r *Root) HandleMessage(h winmsg.Handle, m winmsg.Message) (winmsg.Result, bool) {
	switch m.Code {
	case winmsg.TrayNotify:
		return r.trayNotify(m)
	case winmsg.Command:
		r.command(winmsg.LowWord(m.WParam))
		return winmsg.Handled, true
	case winmsg.Hotkey:
		id := uint16(m.WParam)
		if !slices.Contains(r.hotkeys, id) {
			return 0, false
		}
		r.command(id)
		return winmsg.Handled, true
	case winmsg.ConfigChanged:
		r.reload()
		return winmsg.Handled, true
	case winmsg.Destroy:
		if r.popupHandle != 0 {
			r.opts.Toolkit.DestroyWindow(r.popupHandle)
			r.popupHandle = 0
		}
		r.opts.Toolkit.PostQuit(0)
		return winmsg.Handled, true
	}

	if tc := r.opts.Toolkit.TaskbarCreated(); tc != 0 && m.Code == tc {
		r.reregister()
		return winmsg.Handled, true
	}
	return 0, false
}

func (r *Root) trayNotify(m winmsg.Message) (winmsg.Result, bool) {
	pt := winmsg.PointFromParam(m.WParam)
	switch uint32(winmsg.LowWord(m.LParam)) {
	case winmsg.ContextMenu:
		r.menu.Show(pt)
	// With NOTIFYICON_VERSION_4 a click arrives as WM_LBUTTONUP followed by
	// NIN_SELECT; only the latter opens the panel.
	case winmsg.NotifySelect, winmsg.NotifyKeySelect:
		p, end := r.popup.Borrow()
		defer end()
		p.Show(pt)
	default:
		return 0, false
	}
	return winmsg.Handled, true
}

func (r *Root) command(id uint16) {
	switch id {
	case MenuTileDefault:
		name := r.opts.Arranger.Default()
		if err := r.opts.Arranger.Apply(name); err != nil {
			r.opts.Logger.Warn("tiling failed", "layout", name, "error", err)
		}
	case MenuUndo:
		if err := r.opts.Arranger.Undo(); err != nil {
			r.opts.Logger.Warn("undo failed", "error", err)
		}
	case MenuReloadConfig:
		r.reload()
	default:
		if id != MenuExit {
			r.opts.Logger.Debug("unknown menu command, closing", "id", id)
		}
		r.opts.Toolkit.PostClose(r.handle)
	}
}

func (r *Root) reload() {
	if r.opts.Reload == nil {
		return
	}
	if err := r.opts.Reload(); err != nil {
		r.opts.Logger.Warn("config reload failed", "error", err)
		return
	}
	r.opts.Logger.Info("config reloaded")
	if r.popup == nil {
		return
	}

	p, end := r.popup.Borrow()
	defer end()
	p.refresh()
}

func (r *Root) reregister() {
	if err := r.icon.Reregister(); err != nil {
		r.opts.Logger.Error("re-adding tray icon failed", "error", err)
		return
	}
	r.opts.Logger.Info("tray icon re-added after taskbar restart")
}

// Drop removes the icon, destroys the menu, unregisters the hotkeys and
// releases the popup reference. Fields left nil by a failed creation are
// skipped.
func (r *Root) Drop() {
	if r.icon != nil {
		r.icon.Unregister()
		r.icon = nil
	}
	if r.menu != nil {
		r.menu.Destroy()
		r.menu = nil
	}
	for _, id := range r.hotkeys {
		r.opts.Toolkit.UnregisterHotkey(r.handle, id)
	}
	r.hotkeys = nil
	if r.popup != nil {
		r.popup.Release()
		r.popup = nil
	}
}
