package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Client is a managed top-level window.
type Client struct {
	ID     uint32
	PID    int
	Class  string
	Title  string
	X      int
	Y      int
	Width  int
	Height int
}

// ClientWindows lists the normal, visible windows of the current desktop in
// _NET_CLIENT_LIST order.
func (c *Connection) ClientWindows() ([]Client, error) {
	ids, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}
	current, desktopErr := ewmh.CurrentDesktopGet(c.XUtil)

	clients := make([]Client, 0, len(ids))
	for _, win := range ids {
		if !c.IsNormalWindow(win) || c.hiddenOrFullscreen(win) {
			continue
		}
		if desktopErr == nil {
			// 0xFFFFFFFF marks windows shown on every desktop.
			if d, err := ewmh.WmDesktopGet(c.XUtil, win); err == nil && d != 0xFFFFFFFF && d != current {
				continue
			}
		}
		g, ok := c.geometry(win)
		if !ok {
			continue
		}
		g.ID = uint32(win)
		g.Class = c.windowClass(win)
		g.Title = c.windowTitle(win)
		if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
			g.PID = int(pid)
		}
		clients = append(clients, g)
	}
	return clients, nil
}

// ActiveWindow returns the focused window.
func (c *Connection) ActiveWindow() (uint32, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	return uint32(win), err
}

// MoveResizeWindow moves and resizes a window, clearing any maximized state
// first so the window manager honours the request.
func (c *Connection) MoveResizeWindow(id uint32, x, y, width, height int) error {
	win := xproto.Window(id)
	c.unmaximize(win)
	if err := ewmh.MoveresizeWindow(c.XUtil, win, x, y, width, height); err != nil {
		xwindow.New(c.XUtil, win).MoveResize(x, y, width, height)
	}
	return nil
}

func (c *Connection) unmaximize(win xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_MAXIMIZED_HORZ" || s == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(c.XUtil, win, ewmh.StateRemove, s)
		}
	}
}

// IsNormalWindow reports whether win is an ordinary application window.
// Windows without a type are treated as normal.
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) hiddenOrFullscreen(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" || s == "_NET_WM_STATE_FULLSCREEN" {
			return true
		}
	}
	return false
}

// geometry returns the root-relative position and size of win.
func (c *Connection) geometry(win xproto.Window) (Client, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Client{}, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Client{}, false
	}
	return Client{
		X:      int(tr.DstX),
		Y:      int(tr.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func (c *Connection) windowClass(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func hasType(c *Connection, win xproto.Window, want string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
