//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/rectangular/internal/app"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

type menuItem struct {
	id    uint16
	label string
}

// A zero id is a separator.
var contextMenuItems = []menuItem{
	{app.MenuTileDefault, "Tile now"},
	{app.MenuUndo, "Undo tiling"},
	{app.MenuReloadConfig, "Reload configuration"},
	{},
	{app.MenuExit, "Exit"},
}

type contextMenu struct {
	owner win.HWND
	menu  win.HMENU
}

func newContextMenu(owner winmsg.Handle) (*contextMenu, error) {
	h := win.CreatePopupMenu()
	if h == 0 {
		return nil, fmt.Errorf("CreatePopupMenu: %w", windows.GetLastError())
	}
	m := &contextMenu{owner: win.HWND(owner), menu: h}
	for i, item := range contextMenuItems {
		if err := m.insert(uint32(i), item); err != nil {
			win.DestroyMenu(h)
			return nil, err
		}
	}
	return m, nil
}

func (m *contextMenu) insert(pos uint32, item menuItem) error {
	mii := win.MENUITEMINFO{FMask: win.MIIM_FTYPE}
	mii.CbSize = uint32(unsafe.Sizeof(mii))
	if item.id == 0 {
		mii.FType = win.MFT_SEPARATOR
	} else {
		label, err := windows.UTF16PtrFromString(item.label)
		if err != nil {
			return err
		}
		mii.FMask |= win.MIIM_ID | win.MIIM_STRING
		mii.FType = win.MFT_STRING
		mii.WID = uint32(item.id)
		mii.DwTypeData = label
		mii.Cch = uint32(len(item.label))
	}
	if !win.InsertMenuItem(m.menu, pos, true, &mii) {
		return fmt.Errorf("InsertMenuItem %q: %w", item.label, windows.GetLastError())
	}
	return nil
}

// Show opens the menu with its bottom-left corner at pt. The owner must be
// the foreground window or the menu will not close when the user clicks
// elsewhere; the trailing WM_NULL makes the next click dismiss it.
func (m *contextMenu) Show(pt winmsg.Point) {
	win.SetForegroundWindow(m.owner)
	win.TrackPopupMenu(m.menu, win.TPM_LEFTALIGN|win.TPM_BOTTOMALIGN|win.TPM_RIGHTBUTTON, pt.X, pt.Y, 0, m.owner, nil)
	win.PostMessage(m.owner, win.WM_NULL, 0, 0)
}

func (m *contextMenu) Destroy() {
	if m.menu != 0 {
		win.DestroyMenu(m.menu)
		m.menu = 0
	}
}
