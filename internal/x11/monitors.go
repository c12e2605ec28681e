package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is a physical display or, from WorkArea, its usable part.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return monitors, nil
}

// ActiveMonitor returns the monitor holding the centre of the focused
// window, else the one under the pointer, else the first.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}

	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		if g, ok := c.geometry(win); ok {
			if m, ok := monitorAt(monitors, g.X+g.Width/2, g.Y+g.Height/2); ok {
				return m, nil
			}
		}
	}
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if m, ok := monitorAt(monitors, int(p.RootX), int(p.RootY)); ok {
			return m, nil
		}
	}
	return monitors[0], nil
}

// WorkArea returns m reduced by the struts of dock windows overlapping it.
func (c *Connection) WorkArea(m Monitor) Monitor {
	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return m
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return m
	}

	var struts []Strut
	for _, win := range clients {
		if !hasType(c, win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, strutFromPartial(sp))
			continue
		}
		// Some docks only set _NET_WM_STRUT, which spans the whole edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, Strut{
				Left: int(s.Left), Right: int(s.Right), Top: int(s.Top), Bottom: int(s.Bottom),
				LeftEnd: int(root.Height) - 1, RightEnd: int(root.Height) - 1,
				TopEnd: int(root.Width) - 1, BottomEnd: int(root.Width) - 1,
			})
		}
	}
	return ApplyStruts(m, int(root.Width), int(root.Height), struts)
}

// Strut is the space a dock reserves along each screen edge, with the
// inclusive range of the edge it covers.
type Strut struct {
	Left, Right, Top, Bottom int

	LeftStart, LeftEnd     int
	RightStart, RightEnd   int
	TopStart, TopEnd       int
	BottomStart, BottomEnd int
}

func strutFromPartial(sp *ewmh.WmStrutPartial) Strut {
	return Strut{
		Left: int(sp.Left), Right: int(sp.Right), Top: int(sp.Top), Bottom: int(sp.Bottom),
		LeftStart: int(sp.LeftStartY), LeftEnd: int(sp.LeftEndY),
		RightStart: int(sp.RightStartY), RightEnd: int(sp.RightEndY),
		TopStart: int(sp.TopStartX), TopEnd: int(sp.TopEndX),
		BottomStart: int(sp.BottomStartX), BottomEnd: int(sp.BottomEndX),
	}
}

// ApplyStruts shrinks m by the largest overlap of struts with each of its
// edges. Struts are expressed against the root window of the given size.
func ApplyStruts(m Monitor, rootWidth, rootHeight int, struts []Strut) Monitor {
	x1, y1 := m.X, m.Y
	x2, y2 := m.X+m.Width, m.Y+m.Height

	var left, right, top, bottom int
	for _, s := range struts {
		if s.Top > 0 {
			if _, h := overlap(x1, y1, x2, y2, s.TopStart, 0, s.TopEnd+1, s.Top); h > top {
				top = h
			}
		}
		if s.Bottom > 0 {
			if _, h := overlap(x1, y1, x2, y2, s.BottomStart, rootHeight-s.Bottom, s.BottomEnd+1, rootHeight); h > bottom {
				bottom = h
			}
		}
		if s.Left > 0 {
			if w, _ := overlap(x1, y1, x2, y2, 0, s.LeftStart, s.Left, s.LeftEnd+1); w > left {
				left = w
			}
		}
		if s.Right > 0 {
			if w, _ := overlap(x1, y1, x2, y2, rootWidth-s.Right, s.RightStart, rootWidth, s.RightEnd+1); w > right {
				right = w
			}
		}
	}

	m.X += left
	m.Y += top
	m.Width = max(m.Width-left-right, 1)
	m.Height = max(m.Height-top-bottom, 1)
	return m
}

// overlap returns the size of the intersection of two rectangles given by
// their corners, or zero when they do not intersect.
func overlap(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (int, int) {
	x1, y1 := max(ax1, bx1), max(ay1, by1)
	x2, y2 := min(ax2, bx2), min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return 0, 0
	}
	return x2 - x1, y2 - y1
}

func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		if m.contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}
