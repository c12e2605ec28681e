package app

import (
	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/popup"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// Popup is the controller of the layout panel. Its window lives as long as
// the root window; deactivation only hides it.
type Popup struct {
	opts Options

	handle   winmsg.Handle
	visible  bool
	selected int
}

// NewPopup returns an unbound popup controller.
func NewPopup(opts Options) *Popup {
	return &Popup{opts: opts.withDefaults()}
}

// Handle returns the window handle recorded at creation.
func (p *Popup) Handle() winmsg.Handle { return p.handle }

// Visible reports whether the panel is currently shown.
func (p *Popup) Visible() bool { return p.visible }

// Selected returns the index of the highlighted layout.
func (p *Popup) Selected() int { return p.selected }

// HandleCreate implements controller.Controller.
func (p *Popup) HandleCreate(_ controller.CreateContext, h winmsg.Handle, _ winmsg.Message) winmsg.Result {
	p.handle = h
	return winmsg.Handled
}

// HandleMessage implements controller.Controller.
func (p *Popup) HandleMessage(h winmsg.Handle, m winmsg.Message) (winmsg.Result, bool) {
	switch m.Code {
	case winmsg.Activate:
		if winmsg.LowWord(m.WParam) != winmsg.Inactive {
			return 0, false
		}
		p.Hide()
		return winmsg.Handled, true
	case winmsg.Paint:
		p.opts.Toolkit.PaintRows(h, p.Rows())
		return winmsg.Handled, true
	case winmsg.MouseMove:
		if i, ok := p.rowAt(winmsg.PointFromParam(m.LParam)); ok && i != p.selected {
			p.selected = i
			p.opts.Toolkit.Invalidate(h)
		}
		return winmsg.Handled, true
	case winmsg.LButtonUp:
		if i, ok := p.rowAt(winmsg.PointFromParam(m.LParam)); ok {
			p.apply(i)
		}
		return winmsg.Handled, true
	case winmsg.KeyDown:
		return p.key(h, m.WParam)
	}
	return 0, false
}

// Show positions the panel around cursor, inside the work area of the
// cursor's monitor, and shows it.
func (p *Popup) Show(cursor winmsg.Point) {
	tk := p.opts.Toolkit
	pos := popup.ComputePosition(cursor, p.opts.PanelSize, tk.WorkArea(cursor))
	p.selected = p.defaultIndex()
	p.visible = true
	tk.ShowAt(p.handle, pos, p.opts.PanelSize)
}

// Hide hides the panel. The window stays valid for the next Show.
func (p *Popup) Hide() {
	if !p.visible {
		return
	}
	p.visible = false
	p.opts.Toolkit.Hide(p.handle)
}

// Rows returns the panel contents, one row per layout.
func (p *Popup) Rows() []Row {
	names := p.opts.Arranger.Layouts()
	width := p.client().Width
	rows := make([]Row, len(names))
	for i, name := range names {
		top := int32(i) * p.opts.RowHeight
		rows[i] = Row{
			Label:    name,
			Selected: i == p.selected,
			Rect:     popup.Rect{Left: 0, Top: top, Right: width, Bottom: top + p.opts.RowHeight},
		}
	}
	return rows
}

func (p *Popup) key(h winmsg.Handle, vk uintptr) (winmsg.Result, bool) {
	n := len(p.opts.Arranger.Layouts())
	switch vk {
	case winmsg.VKUp:
		if p.selected > 0 {
			p.selected--
			p.opts.Toolkit.Invalidate(h)
		}
	case winmsg.VKDown:
		if p.selected < n-1 {
			p.selected++
			p.opts.Toolkit.Invalidate(h)
		}
	case winmsg.VKReturn:
		if p.selected >= 0 && p.selected < n {
			p.apply(p.selected)
		}
	case winmsg.VKEscape:
		p.Hide()
	default:
		return 0, false
	}
	return winmsg.Handled, true
}

// apply hides the panel first so it is not in the way of the arrangement.
func (p *Popup) apply(i int) {
	names := p.opts.Arranger.Layouts()
	if i < 0 || i >= len(names) {
		return
	}
	p.Hide()
	if err := p.opts.Arranger.Apply(names[i]); err != nil {
		p.opts.Logger.Warn("tiling failed", "layout", names[i], "error", err)
	}
}

func (p *Popup) rowAt(pt winmsg.Point) (int, bool) {
	if pt.X < 0 || pt.X >= p.client().Width || pt.Y < 0 {
		return 0, false
	}
	i := int(pt.Y / p.opts.RowHeight)
	if i >= len(p.opts.Arranger.Layouts()) {
		return 0, false
	}
	return i, true
}

// client is the drawable area of the panel. Before the window has a client
// area the configured panel size is used.
func (p *Popup) client() popup.Size {
	if s := p.opts.Toolkit.ClientSize(p.handle); s.Width > 0 && s.Height > 0 {
		return s
	}
	return p.opts.PanelSize
}

func (p *Popup) defaultIndex() int {
	def := p.opts.Arranger.Default()
	for i, name := range p.opts.Arranger.Layouts() {
		if name == def {
			return i
		}
	}
	return 0
}

// refresh redraws the panel after the layout list changed.
func (p *Popup) refresh() {
	if n := len(p.opts.Arranger.Layouts()); p.selected >= n {
		p.selected = 0
	}
	if p.visible {
		p.opts.Toolkit.Invalidate(p.handle)
	}
}
