// Package router implements the single window procedure registered with the
// host windowing system. It binds binding tokens to window handles and
// dispatches every message to the controller owning the window.
package router

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/rectangular/internal/bridge"
	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// Host is what the router needs from the windowing system.
type Host interface {
	// Slot reads the binding slot of h; 0 means unbound.
	Slot(h winmsg.Handle) uintptr
	// SetSlot writes the binding slot of h.
	SetSlot(h winmsg.Handle, v uintptr)
	// CreateParams decodes the payload of a creation message.
	CreateParams(m winmsg.Message) winmsg.CreateParams
	// DefaultProc runs the host default handling for m.
	DefaultProc(h winmsg.Handle, m winmsg.Message) winmsg.Result
	// PaintDefault validates the dirty region of h with a plain fill.
	PaintDefault(h winmsg.Handle)
	// Destroy starts destruction of h.
	Destroy(h winmsg.Handle)
}

// Stats counts what the router did since it was created.
type Stats struct {
	Dispatched int
	Defaulted  int
	Bound      int
	Reclaimed  int
}

// Router routes host messages to controllers.
type Router struct {
	host  Host
	log   *slog.Logger
	stats Stats
}

// New creates a router delivering through host.
func New(host Host, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{host: host, log: logger}
}

// Stats returns a snapshot of the dispatch counters.
func (r *Router) Stats() Stats {
	return r.stats
}

// Dispatch processes one message for h and returns the result for the host.
//
// A window is unbound until its creation message has stored a token in the
// slot; messages for unbound windows, including stray ones after
// destruction, always go to the host default handling.
func (r *Router) Dispatch(h winmsg.Handle, m winmsg.Message) winmsg.Result {
	r.stats.Dispatched++

	switch m.Code {
	case winmsg.Create:
		return r.create(h, m)
	case winmsg.Close:
		r.host.Destroy(h)
		return winmsg.Handled
	case winmsg.NCDestroy:
		return r.destroy(h, m)
	case winmsg.Paint:
		if res, ok := r.deliver(h, m); ok {
			return res
		}
		r.host.PaintDefault(h)
		return winmsg.Handled
	}

	if res, ok := r.deliver(h, m); ok {
		return res
	}
	return r.defaultProc(h, m)
}

func (r *Router) create(h winmsg.Handle, m winmsg.Message) winmsg.Result {
	params := r.host.CreateParams(m)
	tok := bridge.Token(params.Token)
	if tok == 0 {
		r.log.Warn("window created without a binding token", "hwnd", fmt.Sprintf("%#x", uintptr(h)))
		return r.defaultProc(h, m)
	}
	if cur := r.host.Slot(h); cur != 0 {
		panic(fmt.Sprintf("router: window %#x already bound to token %#x", uintptr(h), cur))
	}

	ref, ok := bridge.Lookup(tok)
	if !ok {
		panic(fmt.Errorf("router: create for window %#x: %w: %#x", uintptr(h), bridge.ErrUnknownToken, uintptr(tok)))
	}

	r.host.SetSlot(h, uintptr(tok))
	r.stats.Bound++
	r.log.Debug("window bound", "hwnd", fmt.Sprintf("%#x", uintptr(h)), "token", uintptr(tok))

	c, end := ref.BorrowMut()
	defer end()
	return c.HandleCreate(controller.CreateContext{Instance: params.Instance}, h, m)
}

func (r *Router) destroy(h winmsg.Handle, m winmsg.Message) winmsg.Result {
	tok := bridge.Token(r.host.Slot(h))
	if tok == 0 {
		return r.defaultProc(h, m)
	}
	r.host.SetSlot(h, 0)

	ref := bridge.Unwrap(tok)
	r.stats.Reclaimed++
	r.log.Debug("window released", "hwnd", fmt.Sprintf("%#x", uintptr(h)), "token", uintptr(tok))
	defer ref.Release()

	c, end := ref.Borrow()
	defer end()
	if res, ok := c.HandleMessage(h, m); ok {
		return res
	}
	return r.defaultProc(h, m)
}

// deliver hands m to the controller bound to h. It reports false when the
// window is unbound or the controller declined the message.
func (r *Router) deliver(h winmsg.Handle, m winmsg.Message) (winmsg.Result, bool) {
	tok := bridge.Token(r.host.Slot(h))
	if tok == 0 {
		return 0, false
	}
	ref, ok := bridge.Lookup(tok)
	if !ok {
		panic(fmt.Errorf("router: message %#x for window %#x: %w: %#x", m.Code, uintptr(h), bridge.ErrUnknownToken, uintptr(tok)))
	}

	c, end := ref.Borrow()
	defer end()
	return c.HandleMessage(h, m)
}

func (r *Router) defaultProc(h winmsg.Handle, m winmsg.Message) winmsg.Result {
	r.stats.Defaulted++
	return r.host.DefaultProc(h, m)
}
