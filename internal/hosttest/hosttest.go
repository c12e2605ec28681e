// Package hosttest provides an in-memory host windowing system for tests.
//
// It mirrors the parts of the Win32 contract the router relies on: messages
// arrive synchronously through one procedure, windows see a non-client
// creation message before the creation message, DestroyWindow sends the
// destroy and non-client destroy messages before returning, and posted
// messages wait in a queue until Pump runs.
package hosttest

import (
	"errors"
	"fmt"

	"github.com/1broseidon/rectangular/internal/winmsg"
)

// ErrCreateRefused is returned by CreateWindow when the creation message
// returned winmsg.CreateFailed.
var ErrCreateRefused = errors.New("window creation refused")

// Proc is the window procedure the host calls for every message.
type Proc func(h winmsg.Handle, m winmsg.Message) winmsg.Result

// Window is the host-side state of one window.
type Window struct {
	Handle    winmsg.Handle
	Name      string
	Slot      uintptr
	Destroyed bool
	// Defaulted lists messages that reached the default procedure.
	Defaulted []winmsg.Message
	// Painted counts default fills.
	Painted int
	// DestroyRequests counts calls to Destroy for this window.
	DestroyRequests int
}

// Host is a single-threaded simulated windowing system.
type Host struct {
	Instance uintptr

	proc     Proc
	windows  map[winmsg.Handle]*Window
	next     winmsg.Handle
	payloads map[uintptr]winmsg.CreateParams
	queue    []posted
	quit     bool
	quitCode int
}

type posted struct {
	h winmsg.Handle
	m winmsg.Message
}

// New creates an empty host. SetProc must be called before creating windows.
func New() *Host {
	return &Host{
		Instance: 0x400000,
		windows:  make(map[winmsg.Handle]*Window),
		next:     0x1000,
		payloads: make(map[uintptr]winmsg.CreateParams),
	}
}

// SetProc registers the window procedure.
func (h *Host) SetProc(p Proc) {
	h.proc = p
}

// CreateWindow creates a window whose creation payload carries token and
// returns once the creation message has been processed.
func (h *Host) CreateWindow(name string, token uintptr) (winmsg.Handle, error) {
	h.next += 0x10
	hwnd := h.next
	h.windows[hwnd] = &Window{Handle: hwnd, Name: name}

	key := uintptr(len(h.payloads) + 1)
	h.payloads[key] = winmsg.CreateParams{Instance: h.Instance, Token: token}

	h.Send(hwnd, winmsg.Message{Code: winmsg.NCCreate, LParam: key})
	if res := h.Send(hwnd, winmsg.Message{Code: winmsg.Create, LParam: key}); res == winmsg.CreateFailed {
		h.Destroy(hwnd)
		return 0, fmt.Errorf("%w: %s", ErrCreateRefused, name)
	}
	return hwnd, nil
}

// Send delivers m to hwnd synchronously.
func (h *Host) Send(hwnd winmsg.Handle, m winmsg.Message) winmsg.Result {
	if _, ok := h.windows[hwnd]; !ok {
		panic(fmt.Sprintf("hosttest: message %#x for unknown window %#x", m.Code, uintptr(hwnd)))
	}
	return h.proc(hwnd, m)
}

// Post queues m for hwnd.
func (h *Host) Post(hwnd winmsg.Handle, m winmsg.Message) {
	h.queue = append(h.queue, posted{h: hwnd, m: m})
}

// PostQuit ends Pump after the current message.
func (h *Host) PostQuit(code int) {
	h.quit = true
	h.quitCode = code
}

// Quit reports whether PostQuit was called and with which code.
func (h *Host) Quit() (bool, int) {
	return h.quit, h.quitCode
}

// Pump delivers queued messages in order until the queue is empty or a quit
// was posted. Messages posted while pumping are delivered in the same run.
// It returns the number of messages delivered.
func (h *Host) Pump() int {
	n := 0
	for len(h.queue) > 0 && !h.quit {
		p := h.queue[0]
		h.queue = h.queue[1:]
		h.Send(p.h, p.m)
		n++
	}
	return n
}

// Pending returns the number of queued messages.
func (h *Host) Pending() int {
	return len(h.queue)
}

// Window returns the state of hwnd.
func (h *Host) Window(hwnd winmsg.Handle) *Window {
	return h.windows[hwnd]
}

// Windows returns every window ever created, destroyed or not.
func (h *Host) Windows() []*Window {
	out := make([]*Window, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	return out
}

// Slot implements router.Host.
func (h *Host) Slot(hwnd winmsg.Handle) uintptr {
	return h.mustWindow(hwnd).Slot
}

// SetSlot implements router.Host.
func (h *Host) SetSlot(hwnd winmsg.Handle, v uintptr) {
	h.mustWindow(hwnd).Slot = v
}

// CreateParams implements router.Host.
func (h *Host) CreateParams(m winmsg.Message) winmsg.CreateParams {
	return h.payloads[m.LParam]
}

// DefaultProc implements router.Host.
func (h *Host) DefaultProc(hwnd winmsg.Handle, m winmsg.Message) winmsg.Result {
	w := h.mustWindow(hwnd)
	w.Defaulted = append(w.Defaulted, m)
	return winmsg.Handled
}

// PaintDefault implements router.Host.
func (h *Host) PaintDefault(hwnd winmsg.Handle) {
	h.mustWindow(hwnd).Painted++
}

// Destroy implements router.Host. Like DestroyWindow it sends the destroy
// and non-client destroy messages before returning. Destroying a destroyed
// window is a no-op.
func (h *Host) Destroy(hwnd winmsg.Handle) {
	w := h.mustWindow(hwnd)
	w.DestroyRequests++
	if w.Destroyed {
		return
	}
	w.Destroyed = true
	h.proc(hwnd, winmsg.Message{Code: winmsg.Destroy})
	h.proc(hwnd, winmsg.Message{Code: winmsg.NCDestroy})
}

func (h *Host) mustWindow(hwnd winmsg.Handle) *Window {
	w, ok := h.windows[hwnd]
	if !ok {
		panic(fmt.Sprintf("hosttest: unknown window %#x", uintptr(hwnd)))
	}
	return w
}
