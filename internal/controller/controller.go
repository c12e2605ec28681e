// Package controller defines the capability set every window-owning object
// implements and the reference-counted cell used to share controllers between
// the bootstrap code, sibling controllers and the message router.
package controller

import (
	"errors"
	"fmt"

	"github.com/1broseidon/rectangular/internal/winmsg"
)

var (
	// ErrAlreadyBorrowed reports a conflicting borrow of a shared controller.
	ErrAlreadyBorrowed = errors.New("controller already borrowed")
	// ErrReleased reports use of a reference after Release.
	ErrReleased = errors.New("controller reference already released")
)

// CreateContext carries what a controller needs to build child resources
// while its window is being created.
type CreateContext struct {
	// Instance is the host module instance that owns the window class.
	Instance uintptr
}

// Controller is implemented by every object that owns a host window.
type Controller interface {
	// HandleCreate is invoked exactly once, before any other method, while
	// the window is being created.
	HandleCreate(ctx CreateContext, h winmsg.Handle, m winmsg.Message) winmsg.Result

	// HandleMessage is invoked for every other message, including the
	// terminal destruction message. It reports false when the host default
	// handling should run instead.
	HandleMessage(h winmsg.Handle, m winmsg.Message) (winmsg.Result, bool)
}

// Dropper is implemented by controllers holding resources that must be torn
// down when the last reference goes away.
type Dropper interface {
	Drop()
}

type cell struct {
	value   Controller
	refs    int
	readers int
	writing bool
}

// Shared is a reference-counted handle to a controller with runtime-checked
// borrowing. Any number of shared borrows may be active at once; an exclusive
// borrow requires that no other borrow is active. Conflicts panic with
// ErrAlreadyBorrowed instead of letting two handlers mutate the same
// controller.
//
// Shared is owned by the event thread and is not safe for concurrent use.
type Shared[T Controller] struct {
	c        *cell
	released bool
}

// New wraps v in a cell holding one strong reference.
func New[T Controller](v T) *Shared[T] {
	return &Shared[T]{c: &cell{value: v, refs: 1}}
}

// Clone returns a new strong reference to the same controller.
func (s *Shared[T]) Clone() *Shared[T] {
	s.mustBeLive()
	s.c.refs++
	return &Shared[T]{c: s.c}
}

// Dyn returns a new strong reference to the same controller typed as the
// Controller interface.
func (s *Shared[T]) Dyn() *Shared[Controller] {
	s.mustBeLive()
	s.c.refs++
	return &Shared[Controller]{c: s.c}
}

// Refs returns the number of strong references to the controller.
func (s *Shared[T]) Refs() int {
	return s.c.refs
}

// Borrow returns the controller for shared use and the function ending the
// borrow. The end function is idempotent.
func (s *Shared[T]) Borrow() (T, func()) {
	s.mustBeLive()
	if s.c.writing {
		panic(fmt.Errorf("%w: shared borrow while exclusively borrowed", ErrAlreadyBorrowed))
	}
	s.c.readers++
	ended := false
	return s.c.value.(T), func() {
		if ended {
			return
		}
		ended = true
		s.c.readers--
	}
}

// BorrowMut returns the controller for exclusive use and the function ending
// the borrow. The end function is idempotent.
func (s *Shared[T]) BorrowMut() (T, func()) {
	s.mustBeLive()
	if s.c.writing || s.c.readers > 0 {
		panic(fmt.Errorf("%w: exclusive borrow while borrowed", ErrAlreadyBorrowed))
	}
	s.c.writing = true
	ended := false
	return s.c.value.(T), func() {
		if ended {
			return
		}
		ended = true
		s.c.writing = false
	}
}

// Release drops this reference. When it was the last one, the controller's
// Drop method runs if it implements Dropper. Releasing the same reference
// twice panics with ErrReleased.
func (s *Shared[T]) Release() {
	s.mustBeLive()
	s.released = true
	s.c.refs--
	if s.c.refs > 0 {
		return
	}
	if s.c.writing || s.c.readers > 0 {
		panic(fmt.Errorf("%w: last reference released during a borrow", ErrAlreadyBorrowed))
	}
	if d, ok := s.c.value.(Dropper); ok {
		d.Drop()
	}
}

func (s *Shared[T]) mustBeLive() {
	if s == nil || s.released {
		panic(ErrReleased)
	}
}

// Same reports whether a and b refer to the same controller cell.
func Same[A, B Controller](a *Shared[A], b *Shared[B]) bool {
	return a != nil && b != nil && a.c == b.c
}
