// Package bridge moves controller ownership across the host callback
// boundary.
//
// The host offers a single pointer-sized slot per window and calls back into
// a plain function, so Go values cannot travel through it directly. Wrap
// parks an independent strong reference in a table and returns the opaque
// token identifying it; Unwrap removes the entry and hands the reference
// back as an owned value. Only tokens are ever stored in host memory.
package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// ErrUnknownToken is the panic value for unwrapping a token that was never
// issued or was already reclaimed.
var ErrUnknownToken = errors.New("unknown binding token")

// Token identifies one wrapped controller reference. The zero Token is never
// issued and stands for an unbound slot.
type Token uintptr

var (
	mu      sync.Mutex
	entries = make(map[Token]*controller.Shared[controller.Controller])
	nextID  Token = 1
)

// Wrap stores a new strong reference to s and returns its token. s remains
// valid and keeps its own reference.
func Wrap[T controller.Controller](s *controller.Shared[T]) Token {
	ref := s.Dyn()

	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	entries[id] = ref
	return id
}

// Unwrap reclaims the reference stored under t. The caller owns the result
// and must Release it. Each token can be unwrapped once; a second call
// panics with ErrUnknownToken.
func Unwrap(t Token) *controller.Shared[controller.Controller] {
	mu.Lock()
	defer mu.Unlock()
	ref, ok := entries[t]
	if !ok {
		panic(fmt.Errorf("%w: %#x", ErrUnknownToken, uintptr(t)))
	}
	delete(entries, t)
	return ref
}

// Lookup returns the reference stored under t without reclaiming it. The
// table keeps ownership: callers borrow through the result but never Release
// it.
func Lookup(t Token) (*controller.Shared[controller.Controller], bool) {
	mu.Lock()
	defer mu.Unlock()
	ref, ok := entries[t]
	return ref, ok
}

// Create wraps s and passes the token to create, which must hand it to the
// host as the creation parameter of a new window. When create fails before
// the window took ownership of the token, the token is reclaimed here so the
// table does not keep the reference alive.
func Create[T controller.Controller](s *controller.Shared[T], create func(Token) (winmsg.Handle, error)) (winmsg.Handle, error) {
	tok := Wrap(s)
	h, err := create(tok)
	if err != nil {
		if _, ok := Lookup(tok); ok {
			Unwrap(tok).Release()
		}
		return 0, err
	}
	return h, nil
}

// Live returns the number of tokens issued and not yet unwrapped.
func Live() int {
	mu.Lock()
	defer mu.Unlock()
	return len(entries)
}
