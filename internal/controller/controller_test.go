package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/rectangular/internal/winmsg"
)

type stub struct {
	created int
	drops   int
}

func (s *stub) HandleCreate(CreateContext, winmsg.Handle, winmsg.Message) winmsg.Result {
	s.created++
	return winmsg.Handled
}

func (s *stub) HandleMessage(winmsg.Handle, winmsg.Message) (winmsg.Result, bool) {
	return winmsg.Handled, true
}

func (s *stub) Drop() { s.drops++ }

func TestCloneAndReleaseCountReferences(t *testing.T) {
	v := &stub{}
	s := New(v)
	require.Equal(t, 1, s.Refs())

	c := s.Clone()
	d := s.Dyn()
	assert.Equal(t, 3, s.Refs())
	assert.True(t, Same(s, c))
	assert.True(t, Same(s, d))

	c.Release()
	d.Release()
	assert.Equal(t, 1, s.Refs())
	assert.Zero(t, v.drops)

	s.Release()
	assert.Equal(t, 0, s.Refs())
	assert.Equal(t, 1, v.drops)
}

func TestReleaseTwicePanics(t *testing.T) {
	s := New(&stub{})
	c := s.Clone()
	c.Release()
	assert.PanicsWithError(t, ErrReleased.Error(), func() { c.Release() })
	assert.Equal(t, 1, s.Refs())
}

func TestUseAfterReleasePanics(t *testing.T) {
	s := New(&stub{})
	s.Release()
	assert.Panics(t, func() { s.Borrow() })
	assert.Panics(t, func() { s.Clone() })
}

func TestNestedSharedBorrowsAreAllowed(t *testing.T) {
	s := New(&stub{})
	a, endA := s.Borrow()
	b, endB := s.Dyn().Borrow()
	assert.Same(t, a, b.(*stub))
	endB()
	endA()

	_, endMut := s.BorrowMut()
	endMut()
}

func TestConflictingBorrowPanics(t *testing.T) {
	s := New(&stub{})
	_, end := s.BorrowMut()

	assert.Panics(t, func() { s.Borrow() })
	assert.Panics(t, func() { s.BorrowMut() })
	end()
	end()

	_, endRead := s.Borrow()
	defer endRead()
	assert.Panics(t, func() { s.BorrowMut() })
}

func TestSameDistinguishesCells(t *testing.T) {
	a := New(&stub{})
	b := New(&stub{})
	assert.False(t, Same(a, b))
	assert.False(t, Same[*stub, *stub](a, nil))
}
