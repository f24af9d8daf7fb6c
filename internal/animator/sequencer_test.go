package animator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerRunsWhenIdle(t *testing.T) {
	var s Sequencer[string]
	assert.False(t, s.Busy())
	assert.True(t, s.EnqueueOrRun("ls"))
	assert.Zero(t, s.Pending())
}

func TestSequencerQueuesInOrder(t *testing.T) {
	var s Sequencer[string]
	tok := s.Acquire()
	assert.True(t, s.Valid(tok))

	assert.False(t, s.EnqueueOrRun("a"))
	assert.False(t, s.EnqueueOrRun("b"))
	assert.Equal(t, 2, s.Pending())

	next, ok := s.Release()
	assert.True(t, ok)
	assert.Equal(t, "a", next)
	assert.False(t, s.Valid(tok), "released tokens go stale")

	s.Acquire()
	next, ok = s.Release()
	assert.True(t, ok)
	assert.Equal(t, "b", next)

	_, ok = s.Release()
	assert.False(t, ok)
}

func TestSequencerInterrupt(t *testing.T) {
	var s Sequencer[int]
	assert.False(t, s.Interrupt())

	tok := s.Acquire()
	s.EnqueueOrRun(1)
	s.EnqueueOrRun(2)
	assert.True(t, s.Interrupt())
	assert.False(t, s.Busy())
	assert.False(t, s.Valid(tok))
	assert.Zero(t, s.Pending())

	_, ok := s.Next()
	assert.False(t, ok)
}

func TestSequencerPushFront(t *testing.T) {
	var s Sequencer[string]
	s.Acquire()
	s.EnqueueOrRun("later")
	s.PushFront("first", "second")
	assert.Equal(t, 3, s.Pending())

	var got []string
	for next, ok := s.Release(); ok; next, ok = s.Next() {
		got = append(got, next)
	}
	assert.Equal(t, []string{"first", "second", "later"}, got)
}
