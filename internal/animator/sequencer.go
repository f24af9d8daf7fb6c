package animator

// Sequencer is the exclusivity lock for animated output plus the FIFO of
// work deferred while it is held. Each acquisition gets a token; ticks
// carrying a stale token are ignored, which is what makes Interrupt
// immediate.
type Sequencer[T any] struct {
	busy  bool
	gen   uint64
	queue []T
}

// Busy reports whether the lock is held.
func (s *Sequencer[T]) Busy() bool { return s.busy }

// Pending is the number of queued jobs.
func (s *Sequencer[T]) Pending() int { return len(s.queue) }

// Acquire takes the lock and returns its token.
func (s *Sequencer[T]) Acquire() uint64 {
	s.busy = true
	s.gen++
	return s.gen
}

// Valid reports whether token belongs to the current holder.
func (s *Sequencer[T]) Valid(token uint64) bool {
	return s.busy && token == s.gen
}

// EnqueueOrRun queues job while the lock is held and reports false; when
// idle it reports true and the caller runs job itself.
func (s *Sequencer[T]) EnqueueOrRun(job T) bool {
	if s.busy {
		s.queue = append(s.queue, job)
		return false
	}
	return true
}

// PushFront queues jobs ahead of everything already waiting, keeping their
// relative order.
func (s *Sequencer[T]) PushFront(jobs ...T) {
	s.queue = append(append(make([]T, 0, len(jobs)+len(s.queue)), jobs...), s.queue...)
}

// Release drops the lock and pops the next queued job, if any.
func (s *Sequencer[T]) Release() (next T, ok bool) {
	s.busy = false
	s.gen++
	return s.Next()
}

// Next pops the head of the queue without touching the lock.
func (s *Sequencer[T]) Next() (next T, ok bool) {
	if len(s.queue) == 0 {
		return next, false
	}
	next = s.queue[0]
	var zero T
	s.queue[0] = zero
	s.queue = s.queue[1:]
	return next, true
}

// Interrupt voids the holder and every queued job. It reports whether
// anything was running.
func (s *Sequencer[T]) Interrupt() bool {
	if !s.busy {
		return false
	}
	s.busy = false
	s.gen++
	s.queue = nil
	return true
}
