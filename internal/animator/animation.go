// Package animator reveals output a few characters at a time within a fixed
// overall duration, and serialises batches of work behind the animation.
package animator

import (
	"time"
)

// Timing bounds the reveal speed.
type Timing struct {
	// Target is the longest a reveal may take, whatever the text length.
	Target time.Duration
	// MinTick and MaxTick clamp the delay between reveals.
	MinTick time.Duration
	MaxTick time.Duration
	// CharsDivisor caps the number of ticks: each tick reveals
	// ceil(total/CharsDivisor) characters.
	CharsDivisor int
}

// DefaultTiming returns the stock pacing.
func DefaultTiming() Timing {
	return Timing{
		Target:       1200 * time.Millisecond,
		MinTick:      2 * time.Millisecond,
		MaxTick:      8 * time.Millisecond,
		CharsDivisor: 333,
	}
}

// Item is one line to reveal.
type Item struct {
	Text string
	// Instant items appear whole as soon as they are reached.
	Instant bool
}

// Animation is a poll-driven reveal of a sequence of items. Step performs
// one tick; Advance runs every tick due by a point on a caller-supplied
// clock.
type Animation struct {
	items    []Item
	runes    [][]rune
	revealed []int
	idx      int

	perTick int
	delay   time.Duration

	ticks int
	due   time.Duration
	done  bool
}

// New plans the animation of items. Character counts are in runes and only
// non-instant items count towards pacing.
func New(items []Item, timing Timing) *Animation {
	a := &Animation{
		items:    items,
		runes:    make([][]rune, len(items)),
		revealed: make([]int, len(items)),
	}
	total := 0
	for i, it := range items {
		a.runes[i] = []rune(it.Text)
		if !it.Instant {
			total += len(a.runes[i])
		}
	}
	a.perTick, a.delay = pace(total, timing)
	return a
}

func pace(total int, t Timing) (int, time.Duration) {
	divisor := t.CharsDivisor
	if divisor <= 0 {
		divisor = 1
	}
	perTick := (total + divisor - 1) / divisor
	if perTick < 1 {
		perTick = 1
	}
	if total == 0 {
		return perTick, t.MinTick
	}
	delay := t.Target / time.Duration(total)
	// Whole milliseconds, as the reveal ticks on a millisecond timer.
	delay = delay.Truncate(time.Millisecond)
	if delay > t.MaxTick {
		delay = t.MaxTick
	}
	if delay < t.MinTick {
		delay = t.MinTick
	}
	return perTick, delay
}

// Delay is the pause between ticks.
func (a *Animation) Delay() time.Duration { return a.delay }

// CharsPerTick is how many characters one tick reveals.
func (a *Animation) CharsPerTick() int { return a.perTick }

// Ticks counts the steps taken so far.
func (a *Animation) Ticks() int { return a.ticks }

// Done reports whether every item is fully revealed.
func (a *Animation) Done() bool { return a.done }

// Len is the number of items.
func (a *Animation) Len() int { return len(a.items) }

// Started is the number of items that have begun to appear.
func (a *Animation) Started() int {
	if a.done {
		return len(a.items)
	}
	if a.idx < len(a.items) && a.revealed[a.idx] > 0 {
		return a.idx + 1
	}
	return a.idx
}

// Text returns the currently visible part of item i.
func (a *Animation) Text(i int) string {
	return string(a.runes[i][:a.revealed[i]])
}

// Complete reports whether item i is fully visible.
func (a *Animation) Complete(i int) bool {
	return a.done || i < a.idx
}

// Step performs one tick: items that appear whole are flushed, then up to
// CharsPerTick characters are revealed, crossing item boundaries. It returns
// the delay before the next tick, or done.
func (a *Animation) Step() (delay time.Duration, done bool) {
	if a.done {
		return 0, true
	}
	a.ticks++
	budget := a.perTick
	for a.idx < len(a.items) {
		it := a.items[a.idx]
		full := len(a.runes[a.idx])
		if it.Instant || full == 0 {
			a.revealed[a.idx] = full
			a.idx++
			continue
		}
		if budget == 0 {
			break
		}
		n := full - a.revealed[a.idx]
		if n > budget {
			n = budget
		}
		a.revealed[a.idx] += n
		budget -= n
		if a.revealed[a.idx] == full {
			a.idx++
		}
	}
	if a.idx >= len(a.items) {
		a.done = true
		return 0, true
	}
	return a.delay, false
}

// Advance runs every tick due by elapsed, measured from the start of the
// animation; the first tick is due at zero. It reports whether the
// animation has finished.
func (a *Animation) Advance(elapsed time.Duration) bool {
	for !a.done && a.due <= elapsed {
		delay, done := a.Step()
		if done {
			break
		}
		a.due += delay
	}
	return a.done
}

// FinishedAt is the clock reading of the final tick once done.
func (a *Animation) FinishedAt() time.Duration { return a.due }
