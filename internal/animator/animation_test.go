package animator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPace(t *testing.T) {
	tests := []struct {
		total     int
		wantChars int
		wantDelay time.Duration
	}{
		{1, 1, 8 * time.Millisecond},
		{150, 1, 8 * time.Millisecond},
		{200, 1, 6 * time.Millisecond},
		{333, 1, 3 * time.Millisecond},
		{334, 2, 3 * time.Millisecond},
		{1000, 4, 2 * time.Millisecond},
		{100000, 301, 2 * time.Millisecond},
	}
	for _, tt := range tests {
		chars, delay := pace(tt.total, DefaultTiming())
		assert.Equal(t, tt.wantChars, chars, "total %d", tt.total)
		assert.Equal(t, tt.wantDelay, delay, "total %d", tt.total)
	}
}

func TestInstantAndEmptyItemsAppearAtOnce(t *testing.T) {
	a := New([]Item{
		{Text: "art", Instant: true},
		{Text: ""},
		{Text: "ab"},
	}, DefaultTiming())

	_, done := a.Step()
	require.False(t, done)
	assert.Equal(t, "art", a.Text(0))
	assert.True(t, a.Complete(0))
	assert.True(t, a.Complete(1))
	assert.Equal(t, "a", a.Text(2))
	assert.Equal(t, 3, a.Started())

	_, done = a.Step()
	assert.True(t, done)
	assert.Equal(t, "ab", a.Text(2))
}

func TestOnlyInstantItemsFinishInOneStep(t *testing.T) {
	a := New([]Item{{Text: "x", Instant: true}, {Text: ""}}, DefaultTiming())
	delay, done := a.Step()
	assert.True(t, done)
	assert.Zero(t, delay)
	assert.Equal(t, 1, a.Ticks())
}

func TestRevealCrossesItemBoundaries(t *testing.T) {
	timing := DefaultTiming()
	timing.CharsDivisor = 2
	a := New([]Item{{Text: "abc"}, {Text: "de"}}, timing) // 5 chars, 3 per tick

	a.Step()
	assert.Equal(t, "abc", a.Text(0))
	assert.Equal(t, "", a.Text(1))
	assert.Equal(t, 1, a.Started())

	_, done := a.Step()
	assert.True(t, done)
	assert.Equal(t, "de", a.Text(1))
}

func TestRevealCountsRunes(t *testing.T) {
	a := New([]Item{{Text: "héllo"}}, DefaultTiming())
	a.Step()
	a.Step()
	assert.Equal(t, "hé", a.Text(0))
}

func TestAdvanceWithVirtualClock(t *testing.T) {
	a := New([]Item{{Text: "abcd"}}, DefaultTiming())
	// 4 chars: one per tick, 8ms apart.
	assert.False(t, a.Advance(0))
	assert.Equal(t, "a", a.Text(0))
	assert.False(t, a.Advance(7*time.Millisecond))
	assert.Equal(t, "a", a.Text(0))
	assert.False(t, a.Advance(16*time.Millisecond))
	assert.Equal(t, "abc", a.Text(0))
	assert.True(t, a.Advance(time.Second))
	assert.Equal(t, 24*time.Millisecond, a.FinishedAt())
}

func TestDurationIsBounded(t *testing.T) {
	timing := DefaultTiming()
	for _, total := range []int{1, 2, 7, 50, 149, 150, 151, 299, 333, 334, 600, 601, 999, 5000, 123457} {
		a := New([]Item{{Text: strings.Repeat("x", total)}}, timing)
		require.True(t, a.Advance(time.Hour))
		finished := a.FinishedAt()
		assert.Less(t, finished, timing.Target, "total %d", total)
		assert.GreaterOrEqual(t, finished, time.Duration(a.Ticks()-1)*timing.MinTick, "total %d", total)
		assert.LessOrEqual(t, a.Ticks(), timing.CharsDivisor, "total %d", total)
	}
}

func TestDurationIgnoresInstantText(t *testing.T) {
	a := New([]Item{{Text: strings.Repeat("x", 5000), Instant: true}, {Text: "ab"}}, DefaultTiming())
	assert.Equal(t, 8*time.Millisecond, a.Delay())
	assert.Equal(t, 1, a.CharsPerTick())
}

func TestStepAfterDone(t *testing.T) {
	a := New(nil, DefaultTiming())
	_, done := a.Step()
	assert.True(t, done)
	delay, done := a.Step()
	assert.True(t, done)
	assert.Zero(t, delay)
	assert.Equal(t, 1, a.Ticks())
}
