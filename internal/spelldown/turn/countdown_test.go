package turn

import (
	"testing"
	"time"

	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/stretchr/testify/assert"
)

func syncDispatch(f func()) { f() }

func TestCountdown_TicksToZero(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual()
	var ticks []int
	done := 0
	cd := NewCountdown(clk, time.Second, 5, syncDispatch,
		func(n int) { ticks = append(ticks, n) },
		func() { done++ },
	)

	clk.Advance(4 * time.Second)
	assert.Equal(t, 1, cd.Remaining())
	assert.True(t, cd.Active())
	assert.Equal(t, 0, done)

	clk.Advance(time.Second)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, ticks)
	assert.Equal(t, 1, done)
	assert.False(t, cd.Active())

	clk.Advance(10 * time.Second)
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, clk.Pending())
}

func TestCountdown_StopBeforeZero(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual()
	done := 0
	cd := NewCountdown(clk, time.Second, 3, syncDispatch, nil, func() { done++ })

	clk.Advance(2 * time.Second)
	cd.Stop()
	cd.Stop()
	clk.Advance(5 * time.Second)

	assert.Equal(t, 0, done)
	assert.Equal(t, 1, cd.Remaining())
	assert.Equal(t, 0, clk.Pending())
}

func TestCountdown_StaleTickIgnored(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual()
	var queued []func()
	done := 0
	cd := NewCountdown(clk, time.Second, 1, func(f func()) { queued = append(queued, f) }, nil, func() { done++ })

	// the tick fires but is only handled after the countdown was stopped
	clk.Advance(time.Second)
	cd.Stop()
	for _, f := range queued {
		f()
	}

	assert.Equal(t, 0, done)
}
