package turn

import (
	"time"

	"github.com/bloops-games/spelldown/internal/spelldown/clock"
)

// Countdown counts whole ticks down to zero. Ticks are delivered through dispatch so
// all state changes happen on the owner's goroutine. A stopped countdown never fires again.
type Countdown struct {
	clock    clock.Clock
	tick     time.Duration
	dispatch func(func())

	remaining int
	timer     clock.Timer
	stopped   bool

	onTick func(remaining int)
	onDone func()
}

// NewCountdown starts counting from secs. onTick receives every value after the first
// decrement, including zero. onDone runs once at zero.
func NewCountdown(c clock.Clock, tick time.Duration, secs int, dispatch func(func()),
	onTick func(int), onDone func()) *Countdown {
	cd := &Countdown{
		clock:     c,
		tick:      tick,
		dispatch:  dispatch,
		remaining: secs,
		onTick:    onTick,
		onDone:    onDone,
	}
	cd.schedule()
	return cd
}

func (c *Countdown) schedule() {
	c.timer = c.clock.AfterFunc(c.tick, func() {
		c.dispatch(c.step)
	})
}

func (c *Countdown) step() {
	if c.stopped {
		return
	}

	c.remaining--
	if c.remaining < 0 {
		c.remaining = 0
	}
	if c.onTick != nil {
		c.onTick(c.remaining)
	}

	if c.remaining == 0 {
		c.stopped = true
		if c.onDone != nil {
			c.onDone()
		}
		return
	}

	c.schedule()
}

// Stop cancels the countdown. Safe to call more than once.
func (c *Countdown) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Countdown) Remaining() int { return c.remaining }

func (c *Countdown) Active() bool { return !c.stopped }
