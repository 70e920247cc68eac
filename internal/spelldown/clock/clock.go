// Package clock abstracts delayed callbacks so timers can be driven manually in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

type Timer interface {
	// Stop prevents the callback from running. It reports false if the timer already
	// fired or was stopped.
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks with time.AfterFunc.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var _ Clock = (*Manual)(nil)

// Manual fires callbacks synchronously from Advance, in due order.
type Manual struct {
	mtx    sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	m       *Manual
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.m.mtx.Lock()
	defer t.m.mtx.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d, running every callback that becomes due, including
// ones scheduled by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	m.mtx.Lock()
	target := m.now + d
	m.mtx.Unlock()

	for {
		t, ok := m.nextDue(target)
		if !ok {
			break
		}
		t.f()
	}

	m.mtx.Lock()
	m.now = target
	m.mtx.Unlock()
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	var n int
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Duration) (*manualTimer, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].at == m.timers[j].at {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at < m.timers[j].at
	})

	if len(m.timers) == 0 || m.timers[0].at > target {
		return nil, false
	}

	t := m.timers[0]
	t.fired = true
	m.now = t.at
	return t, true
}
