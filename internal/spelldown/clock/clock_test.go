package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualAdvance(t *testing.T) {
	m := NewManual()

	var fired []string
	m.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })
	m.AfterFunc(time.Second, func() {
		fired = append(fired, "one")
		m.AfterFunc(time.Second, func() { fired = append(fired, "chained") })
	})

	m.Advance(500 * time.Millisecond)
	assert.Empty(t, fired)

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"one", "two", "chained"}, fired)
	assert.Zero(t, m.Pending())
}

func TestManualStop(t *testing.T) {
	m := NewManual()

	var fired bool
	timer := m.AfterFunc(time.Second, func() { fired = true })
	assert.Equal(t, 1, m.Pending())
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(time.Minute)
	assert.False(t, fired)
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("real timer did not fire")
	}
}
