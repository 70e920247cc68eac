package game

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/speech/speechtest"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	session  *Session
	speaker  *speechtest.Speaker
	listener *speechtest.Listener
	clock    *clock.Manual
	views    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		speaker:  &speechtest.Speaker{},
		listener: &speechtest.Listener{},
		clock:    clock.NewManual(),
	}
	f.session = NewSession(Config{
		Timing:   turn.DefaultTiming(),
		Speaker:  f.speaker,
		Listener: f.listener,
		Clock:    f.clock,
		Policy:   wordpool.NewPersonalFirst(func(int) int { return 0 }),
		OnView:   func(View) { atomic.AddInt64(&f.views, 1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	go f.session.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-f.session.Done()
	})
	return f
}

func (f *fixture) view(t *testing.T) View {
	t.Helper()
	v, err := f.session.View()
	require.NoError(t, err)
	return v
}

// flush waits until every queued event, including the ones dispatched by other events,
// has run.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	require.Eventually(t, f.session.q.idle, time.Second, time.Millisecond)
}

// spell captures one transcript and waits until the session has handled it.
func (f *fixture) spell(t *testing.T, transcript string) View {
	t.Helper()
	require.NoError(t, f.session.BeginCapture())
	require.True(t, f.listener.Say(transcript))
	f.flush(t)
	return f.view(t)
}

// tick advances the clock one second at a time so each tick is handled before the next
// one is scheduled.
func (f *fixture) tick(t *testing.T, n int) View {
	t.Helper()
	for i := 0; i < n; i++ {
		f.flush(t)
		f.clock.Advance(time.Second)
	}
	f.flush(t)
	return f.view(t)
}

func start(t *testing.T, f *fixture, names ...string) {
	t.Helper()
	require.NoError(t, f.session.Start(match.StartInput{
		GlobalWords: []string{"cat", "dog", "owl"},
		Names:       names,
	}))
}

func TestSession_ExhaustedAttemptsKnocksOut(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start(t, f, "A", "B")

	v := f.view(t)
	assert.Equal(t, "playing", v.Phase)
	assert.Equal(t, "A", v.Current)
	assert.Empty(t, v.Word)
	assert.True(t, v.CaptureAvailable)
	assert.Equal(t, "A's go. The word is cat", f.speaker.Last())

	v = f.spell(t, "C A R")
	assert.Equal(t, 1, v.Attempts)
	assert.Equal(t, "incorrect", v.FeedbackKind)
	assert.Empty(t, v.Word)

	v = f.spell(t, "K A T")
	assert.Equal(t, 2, v.Attempts)
	assert.Equal(t, "cat", v.Word)
	assert.True(t, v.CountdownActive)
	assert.Equal(t, 3, v.Countdown)
	assert.False(t, v.CanNext)

	v = f.tick(t, 3)
	assert.Equal(t, "end", v.Phase)
	assert.Equal(t, "B", v.Winner)
	assert.Equal(t, "winner", v.EndReason)
	assert.Equal(t, 1, v.WordsUsed)
	assert.Equal(t, "B wins!", f.speaker.Last())

	require.Len(t, v.Players, 2)
	assert.False(t, v.Players[0].Active)
	assert.True(t, v.Players[1].Active)
}

func TestSession_CorrectMovesToNextPlayer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start(t, f, "A", "B", "C")

	v := f.spell(t, "c a t")
	assert.Equal(t, "correct", v.FeedbackKind)
	assert.Equal(t, 5, v.Countdown)

	v = f.tick(t, 4)
	assert.Equal(t, "A", v.Current)
	assert.Equal(t, 1, v.Countdown)

	v = f.tick(t, 1)
	assert.Equal(t, "B", v.Current)
	assert.Equal(t, 0, v.Attempts)
	assert.Empty(t, v.Word)
	assert.Equal(t, 1, v.Players[0].Score)
	assert.Equal(t, "B's go. The word is dog", f.speaker.Last())
}

func TestSession_NextSkipsTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start(t, f, "A", "B", "C")

	require.NoError(t, f.session.Next())
	v := f.view(t)
	assert.Equal(t, "B", v.Current)
	assert.False(t, v.Players[0].Active)
	assert.Equal(t, "playing", v.Phase)
}

func TestSession_SupplyExhausted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.session.Start(match.StartInput{
		GlobalWords: []string{"cat"},
		Names:       []string{"A", "B"},
	}))

	f.spell(t, "C A T")
	v := f.tick(t, 5)
	assert.Equal(t, "end", v.Phase)
	assert.False(t, v.HasWinner())
	assert.Equal(t, "words_exhausted", v.EndReason)
}

func TestSession_PermanentCaptureErrorOutlivesTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start(t, f, "A", "B", "C")

	require.NoError(t, f.session.BeginCapture())
	require.True(t, f.listener.Fail(speech.ErrCaptureUnsupported))

	v := f.view(t)
	assert.False(t, v.CaptureAvailable)
	assert.NotEmpty(t, v.CaptureError)
	assert.True(t, v.CanNext)

	require.NoError(t, f.session.Next())
	assert.ErrorIs(t, f.session.BeginCapture(), speech.ErrCaptureUnsupported)
	assert.False(t, f.view(t).CaptureAvailable)
}

func TestSession_Restart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start(t, f, "A", "B")
	f.spell(t, "C A T")

	require.NoError(t, f.session.Restart())
	v := f.view(t)
	assert.Equal(t, "setup", v.Phase)
	assert.Empty(t, v.Players)
	assert.Empty(t, v.TurnState)

	// the abandoned countdown must not resolve anything
	f.tick(t, 10)
	assert.Equal(t, "setup", f.view(t).Phase)

	start(t, f, "C", "D")
	assert.Equal(t, "C", f.view(t).Current)
}

func TestSession_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.ErrorIs(t, f.session.BeginCapture(), ErrNoTurn)
	assert.ErrorIs(t, f.session.Next(), ErrNoTurn)
	assert.ErrorIs(t, f.session.Start(match.StartInput{Names: []string{"A"}}), match.ErrValidation)

	start(t, f, "A", "B")
	assert.ErrorIs(t, f.session.Start(match.StartInput{}), match.ErrPhase)

	require.NoError(t, f.session.BeginCapture())
	assert.ErrorIs(t, f.session.BeginCapture(), turn.ErrCaptureInProgress)
}

func TestSession_PublishesViews(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.view(t)
	assert.Zero(t, atomic.LoadInt64(&f.views))

	start(t, f, "A", "B")
	f.view(t)
	assert.Positive(t, atomic.LoadInt64(&f.views))
}

func TestSession_Stop(t *testing.T) {
	t.Parallel()

	s := NewSession(Config{})
	go s.Run(context.Background())
	s.Stop()
	s.Stop()
	<-s.Done()

	_, err := s.View()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.Restart(), ErrSessionClosed)
}
