package turn

import (
	"testing"
	"time"

	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/speech/speechtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	turn     *Turn
	speaker  *speechtest.Speaker
	listener *speechtest.Listener
	clock    *clock.Manual
	results  []Outcome
}

func newHarness(t *testing.T, word string, hold bool) *harness {
	t.Helper()

	h := &harness{
		speaker:  &speechtest.Speaker{Hold: hold},
		listener: &speechtest.Listener{},
		clock:    clock.NewManual(),
	}
	h.turn = New(Config{
		Word:       word,
		PlayerName: "Ann",
		Timing:     DefaultTiming(),
		Speaker:    h.speaker,
		Listener:   h.listener,
		Clock:      h.clock,
		Dispatch:   syncDispatch,
		OnResult:   func(o Outcome) { h.results = append(h.results, o) },
	})
	require.NoError(t, h.turn.Start())
	return h
}

func (h *harness) say(t *testing.T, transcript string) {
	t.Helper()
	require.NoError(t, h.turn.BeginCapture())
	require.True(t, h.listener.Say(transcript))
}

func TestTurn_StartSpeaksPrompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	assert.Equal(t, []string{"Ann's go. The word is cat"}, h.speaker.Spoken())
	assert.Equal(t, StatePromptSpeaking, h.turn.State())
	assert.ErrorIs(t, h.turn.Start(), ErrInvalidState)
	assert.False(t, h.turn.Revealed())
}

func TestTurn_CorrectCountsDownFive(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	h.say(t, "C A T")

	assert.Equal(t, StateCountdown, h.turn.State())
	assert.Equal(t, FeedbackCorrect, h.turn.Feedback().Kind)
	assert.Equal(t, "Correct!", h.speaker.Last())
	assert.True(t, h.turn.Revealed())

	left, ok := h.turn.Remaining()
	require.True(t, ok)
	assert.Equal(t, 5, left)

	h.clock.Advance(4 * time.Second)
	assert.Empty(t, h.results)
	assert.ErrorIs(t, h.turn.Skip(), ErrCountdownActive)
	assert.ErrorIs(t, h.turn.BeginCapture(), ErrInvalidState)

	h.clock.Advance(time.Second)
	assert.Equal(t, []Outcome{OutcomeCorrect}, h.results)
	assert.Equal(t, StateDone, h.turn.State())

	h.clock.Advance(time.Minute)
	assert.Len(t, h.results, 1)
	assert.ErrorIs(t, h.turn.BeginCapture(), ErrTurnOver)
	assert.ErrorIs(t, h.turn.Skip(), ErrTurnOver)
}

func TestTurn_MalformedKeepsAttempts(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)

	h.say(t, "cat")
	assert.Equal(t, FeedbackWholeWord, h.turn.Feedback().Kind)
	assert.Equal(t, 0, h.turn.Attempts())
	assert.Equal(t, StateAwaitingCapture, h.turn.State())

	h.say(t, "c. a. t.")
	assert.Equal(t, FeedbackNotLetters, h.turn.Feedback().Kind)
	assert.Equal(t, 0, h.turn.Attempts())

	h.say(t, "")
	assert.Equal(t, FeedbackNotLetters, h.turn.Feedback().Kind)
	assert.Equal(t, 0, h.turn.Attempts())
	assert.Empty(t, h.results)
}

func TestTurn_RetryThenCorrect(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)

	h.say(t, "C A R")
	assert.Equal(t, 1, h.turn.Attempts())
	assert.Equal(t, FeedbackIncorrect, h.turn.Feedback().Kind)
	assert.Equal(t, "Incorrect. Try again, 1 try left", h.turn.Feedback().Message)
	assert.False(t, h.turn.Revealed())

	h.say(t, "c a t")
	assert.Equal(t, OutcomeCorrect, h.turn.Outcome())
	assert.Equal(t, 1, h.turn.Attempts())

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, []Outcome{OutcomeCorrect}, h.results)
}

func TestTurn_ExhaustedRevealsThenCountsDownThree(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	h.say(t, "C A R")
	h.say(t, "K A T")

	assert.Equal(t, 2, h.turn.Attempts())
	assert.Equal(t, FeedbackRevealed, h.turn.Feedback().Kind)
	assert.Equal(t, "Incorrect. The correct spelling is C-A-T", h.turn.Feedback().Message)
	assert.Equal(t, "The correct spelling is C, A, T", h.speaker.Last())
	assert.True(t, h.turn.Revealed())

	left, ok := h.turn.Remaining()
	require.True(t, ok)
	assert.Equal(t, 3, left)

	h.clock.Advance(3 * time.Second)
	assert.Equal(t, []Outcome{OutcomeIncorrectExhausted}, h.results)
}

func TestTurn_CountdownWaitsForReveal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", true)
	h.say(t, "C A R")
	h.say(t, "K A T")

	assert.Equal(t, StateFeedback, h.turn.State())
	_, ok := h.turn.Remaining()
	assert.False(t, ok)

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, StateFeedback, h.turn.State())

	h.speaker.Finish()
	assert.Equal(t, StateCountdown, h.turn.State())

	h.clock.Advance(3 * time.Second)
	assert.Equal(t, []Outcome{OutcomeIncorrectExhausted}, h.results)
}

func TestTurn_RevealTimeoutStartsCountdown(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", true)
	h.say(t, "C A R")
	h.say(t, "K A T")

	h.clock.Advance(10 * time.Second)
	assert.Equal(t, StateCountdown, h.turn.State())

	h.clock.Advance(3 * time.Second)
	assert.Equal(t, []Outcome{OutcomeIncorrectExhausted}, h.results)

	// late completion is ignored
	h.speaker.Finish()
	assert.Len(t, h.results, 1)
}

func TestTurn_CloseCancelsCountdown(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	h.say(t, "C A T")
	h.clock.Advance(2 * time.Second)

	h.turn.Close()
	h.clock.Advance(time.Minute)

	assert.Empty(t, h.results)
	assert.Equal(t, 0, h.clock.Pending())
}

func TestTurn_SkipIgnoresLateCapture(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	require.NoError(t, h.turn.BeginCapture())
	require.NoError(t, h.turn.Skip())

	assert.Equal(t, []Outcome{OutcomeSkipped}, h.results)
	assert.True(t, h.listener.Say("C A T"))
	assert.Equal(t, []Outcome{OutcomeSkipped}, h.results)
	assert.Equal(t, StateDone, h.turn.State())
	assert.Empty(t, h.turn.Transcript())
}

func TestTurn_CaptureInProgress(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", false)
	require.NoError(t, h.turn.BeginCapture())
	assert.ErrorIs(t, h.turn.BeginCapture(), ErrCaptureInProgress)
	assert.Equal(t, 1, h.listener.Starts())
}

func TestTurn_CaptureCutsOffPrompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "cat", true)
	assert.True(t, h.turn.Speaking())

	require.NoError(t, h.turn.BeginCapture())
	assert.Equal(t, 1, h.speaker.Cancels())
	assert.False(t, h.turn.Speaking())
}

func TestTurn_CaptureErrors(t *testing.T) {
	t.Parallel()

	t.Run("transient", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "cat", false)
		require.NoError(t, h.turn.BeginCapture())
		require.True(t, h.listener.Fail(speech.ErrNoSpeech))

		assert.Equal(t, FeedbackCaptureError, h.turn.Feedback().Kind)
		assert.Equal(t, "No speech heard, try again", h.turn.Feedback().Message)
		assert.Equal(t, 0, h.turn.Attempts())
		assert.NoError(t, h.turn.CaptureDisabled())
		assert.NoError(t, h.turn.BeginCapture())
	})

	t.Run("permanent", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, "cat", false)
		require.NoError(t, h.turn.BeginCapture())
		require.True(t, h.listener.Fail(speech.ErrCaptureDenied))

		assert.ErrorIs(t, h.turn.CaptureDisabled(), speech.ErrCaptureDenied)
		assert.ErrorIs(t, h.turn.BeginCapture(), speech.ErrCaptureDenied)
		assert.True(t, h.turn.CanSkip())

		require.NoError(t, h.turn.Skip())
		assert.Equal(t, []Outcome{OutcomeSkipped}, h.results)
	})
}

func TestTurn_InheritedCaptureDisabled(t *testing.T) {
	t.Parallel()

	tr := New(Config{Word: "cat", PlayerName: "Ann", CaptureDisabled: speech.ErrCaptureUnsupported})
	require.NoError(t, tr.Start())
	assert.ErrorIs(t, tr.BeginCapture(), speech.ErrCaptureUnsupported)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "countdown", StateCountdown.String())
	assert.Equal(t, "incorrect_exhausted", OutcomeIncorrectExhausted.String())
	assert.False(t, OutcomeSkipped.Correct())
	assert.True(t, OutcomeCorrect.Correct())
}
