// Package turn runs a single player's attempt at a single word: prompt, capture, grading,
// feedback, and the countdown that ends the turn.
//
// A Turn is not safe for concurrent use. Every method and every callback it receives must
// run on one goroutine; asynchronous results from speech and timers are handed back
// through Config.Dispatch.
package turn

import (
	"errors"
	"fmt"

	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/bloops-games/spelldown/internal/spelldown/grading"
	"github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
)

type Config struct {
	Word       string
	PlayerName string
	Timing     Timing

	Speaker  speech.Speaker
	Listener speech.Listener
	Clock    clock.Clock
	// Dispatch runs f on the goroutine that owns the turn.
	Dispatch func(f func())
	// OnResult is called exactly once, unless the turn is closed first.
	OnResult func(Outcome)
	// CaptureDisabled carries a permanent capture error from an earlier turn.
	CaptureDisabled error
}

type Turn struct {
	cfg Config

	state      State
	attempts   int
	transcript string
	feedback   Feedback
	outcome    Outcome

	capturing       bool
	captureSeq      int
	captureDisabled error

	speaking  bool
	speechSeq int

	countdown   *Countdown
	revealTimer clock.Timer

	closed bool
}

func New(cfg Config) *Turn {
	cfg.Timing = cfg.Timing.WithDefaults()
	if cfg.Speaker == nil {
		cfg.Speaker = speech.Mute{}
	}
	if cfg.Listener == nil {
		cfg.Listener = speech.Unsupported{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(f func()) { f() }
	}

	return &Turn{cfg: cfg, state: StateIdle, captureDisabled: cfg.CaptureDisabled}
}

// Start speaks the prompt. Capture may begin while it is still playing.
func (t *Turn) Start() error {
	if t.closed {
		return ErrTurnOver
	}
	if t.state != StateIdle {
		return ErrInvalidState
	}

	t.state = StatePromptSpeaking
	t.speak(resource.Prompt(t.cfg.PlayerName, t.cfg.Word), nil)
	return nil
}

// BeginCapture starts listening for a spelling. Any prompt still being spoken is cut off.
func (t *Turn) BeginCapture() error {
	switch {
	case t.closed:
		return ErrTurnOver
	case t.capturing:
		return ErrCaptureInProgress
	case t.state != StatePromptSpeaking && t.state != StateAwaitingCapture:
		return ErrInvalidState
	case t.captureDisabled != nil:
		return fmt.Errorf("begin capture: %w", t.captureDisabled)
	}

	if t.speaking {
		t.cancelSpeech()
	}

	t.state = StateAwaitingCapture
	t.capturing = true
	t.captureSeq++
	t.feedback = Feedback{}

	seq := t.captureSeq
	t.cfg.Listener.StartCapture(func(c speech.Capture) {
		t.cfg.Dispatch(func() {
			t.onCapture(seq, c)
		})
	})

	return nil
}

func (t *Turn) onCapture(seq int, c speech.Capture) {
	if t.closed || !t.capturing || seq != t.captureSeq {
		return
	}
	t.capturing = false

	if c.Err != nil {
		t.state = StateAwaitingCapture
		t.feedback = Feedback{Kind: FeedbackCaptureError, Message: captureErrorMessage(c.Err)}
		if speech.IsPermanent(c.Err) {
			t.captureDisabled = c.Err
		}
		return
	}

	t.state = StateGrading
	t.transcript = c.Transcript

	verdict := grading.Grade(c.Transcript, t.cfg.Word)
	switch verdict {
	case grading.VerdictWholeWord:
		t.state = StateAwaitingCapture
		t.feedback = Feedback{Kind: FeedbackWholeWord, Message: resource.TextWholeWordMsg}
	case grading.VerdictNotLetters:
		t.state = StateAwaitingCapture
		t.feedback = Feedback{Kind: FeedbackNotLetters, Message: resource.TextNotLettersMsg}
	case grading.VerdictCorrect:
		t.outcome = OutcomeCorrect
		t.state = StateFeedback
		t.feedback = Feedback{Kind: FeedbackCorrect, Message: resource.TextCorrectMsg}
		t.speak(resource.TextCorrectMsg, nil)
		t.startCountdown(t.cfg.Timing.CorrectCountdown)
	case grading.VerdictIncorrect:
		t.attempts++
		if t.attempts < t.cfg.Timing.MaxAttempts {
			t.state = StateAwaitingCapture
			t.feedback = Feedback{
				Kind:    FeedbackIncorrect,
				Message: resource.Retry(t.cfg.Timing.MaxAttempts - t.attempts),
			}
			return
		}
		t.reveal()
	}
}

// reveal shows and speaks the spelling, then counts down. If the speaker never
// reports completion the countdown starts after RevealTimeout.
func (t *Turn) reveal() {
	letters := grading.Letters(t.cfg.Word)
	t.outcome = OutcomeIncorrectExhausted
	t.state = StateFeedback
	t.feedback = Feedback{Kind: FeedbackRevealed, Message: resource.Reveal(letters)}

	seq := t.speechSeq + 1
	t.revealTimer = t.cfg.Clock.AfterFunc(t.cfg.Timing.RevealTimeout, func() {
		t.cfg.Dispatch(func() {
			t.onRevealSpoken(seq)
		})
	})
	t.speak(resource.SpokenReveal(letters), func() {
		t.onRevealSpoken(seq)
	})
}

func (t *Turn) onRevealSpoken(seq int) {
	if t.closed || t.state != StateFeedback || seq != t.speechSeq {
		return
	}
	if t.revealTimer != nil {
		t.revealTimer.Stop()
	}
	t.startCountdown(t.cfg.Timing.RevealCountdown)
}

func (t *Turn) startCountdown(secs int) {
	t.state = StateCountdown
	t.countdown = NewCountdown(t.cfg.Clock, t.cfg.Timing.Tick, secs, t.cfg.Dispatch, nil, t.finish)
}

// Skip ends the turn at once as not correct. It is refused while a countdown runs.
func (t *Turn) Skip() error {
	if t.closed {
		return ErrTurnOver
	}
	if t.state == StateCountdown {
		return ErrCountdownActive
	}

	if t.outcome == OutcomeNone {
		t.outcome = OutcomeSkipped
	}
	t.cancelSpeech()
	t.finish()
	return nil
}

func (t *Turn) finish() {
	if t.closed {
		return
	}
	t.teardown()
	t.state = StateDone
	if t.cfg.OnResult != nil {
		t.cfg.OnResult(t.outcome)
	}
}

// Close abandons the turn. Pending timers and captures are dropped and OnResult is not called.
func (t *Turn) Close() {
	if t.closed {
		return
	}
	if t.speaking {
		t.cancelSpeech()
	}
	t.teardown()
}

func (t *Turn) teardown() {
	t.closed = true
	t.capturing = false
	t.captureSeq++
	if t.countdown != nil {
		t.countdown.Stop()
	}
	if t.revealTimer != nil {
		t.revealTimer.Stop()
	}
}

func (t *Turn) speak(text string, done func()) {
	t.speechSeq++
	t.speaking = true
	seq := t.speechSeq
	t.cfg.Speaker.Speak(text, func() {
		t.cfg.Dispatch(func() {
			if seq == t.speechSeq {
				t.speaking = false
			}
			if done != nil {
				done()
			}
		})
	})
}

func (t *Turn) cancelSpeech() {
	t.speechSeq++
	t.speaking = false
	t.cfg.Speaker.Cancel()
}

func captureErrorMessage(err error) string {
	switch {
	case speech.IsPermanent(err):
		return resource.TextCaptureDisabledMsg
	case errors.Is(err, speech.ErrNoSpeech):
		return resource.TextNoSpeechMsg
	default:
		return resource.TextCaptureFailedMsg
	}
}

func (t *Turn) State() State {
	return t.state
}

func (t *Turn) Attempts() int {
	return t.attempts
}

func (t *Turn) Word() string {
	return t.cfg.Word
}

func (t *Turn) PlayerName() string {
	return t.cfg.PlayerName
}

func (t *Turn) Transcript() string {
	return t.transcript
}

func (t *Turn) Feedback() Feedback {
	return t.feedback
}

func (t *Turn) Outcome() Outcome {
	return t.outcome
}

func (t *Turn) Capturing() bool {
	return t.capturing
}

func (t *Turn) Speaking() bool {
	return t.speaking
}

func (t *Turn) CaptureDisabled() error {
	return t.captureDisabled
}

func (t *Turn) MaxAttempts() int {
	return t.cfg.Timing.MaxAttempts
}

// Revealed reports whether the word may be shown as text.
func (t *Turn) Revealed() bool {
	return t.outcome == OutcomeCorrect ||
		t.outcome == OutcomeIncorrectExhausted
}

// Remaining returns the countdown value and whether one is running.
func (t *Turn) Remaining() (int, bool) {
	if t.countdown == nil || !t.countdown.Active() {
		return 0, false
	}
	return t.countdown.Remaining(), true
}

// CanSkip reports whether a manual next turn is currently accepted.
func (t *Turn) CanSkip() bool {
	return !t.closed && t.state != StateCountdown
}
