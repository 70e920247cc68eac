package turn

import (
	"errors"
	"time"
)

var (
	ErrInvalidState      = errors.New("action not allowed in current turn state")
	ErrCaptureInProgress = errors.New("capture already in progress")
	ErrCountdownActive   = errors.New("countdown in progress")
	ErrTurnOver          = errors.New("turn is over")
)

type State uint8

const (
	StateIdle State = iota
	StatePromptSpeaking
	StateAwaitingCapture
	StateGrading
	StateFeedback
	StateCountdown
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptSpeaking:
		return "prompt_speaking"
	case StateAwaitingCapture:
		return "awaiting_capture"
	case StateGrading:
		return "grading"
	case StateFeedback:
		return "feedback"
	case StateCountdown:
		return "countdown"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome is reported exactly once when a turn ends.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeIncorrectExhausted
	OutcomeSkipped
)

func (o Outcome) Correct() bool { return o == OutcomeCorrect }

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrectExhausted:
		return "incorrect_exhausted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "none"
	}
}

type FeedbackKind uint8

const (
	FeedbackNone FeedbackKind = iota
	FeedbackCorrect
	FeedbackIncorrect
	FeedbackRevealed
	FeedbackWholeWord
	FeedbackNotLetters
	FeedbackCaptureError
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	case FeedbackRevealed:
		return "revealed"
	case FeedbackWholeWord:
		return "whole_word"
	case FeedbackNotLetters:
		return "not_letters"
	case FeedbackCaptureError:
		return "capture_error"
	default:
		return ""
	}
}

type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// Timing holds the turn constants. Seconds are counted in ticks of Tick.
type Timing struct {
	MaxAttempts      int           `envconfig:"SPELLDOWN_MAX_ATTEMPTS" default:"2"`
	CorrectCountdown int           `envconfig:"SPELLDOWN_CORRECT_COUNTDOWN" default:"5"`
	RevealCountdown  int           `envconfig:"SPELLDOWN_REVEAL_COUNTDOWN" default:"3"`
	RevealTimeout    time.Duration `envconfig:"SPELLDOWN_REVEAL_TIMEOUT" default:"10s"`
	Tick             time.Duration `envconfig:"SPELLDOWN_TICK" default:"1s"`
}

func DefaultTiming() Timing {
	return Timing{
		MaxAttempts:      2,
		CorrectCountdown: 5,
		RevealCountdown:  3,
		RevealTimeout:    10 * time.Second,
		Tick:             time.Second,
	}
}

// WithDefaults fills every unset field from DefaultTiming.
func (t Timing) WithDefaults() Timing {
	def := DefaultTiming()
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = def.MaxAttempts
	}
	if t.CorrectCountdown <= 0 {
		t.CorrectCountdown = def.CorrectCountdown
	}
	if t.RevealCountdown <= 0 {
		t.RevealCountdown = def.RevealCountdown
	}
	if t.RevealTimeout <= 0 {
		t.RevealTimeout = def.RevealTimeout
	}
	if t.Tick <= 0 {
		t.Tick = def.Tick
	}
	return t
}
