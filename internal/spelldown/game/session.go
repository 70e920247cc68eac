// Package game runs a match on a single goroutine. Frontends talk to a Session through
// its command methods, speech adapters and timers hand results back through Dispatch.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNoTurn        = errors.New("no turn in progress")
)

type Session struct {
	ID  uuid.UUID
	cfg Config

	q        *queue
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// owned by the Run goroutine
	match           *match.Match
	turn            *turn.Turn
	captureDisabled error
	logger          *zap.SugaredLogger
}

func NewSession(cfg Config) *Session {
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

	return &Session{
		ID:     uuid.New(),
		cfg:    cfg,
		q:      newQueue(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		match:  match.New(cfg.Policy),
		logger: logging.DefaultLogger().Named("game.Session"),
	}
}

// Run processes events until ctx is cancelled or Stop is called.
func (r *Session) Run(ctx context.Context) {
	r.logger = logging.FromContext(ctx).Named("game.Session").With("session", r.ID.String())
	r.logger.Debug("session started")
	defer r.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-r.q.notify:
			publish := false
			for _, e := range r.q.drain() {
				e.fn()
				r.q.finish()
				publish = publish || e.publish
			}
			if publish {
				r.publish()
			}
		}
	}
}

func (r *Session) shutdown() {
	if r.turn != nil {
		r.turn.Close()
		r.turn = nil
	}
	close(r.done)
	r.logger.Debug("session closed")
}

func (r *Session) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

func (r *Session) Done() <-chan struct{} { return r.done }

// Dispatch schedules f on the session goroutine. It never blocks.
func (r *Session) Dispatch(f func()) {
	r.q.push(event{fn: f, publish: true})
}

func (r *Session) call(fn func() error, publish bool) error {
	select {
	case <-r.done:
		return ErrSessionClosed
	default:
	}

	res := make(chan error, 1)
	r.q.push(event{fn: func() { res <- fn() }, publish: publish})

	select {
	case err := <-res:
		return err
	case <-r.done:
		return ErrSessionClosed
	}
}

// Start begins a match and speaks the first prompt.
func (r *Session) Start(in match.StartInput) error {
	return r.call(func() error {
		if err := r.match.Start(in); err != nil {
			return fmt.Errorf("session start: %w", err)
		}
		r.logger.Infof("Match started with %d players and %d words", len(in.Names), len(in.GlobalWords))
		r.startTurn()
		return nil
	}, true)
}

// BeginCapture starts listening for the current player's spelling.
func (r *Session) BeginCapture() error {
	return r.call(func() error {
		if r.turn == nil {
			return ErrNoTurn
		}
		return r.turn.BeginCapture()
	}, true)
}

// Next ends the current turn as not correct.
func (r *Session) Next() error {
	return r.call(func() error {
		if r.turn == nil {
			return ErrNoTurn
		}
		return r.turn.Skip()
	}, true)
}

// Restart abandons whatever is in progress and returns to setup.
func (r *Session) Restart() error {
	return r.call(func() error {
		if r.turn != nil {
			r.turn.Close()
			r.turn = nil
		}
		r.match.Reset()
		r.logger.Info("Match reset to setup")
		return nil
	}, true)
}

func (r *Session) View() (View, error) {
	var v View
	err := r.call(func() error {
		v = r.view()
		return nil
	}, false)
	return v, err
}

func (r *Session) startTurn() {
	cur, ok := r.match.Current()
	if !ok {
		return
	}

	var t *turn.Turn
	t = turn.New(turn.Config{
		Word:            r.match.Word(),
		PlayerName:      cur.Name,
		Timing:          r.cfg.Timing,
		Speaker:         r.cfg.Speaker,
		Listener:        r.cfg.Listener,
		Clock:           r.cfg.Clock,
		Dispatch:        r.Dispatch,
		CaptureDisabled: r.captureDisabled,
		OnResult: func(o turn.Outcome) {
			r.onTurnResult(t, o)
		},
	})
	r.turn = t

	r.logger.Debugf("Turn for %s, word %q", cur.Name, r.match.Word())
	if err := t.Start(); err != nil {
		r.logger.Errorf("start turn: %v", err)
	}
}

func (r *Session) onTurnResult(t *turn.Turn, o turn.Outcome) {
	if t != r.turn {
		return
	}
	if err := t.CaptureDisabled(); err != nil {
		r.captureDisabled = err
	}
	r.turn = nil

	res, err := r.match.Resolve(o.Correct())
	if err != nil {
		r.logger.Errorf("resolve turn: %v", err)
		return
	}
	r.logger.Infof("Turn of %s finished: %s, score %d", res.Player.Name, o, res.Player.Score)

	if res.Phase == match.PhasePlaying {
		r.startTurn()
		return
	}

	if winner, ok := r.match.Winner(); ok {
		r.logger.Infof("Match finished, winner %s", winner)
		r.cfg.Speaker.Speak(fmt.Sprintf(resource.TextWinnerMsg, winner), nil)
		return
	}
	r.logger.Infof("Match finished without a winner: %s", r.match.EndReason())
	r.cfg.Speaker.Speak(resource.TextNoWinnerMsg, nil)
}

func (r *Session) publish() {
	if r.cfg.OnView != nil {
		r.cfg.OnView(r.view())
	}
}

func (r *Session) view() View {
	v := View{
		Phase:       r.match.Phase().String(),
		MaxAttempts: r.cfg.Timing.MaxAttempts,
		WordsUsed:   r.match.Drawn(),
		Players:     []PlayerView{},
	}

	cur, hasCur := r.match.Current()
	if hasCur {
		v.Current = cur.Name
	}
	for _, s := range r.match.Standings() {
		v.Players = append(v.Players, PlayerView{
			Name:    s.Name,
			Score:   s.Score,
			Active:  s.Active,
			Current: hasCur && s.ID == cur.ID,
		})
	}

	disabled := r.captureDisabled
	if t := r.turn; t != nil {
		if err := t.CaptureDisabled(); err != nil {
			disabled = err
		}

		state := t.State()
		v.TurnState = state.String()
		v.Attempts = t.Attempts()
		v.MaxAttempts = t.MaxAttempts()
		v.Transcript = t.Transcript()
		if t.Revealed() {
			v.Word = t.Word()
		}
		v.Countdown, v.CountdownActive = t.Remaining()

		fb := t.Feedback()
		v.Feedback = fb.Message
		v.FeedbackKind = fb.Kind.String()

		v.Capturing = t.Capturing()
		v.CanNext = t.CanSkip()
		v.CaptureAvailable = disabled == nil && !v.Capturing &&
			(state == turn.StatePromptSpeaking || state == turn.StateAwaitingCapture)
	}
	if disabled != nil {
		v.CaptureError = disabled.Error()
	}

	if r.match.Phase() == match.PhaseEnd {
		v.EndReason = r.match.EndReason().String()
		if w, ok := r.match.Winner(); ok {
			v.Winner = w
		}
	}

	return v
}
