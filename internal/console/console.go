// Package console plays a match in a terminal. Prompts are printed instead of spoken and
// the spelling is read from the next input line.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/spelldown/game"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
)

const (
	cmdSpell   = "spell"
	cmdNext    = "next"
	cmdRestart = "restart"
	cmdQuit    = "quit"

	helpText = "Enter or \"spell\" to spell the word, \"next\" to skip, \"restart\" for a new match, \"quit\" to leave"
)

type Console struct {
	in      io.Reader
	out     io.Writer
	session *game.Session

	mu      sync.Mutex
	capture func(speech.Capture)

	// only touched on the session goroutine
	feedback string
	phase    string
}

func New(in io.Reader, out io.Writer, timing turn.Timing) *Console {
	c := &Console{in: in, out: out}
	c.session = game.NewSession(game.Config{
		Timing:   timing,
		Speaker:  c,
		Listener: c,
		OnView:   c.onView,
	})
	return c
}

// Run plays matches from start until the input ends, quit is entered or ctx is done.
func (c *Console) Run(ctx context.Context, start match.StartInput) error {
	logger := logging.FromContext(ctx).Named("console.Run")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.session.Run(ctx)
	defer c.session.Stop()

	c.printf("%s\n", helpText)
	if err := c.session.Start(start); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.handle(line, start)
			if err != nil {
				logger.Debugf("%q: %v", line, err)
				c.printf("%s\n", game.Describe(err))
			}
			if quit {
				return nil
			}
		}
	}
}

func (c *Console) handle(line string, start match.StartInput) (bool, error) {
	line = strings.TrimSpace(line)

	switch strings.ToLower(line) {
	case cmdQuit:
		return true, nil
	case cmdNext:
		if err := c.session.Next(); err != nil {
			return false, err
		}
		c.dropCapture()
		c.printf("%s\n", resource.TextSkippedMsg)
		return false, nil
	case cmdRestart:
		if err := c.session.Restart(); err != nil {
			return false, err
		}
		c.dropCapture()
		return false, c.session.Start(start)
	}

	if c.captured(speech.Capture{Transcript: line}) {
		return false, nil
	}

	switch strings.ToLower(line) {
	case "", cmdSpell:
		return false, c.session.BeginCapture()
	default:
		c.printf("%s\n", helpText)
		return false, nil
	}
}

func (c *Console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Speak prints text. Printing never fails, so done runs right away.
func (c *Console) Speak(text string, done func()) {
	c.printf("%s\n", resource.Decorate("prompt", text))
	if done != nil {
		done()
	}
}

func (c *Console) Cancel() {}

func (c *Console) StartCapture(fn func(speech.Capture)) {
	c.mu.Lock()
	c.capture = fn
	fmt.Fprint(c.out, "spell> ")
	c.mu.Unlock()

	c.feedback = ""
}

func (c *Console) captured(res speech.Capture) bool {
	c.mu.Lock()
	fn := c.capture
	c.capture = nil
	c.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(res)
	return true
}

// dropCapture ends a capture whose turn is already over.
func (c *Console) dropCapture() {
	c.captured(speech.Capture{Err: speech.ErrNoSpeech})
}

func (c *Console) onView(v game.View) {
	if v.Phase != c.phase {
		c.phase = v.Phase
		if v.Phase == match.PhaseEnd.String() {
			for _, p := range v.Players {
				status := "out"
				if p.Active {
					status = "in"
				}
				c.printf("  %-20s %3d  %s\n", p.Name, p.Score, status)
			}
			c.printf("Type %q to play again or %q to leave\n", cmdRestart, cmdQuit)
		}
	}

	if v.Feedback == "" {
		c.feedback = ""
		return
	}
	key := v.FeedbackKind + "|" + v.Feedback
	if key == c.feedback {
		return
	}
	c.feedback = key

	switch v.FeedbackKind {
	case "correct", "revealed":
	default:
		c.printf("%s\n", resource.Decorate(v.FeedbackKind, v.Feedback))
	}
}
