package spelldownbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bloops-games/spelldown/internal/database/setup/model"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/spelldown/game"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	sdResource "github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldownbot/resource"
	"github.com/bloops-games/spelldown/internal/strpool"
	"github.com/bloops-games/spelldown/internal/wordlist"
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// sender is the part of the telegram client used for output.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type outgoing struct {
	msg  tgbotapi.Chattable
	done func()
}

// chat is one game per telegram chat. Spoken text becomes chat messages and the next plain
// text message after "Spell the word" is the spelling.
type chat struct {
	id      int64
	tg      sender
	session *game.Session

	out      chan outgoing
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu          sync.Mutex
	capture     func(speech.Capture)
	names       []string
	words       []string
	playerWords map[string][]string
	lastActive  time.Time

	// only touched on the session goroutine
	feedbackKey string
	phase       string
	active      map[string]bool
}

func newChat(id int64, tg sender, cfg *Config) *chat {
	c := &chat{
		id:          id,
		tg:          tg,
		out:         make(chan outgoing, 64),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
		playerWords: map[string][]string{},
		lastActive:  time.Now(),
		active:      map[string]bool{},
	}
	c.session = game.NewSession(game.Config{
		Timing:   cfg.Timing,
		Speaker:  c,
		Listener: c,
		OnView:   c.onView,
	})
	return c
}

func (c *chat) run(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("spelldownbot.chat").With("chat", c.id)
	defer close(c.done)
	defer c.stop()

	go c.session.Run(ctx)
	defer c.session.Stop()

	for {
		select {
		case o := <-c.out:
			if _, err := c.tg.Send(o.msg); err != nil {
				logger.Errorf("send msg: %v", err)
			}
			if o.done != nil {
				o.done()
			}
		case <-c.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *chat) stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *chat) send(msg tgbotapi.Chattable, done func()) {
	select {
	case c.out <- outgoing{msg: msg, done: done}:
	case <-c.stopCh:
	}
}

func (c *chat) sendText(text string) {
	c.send(tgbotapi.NewMessage(c.id, text), nil)
}

func (c *chat) touch() {
	c.mu.Lock()
	c.lastActive = time.Now()
	c.mu.Unlock()
}

func (c *chat) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Speak posts text to the chat. done runs once telegram accepted the message.
func (c *chat) Speak(text string, done func()) {
	c.send(tgbotapi.NewMessage(c.id, text), done)
}

// Cancel is a no-op, a posted message cannot be taken back.
func (c *chat) Cancel() {}

func (c *chat) StartCapture(fn func(speech.Capture)) {
	c.mu.Lock()
	c.capture = fn
	c.mu.Unlock()

	// a fresh attempt may repeat the previous feedback verbatim
	c.feedbackKey = ""
	c.sendText(resource.TextListeningMsg)
}

// captured completes the pending capture, if any.
func (c *chat) captured(res speech.Capture) bool {
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

// onView posts what the spoken messages do not cover: grading feedback, knockouts and the
// final standings.
func (c *chat) onView(v game.View) {
	if v.Phase != c.phase {
		if v.Phase == match.PhaseEnd.String() {
			c.sendText(renderStandings(v))
		}
		c.phase = v.Phase
		c.active = map[string]bool{}
	}

	for _, p := range v.Players {
		if was, ok := c.active[p.Name]; ok && was && !p.Active {
			c.sendText(sdResource.Decorate("knocked_out", fmt.Sprintf(sdResource.TextKnockedOutMsg, p.Name)))
		}
		c.active[p.Name] = p.Active
	}

	if v.Feedback == "" {
		c.feedbackKey = ""
		return
	}

	key := v.FeedbackKind + "|" + v.Feedback
	if key == c.feedbackKey {
		return
	}
	c.feedbackKey = key

	switch v.FeedbackKind {
	case "correct", "revealed":
		// already spoken
	default:
		c.sendText(sdResource.Decorate(v.FeedbackKind, v.Feedback))
	}
}

func renderStandings(v game.View) string {
	return strpool.Build(func(b *strings.Builder) {
		b.WriteString(resource.TextStandingsMsg)
		for _, p := range v.Players {
			mark := emoji.CheckMarkButton.String()
			if !p.Active {
				mark = emoji.CrossMark.String()
			}
			b.WriteString("\n")
			fmt.Fprintf(b, resource.TextStandingsLineMsg, mark, p.Name, p.Score)
		}
	})
}

func (c *chat) setWords(words []string) {
	c.mu.Lock()
	c.words = words
	c.mu.Unlock()
}

func (c *chat) setPlayerWords(name string, words []string) {
	c.mu.Lock()
	for k := range c.playerWords {
		if strings.EqualFold(k, name) {
			delete(c.playerWords, k)
		}
	}
	c.playerWords[name] = words
	c.mu.Unlock()
}

func (c *chat) setNames(names []string) {
	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
}

func (c *chat) lastNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// startInput builds the match input for names from the chat's lists. Without a chat list
// the built-in words are used.
func (c *chat) startInput(names []string) match.StartInput {
	c.mu.Lock()
	defer c.mu.Unlock()

	in := match.StartInput{Names: names, GlobalWords: c.words}
	if len(in.GlobalWords) == 0 {
		in.GlobalWords = wordlist.Default()
	}
	for _, name := range names {
		var words []string
		for k, w := range c.playerWords {
			if strings.EqualFold(k, name) {
				words = w
			}
		}
		in.PlayerWords = append(in.PlayerWords, words)
	}
	return in
}

func (c *chat) setup() model.Setup {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := model.NewSetup(setupKey(c.id))
	s.Names = append(s.Names, c.names...)
	s.Words = append(s.Words, c.words...)
	for k, w := range c.playerWords {
		s.PlayerWords[k] = w
	}
	return s
}

func (c *chat) recall(s model.Setup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.names = s.Names
	c.words = s.Words
	for k, w := range s.PlayerWords {
		c.playerWords[k] = w
	}
}

func setupKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}
