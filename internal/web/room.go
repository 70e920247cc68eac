package web

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bloops-games/spelldown/internal/database/setup/model"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/spelldown/game"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/wordlist"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var errNotHost = errors.New("only the host device controls the game")

// setupStore persists the last setup of every browser.
type setupStore interface {
	Fetch(key string) (model.Setup, error)
	Store(s model.Setup) error
}

type Client struct {
	conn     *websocket.Conn
	send     chan interface{}
	playerID string
	limiter  *rate.Limiter
}

// Room is one game at /game/:gameid. The first device to connect is the host: it speaks
// the prompts, listens to spellings and is the only one allowed to control the match.
// Everybody else watches.
type Room struct {
	id      string
	cfg     *Config
	session *game.Session
	speech  *hostSpeech
	setups  setupStore

	register chan *Client
	unreg    chan *Client
	done     chan struct{}
	cancel   context.CancelFunc

	mu         sync.RWMutex
	clients    map[*Client]bool
	hostID     string
	host       *Client
	lastActive time.Time
}

func newRoom(id string, cfg *Config, setups setupStore) *Room {
	r := &Room{
		id:         id,
		cfg:        cfg,
		setups:     setups,
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		lastActive: time.Now(),
	}
	r.speech = newHostSpeech(r)
	r.session = game.NewSession(game.Config{
		Timing:   cfg.Timing,
		Speaker:  r.speech,
		Listener: r.speech,
		OnView:   r.broadcastView,
	})
	return r
}

func (r *Room) run(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("web.Room").With("room", r.id)
	logger.Info("Room opened")

	go r.session.Run(ctx)
	defer func() {
		r.session.Stop()
		r.closeAll()
		close(r.done)
		logger.Info("Room closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-r.register:
			r.handleRegister(ctx, c)
		case c := <-r.unreg:
			r.handleUnreg(ctx, c)
		}
	}
}

func (r *Room) join(c *Client) bool {
	select {
	case r.register <- c:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) leave(c *Client) {
	select {
	case r.unreg <- c:
	case <-r.done:
	}
}

func (r *Room) handleRegister(ctx context.Context, c *Client) {
	logger := logging.FromContext(ctx).Named("web.Room.register")

	r.mu.Lock()
	r.lastActive = time.Now()
	if len(r.clients) >= r.cfg.MaxClients {
		r.mu.Unlock()
		c.send <- SimpleMessage{Type: "error", Message: "This room is full"}
		close(c.send)
		return
	}

	if r.host == nil {
		r.host = c
		r.hostID = c.playerID
	}
	isHost := r.host == c
	r.clients[c] = true
	r.mu.Unlock()

	c.send <- SessionInfoMessage{Type: "session_info", RoomID: r.id, IsHost: isHost, Lang: r.cfg.Lang}

	if v, err := r.session.View(); err == nil {
		r.sendTo(c, ViewMessage{Type: "view", View: v})
	}

	if isHost && r.setups != nil {
		s, err := r.setups.Fetch(c.playerID)
		if err == nil {
			r.sendTo(c, setupMessage(s))
		}
	}

	logger.Debugf("Client joined room %s, host: %t", r.id, isHost)
}

func (r *Room) handleUnreg(ctx context.Context, c *Client) {
	logger := logging.FromContext(ctx).Named("web.Room.unreg")

	r.mu.Lock()
	r.lastActive = time.Now()
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}

	var promoted *Client
	hostLeft := r.host == c
	if hostLeft {
		r.host = nil
		for other := range r.clients {
			if promoted == nil || other.playerID == r.hostID {
				promoted = other
			}
		}
		if promoted != nil {
			r.host = promoted
			r.hostID = promoted.playerID
		}
	}
	r.mu.Unlock()

	if !hostLeft {
		return
	}

	r.speech.hostGone()
	if promoted != nil {
		r.sendTo(promoted, SessionInfoMessage{Type: "session_info", RoomID: r.id, IsHost: true, Lang: r.cfg.Lang})
		logger.Debugf("Host of room %s handed over", r.id)
	}
}

// SendHost delivers msg to the host device without blocking.
func (r *Room) SendHost(msg interface{}) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.host == nil {
		return false
	}
	select {
	case r.host.send <- msg:
		return true
	default:
		return false
	}
}

func (r *Room) sendTo(c *Client, msg interface{}) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (r *Room) broadcastView(v game.View) {
	msg := ViewMessage{Type: "view", View: v}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (r *Room) isHost(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	return r.host == c
}

func (r *Room) idleSince() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastActive
}

func (r *Room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for c := range r.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(r.clients, c)
	}
	r.host = nil
}

// handle applies one inbound message. It runs on the client's read goroutine.
func (r *Room) handle(ctx context.Context, c *Client, msg ClientMessage) {
	logger := logging.FromContext(ctx).Named("web.Room.handle")

	if !r.isHost(c) {
		switch msg.Type {
		case msgStart, msgSpell, msgNext, msgRestart:
			r.sendTo(c, SimpleMessage{Type: "error", Message: errNotHost.Error()})
		}
		return
	}

	var err error
	switch msg.Type {
	case msgCapabilities:
		r.speech.setCapabilities(msg.Synthesis, msg.Recognition)
	case msgSpeechDone:
		r.speech.speechDone(msg.ID)
	case msgTranscript:
		r.speech.captured(msg.ID, speech.Capture{Transcript: msg.Transcript})
	case msgCaptureError:
		r.speech.captured(msg.ID, speech.Capture{Err: captureError(msg.Error)})
	case msgCaptureEnd:
		// recognition ended without a result
		r.speech.captured(msg.ID, speech.Capture{Err: speech.ErrNoSpeech})
	case msgStart:
		in := startInput(msg)
		if err = r.session.Start(in); err == nil {
			r.storeSetup(ctx, c.playerID, msg)
		}
	case msgSpell:
		err = r.session.BeginCapture()
	case msgNext:
		err = r.session.Next()
	case msgRestart:
		err = r.session.Restart()
	default:
		logger.Debugf("unknown message type %q", msg.Type)
	}

	if err != nil {
		logger.Debugf("%s: %v", msg.Type, err)
		r.sendTo(c, SimpleMessage{Type: "error", Message: game.Describe(err)})
	}
}

func (r *Room) storeSetup(ctx context.Context, key string, msg ClientMessage) {
	if r.setups == nil {
		return
	}

	s := model.NewSetup(key)
	s.Words = wordlist.Split(msg.Words)
	for i, name := range msg.Names {
		name = strings.TrimSpace(name)
		s.Names = append(s.Names, name)
		if i < len(msg.PlayerWords) {
			if words := wordlist.Split(msg.PlayerWords[i]); len(words) > 0 {
				s.PlayerWords[name] = words
			}
		}
	}

	if err := r.setups.Store(s); err != nil {
		logging.FromContext(ctx).Errorf("store setup: %v", err)
	}
}

// startInput builds the match input from the setup form. An empty word list falls back
// to the built-in one.
func startInput(msg ClientMessage) match.StartInput {
	in := match.StartInput{Names: msg.Names, GlobalWords: wordlist.Split(msg.Words)}
	if len(in.GlobalWords) == 0 {
		in.GlobalWords = wordlist.Default()
	}
	for i := range msg.Names {
		var words []string
		if i < len(msg.PlayerWords) {
			words = wordlist.Split(msg.PlayerWords[i])
		}
		in.PlayerWords = append(in.PlayerWords, words)
	}
	return in
}

func setupMessage(s model.Setup) SetupMessage {
	msg := SetupMessage{Type: "setup", Names: s.Names, Words: strings.Join(s.Words, "\n")}
	for _, name := range s.Names {
		msg.PlayerWords = append(msg.PlayerWords, strings.Join(s.WordsFor(name), "\n"))
	}
	return msg
}
