package web

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/google/uuid"
)

// Manager holds the open rooms keyed by game id, so each /game/:gameid is its own
// isolated match.
type Manager struct {
	ctx    context.Context
	cfg    *Config
	setups setupStore

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewManager creates a manager whose rooms live until ctx is done or they go idle.
// setups may be nil, then setups are not recalled.
func NewManager(ctx context.Context, cfg *Config, setups setupStore) *Manager {
	return &Manager{
		ctx:    ctx,
		cfg:    cfg,
		setups: setups,
		rooms:  make(map[string]*Room),
	}
}

// Run reaps idle rooms until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("web.Manager")

	if m.cfg.IdleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(m.cfg.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.reap(time.Now().Add(-m.cfg.IdleTimeout)); n > 0 {
				logger.Infof("Reaped %d idle rooms", n)
			}
		}
	}
}

func (m *Manager) reap(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, room := range m.rooms {
		if room.idleSince().Before(cutoff) {
			delete(m.rooms, id)
			room.cancel()
			n++
		}
	}
	return n
}

func (m *Manager) room(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[id]; ok {
		return room
	}

	ctx, cancel := context.WithCancel(m.ctx)
	room := newRoom(id, m.cfg, m.setups)
	room.cancel = cancel
	m.rooms[id] = room
	go room.run(ctx)
	return room
}

// newRoomID returns a short id that no open room uses.
func (m *Manager) newRoomID() string {
	for {
		id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

		m.mu.Lock()
		_, exists := m.rooms[id]
		m.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}
