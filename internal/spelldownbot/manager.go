package spelldownbot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	setupModel "github.com/bloops-games/spelldown/internal/database/setup/model"
	userDb "github.com/bloops-games/spelldown/internal/database/user/database"
	userModel "github.com/bloops-games/spelldown/internal/database/user/model"
	"github.com/bloops-games/spelldown/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"golang.org/x/sync/errgroup"
)

var ErrUpdateNotSupported = errors.New("update not supported")

// client is the subset of *tgbotapi.BotAPI the manager needs.
type client interface {
	sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
}

type userStore interface {
	Fetch(userID int64) (userModel.User, error)
	Store(u userModel.User) error
}

type setupStore interface {
	Fetch(key string) (setupModel.Setup, error)
	Store(s setupModel.Setup) error
}

func NewManager(tg client, config *Config, users userStore, setups setupStore) *manager {
	return &manager{
		tg:     tg,
		config: config,
		users:  users,
		setups: setups,
		chats:  map[int64]*chat{},
	}
}

type manager struct {
	mtx sync.RWMutex

	tg     client
	config *Config
	users  userStore
	setups setupStore

	// key: telegram chat id
	chats map[int64]*chat
}

func (m *manager) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("spelldownbot.manager")

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = int(m.config.TgBotPollTimeout.Seconds())
	updates, err := m.tg.GetUpdatesChan(upd)
	if err != nil {
		return fmt.Errorf("tg get updates chan: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poolWorkerNum := m.config.Workers
	if poolWorkerNum < 1 {
		poolWorkerNum = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	shards := make([]chan tgbotapi.Update, poolWorkerNum)
	for i := range shards {
		ch := make(chan tgbotapi.Update, 32)
		shards[i] = ch
		g.Go(func() error {
			m.pool(gctx, ch)
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, ch := range shards {
				close(ch)
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case u, ok := <-updates:
				if !ok {
					cancel()
					return nil
				}
				chatID, ok := updateChatID(u)
				if !ok {
					continue
				}
				select {
				case shards[shard(chatID, poolWorkerNum)] <- u:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	g.Go(func() error {
		m.cleaner(gctx)
		return nil
	})

	err = g.Wait()
	m.shutdown()
	logger.Info("manager stopped")
	return err
}

// pool handles the updates of its shard in order, so messages of one chat never overtake
// each other.
func (m *manager) pool(ctx context.Context, updCh <-chan tgbotapi.Update) {
	logger := logging.FromContext(ctx).Named("spelldownbot.manager.pool")
	for update := range updCh {
		if err := m.handleUpdate(ctx, update); err != nil {
			logger.Errorf("handle update: %v", err)
		}
	}
}

func (m *manager) cleaner(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("spelldownbot.manager.cleaner")

	interval := m.config.PlayingTimeout / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.reap(now.Add(-m.config.PlayingTimeout)); n > 0 {
				logger.Infof("dropped %d idle chats", n)
			}
		}
	}
}

// reap stops chats idle since before cutoff.
func (m *manager) reap(cutoff time.Time) int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	n := 0
	for id, c := range m.chats {
		if c.idleSince().Before(cutoff) {
			c.stop()
			delete(m.chats, id)
			n++
		}
	}
	return n
}

func (m *manager) shutdown() {
	m.mtx.Lock()
	chats := make([]*chat, 0, len(m.chats))
	for id, c := range m.chats {
		chats = append(chats, c)
		delete(m.chats, id)
	}
	m.mtx.Unlock()

	for _, c := range chats {
		c.stop()
		<-c.done
	}
}

// chat returns the chat for id, starting it on first use.
func (m *manager) chat(ctx context.Context, id int64) *chat {
	m.mtx.RLock()
	c, ok := m.chats[id]
	m.mtx.RUnlock()
	if ok {
		return c
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()
	if c, ok := m.chats[id]; ok {
		return c
	}

	c = newChat(id, m.tg, m.config)
	if m.setups != nil {
		if s, err := m.setups.Fetch(setupKey(id)); err == nil {
			c.recall(s)
		}
	}
	m.chats[id] = c
	go c.run(ctx)
	return c
}

func (m *manager) len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.chats)
}

func (m *manager) storeSetup(ctx context.Context, c *chat) {
	if m.setups == nil {
		return
	}
	if err := m.setups.Store(c.setup()); err != nil {
		logging.FromContext(ctx).Errorf("store setup: %v", err)
	}
}

func (m *manager) recvUser(upd tgbotapi.Update) (userModel.User, error) {
	if upd.Message == nil || upd.Message.From == nil {
		return userModel.User{}, ErrUpdateNotSupported
	}
	tgUser := upd.Message.From
	fresh := userModel.User{
		ID:           int64(tgUser.ID),
		FirstName:    tgUser.FirstName,
		LastName:     tgUser.LastName,
		LanguageCode: tgUser.LanguageCode,
		Username:     strings.TrimPrefix(tgUser.UserName, "@"),
		CreatedAt:    time.Now(),
	}
	if m.users == nil {
		return fresh, nil
	}

	u, err := m.users.Fetch(fresh.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, userDb.ErrNotFound) {
		return fresh, fmt.Errorf("userdb fetch: %w", err)
	}

	if err := m.users.Store(fresh); err != nil {
		return fresh, fmt.Errorf("userdb store: %w", err)
	}
	return fresh, nil
}

func updateChatID(u tgbotapi.Update) (int64, bool) {
	if u.Message == nil || u.Message.Chat == nil {
		return 0, false
	}
	return u.Message.Chat.ID, true
}

func shard(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}
