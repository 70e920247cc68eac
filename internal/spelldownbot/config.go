package spelldownbot

import (
	"time"

	"github.com/bloops-games/spelldown/internal/database"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
)

type Config struct {
	// Logging all requests and responses from telegram
	Debug bool `envconfig:"SPELLDOWN_DEBUG" default:"false"`

	// Number of items in each cache
	CacheSize int `envconfig:"SPELLDOWN_CACHE_SIZE" default:"1024"`

	// Port on which the health check is launched
	Port string `envconfig:"SPELLDOWN_PORT" default:"1234"`

	// Telegram bot token
	BotToken         string        `envconfig:"SPELLDOWN_BOT_TOKEN"`
	TgBotPollTimeout time.Duration `envconfig:"SPELLDOWN_TG_BOT_POLL_TIMEOUT" default:"60s"`

	// Chats without messages are dropped after this period
	PlayingTimeout time.Duration `envconfig:"SPELLDOWN_PLAYING_TIMEOUT" default:"2h"`

	// Number of goroutines handling updates. Updates of one chat always go to the same worker.
	Workers int `envconfig:"SPELLDOWN_BOT_WORKERS" default:"4"`

	Timing turn.Timing
	Db     database.Config
}
