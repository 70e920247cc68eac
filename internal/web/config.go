package web

import (
	"time"

	"github.com/bloops-games/spelldown/internal/database"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
)

type Config struct {
	// Listen address of the HTTP server
	Addr string `envconfig:"SPELLDOWN_ADDR" default:":8080"`

	Debug bool `envconfig:"SPELLDOWN_DEBUG" default:"false"`

	// Rooms without any activity are closed after this period
	IdleTimeout time.Duration `envconfig:"SPELLDOWN_IDLE_TIMEOUT" default:"30m"`

	// Number of recalled setups kept in memory
	CacheSize int `envconfig:"SPELLDOWN_CACHE_SIZE" default:"1024"`

	// Inbound websocket messages per second allowed for one connection
	RateLimit float64 `envconfig:"SPELLDOWN_RATE_LIMIT" default:"10"`
	RateBurst int     `envconfig:"SPELLDOWN_RATE_BURST" default:"20"`

	// Connections allowed in one room
	MaxClients int `envconfig:"SPELLDOWN_MAX_CLIENTS" default:"16"`

	// Language passed to the browser speech APIs
	Lang string `envconfig:"SPELLDOWN_LANG" default:"en-US"`

	Timing turn.Timing
	Db     database.Config
}
